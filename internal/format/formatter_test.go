package format

import (
	"strings"
	"testing"
	"time"

	"Paratoner/internal/domain/models"
)

func TestRenderHTML(t *testing.T) {
	s := models.Signal{Symbol: "BTCUSDT", Action: "BUY", Price: "50000", Message: "Breakout"}
	at := time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)

	got := Render(s, models.KindHTML, at)
	for _, want := range []string{"<b>BTCUSDT</b>", "BUY", "Fiyat: 50000", "15:04:05", "Breakout"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in %q", want, got)
		}
	}
}

func TestRenderPlainStripsMarkupOnly(t *testing.T) {
	s := models.Signal{Symbol: "ETHUSDT", Action: "SELL", Price: "1800", Message: "Sinyal"}
	at := time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)

	html := Render(s, models.KindHTML, at)
	plain := Render(s, models.KindPlain, at)

	if strings.Contains(plain, "<b>") || strings.Contains(plain, "</b>") {
		t.Fatalf("markup left in plain rendering: %q", plain)
	}
	if plain != StripMarkup(html) {
		t.Fatalf("plain must match stripped html\nplain: %q\nhtml:  %q", plain, html)
	}
}

func TestRenderTest(t *testing.T) {
	got := RenderTest("merhaba", models.KindPlain)
	if !strings.Contains(got, "merhaba") {
		t.Fatalf("message missing: %q", got)
	}
	if strings.Contains(got, "<b>") {
		t.Fatalf("unexpected markup: %q", got)
	}
}
