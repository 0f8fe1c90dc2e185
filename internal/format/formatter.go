package format

import (
	"fmt"
	"strings"
	"time"

	"Paratoner/internal/domain/models"
)

const title = "Paratoner Bot"

// Render builds the outbound message for a signal. The HTML kind carries
// Telegram bold markup; the plain kind is byte-identical with the markup
// stripped. The time line uses the dispatch instant, not the signal's stored
// timestamp.
func Render(s models.Signal, kind models.MessageKind, at time.Time) string {
	msg := fmt.Sprintf("🤖 <b>%s</b>\n🚀 <b>%s</b> - %s\n💰 Fiyat: %s\n📅 %s\n📝 %s",
		title, s.Symbol, s.Action, s.Price, at.Format("15:04:05"), s.Message)
	if kind == models.KindPlain {
		return StripMarkup(msg)
	}
	return msg
}

// RenderTest builds the one-off admin test message.
func RenderTest(message string, kind models.MessageKind) string {
	msg := fmt.Sprintf("🤖 %s\n%s", title, message)
	if kind == models.KindPlain {
		return StripMarkup(msg)
	}
	return msg
}

// StripMarkup removes the bold tags used by the Telegram rendering.
func StripMarkup(s string) string {
	s = strings.ReplaceAll(s, "<b>", "")
	return strings.ReplaceAll(s, "</b>", "")
}
