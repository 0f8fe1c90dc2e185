package middleware

import (
	"strings"
	"testing"
)

func TestRedactURIMasksPassword(t *testing.T) {
	got := redactURI("/admin/service-status?password=hunter2&n=5")
	if strings.Contains(got, "hunter2") {
		t.Fatalf("password leaked: %q", got)
	}
	if !strings.Contains(got, "password=%2A%2A%2A") && !strings.Contains(got, "password=***") {
		t.Fatalf("expected masked password, got %q", got)
	}
	if !strings.Contains(got, "n=5") {
		t.Fatalf("other params must survive, got %q", got)
	}
}

func TestRedactURIPassthrough(t *testing.T) {
	if got := redactURI("/webhook/tradingview"); got != "/webhook/tradingview" {
		t.Fatalf("unexpected %q", got)
	}
	if got := redactURI("/admin/logs?n=10"); got != "/admin/logs?n=10" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestRedactURIBadQuery(t *testing.T) {
	got := redactURI("/admin/logs?%zz=1")
	if got != "/admin/logs" {
		t.Fatalf("unparseable query must be dropped, got %q", got)
	}
}
