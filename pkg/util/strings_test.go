package util

import "testing"

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("", 7); got != 7 {
		t.Fatalf("expected default, got %d", got)
	}
	if got := ParseIntDefault("12", 7); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
	if got := ParseIntDefault("abc", 7); got != 7 {
		t.Fatalf("expected default on garbage, got %d", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 100); got != "hello" {
		t.Fatalf("short strings must pass through, got %q", got)
	}
	if got := Truncate("hello", 3); got != "hel" {
		t.Fatalf("expected hel, got %q", got)
	}
	if got := Truncate("hello", -1); got != "hello" {
		t.Fatalf("negative limit must pass through, got %q", got)
	}
}
