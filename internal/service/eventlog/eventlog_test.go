package eventlog

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"Paratoner/internal/domain/repository"
)

func TestRecordBoundsRing(t *testing.T) {
	s := New(3, nil, nil)
	for i := 0; i < 5; i++ {
		s.Record(KindWebhookReceived, strconv.Itoa(i), "INFO")
	}

	lines := s.RecentLines(context.Background(), 10)
	if len(lines) != 3 {
		t.Fatalf("expected ring bound 3, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "2") || !strings.Contains(lines[2], "4") {
		t.Fatalf("unexpected window %v", lines)
	}
}

func TestFriendlyLineFormat(t *testing.T) {
	s := New(10, nil, nil)
	s.Record(KindTelegramSuccess, "1. deneme ile gönderildi", "INFO")

	lines := s.RecentLines(context.Background(), 1)
	if len(lines) != 1 {
		t.Fatalf("expected one line")
	}
	if !strings.Contains(lines[0], " | ") {
		t.Fatalf("missing timestamp separator: %q", lines[0])
	}
	if !strings.Contains(lines[0], "Telegram mesajı başarıyla gönderildi") {
		t.Fatalf("unexpected line %q", lines[0])
	}
}

func TestSubscribeReceivesEvents(t *testing.T) {
	s := New(10, nil, nil)
	sub, cancel := s.Subscribe()
	defer cancel()

	s.Record(KindServiceToggle, "telegram: pasif", "INFO")

	select {
	case ev := <-sub:
		if ev.Kind != KindServiceToggle {
			t.Fatalf("unexpected event %+v", ev)
		}
	default:
		t.Fatalf("expected buffered event")
	}
}

func TestNilServiceIsSafe(t *testing.T) {
	var s *Service
	s.Record(KindWebhookReceived, "x", "INFO")
	if got := s.RecentLines(context.Background(), 5); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	s.Close()
}

func TestFileSinkRoundTrip(t *testing.T) {
	path := t.TempDir() + "/events.log"
	sink, err := NewFileSink(path)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	defer sink.Close()

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		ev := repository.SystemEvent{Line: "line " + strconv.Itoa(i)}
		if err := sink.Record(ctx, ev); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	lines, err := sink.RecentLines(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "line 2" || lines[1] != "line 3" {
		t.Fatalf("unexpected tail %v", lines)
	}
}
