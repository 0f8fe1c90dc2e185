package ledger

import (
	"strconv"
	"testing"

	"Paratoner/internal/domain/models"
)

func TestLedgerEvictsOldest(t *testing.T) {
	l := New(3)
	for i := 0; i < 4; i++ {
		l.Append(models.Signal{ID: strconv.Itoa(i)})
	}

	if l.Count() != 3 {
		t.Fatalf("expected count 3, got %d", l.Count())
	}
	all := l.All()
	if all[0].ID != "1" || all[2].ID != "3" {
		t.Fatalf("oldest not evicted: %v", all)
	}
}

func TestLedgerRecentNewestFirst(t *testing.T) {
	l := New(10)
	for i := 0; i < 5; i++ {
		l.Append(models.Signal{ID: strconv.Itoa(i)})
	}

	recent := l.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("expected 2, got %d", len(recent))
	}
	if recent[0].ID != "4" || recent[1].ID != "3" {
		t.Fatalf("unexpected order %v", recent)
	}
}

func TestLedgerRecentOverAsk(t *testing.T) {
	l := New(10)
	l.Append(models.Signal{ID: "a"})

	if got := len(l.Recent(50)); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := len(l.Recent(0)); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}
