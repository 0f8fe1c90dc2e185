package ledger

import (
	"sync"

	"Paratoner/internal/domain/models"
)

// Ledger is a bounded append-only history of processed signals. When the
// capacity is exceeded the oldest entry is dropped. No reader ever observes
// more than capacity entries.
type Ledger struct {
	mu       sync.RWMutex
	capacity int
	signals  []models.Signal
}

// New creates a ledger with the given capacity.
func New(capacity int) *Ledger {
	if capacity < 1 {
		capacity = 1
	}
	return &Ledger{capacity: capacity}
}

// Append stores a completed signal, evicting the oldest entry on overflow.
func (l *Ledger) Append(s models.Signal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.signals = append(l.signals, s)
	if len(l.signals) > l.capacity {
		// shift instead of re-slicing to let the evicted head be collected
		copy(l.signals, l.signals[1:])
		l.signals = l.signals[:l.capacity]
	}
}

// Recent returns up to n signals, most recent first.
func (l *Ledger) Recent(n int) []models.Signal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n < 0 {
		n = 0
	}
	if n > len(l.signals) {
		n = len(l.signals)
	}
	out := make([]models.Signal, 0, n)
	for i := len(l.signals) - 1; i >= len(l.signals)-n; i-- {
		out = append(out, l.signals[i])
	}
	return out
}

// All returns a copy of the full history in arrival order.
func (l *Ledger) All() []models.Signal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.Signal, len(l.signals))
	copy(out, l.signals)
	return out
}

// Count returns the number of stored signals.
func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.signals)
}

// Capacity returns the configured capacity.
func (l *Ledger) Capacity() int {
	return l.capacity
}
