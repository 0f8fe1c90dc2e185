package channel

import (
	"errors"
	"fmt"
	"sync"

	"Paratoner/internal/domain/models"
)

// ErrUnknownChannel is returned for channel identifiers that were never
// registered.
var ErrUnknownChannel = errors.New("unknown channel")

type state struct {
	enabled    bool
	healthy    bool
	retryCount int
}

// Registry holds enabled/health state per channel. All methods are safe for
// concurrent use by ingestion goroutines and admin handlers.
type Registry struct {
	mu    sync.RWMutex
	order []models.Channel
	m     map[models.Channel]*state
}

// NewRegistry creates a registry with the given channels, all healthy.
func NewRegistry() *Registry {
	return &Registry{m: make(map[models.Channel]*state)}
}

// Register adds a channel with its initial enabled flag. Registering twice is
// a no-op for the state but keeps the first position.
func (r *Registry) Register(ch models.Channel, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[ch]; ok {
		return
	}
	r.m[ch] = &state{enabled: enabled, healthy: true}
	r.order = append(r.order, ch)
}

// Channels returns the registered channels in registration order.
func (r *Registry) Channels() []models.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Channel, len(r.order))
	copy(out, r.order)
	return out
}

// IsEnabled reports whether the channel is currently enabled. Unknown
// channels are reported as disabled.
func (r *Registry) IsEnabled(ch models.Channel) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.m[ch]
	return ok && s.enabled
}

// SetEnabled sets the enabled flag and returns the previous value. Setting
// the same value is a no-op state-wise but still succeeds. Does not cancel
// deliveries already dispatched.
func (r *Registry) SetEnabled(ch models.Channel, enabled bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.m[ch]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownChannel, ch)
	}
	prev := s.enabled
	s.enabled = enabled
	return prev, nil
}

// Toggle flips the enabled flag and returns previous and new values.
func (r *Registry) Toggle(ch models.Channel) (prev, now bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.m[ch]
	if !ok {
		return false, false, fmt.Errorf("%w: %s", ErrUnknownChannel, ch)
	}
	prev = s.enabled
	s.enabled = !s.enabled
	return prev, s.enabled, nil
}

// RecordHealth records the outcome of a completed delivery sequence.
// Success resets the consecutive retry count.
func (r *Registry) RecordHealth(ch models.Channel, healthy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.m[ch]
	if !ok {
		return
	}
	s.healthy = healthy
	if healthy {
		s.retryCount = 0
	}
}

// RecordFailure counts one failed send attempt.
func (r *Registry) RecordFailure(ch models.Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.m[ch]; ok {
		s.retryCount++
	}
}

// Status returns the channel's current state.
func (r *Registry) Status(ch models.Channel) (models.ChannelStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.m[ch]
	if !ok {
		return models.ChannelStatus{}, fmt.Errorf("%w: %s", ErrUnknownChannel, ch)
	}
	return models.ChannelStatus{Enabled: s.enabled, Healthy: s.healthy, RetryCount: s.retryCount}, nil
}

// StatusAll returns a snapshot of every registered channel.
func (r *Registry) StatusAll() map[models.Channel]models.ChannelStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[models.Channel]models.ChannelStatus, len(r.m))
	for ch, s := range r.m {
		out[ch] = models.ChannelStatus{Enabled: s.enabled, Healthy: s.healthy, RetryCount: s.retryCount}
	}
	return out
}
