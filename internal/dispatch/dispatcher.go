package dispatch

import (
	"context"
	"fmt"
	"time"

	"Paratoner/internal/channel"
	"Paratoner/internal/domain/models"
	"Paratoner/internal/domain/repository"
	"Paratoner/internal/service/eventlog"
	applogger "Paratoner/pkg/logger"
	"Paratoner/pkg/util"
)

const errTruncateLen = 100

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// Dispatcher turns a flaky single-attempt channel client into a resilient
// delivery with bounded retries and exponential backoff. It owns the
// per-channel health bookkeeping: exactly one health mutation per Deliver
// call (healthy on first success, unhealthy when every attempt failed).
type Dispatcher struct {
	registry *channel.Registry
	metrics  repository.Metrics
	events   *eventlog.Service
	log      *applogger.Logger

	maxRetries     int
	backoffBase    time.Duration
	attemptTimeout time.Duration
}

// New creates a dispatcher with the default policy (3 attempts, 1s/2s/4s
// backoff, 10s per-attempt bound).
func New(registry *channel.Registry, metrics repository.Metrics, events *eventlog.Service, log *applogger.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry:       registry,
		metrics:        metrics,
		events:         events,
		log:            log,
		maxRetries:     3,
		backoffBase:    time.Second,
		attemptTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithMaxRetries sets the attempt bound.
func WithMaxRetries(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxRetries = n
		}
	}
}

// WithBackoffBase sets the first backoff delay (doubled each retry).
func WithBackoffBase(base time.Duration) Option {
	return func(d *Dispatcher) {
		if base > 0 {
			d.backoffBase = base
		}
	}
}

// WithAttemptTimeout sets the per-attempt upper bound.
func WithAttemptTimeout(t time.Duration) Option {
	return func(d *Dispatcher) {
		if t > 0 {
			d.attemptTimeout = t
		}
	}
}

// Deliver attempts to send message through client until one attempt succeeds
// or the retry budget is exhausted. The backoff sleep blocks only this call.
func (d *Dispatcher) Deliver(ctx context.Context, client repository.ChannelClient, message string) bool {
	ch := client.Channel()

	for attempt := 0; attempt < d.maxRetries; attempt++ {
		err := d.sendOnce(ctx, client, message)
		if err == nil {
			if d.metrics != nil {
				d.metrics.RecordAttempt(string(ch), true)
				d.metrics.RecordHealth(string(ch), true)
			}
			d.registry.RecordHealth(ch, true)
			d.events.Record(successKind(ch), fmt.Sprintf("%d. deneme ile gönderildi", attempt+1), "INFO")
			return true
		}

		if d.metrics != nil {
			d.metrics.RecordAttempt(string(ch), false)
		}
		d.registry.RecordFailure(ch)
		d.events.Record(errorKind(ch),
			fmt.Sprintf("%d. deneme başarısız: %s", attempt+1, util.Truncate(err.Error(), errTruncateLen)), "ERROR")
		if d.log != nil {
			d.log.Warn("send attempt failed",
				applogger.String("channel", string(ch)),
				applogger.Int("attempt", attempt+1),
				applogger.Error(err))
		}

		if attempt < d.maxRetries-1 {
			if !d.backoff(ctx, d.backoffBase<<attempt) {
				break // caller gone, stop burning attempts
			}
		}
	}

	if d.metrics != nil {
		d.metrics.RecordHealth(string(ch), false)
	}
	d.registry.RecordHealth(ch, false)
	return false
}

// sendOnce runs one bounded attempt. A panicking client is treated the same
// as a provider-reported failure.
func (d *Dispatcher) sendOnce(ctx context.Context, client repository.ChannelClient, message string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("channel client panic: %v", r)
		}
	}()

	attemptCtx, cancel := context.WithTimeout(ctx, d.attemptTimeout)
	defer cancel()
	return client.SendOnce(attemptCtx, message)
}

func (d *Dispatcher) backoff(ctx context.Context, delay time.Duration) bool {
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func successKind(ch models.Channel) string {
	if ch == models.ChannelTelegram {
		return eventlog.KindTelegramSuccess
	}
	return eventlog.KindWhatsAppSuccess
}

func errorKind(ch models.Channel) string {
	if ch == models.ChannelTelegram {
		return eventlog.KindTelegramError
	}
	return eventlog.KindWhatsAppError
}
