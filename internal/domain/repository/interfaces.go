package repository

import (
	"context"
	"time"

	"Paratoner/internal/domain/models"
)

// ChannelClient sends one message to a single provider. Implementations read
// credentials fresh on every call and do no retrying of their own.
type ChannelClient interface {
	Channel() models.Channel
	SendOnce(ctx context.Context, message string) error
}

// CredentialProvider hands out value copies of the current secrets. Reads
// must never observe a torn admin update.
type CredentialProvider interface {
	Telegram() models.TelegramCredentials
	Twilio() models.TwilioCredentials
}

// Metrics records delivery and ingestion outcomes.
type Metrics interface {
	RecordSignal()
	RecordDelivery(channel string, success bool)
	RecordAttempt(channel string, success bool)
	RecordHealth(channel string, healthy bool)
	RecordDeliveryLatency(channel string, d time.Duration)
	AverageDelayMs() float64
	Uptime() time.Duration
}

// SystemEvent is one friendly event-log entry.
type SystemEvent struct {
	Kind     string    `json:"kind"`
	Message  string    `json:"message"`
	Severity string    `json:"severity"`
	Line     string    `json:"line"`
	Time     time.Time `json:"time"`
}

// EventSink durably appends system events and serves recent history. Sink
// failures are never allowed to fail the operation they annotate.
type EventSink interface {
	Record(ctx context.Context, ev SystemEvent) error
	RecentLines(ctx context.Context, n int) ([]string, error)
	Close() error
}
