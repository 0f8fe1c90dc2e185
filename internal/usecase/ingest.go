package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"Paratoner/internal/channel"
	"Paratoner/internal/dispatch"
	"Paratoner/internal/domain/models"
	"Paratoner/internal/domain/repository"
	"Paratoner/internal/format"
	"Paratoner/internal/ledger"
	"Paratoner/internal/service/eventlog"
	applogger "Paratoner/pkg/logger"
)

// Ingestor is the thin orchestrator: normalize the payload, fan the rendered
// message out to every enabled channel concurrently, record the outcome in
// the ledger. A fault in one channel's dispatch never reaches the other.
type Ingestor struct {
	registry   *channel.Registry
	dispatcher *dispatch.Dispatcher
	ledger     *ledger.Ledger
	clients    map[models.Channel]repository.ChannelClient
	metrics    repository.Metrics
	events     *eventlog.Service
	log        *applogger.Logger

	idSeq atomic.Uint64
}

// NewIngestor wires the orchestrator.
func NewIngestor(
	reg *channel.Registry,
	disp *dispatch.Dispatcher,
	led *ledger.Ledger,
	clients []repository.ChannelClient,
	metrics repository.Metrics,
	events *eventlog.Service,
	log *applogger.Logger,
) *Ingestor {
	m := make(map[models.Channel]repository.ChannelClient, len(clients))
	for _, c := range clients {
		m[c.Channel()] = c
	}
	return &Ingestor{
		registry:   reg,
		dispatcher: disp,
		ledger:     led,
		clients:    m,
		metrics:    metrics,
		events:     events,
		log:        log,
	}
}

// Ingest processes one normalized webhook payload. The returned ack reports
// per-channel delivery outcomes; delivery failures are not errors here.
func (in *Ingestor) Ingest(ctx context.Context, req *models.WebhookRequest) models.IngestAck {
	now := time.Now()
	sig := models.Signal{
		ID:        in.nextID(now),
		Timestamp: now,
		Symbol:    req.Symbol,
		Action:    req.Action,
		Price:     req.Price,
		Message:   req.Message,
		Delivered: make(map[models.Channel]bool),
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, ch := range in.registry.Channels() {
		if !in.registry.IsEnabled(ch) {
			continue
		}
		client, ok := in.clients[ch]
		if !ok {
			continue
		}

		wg.Add(1)
		go func(ch models.Channel, client repository.ChannelClient) {
			defer wg.Done()
			// failure isolation: one channel's fault must not abort the rest
			defer func() {
				if r := recover(); r != nil && in.log != nil {
					in.log.Error("dispatch panic", applogger.String("channel", string(ch)), applogger.Any("panic", r))
				}
			}()

			msg := format.Render(sig, ch.Kind(), time.Now())
			start := time.Now()
			delivered := in.dispatcher.Deliver(ctx, client, msg)
			if in.metrics != nil {
				in.metrics.RecordDeliveryLatency(string(ch), time.Since(start))
				in.metrics.RecordDelivery(string(ch), delivered)
			}

			mu.Lock()
			sig.Delivered[ch] = delivered
			mu.Unlock()
		}(ch, client)
	}
	wg.Wait()

	in.ledger.Append(sig)
	if in.metrics != nil {
		in.metrics.RecordSignal()
	}
	in.events.Record(eventlog.KindWebhookReceived,
		fmt.Sprintf("%s (%s) - Telegram: %s, WhatsApp: %s",
			sig.Symbol, sig.Action,
			checkmark(sig.Delivered[models.ChannelTelegram]),
			checkmark(sig.Delivered[models.ChannelWhatsApp])), "INFO")
	if in.log != nil {
		in.log.Info("webhook processed",
			applogger.String("id", sig.ID),
			applogger.String("symbol", sig.Symbol),
			applogger.Bool("telegram", sig.Delivered[models.ChannelTelegram]),
			applogger.Bool("whatsapp", sig.Delivered[models.ChannelWhatsApp]))
	}

	return models.IngestAck{
		Success:  true,
		AlarmID:  sig.ID,
		Telegram: sig.Delivered[models.ChannelTelegram],
		WhatsApp: sig.Delivered[models.ChannelWhatsApp],
	}
}

// SendTest pushes a one-off admin test message through the retry engine.
// The channel is dispatched even when disabled so operators can verify
// credentials before enabling it.
func (in *Ingestor) SendTest(ctx context.Context, ch models.Channel, message string) (bool, error) {
	client, ok := in.clients[ch]
	if !ok {
		return false, fmt.Errorf("%w: %s", channel.ErrUnknownChannel, ch)
	}

	msg := format.RenderTest(message, ch.Kind())
	start := time.Now()
	delivered := in.dispatcher.Deliver(ctx, client, msg)
	if in.metrics != nil {
		in.metrics.RecordDeliveryLatency(string(ch), time.Since(start))
		in.metrics.RecordDelivery(string(ch), delivered)
	}
	return delivered, nil
}

// nextID derives a monotonic-ish id from the timestamp. Uniqueness holds per
// process, which matches the single-instance deployment model.
func (in *Ingestor) nextID(t time.Time) string {
	return fmt.Sprintf("sg%s%03d", t.Format("20060102150405"), in.idSeq.Add(1)%1000)
}

func checkmark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}
