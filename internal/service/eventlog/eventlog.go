package eventlog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"Paratoner/internal/domain/repository"
	applogger "Paratoner/pkg/logger"
)

// Event kinds recorded by the relay. The friendly lines they format are what
// the admin log endpoints serve.
const (
	KindTelegramSuccess = "TELEGRAM_SUCCESS"
	KindTelegramError   = "TELEGRAM_ERROR"
	KindWhatsAppSuccess = "WHATSAPP_SUCCESS"
	KindWhatsAppError   = "WHATSAPP_ERROR"
	KindWebhookReceived = "WEBHOOK_RECEIVED"
	KindServiceToggle   = "SERVICE_TOGGLE"
	KindAPIKeysUpdated  = "API_KEYS_UPDATED"
	KindDataExport      = "DATA_EXPORT"
)

const lineTimeFormat = "02.01.2006 15:04:05"

// Service keeps a bounded in-memory ring of recent system events, fans them
// out to live subscribers and forwards each one to a durable sink
// fire-and-forget. Sink failures never propagate.
type Service struct {
	log      *applogger.Logger
	sink     repository.EventSink
	ringSize int

	mu   sync.Mutex
	ring []repository.SystemEvent
	subs map[chan repository.SystemEvent]struct{}
}

// New creates the event log service. sink may be nil (ring only).
func New(ringSize int, sink repository.EventSink, log *applogger.Logger) *Service {
	if ringSize < 1 {
		ringSize = 100
	}
	return &Service{
		log:      log,
		sink:     sink,
		ringSize: ringSize,
		subs:     make(map[chan repository.SystemEvent]struct{}),
	}
}

// Record formats and stores one system event. Safe to call on a nil service.
func (s *Service) Record(kind, message, severity string) {
	if s == nil {
		return
	}
	now := time.Now()
	ev := repository.SystemEvent{
		Kind:     kind,
		Message:  message,
		Severity: severity,
		Line:     fmt.Sprintf("%s | %s", now.Format(lineTimeFormat), friendly(kind, message)),
		Time:     now,
	}

	s.mu.Lock()
	s.ring = append(s.ring, ev)
	if len(s.ring) > s.ringSize {
		copy(s.ring, s.ring[1:])
		s.ring = s.ring[:s.ringSize]
	}
	for ch := range s.subs {
		select {
		case ch <- ev:
		default: // slow subscriber, drop rather than block recording
		}
	}
	sink := s.sink
	s.mu.Unlock()

	if s.log != nil {
		switch severity {
		case "ERROR":
			s.log.Error(kind + ": " + message)
		case "WARNING":
			s.log.Warn(kind + ": " + message)
		default:
			s.log.Info(kind + ": " + message)
		}
	}

	if sink != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := sink.Record(ctx, ev); err != nil && s.log != nil {
				s.log.Warn("event sink write failed", applogger.Error(err))
			}
		}()
	}
}

// RecentLines returns the last n friendly lines, oldest first. The durable
// sink is preferred; the in-memory ring is the fallback.
func (s *Service) RecentLines(ctx context.Context, n int) []string {
	if s == nil || n < 1 {
		return nil
	}
	if s.sink != nil {
		if lines, err := s.sink.RecentLines(ctx, n); err == nil {
			return lines
		} else if s.log != nil {
			s.log.Warn("event sink read failed", applogger.Error(err))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	start := 0
	if len(s.ring) > n {
		start = len(s.ring) - n
	}
	lines := make([]string, 0, len(s.ring)-start)
	for _, ev := range s.ring[start:] {
		lines = append(lines, ev.Line)
	}
	return lines
}

// Subscribe returns a channel of newly recorded events and a cancel func.
func (s *Service) Subscribe() (<-chan repository.SystemEvent, func()) {
	ch := make(chan repository.SystemEvent, 32)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			s.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Close closes the durable sink.
func (s *Service) Close() {
	if s == nil || s.sink == nil {
		return
	}
	if err := s.sink.Close(); err != nil && s.log != nil {
		s.log.Warn("event sink close failed", applogger.Error(err))
	}
}

func friendly(kind, message string) string {
	switch kind {
	case KindTelegramSuccess:
		return "✅ Telegram mesajı başarıyla gönderildi: " + message
	case KindWhatsAppSuccess:
		return "✅ WhatsApp mesajı başarıyla gönderildi: " + message
	case KindTelegramError:
		return "❌ Telegram hatası: " + message
	case KindWhatsAppError:
		return "❌ WhatsApp hatası: " + message
	case KindAPIKeysUpdated:
		return "🔑 API anahtarları güncellendi"
	case KindDataExport:
		return "💾 Veri yedeği oluşturuldu: " + message
	case KindWebhookReceived:
		return "📨 Yeni sinyal alındı: " + message
	case KindServiceToggle:
		return "⚙️ Servis durumu değiştirildi: " + message
	default:
		return fmt.Sprintf("ℹ️ %s: %s", kind, message)
	}
}
