package di

import (
	"fmt"

	"Paratoner/internal/channel"
	"Paratoner/internal/dispatch"
	"Paratoner/internal/domain/models"
	"Paratoner/internal/domain/repository"
	"Paratoner/internal/handler/api"
	"Paratoner/internal/ledger"
	"Paratoner/internal/service/credentials"
	"Paratoner/internal/service/eventlog"
	"Paratoner/internal/service/export"
	"Paratoner/internal/service/telegram"
	"Paratoner/internal/service/twilio"
	"Paratoner/internal/usecase"
	"Paratoner/pkg/config"
	xhttp "Paratoner/pkg/http"
	applogger "Paratoner/pkg/logger"
	"Paratoner/pkg/metrics"
	"Paratoner/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideRegistry seeds the channel registry from config.
func ProvideRegistry(cfg *config.Config) *channel.Registry {
	reg := channel.NewRegistry()
	reg.Register(models.ChannelTelegram, cfg.Telegram.Enabled)
	reg.Register(models.ChannelWhatsApp, cfg.WhatsApp.Enabled)
	return reg
}

// ProvideLedger creates the bounded in-memory signal history.
func ProvideLedger(cfg *config.Config) *ledger.Ledger {
	return ledger.New(cfg.Ledger.Capacity)
}

// ProvideCredentials seeds the credential store from config.
func ProvideCredentials(cfg *config.Config) *credentials.Provider {
	return credentials.New(
		models.TelegramCredentials{Token: cfg.Telegram.Token, ChatID: cfg.Telegram.ChatID},
		models.TwilioCredentials{
			AccountSID: cfg.WhatsApp.AccountSID,
			AuthToken:  cfg.WhatsApp.AuthToken,
			FromNumber: cfg.WhatsApp.FromNumber,
			ToNumber:   cfg.WhatsApp.ToNumber,
		},
	)
}

// ProvideEventLog builds the event log with the configured sink. A sink
// failure degrades to the in-memory ring rather than aborting startup.
func ProvideEventLog(cfg *config.Config, log *applogger.Logger) *eventlog.Service {
	var sink repository.EventSink
	switch cfg.EventLog.Sink {
	case "redis":
		s, err := eventlog.NewRedisSink(eventlog.RedisSinkConfig{
			Addr:     cfg.EventLog.Redis.Addr,
			Password: cfg.EventLog.Redis.Password,
			DB:       cfg.EventLog.Redis.DB,
			Key:      cfg.EventLog.Redis.Key,
			MaxLen:   cfg.EventLog.Redis.MaxLen,
		})
		if err != nil {
			log.Warn("redis event sink unavailable, using memory ring", applogger.Error(err))
		} else {
			sink = s
		}
	case "file":
		s, err := eventlog.NewFileSink(cfg.EventLog.FilePath)
		if err != nil {
			log.Warn("file event sink unavailable, using memory ring", applogger.Error(err))
		} else {
			sink = s
		}
	}
	return eventlog.New(cfg.EventLog.RingSize, sink, log)
}

// ProvideDispatcher creates the retry engine.
func ProvideDispatcher(cfg *config.Config, reg *channel.Registry, m repository.Metrics, events *eventlog.Service, log *applogger.Logger) *dispatch.Dispatcher {
	return dispatch.New(reg, m, events, log,
		dispatch.WithMaxRetries(cfg.Dispatch.MaxRetries),
		dispatch.WithBackoffBase(cfg.Dispatch.BackoffBase),
		dispatch.WithAttemptTimeout(cfg.Dispatch.AttemptTimeout),
	)
}

// ProvideClients creates the channel clients. Each attempt shares the
// dispatcher's per-attempt timeout.
func ProvideClients(cfg *config.Config, creds *credentials.Provider) []repository.ChannelClient {
	return []repository.ChannelClient{
		telegram.New(creds, cfg.Dispatch.AttemptTimeout),
		twilio.New(creds, cfg.Dispatch.AttemptTimeout),
	}
}

// ProvideIngestor creates the webhook orchestrator.
func ProvideIngestor(
	reg *channel.Registry,
	disp *dispatch.Dispatcher,
	led *ledger.Ledger,
	clients []repository.ChannelClient,
	m repository.Metrics,
	events *eventlog.Service,
	log *applogger.Logger,
) *usecase.Ingestor {
	return usecase.NewIngestor(reg, disp, led, clients, m, events, log)
}

// ProvideExport creates the snapshot/backup service.
func ProvideExport(cfg *config.Config, led *ledger.Ledger, reg *channel.Registry, m repository.Metrics, events *eventlog.Service, log *applogger.Logger) *export.Service {
	return export.New(led, reg, m, events, log, cfg.Export.Dir)
}

// ProvideHandler assembles the HTTP route registrar.
func ProvideHandler(
	cfg *config.Config,
	log *applogger.Logger,
	ing *usecase.Ingestor,
	reg *channel.Registry,
	led *ledger.Ledger,
	creds *credentials.Provider,
	exporter *export.Service,
	events *eventlog.Service,
	m repository.Metrics,
) xhttp.Handler {
	return api.NewRouter(
		api.NewWebhookHandler(log, ing, cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec),
		api.NewAdminHandler(log, ing, reg, led, creds, exporter, events, m, cfg.Admin.PasswordHash),
		api.NewEventsHandler(log, events, cfg.Admin.PasswordHash),
	)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, log *applogger.Logger, handler xhttp.Handler, events *eventlog.Service) *server.App {
	return server.New(cfg, log, handler, events)
}
