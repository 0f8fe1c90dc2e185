package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Paratoner/internal/channel"
	"Paratoner/internal/dispatch"
	"Paratoner/internal/domain/models"
	"Paratoner/internal/domain/repository"
	"Paratoner/internal/ledger"
	"Paratoner/internal/service/credentials"
	"Paratoner/internal/service/eventlog"
	"Paratoner/internal/service/export"
	"Paratoner/internal/usecase"
	applogger "Paratoner/pkg/logger"

	"github.com/labstack/echo/v4"
)

// sha256("admin")
const adminHash = "8c6976e5b5410415bde908bd4dee15dfb167a9c873fc4bb8a81f6f2ab448a918"

type okClient struct{ ch models.Channel }

func (c *okClient) Channel() models.Channel                { return c.ch }
func (c *okClient) SendOnce(context.Context, string) error { return nil }

type fixture struct {
	e        *echo.Echo
	registry *channel.Registry
	ledger   *ledger.Ledger
	creds    *credentials.Provider
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	reg := channel.NewRegistry()
	reg.Register(models.ChannelTelegram, true)
	reg.Register(models.ChannelWhatsApp, false)
	led := ledger.New(100)
	creds := credentials.New(
		models.TelegramCredentials{Token: "1234567890abc", ChatID: "42"},
		models.TwilioCredentials{},
	)
	events := eventlog.New(50, nil, nil)
	disp := dispatch.New(reg, nil, events, log, dispatch.WithBackoffBase(time.Millisecond))
	clients := []repository.ChannelClient{
		&okClient{ch: models.ChannelTelegram},
		&okClient{ch: models.ChannelWhatsApp},
	}
	ing := usecase.NewIngestor(reg, disp, led, clients, nil, events, log)
	exporter := export.New(led, reg, nil, events, log, "")

	e := echo.New()
	NewRouter(
		NewWebhookHandler(log, ing, 0, 0),
		NewAdminHandler(log, ing, reg, led, creds, exporter, events, nil, adminHash),
		NewEventsHandler(log, events, adminHash),
	).RegisterRoutes(e)

	return &fixture{e: e, registry: reg, ledger: led, creds: creds}
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func TestWebhookAcceptsSignal(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/webhook/tradingview", `{"symbol":"BTCUSDT","action":"BUY","price":"50000"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data models.IngestAck `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Data.Success || !resp.Data.Telegram {
		t.Fatalf("unexpected ack %+v", resp.Data)
	}
	if resp.Data.WhatsApp {
		t.Fatalf("disabled channel must not deliver")
	}
	if f.ledger.Count() != 1 {
		t.Fatalf("signal not recorded")
	}
}

func TestWebhookAppliesDefaults(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/webhook/tradingview", `{}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	recent := f.ledger.Recent(1)
	if len(recent) != 1 {
		t.Fatalf("expected one signal")
	}
	if recent[0].Symbol != "N/A" || recent[0].Message != "Sinyal" {
		t.Fatalf("defaults not applied: %+v", recent[0])
	}
}

func TestWebhookRejectsMalformedBody(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/webhook/tradingview", `{"symbol":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if f.ledger.Count() != 0 {
		t.Fatalf("malformed payload must not be recorded")
	}
}

func TestAdminRequiresPassword(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/admin/service-status", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = f.do(http.MethodPost, "/admin/toggle-service?password=wrong", `{"service":"telegram"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !f.registry.IsEnabled(models.ChannelTelegram) {
		t.Fatalf("rejected request must not mutate state")
	}
}

func TestAdminToggleService(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/admin/toggle-service?password=admin", `{"service":"telegram"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if f.registry.IsEnabled(models.ChannelTelegram) {
		t.Fatalf("expected telegram disabled after toggle")
	}

	var resp struct {
		Data models.ToggleServiceResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Enabled || !resp.Data.Previous {
		t.Fatalf("unexpected toggle response %+v", resp.Data)
	}
}

func TestAdminToggleUnknownService(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/admin/toggle-service?password=admin", `{"service":"pigeon"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAdminAPIKeysMaskedRoundTrip(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/admin/api-keys?password=admin", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Data models.MaskedKeysResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasSuffix(resp.Data.Telegram.Token, "***") {
		t.Fatalf("token not masked: %q", resp.Data.Telegram.Token)
	}

	// posting the masked view back must not clobber the secret
	body, _ := json.Marshal(models.UpdateKeysRequest{
		Telegram: &models.TelegramCredentials{Token: resp.Data.Telegram.Token, ChatID: "99"},
	})
	rec = f.do(http.MethodPost, "/admin/api-keys?password=admin", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := f.creds.Telegram()
	if got.Token != "1234567890abc" {
		t.Fatalf("masked token overwrote secret: %q", got.Token)
	}
	if got.ChatID != "99" {
		t.Fatalf("chat id not updated: %q", got.ChatID)
	}
}

func TestAdminRecentSignals(t *testing.T) {
	f := newFixture(t)
	f.do(http.MethodPost, "/webhook/tradingview", `{"symbol":"BTCUSDT"}`)
	f.do(http.MethodPost, "/webhook/tradingview", `{"symbol":"ETHUSDT"}`)

	rec := f.do(http.MethodGet, "/admin/recent-signals?password=admin&n=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Data struct {
			Signals []models.Signal `json:"signals"`
			Total   int             `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data.Signals) != 1 || resp.Data.Total != 2 {
		t.Fatalf("unexpected page %+v", resp.Data)
	}
	if resp.Data.Signals[0].Symbol != "ETHUSDT" {
		t.Fatalf("expected most recent first, got %q", resp.Data.Signals[0].Symbol)
	}
}

func TestAdminExportData(t *testing.T) {
	f := newFixture(t)
	f.do(http.MethodPost, "/webhook/tradingview", `{"symbol":"BTCUSDT"}`)

	rec := f.do(http.MethodGet, "/admin/export-data?password=admin", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "backup_") {
		t.Fatalf("missing attachment header: %q", cd)
	}
	var snap models.ExportSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.TotalAlarms != 1 || len(snap.Alarms) != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestAdminLogs(t *testing.T) {
	f := newFixture(t)
	f.do(http.MethodPost, "/webhook/tradingview", `{"symbol":"BTCUSDT"}`)

	rec := f.do(http.MethodGet, "/admin/logs?password=admin&n=10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "BTCUSDT") {
		t.Fatalf("expected event line mentioning the signal: %s", rec.Body.String())
	}
}

func TestEventsStreamRequiresPassword(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/admin/logs/stream", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
