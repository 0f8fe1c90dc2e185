package api

import (
	"Paratoner/internal/domain/models"
	"Paratoner/internal/service/ratelimit"
	"Paratoner/internal/usecase"
	xhttp "Paratoner/pkg/http"
	xlogger "Paratoner/pkg/logger"

	"github.com/labstack/echo/v4"
)

// WebhookHandler accepts TradingView-style alert payloads.
type WebhookHandler struct {
	logger   *xlogger.Logger
	ingestor *usecase.Ingestor
	rl       *ratelimit.Limiter
	rlCap    float64
	rlRefill float64
}

func NewWebhookHandler(logger *xlogger.Logger, ing *usecase.Ingestor, rlCap, rlRefill float64) *WebhookHandler {
	return &WebhookHandler{logger: logger, ingestor: ing, rl: ratelimit.New(), rlCap: rlCap, rlRefill: rlRefill}
}

func (h *WebhookHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/webhook/tradingview", h.Receive)
	e.GET("/healthz", h.Healthz)
}

// Receive ingests one alert. The response is 200 whenever the payload was
// parseable; delivery failures are reported inside the body, not as HTTP
// errors, so the upstream alert source never retries on its own.
func (h *WebhookHandler) Receive(c echo.Context) error {
	if h.rl != nil && h.rlCap > 0 && !h.rl.Allow(c.RealIP()+":webhook", h.rlCap, h.rlRefill) {
		h.logger.Warn("webhook rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.TooManyRequestsResponse(c, nil)
	}

	req := &models.WebhookRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		h.logger.Warn("webhook bad payload", xlogger.Any("error", verr))
		return xhttp.BadRequestResponse(c, verr)
	}

	ack := h.ingestor.Ingest(c.Request().Context(), req)
	return xhttp.SuccessResponse(c, ack)
}

func (h *WebhookHandler) Healthz(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
