package api

import (
	"errors"
	"fmt"
	"net/http"

	"Paratoner/internal/channel"
	"Paratoner/internal/domain/models"
	"Paratoner/internal/domain/repository"
	"Paratoner/internal/ledger"
	"Paratoner/internal/service/credentials"
	"Paratoner/internal/service/eventlog"
	"Paratoner/internal/service/export"
	"Paratoner/internal/usecase"
	xhttp "Paratoner/pkg/http"
	xlogger "Paratoner/pkg/logger"
	"Paratoner/pkg/util"

	"github.com/labstack/echo/v4"
)

const (
	defaultRecentN = 10
	defaultLogN    = 100
)

// AdminHandler serves the operator surface: service toggles, test sends,
// credential management, recent signals and data export. Every route is
// guarded by the shared admin password.
type AdminHandler struct {
	logger       *xlogger.Logger
	ingestor     *usecase.Ingestor
	registry     *channel.Registry
	ledger       *ledger.Ledger
	creds        *credentials.Provider
	exporter     *export.Service
	events       *eventlog.Service
	metrics      repository.Metrics
	passwordHash string
}

func NewAdminHandler(
	logger *xlogger.Logger,
	ing *usecase.Ingestor,
	reg *channel.Registry,
	led *ledger.Ledger,
	creds *credentials.Provider,
	exporter *export.Service,
	events *eventlog.Service,
	metrics repository.Metrics,
	passwordHash string,
) *AdminHandler {
	return &AdminHandler{
		logger:       logger,
		ingestor:     ing,
		registry:     reg,
		ledger:       led,
		creds:        creds,
		exporter:     exporter,
		events:       events,
		metrics:      metrics,
		passwordHash: passwordHash,
	}
}

func (h *AdminHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/admin", h.requireAuth)
	g.POST("/toggle-service", h.ToggleService)
	g.POST("/test-message", h.TestMessage)
	g.GET("/service-status", h.ServiceStatus)
	g.GET("/recent-signals", h.RecentSignals)
	g.GET("/system-stats", h.SystemStats)
	g.GET("/api-keys", h.GetAPIKeys)
	g.POST("/api-keys", h.UpdateAPIKeys)
	g.GET("/export-data", h.ExportData)
	g.GET("/logs", h.Logs)
}

// requireAuth rejects requests whose admin password does not hash to the
// configured value. Rejection happens before any state mutation.
func (h *AdminHandler) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !passwordMatches(c, h.passwordHash) {
			h.logger.Warn("admin auth failed", xlogger.String("remote", c.RealIP()), xlogger.String("path", c.Path()))
			return xhttp.UnauthorizedResponse(c, "invalid password")
		}
		return next(c)
	}
}

func (h *AdminHandler) ToggleService(c echo.Context) error {
	req := &models.ToggleServiceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ch := models.Channel(req.Service)
	prev, now, err := h.registry.Toggle(ch)
	if err != nil {
		if errors.Is(err, channel.ErrUnknownChannel) {
			return xhttp.BadRequestResponse(c, err.Error())
		}
		h.logger.Error("toggle failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}

	h.events.Record(eventlog.KindServiceToggle,
		fmt.Sprintf("%s: %s", req.Service, onOff(now)), "INFO")
	return xhttp.SuccessResponse(c, models.ToggleServiceResponse{
		Service:  req.Service,
		Enabled:  now,
		Previous: prev,
	})
}

func (h *AdminHandler) TestMessage(c echo.Context) error {
	req := &models.TestMessageRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ok, err := h.ingestor.SendTest(c.Request().Context(), models.Channel(req.Service), req.Message)
	if err != nil {
		if errors.Is(err, channel.ErrUnknownChannel) {
			return xhttp.BadRequestResponse(c, err.Error())
		}
		h.logger.Error("test message failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, models.TestMessageResponse{Service: req.Service, Success: ok})
}

func (h *AdminHandler) ServiceStatus(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.registry.StatusAll())
}

func (h *AdminHandler) RecentSignals(c echo.Context) error {
	n := util.ParseIntDefault(c.QueryParam("n"), defaultRecentN)
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"signals": h.ledger.Recent(n),
		"total":   h.ledger.Count(),
	})
}

func (h *AdminHandler) SystemStats(c echo.Context) error {
	stats := models.SystemStats{TotalSignals: h.ledger.Count()}
	if h.metrics != nil {
		stats.AverageDelayMs = h.metrics.AverageDelayMs()
		stats.UptimeSeconds = h.metrics.Uptime().Seconds()
	}
	if st, err := h.registry.Status(models.ChannelTelegram); err == nil {
		stats.TelegramHealth = st.Healthy
		stats.TelegramRetryCount = st.RetryCount
	}
	if st, err := h.registry.Status(models.ChannelWhatsApp); err == nil {
		stats.WhatsAppHealth = st.Healthy
		stats.WhatsAppRetryCount = st.RetryCount
	}
	return xhttp.SuccessResponse(c, stats)
}

func (h *AdminHandler) GetAPIKeys(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.creds.Masked())
}

func (h *AdminHandler) UpdateAPIKeys(c echo.Context) error {
	req := &models.UpdateKeysRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	var updated []string
	if req.Telegram != nil {
		h.creds.UpdateTelegram(*req.Telegram)
		updated = append(updated, "telegram")
	}
	if req.WhatsApp != nil {
		h.creds.UpdateTwilio(*req.WhatsApp)
		updated = append(updated, "whatsapp")
	}
	if len(updated) > 0 {
		h.events.Record(eventlog.KindAPIKeysUpdated, fmt.Sprintf("%v", updated), "INFO")
	}
	return xhttp.SuccessResponse(c, h.creds.Masked())
}

func (h *AdminHandler) ExportData(c echo.Context) error {
	b, snap, err := h.exporter.Snapshot(c.Request().Context())
	if err != nil {
		h.logger.Error("export failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	name := fmt.Sprintf("backup_%s.json", snap.ExportTimestamp.Format("20060102_150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, b)
}

func (h *AdminHandler) Logs(c echo.Context) error {
	n := util.ParseIntDefault(c.QueryParam("n"), defaultLogN)
	lines := h.events.RecentLines(c.Request().Context(), n)
	return xhttp.SuccessResponse(c, map[string]interface{}{"logs": lines, "count": len(lines)})
}

func onOff(enabled bool) string {
	if enabled {
		return "aktif"
	}
	return "pasif"
}
