package api

import (
	"net/http"
	"time"

	"Paratoner/internal/service/eventlog"
	xlogger "Paratoner/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// EventsHandler streams system event lines over a websocket so the admin UI
// can tail the log without polling.
type EventsHandler struct {
	logger       *xlogger.Logger
	events       *eventlog.Service
	passwordHash string
	upgrader     websocket.Upgrader
}

func NewEventsHandler(logger *xlogger.Logger, events *eventlog.Service, passwordHash string) *EventsHandler {
	return &EventsHandler{
		logger:       logger,
		events:       events,
		passwordHash: passwordHash,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
	}
}

func (h *EventsHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/admin/logs/stream", h.Stream)
}

// Stream upgrades the connection, replays the recent lines and then relays
// live events until the client goes away.
func (h *EventsHandler) Stream(c echo.Context) error {
	if !passwordMatches(c, h.passwordHash) {
		return c.NoContent(http.StatusUnauthorized)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()

	for _, line := range h.events.RecentLines(c.Request().Context(), defaultLogN) {
		if err := h.writeLine(conn, line); err != nil {
			return nil
		}
	}

	sub, cancel := h.events.Subscribe()
	defer cancel()

	// reader goroutine only notices the close
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-sub:
			if !ok {
				return nil
			}
			if err := h.writeLine(conn, ev.Line); err != nil {
				return nil
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case <-done:
			return nil
		case <-c.Request().Context().Done():
			return nil
		}
	}
}

func (h *EventsHandler) writeLine(conn *websocket.Conn, line string) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, []byte(line))
}
