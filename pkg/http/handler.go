package http

import "github.com/labstack/echo/v4"

// Handler registers a related group of routes on the echo instance. The
// webhook, admin, and event-stream handlers each implement it, and the
// server accepts one aggregate registrar.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
