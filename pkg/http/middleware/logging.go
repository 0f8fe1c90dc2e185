package middleware

import (
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs one line per request. The admin endpoints accept the
// password as a query parameter, so the logged URI is redacted first.
func RequestLogging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			err := next(c)

			latency := time.Since(start)
			log.Printf("[%s] %s %s - %d (%s)",
				req.Method,
				redactURI(req.RequestURI),
				req.RemoteAddr,
				res.Status,
				latency,
			)

			return err
		}
	}
}

// redactURI masks the password query parameter. A query string that does not
// parse is dropped entirely rather than logged raw.
func redactURI(uri string) string {
	i := strings.Index(uri, "?")
	if i < 0 {
		return uri
	}
	q, err := url.ParseQuery(uri[i+1:])
	if err != nil {
		return uri[:i]
	}
	if q.Has("password") {
		q.Set("password", "***")
	}
	return uri[:i] + "?" + q.Encode()
}
