package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Logger writes one line per request. Successful hits on quietRoutes
// (health checks, metric scrapes) drop to debug.
func Logger(log zerolog.Logger, quietRoutes ...string) gin.HandlerFunc {
	quiet := make(map[string]struct{}, len(quietRoutes))
	for _, route := range quietRoutes {
		quiet[route] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()

		var event *zerolog.Event
		switch _, isQuiet := quiet[route]; {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		case isQuiet:
			event = log.Debug()
		default:
			event = log.Info()
		}

		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", route).
			Str("client_ip", c.ClientIP()).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Str("request_id", RequestIDFrom(c)).
			Msg("http request")
	}
}
