package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// healthPaths are polled by orchestrators and only logged at debug level.
var healthPaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
}

// LoggingMiddleware writes one access line per request, tagged with the trace, the request
// id and the acting user when a token was presented.
func LoggingMiddleware(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		logEvent := accessLevel(logger, path, status)
		if logEvent == nil {
			return
		}

		// Trace context
		if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.IsValid() {
			logEvent = logEvent.
				Str("trace_id", sc.TraceID().String()).
				Str("span_id", sc.SpanID().String())
		}
		if requestID := RequestIDFromContext(c); requestID != "" {
			logEvent = logEvent.Str("request_id", requestID)
		}
		if principal, ok := PrincipalFromContext(c); ok {
			logEvent = logEvent.Str("user_id", principal.ID)
		}

		logEvent.
			Str("client_ip", c.ClientIP()).
			Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Str("path", path).
			Str("query", raw).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Str("user_agent", c.Request.UserAgent()).
			Msg(c.Errors.ByType(gin.ErrorTypePrivate).String())
	}
}

func accessLevel(logger zerolog.Logger, path string, status int) *zerolog.Event {
	switch {
	case status >= 500:
		return logger.Error()
	case status >= 400:
		return logger.Warn()
	}
	if _, health := healthPaths[path]; health {
		return logger.Debug()
	}
	return logger.Info()
}
