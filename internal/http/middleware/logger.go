package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestLogger writes one zerolog line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var evt *zerolog.Event
		switch {
		case status >= 500:
			evt = log.Error()
		case status >= 400:
			evt = log.Warn()
		default:
			evt = log.Info()
		}
		evt = evt.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP())
		if u, ok := GetCurrentUser(c); ok {
			evt = evt.Int("user_id", u.ID)
		}
		if a, ok := GetCurrentAdmin(c); ok {
			evt = evt.Int("admin_id", a.ID)
		}
		evt.Msg("request")
	}
}
