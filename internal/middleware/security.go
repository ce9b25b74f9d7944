package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// apiCSP forbids every subresource: API responses are JSON and never rendered as documents
const apiCSP = "default-src 'none'; frame-ancestors 'none'"

// SecurityHeaders hardens JSON responses. Personal data must not be cached by intermediaries.
// Paths under docsPrefix serve the Swagger UI and keep a browsable policy.
func SecurityHeaders(docsPrefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if docsPrefix == "" || !strings.HasPrefix(c.Request.URL.Path, docsPrefix) {
			h.Set("Content-Security-Policy", apiCSP)
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
		}

		if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
