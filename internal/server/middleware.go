package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/teleretail/salespoint/pkg/telemetry/correlation"
)

// CorrelationMiddleware propagates the caller's correlation id, or mints
// one, so chain support can follow a sale across store and central logs.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if cid := strings.TrimSpace(c.GetHeader("X-Correlation-Id")); cid != "" {
			ctx = correlation.ContextWithCorrelationID(ctx, cid)
		}

		ctx, cid := correlation.EnsureCorrelationID(ctx)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Correlation-Id", cid)

		c.Next()
	}
}
