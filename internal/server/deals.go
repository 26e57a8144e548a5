package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetPhoneDeals returns the ranked subscription combinations for one
// phone. The endpoint is the hottest one on the floor, so it sits
// behind the per-client limiter and the short-lived cache.
func (s *Server) GetPhoneDeals(c *gin.Context) {
	if s.dealsLimiter != nil && !s.dealsLimiter.Allow(c.Request.Context(), dealsClientID(c)) {
		AbortWithError(c, ErrTooManyRequests)
		return
	}

	resp, err := s.dealSvc.GetDeals(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func dealsClientID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader("X-Client-Id")); id != "" {
		return id
	}
	return c.ClientIP()
}
