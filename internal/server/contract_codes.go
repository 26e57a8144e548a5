package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	contractgendomain "github.com/teleretail/salespoint/internal/contractgen/domain"
)

// PreviewContractCodes runs generation for the seller's current cart
// without registering anything. The sales UI calls this on every cart
// change so the seller sees the exact codes before committing.
func (s *Server) PreviewContractCodes(c *gin.Context) {
	var cart contractgendomain.Cart
	if err := c.ShouldBindJSON(&cart); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	groups, err := s.codeSvc.Generate(c.Request.Context(), cart)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"groups": groups}})
}
