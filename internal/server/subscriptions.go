package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	subscriptiondomain "github.com/teleretail/salespoint/internal/subscription/domain"
	"github.com/teleretail/salespoint/pkg/db/pagination"
)

type listSubscriptionsQuery struct {
	OperatorID   string `form:"operator_id"`
	MainOnly     bool   `form:"main_only"`
	DealEligible bool   `form:"deal_eligible"`
	pagination.Pagination
}

func (s *Server) ListSubscriptions(c *gin.Context) {
	var q listSubscriptionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.subscriptionSvc.List(c.Request.Context(), subscriptiondomain.ListRequest{
		OperatorID:   strings.TrimSpace(q.OperatorID),
		MainOnly:     q.MainOnly,
		DealEligible: q.DealEligible,
		Pagination:   q.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSubscription(c *gin.Context) {
	resp, err := s.subscriptionSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// UpdateSubscriptionPricing patches a plan's pricing. On a main line the
// change fans out to the silently linked variants and extra-user lines,
// and the response lists every row that was touched.
func (s *Server) UpdateSubscriptionPricing(c *gin.Context) {
	var req subscriptiondomain.UpdatePricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	resp, err := s.subscriptionSvc.UpdatePricing(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
