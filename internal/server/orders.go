package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	contractgendomain "github.com/teleretail/salespoint/internal/contractgen/domain"
	orderdomain "github.com/teleretail/salespoint/internal/order/domain"
)

type createOrderRequest struct {
	SellerName  string                 `json:"seller_name"`
	CustomerRef string                 `json:"customer_ref"`
	Cart        contractgendomain.Cart `json:"cart"`
}

func (s *Server) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	order, err := s.orderSvc.Create(c.Request.Context(), orderdomain.CreateRequest{
		SellerName:  strings.TrimSpace(req.SellerName),
		CustomerRef: strings.TrimSpace(req.CustomerRef),
		Cart:        req.Cart,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": order})
}

func (s *Server) GetOrder(c *gin.Context) {
	order, err := s.orderSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

// GetOrderCodeSheet streams the printable code sheet for manual entry
// into the operators' ordering systems.
func (s *Server) GetOrderCodeSheet(c *gin.Context) {
	id := c.Param("id")
	doc, err := s.orderSvc.CodeSheetPDF(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=order-%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", doc)
}
