package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	phonedomain "github.com/teleretail/salespoint/internal/phone/domain"
	"github.com/teleretail/salespoint/pkg/db/pagination"
)

type listPhonesQuery struct {
	Brand      string `form:"brand"`
	ActiveOnly bool   `form:"active_only"`
	pagination.Pagination
}

func (s *Server) ListPhones(c *gin.Context) {
	var q listPhonesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	phones, err := s.phoneRepo.List(c.Request.Context(), s.db, phonedomain.ListFilter{
		Brand:      strings.TrimSpace(q.Brand),
		ActiveOnly: q.ActiveOnly,
		PageSize:   q.PageSize,
		PageToken:  q.PageToken,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	pageInfo := pagination.BuildCursorPageInfo(phones, int32(q.PageSize), func(p *phonedomain.Phone) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{ID: p.ID.String()})
		return token
	})
	if len(phones) > q.PageSize {
		phones = phones[:q.PageSize]
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"phones":    phones,
		"page_info": pageInfo,
	}})
}

func (s *Server) GetPhone(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, phonedomain.ErrPhoneNotFound)
		return
	}

	phone, err := s.phoneRepo.FindByID(c.Request.Context(), s.db, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if phone == nil {
		AbortWithError(c, phonedomain.ErrPhoneNotFound)
		return
	}

	// Other variants of the same device line ride along so the UI can
	// offer storage and color switching without another round trip.
	siblings, err := s.phoneRepo.FindSiblings(c.Request.Context(), s.db, *phone)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"phone":    phone,
		"variants": siblings,
	}})
}
