package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kopdigital/koperasi-backend/internal/models"
	"github.com/kopdigital/koperasi-backend/internal/services"
	"github.com/kopdigital/koperasi-backend/pkg/errutil"
)

// MemberHandler handles member profile and administration requests
type MemberHandler struct {
	memberService services.MemberService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService services.MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

// GetMe handles GET /members/me
func (h *MemberHandler) GetMe(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": member})
}

// ListMembers handles GET /admin/members
func (h *MemberHandler) ListMembers(c *gin.Context) {
	page, limit := pageParams(c)
	status := models.MemberStatus(c.Query("status"))

	members, pagination, err := h.memberService.ListMembers(c.Request.Context(), status, page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: members, Pagination: pagination})
}

// UpdateStatus handles PATCH /admin/members/:id/status
func (h *MemberHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateMemberStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errutil.FromBinding(err))
		return
	}

	member, err := h.memberService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": member})
}
