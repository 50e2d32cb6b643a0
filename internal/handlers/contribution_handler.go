package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kopdigital/koperasi-backend/internal/models"
	"github.com/kopdigital/koperasi-backend/internal/services"
	"github.com/kopdigital/koperasi-backend/pkg/errutil"
)

// ContributionHandler handles waste contribution requests
type ContributionHandler struct {
	contributionService services.ContributionService
}

// NewContributionHandler creates a new ContributionHandler
func NewContributionHandler(contributionService services.ContributionService) *ContributionHandler {
	return &ContributionHandler{
		contributionService: contributionService,
	}
}

// ListContributions handles GET /contributions
func (h *ContributionHandler) ListContributions(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}

	page, limit := pageParams(c)
	query := models.ContributionQuery{
		WasteType: c.Query("waste_type"),
		Status:    c.Query("status"),
		Page:      page,
		Limit:     limit,
	}

	contributions, pagination, err := h.contributionService.ListContributions(c.Request.Context(), member, query)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: contributions, Pagination: pagination})
}

// CreateContribution handles POST /contributions
func (h *ContributionHandler) CreateContribution(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}

	var req models.CreateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errutil.FromBinding(err))
		return
	}

	contribution, err := h.contributionService.CreateContribution(c.Request.Context(), member, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": contribution})
}
