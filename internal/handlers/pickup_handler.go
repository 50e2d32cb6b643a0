package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kopdigital/koperasi-backend/internal/models"
	"github.com/kopdigital/koperasi-backend/internal/services"
	"github.com/kopdigital/koperasi-backend/pkg/errutil"
)

// PickupHandler handles pickup request lifecycle requests
type PickupHandler struct {
	pickupService services.PickupService
}

// NewPickupHandler creates a new PickupHandler
func NewPickupHandler(pickupService services.PickupService) *PickupHandler {
	return &PickupHandler{
		pickupService: pickupService,
	}
}

// ListPickupRequests handles GET /pickup-requests
func (h *PickupHandler) ListPickupRequests(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}

	page, limit := pageParams(c)
	query := models.PickupQuery{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}

	pickups, pagination, err := h.pickupService.ListPickupRequests(c.Request.Context(), member, query)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: pickups, Pagination: pagination})
}

// CreatePickupRequest handles POST /pickup-requests
func (h *PickupHandler) CreatePickupRequest(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}

	var req models.CreatePickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errutil.FromBinding(err))
		return
	}

	pickup, err := h.pickupService.CreatePickupRequest(c.Request.Context(), member, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": pickup})
}

// UpdatePickupRequest handles PATCH /pickup-requests
func (h *PickupHandler) UpdatePickupRequest(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}

	var req models.UpdatePickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errutil.FromBinding(err))
		return
	}

	pickup, created, err := h.pickupService.UpdatePickupRequest(c.Request.Context(), member, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":                  pickup,
		"contributions_created": created,
	})
}
