package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kopdigital/koperasi-backend/internal/services"
)

// SummaryHandler serves points balances and the points ledger
type SummaryHandler struct {
	summaryService services.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(summaryService services.SummaryService) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
	}
}

// GetSummary handles GET /summary
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}

	summary, err := h.summaryService.GetSummary(c.Request.Context(), member)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListPointTransactions handles GET /points/transactions
func (h *SummaryHandler) ListPointTransactions(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}

	page, limit := pageParams(c)
	transactions, pagination, err := h.summaryService.ListPointTransactions(c.Request.Context(), member, page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: transactions, Pagination: pagination})
}
