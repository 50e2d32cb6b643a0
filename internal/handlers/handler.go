package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kopdigital/koperasi-backend/internal/middleware"
	"github.com/kopdigital/koperasi-backend/internal/models"
	"github.com/kopdigital/koperasi-backend/pkg/errutil"
)

// ListResponse is the envelope for paginated list endpoints
type ListResponse struct {
	Data       interface{}        `json:"data"`
	Pagination *models.Pagination `json:"pagination"`
}

// currentMember returns the member resolved by the member middleware, pushing
// a 401 when the route was mounted without it.
func currentMember(c *gin.Context) (*models.Member, bool) {
	member, ok := middleware.CurrentMember(c)
	if !ok {
		_ = c.Error(errutil.Unauthorized("authentication required", nil))
		return nil, false
	}
	return member, true
}

// pageParams reads page and limit from the query string. Unparseable values
// fall back to the defaults.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(models.DefaultPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(models.DefaultLimit)))
	return models.NormalizePage(page, limit)
}
