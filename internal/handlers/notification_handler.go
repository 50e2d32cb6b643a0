package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kopdigital/koperasi-backend/internal/middleware"
	"github.com/kopdigital/koperasi-backend/internal/models"
	"github.com/kopdigital/koperasi-backend/internal/services"
	"github.com/kopdigital/koperasi-backend/pkg/errutil"
	"go.uber.org/zap"
)

// NotificationHandler handles WhatsApp notification requests
type NotificationHandler struct {
	notificationService services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// SendWhatsApp handles POST /whatsapp/send. Responses always carry a success
// flag, including failures. Only admins may log a send against another
// member; everyone else sends as themselves.
func (h *NotificationHandler) SendWhatsApp(c *gin.Context) {
	member, ok := middleware.CurrentMember(c)
	if !ok {
		h.renderSendError(c, errutil.Unauthorized("authentication required", nil))
		return
	}

	var req models.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.renderSendError(c, errutil.FromBinding(err))
		return
	}

	if c.GetString(middleware.ContextUserRole) != models.RoleAdmin {
		if req.MemberID != "" && req.MemberID != member.ID.Hex() {
			h.renderSendError(c, errutil.Forbidden("cannot send on behalf of another member", nil))
			return
		}
		req.MemberID = member.ID.Hex()
	}

	notification, err := h.notificationService.Send(c.Request.Context(), &req)
	if err != nil {
		h.renderSendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "WhatsApp message sent",
		"message_id": notification.MessageID,
	})
}

func (h *NotificationHandler) renderSendError(c *gin.Context, err error) {
	be, ok := errutil.As(err)
	if !ok {
		be = errutil.BaseError{Code: errutil.StatusInternal, Message: "failed to send WhatsApp message", Err: err}
	}
	if be.Code == errutil.StatusInternal {
		zap.L().Error("whatsapp send failed", zap.Error(err))
	}

	body := gin.H{"success": false, "error": be.Message}
	if len(be.Details) > 0 {
		body["details"] = be.Details
	}
	c.JSON(be.Code.HTTPStatus(), body)
}

// ListNotifications handles GET /notifications
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}

	page, limit := pageParams(c)
	notifications, pagination, err := h.notificationService.ListNotifications(c.Request.Context(), member, page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: notifications, Pagination: pagination})
}
