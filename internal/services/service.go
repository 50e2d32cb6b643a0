package services

import (
	"context"

	"github.com/kopdigital/koperasi-backend/internal/models"
)

// AuthService defines the interface for registration and login
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.Member, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

// MemberService defines the interface for member-related operations
type MemberService interface {
	// GetByUserID resolves the member record of an authenticated login
	GetByUserID(ctx context.Context, userID string) (*models.Member, error)
	ListMembers(ctx context.Context, status models.MemberStatus, page, limit int) ([]*models.Member, *models.Pagination, error)
	UpdateStatus(ctx context.Context, memberID string, status models.MemberStatus) (*models.Member, error)
}

// ContributionService defines the interface for recording waste deposits
type ContributionService interface {
	CreateContribution(ctx context.Context, member *models.Member, req *models.CreateContributionRequest) (*models.WasteContribution, error)
	ListContributions(ctx context.Context, member *models.Member, query models.ContributionQuery) ([]*models.WasteContribution, *models.Pagination, error)
	// RecordPickupContributions creates one contribution per valid item of a
	// completed pickup. Invalid items and per-item failures are skipped.
	RecordPickupContributions(ctx context.Context, member *models.Member, pickup *models.PickupRequest, items []models.PickupContributionItem) []*models.WasteContribution
}

// PickupService defines the interface for the pickup request lifecycle
type PickupService interface {
	CreatePickupRequest(ctx context.Context, member *models.Member, req *models.CreatePickupRequest) (*models.PickupRequest, error)
	ListPickupRequests(ctx context.Context, member *models.Member, query models.PickupQuery) ([]*models.PickupRequest, *models.Pagination, error)
	UpdatePickupRequest(ctx context.Context, member *models.Member, req *models.UpdatePickupRequest) (*models.PickupRequest, []*models.WasteContribution, error)
}

// SummaryService defines the interface for points and impact aggregation
type SummaryService interface {
	GetSummary(ctx context.Context, member *models.Member) (*models.WasteSummary, error)
	ListPointTransactions(ctx context.Context, member *models.Member, page, limit int) ([]*models.PointTransaction, *models.Pagination, error)
}

// Notifier dispatches a templated message to a member without blocking the
// caller. Failures are logged and never returned.
type Notifier interface {
	Notify(member *models.Member, notificationType models.NotificationType, data map[string]interface{})
}

// NotificationService defines the interface for WhatsApp notifications
type NotificationService interface {
	Notifier
	Send(ctx context.Context, req *models.SendNotificationRequest) (*models.Notification, error)
	ListNotifications(ctx context.Context, member *models.Member, page, limit int) ([]*models.Notification, *models.Pagination, error)
}

// NopNotifier discards every notification.
type NopNotifier struct{}

func (NopNotifier) Notify(*models.Member, models.NotificationType, map[string]interface{}) {}
