package repositories

import (
	"context"

	"github.com/kopdigital/koperasi-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContributionFilter narrows a member's contribution listing. Empty fields are
// not applied.
type ContributionFilter struct {
	MemberID  primitive.ObjectID
	WasteType models.WasteType
	Status    models.ContributionStatus
	Page      int
	Limit     int
}

// PickupRequestFilter narrows a member's pickup request listing.
type PickupRequestFilter struct {
	MemberID primitive.ObjectID
	Status   models.PickupStatus
	Page     int
	Limit    int
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error
}

// MemberRepository defines the interface for member data operations
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	FindAll(ctx context.Context, status models.MemberStatus, page, limit int) ([]*models.Member, int64, error)
}

// WasteContributionRepository defines the interface for contribution data
// operations. Contributions are insert-only.
type WasteContributionRepository interface {
	Create(ctx context.Context, contribution *models.WasteContribution) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.WasteContribution, error)
	FindByMember(ctx context.Context, filter ContributionFilter) ([]*models.WasteContribution, int64, error)
	FindAllByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]*models.WasteContribution, error)
}

// PickupRequestRepository defines the interface for pickup request data operations
type PickupRequestRepository interface {
	Create(ctx context.Context, request *models.PickupRequest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.PickupRequest, error)
	Update(ctx context.Context, request *models.PickupRequest, expected models.PickupStatus) error
	FindByMember(ctx context.Context, filter PickupRequestFilter) ([]*models.PickupRequest, int64, error)
}

// PointTransactionRepository defines the interface for point transaction operations
type PointTransactionRepository interface {
	Create(ctx context.Context, transaction *models.PointTransaction) error
	FindByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]*models.PointTransaction, error)
	FindPageByMemberID(ctx context.Context, memberID primitive.ObjectID, page, limit int) ([]*models.PointTransaction, int64, error)
}

// NotificationRepository defines the interface for notification log operations
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindByMemberID(ctx context.Context, memberID primitive.ObjectID, page, limit int) ([]*models.Notification, int64, error)
}
