package mongodb

import (
	"context"
	"time"

	"github.com/kopdigital/koperasi-backend/internal/models"
	"github.com/kopdigital/koperasi-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ repositories.NotificationRepository = (*NotificationRepository)(nil)

// NotificationRepository implements the repositories.NotificationRepository interface
type NotificationRepository struct {
	collection *mongo.Collection
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{
		collection: db.Collection("notifications"),
	}
}

// Create records a send attempt
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	now := time.Now()
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = now
	notification.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

// FindByMemberID finds notifications sent to a member with pagination
func (r *NotificationRepository) FindByMemberID(ctx context.Context, memberID primitive.ObjectID, page, limit int) ([]*models.Notification, int64, error) {
	return findPage[models.Notification](ctx, r.collection, bson.M{"member_id": memberID}, page, limit)
}
