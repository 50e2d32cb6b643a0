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

var _ repositories.PickupRequestRepository = (*PickupRequestRepository)(nil)

// PickupRequestRepository handles MongoDB operations for PickupRequest
type PickupRequestRepository struct {
	collection *mongo.Collection
}

// NewPickupRequestRepository creates a new PickupRequestRepository
func NewPickupRequestRepository(db *mongo.Database) *PickupRequestRepository {
	return &PickupRequestRepository{
		collection: db.Collection("pickup_requests"),
	}
}

// Create inserts a new pickup request
func (r *PickupRequestRepository) Create(ctx context.Context, request *models.PickupRequest) error {
	request.ID = primitive.NewObjectID()
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now()
	}
	request.UpdatedAt = request.CreatedAt
	_, err := r.collection.InsertOne(ctx, request)
	return err
}

// FindByID finds a pickup request by ID
func (r *PickupRequestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.PickupRequest, error) {
	var request models.PickupRequest
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request); err != nil {
		return nil, err
	}
	return &request, nil
}

// Update writes the mutable fields of a pickup request if its stored status
// is still expected. A missing document or a changed status both report
// mongo.ErrNoDocuments.
func (r *PickupRequestRepository) Update(ctx context.Context, request *models.PickupRequest, expected models.PickupStatus) error {
	if request.UpdatedAt.IsZero() {
		request.UpdatedAt = time.Now()
	}
	set := bson.M{
		"status":     request.Status,
		"updated_at": request.UpdatedAt,
	}
	if request.ActualWeight != nil {
		set["actual_weight"] = *request.ActualWeight
	}
	if request.CompletedAt != nil {
		set["completed_at"] = *request.CompletedAt
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": request.ID, "status": expected}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// FindByMember returns one page of a member's pickup requests and the total match count
func (r *PickupRequestRepository) FindByMember(ctx context.Context, f repositories.PickupRequestFilter) ([]*models.PickupRequest, int64, error) {
	filter := bson.M{"member_id": f.MemberID}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return findPage[models.PickupRequest](ctx, r.collection, filter, f.Page, f.Limit)
}
