package mongodb

import (
	"context"

	"github.com/kopdigital/koperasi-backend/internal/models"
	"github.com/kopdigital/koperasi-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.WasteContributionRepository = (*WasteContributionRepository)(nil)

// WasteContributionRepository handles MongoDB operations for WasteContribution
type WasteContributionRepository struct {
	collection *mongo.Collection
}

// NewWasteContributionRepository creates a new WasteContributionRepository
func NewWasteContributionRepository(db *mongo.Database) *WasteContributionRepository {
	return &WasteContributionRepository{
		collection: db.Collection("waste_contributions"),
	}
}

// Create inserts a new contribution
func (r *WasteContributionRepository) Create(ctx context.Context, contribution *models.WasteContribution) error {
	contribution.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, contribution)
	return err
}

// FindByID finds a contribution by ID
func (r *WasteContributionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.WasteContribution, error) {
	var contribution models.WasteContribution
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&contribution); err != nil {
		return nil, err
	}
	return &contribution, nil
}

// FindByMember returns one page of a member's contributions, newest first, and the total match count
func (r *WasteContributionRepository) FindByMember(ctx context.Context, f repositories.ContributionFilter) ([]*models.WasteContribution, int64, error) {
	filter := bson.M{"member_id": f.MemberID}
	if f.WasteType != "" {
		filter["waste_type"] = f.WasteType
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return findPage[models.WasteContribution](ctx, r.collection, filter, f.Page, f.Limit)
}

// FindAllByMemberID returns every contribution of a member
func (r *WasteContributionRepository) FindAllByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]*models.WasteContribution, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"member_id": memberID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	contributions := []*models.WasteContribution{}
	if err := cursor.All(ctx, &contributions); err != nil {
		return nil, err
	}
	return contributions, nil
}
