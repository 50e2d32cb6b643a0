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

var _ repositories.MemberRepository = (*MemberRepository)(nil)

// MemberRepository handles MongoDB operations for Member
type MemberRepository struct {
	collection *mongo.Collection
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *mongo.Database) *MemberRepository {
	return &MemberRepository{
		collection: db.Collection("members"),
	}
}

// Create inserts a new member
func (r *MemberRepository) Create(ctx context.Context, member *models.Member) error {
	now := time.Now()
	member.ID = primitive.NewObjectID()
	member.CreatedAt = now
	member.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, member)
	return err
}

// FindByID finds a member by ID
func (r *MemberRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	var member models.Member
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&member); err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByUserID finds the member record linked to a login
func (r *MemberRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Member, error) {
	var member models.Member
	if err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&member); err != nil {
		return nil, err
	}
	return &member, nil
}

// Update replaces a member document. Returns mongo.ErrNoDocuments when the member does not exist.
func (r *MemberRepository) Update(ctx context.Context, member *models.Member) error {
	member.UpdatedAt = time.Now()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": member.ID}, member)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// FindAll lists members, optionally filtered by status, with pagination
func (r *MemberRepository) FindAll(ctx context.Context, status models.MemberStatus, page, limit int) ([]*models.Member, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return findPage[models.Member](ctx, r.collection, filter, page, limit)
}
