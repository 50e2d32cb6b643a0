package mongodb

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/kopdigital/koperasi-backend/internal/models"
	"github.com/kopdigital/koperasi-backend/internal/repositories"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestWasteContributionRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns id", func(mt *mtest.T) {
		repo := NewWasteContributionRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		c := &models.WasteContribution{WasteType: models.WasteTypePlastic, WeightKg: 3, PointsEarned: 15}
		require.NoError(mt, repo.Create(context.Background(), c))
		require.False(mt, c.ID.IsZero())
	})

	mt.Run("find by member returns page and total", func(mt *mtest.T) {
		repo := NewWasteContributionRepository(mt.DB)
		memberID := primitive.NewObjectID()
		created := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "koperasi.waste_contributions", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(12)}}),
			mtest.CreateCursorResponse(0, "koperasi.waste_contributions", mtest.FirstBatch,
				bson.D{
					{Key: "_id", Value: primitive.NewObjectID()},
					{Key: "member_id", Value: memberID},
					{Key: "waste_type", Value: "plastic"},
					{Key: "weight_kg", Value: 3.0},
					{Key: "points_earned", Value: int64(15)},
					{Key: "status", Value: "collected"},
					{Key: "created_at", Value: created},
				},
				bson.D{
					{Key: "_id", Value: primitive.NewObjectID()},
					{Key: "member_id", Value: memberID},
					{Key: "waste_type", Value: "metal"},
					{Key: "weight_kg", Value: 1.0},
					{Key: "points_earned", Value: int64(8)},
					{Key: "status", Value: "collected"},
					{Key: "created_at", Value: created},
				},
			),
		)

		items, total, err := repo.FindByMember(context.Background(), repositories.ContributionFilter{
			MemberID: memberID,
			Page:     2,
			Limit:    10,
		})
		require.NoError(mt, err)
		require.Equal(mt, int64(12), total)
		require.Len(mt, items, 2)
		require.Equal(mt, models.WasteTypePlastic, items[0].WasteType)
		require.Equal(mt, int64(15), items[0].PointsEarned)
		require.Equal(mt, models.ContributionStatusCollected, items[1].Status)
	})
}

func TestPickupRequestRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("update missing document", func(mt *mtest.T) {
		repo := NewPickupRequestRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.Update(context.Background(), &models.PickupRequest{
			ID:     primitive.NewObjectID(),
			Status: models.PickupStatusCancelled,
		}, models.PickupStatusPending)
		require.ErrorIs(mt, err, mongo.ErrNoDocuments)
	})

	mt.Run("update existing document", func(mt *mtest.T) {
		repo := NewPickupRequestRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		weight := 7.5
		err := repo.Update(context.Background(), &models.PickupRequest{
			ID:           primitive.NewObjectID(),
			Status:       models.PickupStatusInProgress,
			ActualWeight: &weight,
		}, models.PickupStatusScheduled)
		require.NoError(mt, err)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		query := evt.Command.Lookup("updates").Array().Index(0).Value().Document().Lookup("q").Document()
		require.Equal(mt, string(models.PickupStatusScheduled), query.Lookup("status").StringValue())
	})
}

func TestUserRepositoryFindByEmailNotFound(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no documents", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "koperasi.users", mtest.FirstBatch))

		_, err := repo.FindByEmail(context.Background(), "Nobody@Example.com")
		require.ErrorIs(mt, err, mongo.ErrNoDocuments)
	})
}

func TestMemberRepositoryFindByUserID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		repo := NewMemberRepository(mt.DB)
		userID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "koperasi.members", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "user_id", Value: userID},
			{Key: "koperasi_id", Value: "kop-01"},
			{Key: "full_name", Value: "Siti Aminah"},
			{Key: "status", Value: "active"},
		}))

		member, err := repo.FindByUserID(context.Background(), userID)
		require.NoError(mt, err)
		require.Equal(mt, userID, member.UserID)
		require.True(mt, member.IsActive())
	})
}

func TestPageOptionsSkipStaysNonNegative(t *testing.T) {
	opts := pageOptions(math.MaxInt, 10)
	require.Equal(t, int64(models.MaxPage-1)*10, *opts.Skip)
	require.Equal(t, int64(10), *opts.Limit)

	opts = pageOptions(3, 0)
	require.Equal(t, int64(20), *opts.Skip)
}
