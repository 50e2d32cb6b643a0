package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kopdigital/koperasi-backend/internal/metrics"
	"github.com/kopdigital/koperasi-backend/internal/models"
	"github.com/kopdigital/koperasi-backend/internal/repositories"
	"github.com/kopdigital/koperasi-backend/internal/utils"
	"github.com/kopdigital/koperasi-backend/pkg/errutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var _ ContributionService = (*ContributionServiceImpl)(nil)

// ContributionServiceImpl records waste deposits and credits points for them
type ContributionServiceImpl struct {
	contributionRepo repositories.WasteContributionRepository
	pickupRepo       repositories.PickupRequestRepository
	pointRepo        repositories.PointTransactionRepository
	notifier         Notifier
	now              func() time.Time
}

// NewContributionService creates a new ContributionServiceImpl
func NewContributionService(
	contributionRepo repositories.WasteContributionRepository,
	pickupRepo repositories.PickupRequestRepository,
	pointRepo repositories.PointTransactionRepository,
	notifier Notifier,
) *ContributionServiceImpl {
	return &ContributionServiceImpl{
		contributionRepo: contributionRepo,
		pickupRepo:       pickupRepo,
		pointRepo:        pointRepo,
		notifier:         notifier,
		now:              time.Now,
	}
}

// CreateContribution validates and records a contribution, then credits the
// earned points to the member's ledger.
func (s *ContributionServiceImpl) CreateContribution(ctx context.Context, member *models.Member, req *models.CreateContributionRequest) (*models.WasteContribution, error) {
	if !member.IsActive() {
		return nil, errutil.Forbidden("member account is not active", nil)
	}
	if err := validateContribution(req.WasteType, req.WeightKg); err != nil {
		return nil, err
	}

	var pickupID *primitive.ObjectID
	if req.PickupRequestID != "" {
		pickup, err := s.findOwnedPickup(ctx, member, req.PickupRequestID)
		if err != nil {
			return nil, err
		}
		pickupID = &pickup.ID
	}

	contribution, err := s.record(ctx, member, pickupID, req.WasteType, req.WeightKg, strings.TrimSpace(req.Description))
	if err != nil {
		return nil, errutil.Internal("failed to record contribution", err)
	}

	s.notifier.Notify(member, models.NotificationPointsEarned, map[string]interface{}{
		"points":     contribution.PointsEarned,
		"weight":     formatWeight(contribution.WeightKg),
		"waste_type": string(contribution.WasteType),
	})
	return contribution, nil
}

// ListContributions returns one page of the member's contributions. Filter
// values outside the known enums are ignored.
func (s *ContributionServiceImpl) ListContributions(ctx context.Context, member *models.Member, query models.ContributionQuery) ([]*models.WasteContribution, *models.Pagination, error) {
	page, limit := models.NormalizePage(query.Page, query.Limit)
	filter := repositories.ContributionFilter{
		MemberID: member.ID,
		Page:     page,
		Limit:    limit,
	}
	if wt := models.WasteType(query.WasteType); wt.Valid() {
		filter.WasteType = wt
	}
	if st := models.ContributionStatus(query.Status); st.Valid() {
		filter.Status = st
	}

	contributions, total, err := s.contributionRepo.FindByMember(ctx, filter)
	if err != nil {
		return nil, nil, errutil.Internal("failed to list contributions", err)
	}
	return contributions, models.NewPagination(page, limit, total), nil
}

// RecordPickupContributions creates one contribution per valid item of a
// completed pickup.
func (s *ContributionServiceImpl) RecordPickupContributions(ctx context.Context, member *models.Member, pickup *models.PickupRequest, items []models.PickupContributionItem) []*models.WasteContribution {
	created := make([]*models.WasteContribution, 0, len(items))
	for i, item := range items {
		if err := validateContribution(item.WasteType, item.WeightKg); err != nil {
			zap.L().Warn("skipping pickup contribution item",
				zap.String("pickup_request_id", pickup.ID.Hex()),
				zap.Int("item", i),
				zap.String("waste_type", string(item.WasteType)),
				zap.Float64("weight_kg", item.WeightKg),
			)
			continue
		}

		description := strings.TrimSpace(item.Description)
		if description == "" {
			description = fmt.Sprintf("Pickup %s", pickup.ID.Hex())
		}

		contribution, err := s.record(ctx, member, &pickup.ID, item.WasteType, item.WeightKg, description)
		if err != nil {
			zap.L().Error("failed to record pickup contribution",
				zap.String("pickup_request_id", pickup.ID.Hex()),
				zap.Int("item", i),
				zap.Error(err),
			)
			continue
		}
		created = append(created, contribution)
	}
	return created
}

// record inserts the contribution and its ledger credit. A failed ledger
// insert is logged and does not undo the contribution.
func (s *ContributionServiceImpl) record(ctx context.Context, member *models.Member, pickupID *primitive.ObjectID, wasteType models.WasteType, weightKg float64, description string) (*models.WasteContribution, error) {
	points := utils.CalculateWastePoints(weightKg, wasteType)
	contribution := &models.WasteContribution{
		MemberID:        member.ID,
		KoperasiID:      member.KoperasiID,
		PickupRequestID: pickupID,
		WasteType:       wasteType,
		WeightKg:        weightKg,
		PointsEarned:    points,
		Status:          models.ContributionStatusCollected,
		Description:     description,
		CreatedAt:       s.now(),
	}
	if err := s.contributionRepo.Create(ctx, contribution); err != nil {
		return nil, err
	}
	metrics.RecordContribution(string(wasteType), weightKg, points)

	contributionID := contribution.ID
	transaction := &models.PointTransaction{
		MemberID:       member.ID,
		Amount:         points,
		Type:           models.PointTransactionEarned,
		Status:         models.PointStatusCompleted,
		ContributionID: &contributionID,
		Description:    fmt.Sprintf("Setoran sampah %s %s kg", wasteType, formatWeight(weightKg)),
		CreatedAt:      contribution.CreatedAt,
	}
	if err := s.pointRepo.Create(ctx, transaction); err != nil {
		zap.L().Error("failed to record points for contribution",
			zap.String("contribution_id", contribution.ID.Hex()),
			zap.String("member_id", member.ID.Hex()),
			zap.Int64("points", points),
			zap.Error(err),
		)
	}
	return contribution, nil
}

func (s *ContributionServiceImpl) findOwnedPickup(ctx context.Context, member *models.Member, rawID string) (*models.PickupRequest, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, errutil.ValidationFailed("invalid pickup_request_id", err,
			errutil.WithDetails(errutil.Detail{Field: "pickup_request_id", Message: "must be a valid id"}))
	}

	pickup, err := s.pickupRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errutil.NotFound("pickup request not found", nil)
		}
		return nil, errutil.Internal("failed to load pickup request", err)
	}
	if pickup.MemberID != member.ID {
		return nil, errutil.NotFound("pickup request not found", nil)
	}
	return pickup, nil
}

func validateContribution(wasteType models.WasteType, weightKg float64) error {
	if !wasteType.Valid() {
		return errutil.ValidationFailed("invalid waste_type", nil, errutil.WithDetails(errutil.Detail{
			Field:   "waste_type",
			Message: "must be one of organic, plastic, paper, metal, glass, electronic",
		}))
	}
	if !validWeight(weightKg) || weightKg == 0 {
		return errutil.ValidationFailed("invalid weight_kg", nil, errutil.WithDetails(errutil.Detail{
			Field:   "weight_kg",
			Message: fmt.Sprintf("must be greater than 0 and at most %s", formatWeight(models.MaxWeightKg)),
		}))
	}
	return nil
}

// validWeight reports whether kg is a finite weight in [0, MaxWeightKg].
func validWeight(kg float64) bool {
	return kg >= 0 && kg <= models.MaxWeightKg
}

func formatWeight(kg float64) string {
	return strconv.FormatFloat(utils.Round2(kg), 'f', -1, 64)
}
