package services

import (
	"context"
	"errors"
	"fmt"
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

const requestedDateLayout = "2006-01-02"

var _ PickupService = (*PickupServiceImpl)(nil)

// PickupServiceImpl manages pickup requests and their status lifecycle
type PickupServiceImpl struct {
	pickupRepo    repositories.PickupRequestRepository
	contributions ContributionService
	notifier      Notifier
	loc           *time.Location
	now           func() time.Time
}

// NewPickupService creates a new PickupServiceImpl. Requested dates are
// interpreted in loc.
func NewPickupService(
	pickupRepo repositories.PickupRequestRepository,
	contributions ContributionService,
	notifier Notifier,
	loc *time.Location,
) *PickupServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &PickupServiceImpl{
		pickupRepo:    pickupRepo,
		contributions: contributions,
		notifier:      notifier,
		loc:           loc,
		now:           time.Now,
	}
}

// CreatePickupRequest validates and stores a new pending pickup request
func (s *PickupServiceImpl) CreatePickupRequest(ctx context.Context, member *models.Member, req *models.CreatePickupRequest) (*models.PickupRequest, error) {
	if !member.IsActive() {
		return nil, errutil.Forbidden("member account is not active", nil)
	}

	now := s.now().In(s.loc)
	requestedDate, err := s.parseRequestedDate(req.RequestedDate)
	if err != nil {
		return nil, errutil.ValidationFailed("invalid requested_date", err, errutil.WithDetails(errutil.Detail{
			Field:   "requested_date",
			Message: "must be a date in YYYY-MM-DD format",
		}))
	}
	if requestedDate.Before(utils.StartOfDay(now)) {
		return nil, errutil.ValidationFailed("requested_date cannot be in the past", nil, errutil.WithDetails(errutil.Detail{
			Field:   "requested_date",
			Message: "must be today or later",
		}))
	}

	var details []errutil.Detail
	preferredTime := strings.TrimSpace(req.PreferredTime)
	if preferredTime == "" {
		details = append(details, errutil.Detail{Field: "preferred_time", Message: "is required"})
	}
	address := strings.TrimSpace(req.Address)
	if address == "" {
		details = append(details, errutil.Detail{Field: "address", Message: "is required"})
	}
	if !validWeight(req.EstimatedWeight) || req.EstimatedWeight == 0 {
		details = append(details, errutil.Detail{
			Field:   "estimated_weight",
			Message: fmt.Sprintf("must be greater than 0 and at most %s", formatWeight(models.MaxWeightKg)),
		})
	}
	wasteTypes, ok := dedupeWasteTypes(req.WasteTypes)
	if !ok {
		details = append(details, errutil.Detail{
			Field:   "waste_types",
			Message: "must list at least one of organic, plastic, paper, metal, glass, electronic",
		})
	}
	if len(details) > 0 {
		return nil, errutil.ValidationFailed("invalid pickup request", nil, errutil.WithDetails(details...))
	}

	pickup := &models.PickupRequest{
		MemberID:        member.ID,
		KoperasiID:      member.KoperasiID,
		RequestedDate:   requestedDate,
		PreferredTime:   preferredTime,
		Address:         address,
		EstimatedWeight: req.EstimatedWeight,
		WasteTypes:      wasteTypes,
		Notes:           strings.TrimSpace(req.Notes),
		Status:          models.PickupStatusPending,
		Fee:             utils.CalculatePickupFee(req.EstimatedWeight),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.pickupRepo.Create(ctx, pickup); err != nil {
		return nil, errutil.Internal("failed to create pickup request", err)
	}
	metrics.RecordPickupTransition(string(pickup.Status))

	s.notifier.Notify(member, models.NotificationPickupScheduled, map[string]interface{}{
		"date":   pickup.RequestedDate.Format(requestedDateLayout),
		"time":   pickup.PreferredTime,
		"status": "menunggu konfirmasi",
	})
	return pickup, nil
}

// ListPickupRequests returns one page of the member's pickup requests
func (s *PickupServiceImpl) ListPickupRequests(ctx context.Context, member *models.Member, query models.PickupQuery) ([]*models.PickupRequest, *models.Pagination, error) {
	page, limit := models.NormalizePage(query.Page, query.Limit)
	filter := repositories.PickupRequestFilter{
		MemberID: member.ID,
		Page:     page,
		Limit:    limit,
	}
	if st := models.PickupStatus(query.Status); st.Valid() {
		filter.Status = st
	}

	pickups, total, err := s.pickupRepo.FindByMember(ctx, filter)
	if err != nil {
		return nil, nil, errutil.Internal("failed to list pickup requests", err)
	}
	return pickups, models.NewPagination(page, limit, total), nil
}

// UpdatePickupRequest applies a status change and/or actual weight to one of
// the member's pickups. On the transition into completed, itemised
// contributions are recorded. Contribution failures do not roll back the
// pickup update.
func (s *PickupServiceImpl) UpdatePickupRequest(ctx context.Context, member *models.Member, req *models.UpdatePickupRequest) (*models.PickupRequest, []*models.WasteContribution, error) {
	if !member.IsActive() {
		return nil, nil, errutil.Forbidden("member account is not active", nil)
	}
	if req.Status == nil && req.ActualWeight == nil {
		return nil, nil, errutil.ValidationFailed("nothing to update", nil, errutil.WithDetails(errutil.Detail{
			Field:   "status",
			Message: "status or actual_weight is required",
		}))
	}

	id, err := primitive.ObjectIDFromHex(req.PickupRequestID)
	if err != nil {
		return nil, nil, errutil.ValidationFailed("invalid pickup_request_id", err, errutil.WithDetails(errutil.Detail{
			Field:   "pickup_request_id",
			Message: "must be a valid id",
		}))
	}

	pickup, err := s.pickupRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, errutil.NotFound("pickup request not found", nil)
		}
		return nil, nil, errutil.Internal("failed to load pickup request", err)
	}
	if pickup.MemberID != member.ID {
		return nil, nil, errutil.NotFound("pickup request not found", nil)
	}

	previous := pickup.Status
	if req.Status != nil {
		next := *req.Status
		if !next.Valid() {
			return nil, nil, errutil.ValidationFailed("invalid status", nil, errutil.WithDetails(errutil.Detail{
				Field:   "status",
				Message: "must be one of pending, scheduled, in_progress, completed, cancelled",
			}))
		}
		if next != previous && !previous.CanTransitionTo(next) {
			return nil, nil, errutil.ValidationFailed(fmt.Sprintf("cannot change status from %s to %s", previous, next), nil)
		}
		pickup.Status = next
	}

	if req.ActualWeight != nil {
		weight := *req.ActualWeight
		if !validWeight(weight) {
			return nil, nil, errutil.ValidationFailed("invalid actual_weight", nil, errutil.WithDetails(errutil.Detail{
				Field:   "actual_weight",
				Message: fmt.Sprintf("must be between 0 and %s", formatWeight(models.MaxWeightKg)),
			}))
		}
		if pickup.Status == models.PickupStatusCancelled {
			return nil, nil, errutil.ValidationFailed("cannot record weight on a cancelled pickup", nil)
		}
		pickup.ActualWeight = &weight
	}

	now := s.now()
	completedNow := previous != models.PickupStatusCompleted && pickup.Status == models.PickupStatusCompleted
	if completedNow {
		pickup.CompletedAt = &now
	}
	pickup.UpdatedAt = now

	if err := s.pickupRepo.Update(ctx, pickup, previous); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, errutil.Conflict("pickup request status changed, reload and retry", nil)
		}
		return nil, nil, errutil.Internal("failed to update pickup request", err)
	}

	created := []*models.WasteContribution{}
	if len(req.WasteContributions) > 0 {
		if completedNow {
			created = s.contributions.RecordPickupContributions(ctx, member, pickup, req.WasteContributions)
		} else {
			zap.L().Info("ignoring waste_contributions on non-completing pickup update",
				zap.String("pickup_request_id", pickup.ID.Hex()),
				zap.String("status", string(pickup.Status)),
			)
		}
	}

	if pickup.Status != previous {
		metrics.RecordPickupTransition(string(pickup.Status))
		s.notifyTransition(member, pickup, created)
	}
	return pickup, created, nil
}

func (s *PickupServiceImpl) notifyTransition(member *models.Member, pickup *models.PickupRequest, created []*models.WasteContribution) {
	switch pickup.Status {
	case models.PickupStatusScheduled:
		s.notifier.Notify(member, models.NotificationPickupScheduled, map[string]interface{}{
			"date":   pickup.RequestedDate.In(s.loc).Format(requestedDateLayout),
			"time":   pickup.PreferredTime,
			"status": "terjadwal",
		})
	case models.PickupStatusCompleted:
		var (
			weight float64
			points int64
		)
		for _, c := range created {
			weight += c.WeightKg
			points += c.PointsEarned
		}
		if len(created) == 0 && pickup.ActualWeight != nil {
			weight = *pickup.ActualWeight
		}
		s.notifier.Notify(member, models.NotificationPickupCompleted, map[string]interface{}{
			"weight": formatWeight(weight),
			"points": points,
		})
	}
}

// parseRequestedDate accepts a calendar date or an RFC 3339 timestamp and
// returns midnight of that day in the service location.
func (s *PickupServiceImpl) parseRequestedDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation(requestedDateLayout, value, s.loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return utils.StartOfDay(t.In(s.loc)), nil
}

func dedupeWasteTypes(types []models.WasteType) ([]models.WasteType, bool) {
	if len(types) == 0 {
		return nil, false
	}
	seen := make(map[models.WasteType]bool, len(types))
	out := make([]models.WasteType, 0, len(types))
	for _, t := range types {
		if !t.Valid() {
			return nil, false
		}
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out, true
}
