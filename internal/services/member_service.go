package services

import (
	"context"
	"errors"
	"time"

	"github.com/kopdigital/koperasi-backend/internal/models"
	"github.com/kopdigital/koperasi-backend/internal/repositories"
	"github.com/kopdigital/koperasi-backend/pkg/errutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var _ MemberService = (*MemberServiceImpl)(nil)

// MemberServiceImpl handles member lookups and administrative status changes
type MemberServiceImpl struct {
	memberRepo repositories.MemberRepository
	notifier   Notifier
	now        func() time.Time
}

// NewMemberService creates a new MemberServiceImpl
func NewMemberService(memberRepo repositories.MemberRepository, notifier Notifier) *MemberServiceImpl {
	return &MemberServiceImpl{
		memberRepo: memberRepo,
		notifier:   notifier,
		now:        time.Now,
	}
}

// GetByUserID resolves the member linked to an authenticated user id
func (s *MemberServiceImpl) GetByUserID(ctx context.Context, userID string) (*models.Member, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errutil.Unauthorized("invalid session", err)
	}

	member, err := s.memberRepo.FindByUserID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errutil.NotFound("member not found", nil)
		}
		return nil, errutil.Internal("failed to load member", err)
	}
	return member, nil
}

// ListMembers returns one page of members, optionally filtered by status
func (s *MemberServiceImpl) ListMembers(ctx context.Context, status models.MemberStatus, page, limit int) ([]*models.Member, *models.Pagination, error) {
	if status != "" && !status.Valid() {
		return nil, nil, errutil.ValidationFailed("invalid status", nil, errutil.WithDetails(errutil.Detail{
			Field:   "status",
			Message: "must be one of pending, active, inactive, suspended",
		}))
	}

	page, limit = models.NormalizePage(page, limit)
	members, total, err := s.memberRepo.FindAll(ctx, status, page, limit)
	if err != nil {
		return nil, nil, errutil.Internal("failed to list members", err)
	}
	return members, models.NewPagination(page, limit, total), nil
}

// UpdateStatus moves a member to a new status. Activation stamps joined_at
// the first time and notifies the member.
func (s *MemberServiceImpl) UpdateStatus(ctx context.Context, memberID string, status models.MemberStatus) (*models.Member, error) {
	if !status.Valid() {
		return nil, errutil.ValidationFailed("invalid status", nil, errutil.WithDetails(errutil.Detail{
			Field:   "status",
			Message: "must be one of pending, active, inactive, suspended",
		}))
	}

	id, err := primitive.ObjectIDFromHex(memberID)
	if err != nil {
		return nil, errutil.BadRequest("invalid member id", err)
	}

	member, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errutil.NotFound("member not found", nil)
		}
		return nil, errutil.Internal("failed to load member", err)
	}
	if member.Status == status {
		return member, nil
	}

	previous := member.Status
	member.Status = status
	if status == models.MemberStatusActive && member.JoinedAt == nil {
		joined := s.now()
		member.JoinedAt = &joined
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errutil.NotFound("member not found", nil)
		}
		return nil, errutil.Internal("failed to update member", err)
	}

	zap.L().Info("member status changed",
		zap.String("member_id", member.ID.Hex()),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
	)

	if status == models.MemberStatusActive && previous == models.MemberStatusPending {
		s.notifier.Notify(member, models.NotificationMemberApproved, map[string]interface{}{
			"member_number": member.MemberNumber,
		})
	}
	return member, nil
}
