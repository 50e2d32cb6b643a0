package services

import (
	"context"
	"time"

	"github.com/kopdigital/koperasi-backend/internal/models"
	"github.com/kopdigital/koperasi-backend/internal/repositories"
	"github.com/kopdigital/koperasi-backend/internal/utils"
	"github.com/kopdigital/koperasi-backend/pkg/errutil"
)

var _ SummaryService = (*SummaryServiceImpl)(nil)

// SummaryServiceImpl derives balances and impact figures from the ledger and
// contribution history on every call.
type SummaryServiceImpl struct {
	contributionRepo repositories.WasteContributionRepository
	pointRepo        repositories.PointTransactionRepository
	loc              *time.Location
	now              func() time.Time
}

// NewSummaryService creates a new SummaryServiceImpl
func NewSummaryService(
	contributionRepo repositories.WasteContributionRepository,
	pointRepo repositories.PointTransactionRepository,
	loc *time.Location,
) *SummaryServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &SummaryServiceImpl{
		contributionRepo: contributionRepo,
		pointRepo:        pointRepo,
		loc:              loc,
		now:              time.Now,
	}
}

// GetSummary returns the member's points balance, contributed weight and the
// estimated environmental impact.
func (s *SummaryServiceImpl) GetSummary(ctx context.Context, member *models.Member) (*models.WasteSummary, error) {
	transactions, err := s.pointRepo.FindByMemberID(ctx, member.ID)
	if err != nil {
		return nil, errutil.Internal("failed to load points transactions", err)
	}
	contributions, err := s.contributionRepo.FindAllByMemberID(ctx, member.ID)
	if err != nil {
		return nil, errutil.Internal("failed to load contributions", err)
	}

	summary := &models.WasteSummary{
		WeightByType: make(map[models.WasteType]float64),
	}

	monthStart := utils.StartOfMonth(s.now().In(s.loc))
	for _, tx := range transactions {
		if tx.Status != models.PointStatusCompleted {
			continue
		}
		switch {
		case tx.Amount > 0:
			summary.TotalPoints += tx.Amount
			if !tx.CreatedAt.Before(monthStart) {
				summary.CurrentMonthPoints += tx.Amount
			}
		case tx.Amount < 0:
			summary.RedeemedPoints += -tx.Amount
		}
	}
	summary.AvailablePoints = summary.TotalPoints - summary.RedeemedPoints

	var totalWeight float64
	for _, c := range contributions {
		totalWeight += c.WeightKg
		summary.WeightByType[c.WasteType] += c.WeightKg
	}
	for wt, kg := range summary.WeightByType {
		summary.WeightByType[wt] = utils.Round2(kg)
	}
	summary.TotalContributions = len(contributions)
	summary.TotalWeightKg = utils.Round2(totalWeight)
	summary.EnvironmentalImpact = utils.CalculateEnvironmentalImpact(totalWeight)

	return summary, nil
}

// ListPointTransactions returns one page of the member's points ledger
func (s *SummaryServiceImpl) ListPointTransactions(ctx context.Context, member *models.Member, page, limit int) ([]*models.PointTransaction, *models.Pagination, error) {
	page, limit = models.NormalizePage(page, limit)
	transactions, total, err := s.pointRepo.FindPageByMemberID(ctx, member.ID, page, limit)
	if err != nil {
		return nil, nil, errutil.Internal("failed to list points transactions", err)
	}
	return transactions, models.NewPagination(page, limit, total), nil
}
