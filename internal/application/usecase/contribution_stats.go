package usecase

import (
	"context"
	"fmt"

	"github.com/tandaclub/tanda/internal/application/dto"
	"github.com/tandaclub/tanda/internal/domain/port"
	"github.com/tandaclub/tanda/internal/domain/service"
)

// ContributionStatsUseCase projects a member's payment record within a
// group, reusing the eligibility participation formula.
type ContributionStatsUseCase struct {
	groupRepo        port.GroupRepository
	contributionRepo port.ContributionRepository
	evaluator        *service.EligibilityEvaluator
}

// NewContributionStatsUseCase wires dependencies.
func NewContributionStatsUseCase(
	groupRepo port.GroupRepository,
	contributionRepo port.ContributionRepository,
	evaluator *service.EligibilityEvaluator,
) *ContributionStatsUseCase {
	return &ContributionStatsUseCase{
		groupRepo:        groupRepo,
		contributionRepo: contributionRepo,
		evaluator:        evaluator,
	}
}

// Execute computes the member's stats for the group.
func (uc *ContributionStatsUseCase) Execute(
	ctx context.Context,
	req dto.ContributionStatsRequest,
) (dto.ContributionStatsResponse, error) {
	// 1. Retrieve the group.
	group, err := uc.groupRepo.FindByID(ctx, req.GroupID)
	if err != nil {
		return dto.ContributionStatsResponse{}, fmt.Errorf("find group: %w", err)
	}

	// 2. Load the member's contribution history.
	contributions, err := uc.contributionRepo.FindByGroupAndMember(ctx, req.GroupID, req.MemberID)
	if err != nil {
		return dto.ContributionStatsResponse{}, fmt.Errorf("find contributions: %w", err)
	}

	// 3. Project.
	stats := uc.evaluator.Stats(group, contributions)

	return dto.ContributionStatsResponse{
		GroupID:               req.GroupID,
		MemberID:              req.MemberID,
		TotalContributions:    stats.TotalContributions,
		TotalAmount:           stats.TotalAmount,
		ExpectedContributions: stats.ExpectedContributions,
		ParticipationPct:      stats.ParticipationPct,
		EligibleForLoan:       stats.EligibleForLoan,
	}, nil
}
