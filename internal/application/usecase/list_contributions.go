package usecase

import (
	"context"
	"fmt"

	"github.com/tandaclub/tanda/internal/application/dto"
	"github.com/tandaclub/tanda/internal/domain/port"
)

// GetContributionUseCase retrieves a single contribution.
type GetContributionUseCase struct {
	contributionRepo port.ContributionRepository
}

// NewGetContributionUseCase wires dependencies.
func NewGetContributionUseCase(contributionRepo port.ContributionRepository) *GetContributionUseCase {
	return &GetContributionUseCase{contributionRepo: contributionRepo}
}

// Execute returns the contribution by id.
func (uc *GetContributionUseCase) Execute(ctx context.Context, id string) (dto.ContributionResponse, error) {
	c, err := uc.contributionRepo.FindByID(ctx, id)
	if err != nil {
		return dto.ContributionResponse{}, fmt.Errorf("find contribution: %w", err)
	}
	return toContributionResponse(c), nil
}

// ListContributionsUseCase lists contributions by different dimensions.
type ListContributionsUseCase struct {
	contributionRepo port.ContributionRepository
}

// NewListContributionsUseCase wires dependencies.
func NewListContributionsUseCase(contributionRepo port.ContributionRepository) *ListContributionsUseCase {
	return &ListContributionsUseCase{contributionRepo: contributionRepo}
}

// Execute returns every recorded contribution.
func (uc *ListContributionsUseCase) Execute(ctx context.Context) ([]dto.ContributionResponse, error) {
	cs, err := uc.contributionRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contributions: %w", err)
	}
	return toContributionResponses(cs), nil
}

// ByMember returns one member's contributions across all groups.
func (uc *ListContributionsUseCase) ByMember(ctx context.Context, memberID string) ([]dto.ContributionResponse, error) {
	cs, err := uc.contributionRepo.FindByMemberID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("list contributions by member: %w", err)
	}
	return toContributionResponses(cs), nil
}

// ByGroup returns a group's full contribution history.
func (uc *ListContributionsUseCase) ByGroup(ctx context.Context, groupID string) ([]dto.ContributionResponse, error) {
	cs, err := uc.contributionRepo.FindByGroupID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list contributions by group: %w", err)
	}
	return toContributionResponses(cs), nil
}
