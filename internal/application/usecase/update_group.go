package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/tandaclub/tanda/internal/application/dto"
	"github.com/tandaclub/tanda/internal/domain/port"
	"github.com/tandaclub/tanda/internal/domain/valueobject"
)

// UpdateGroupUseCase applies administrative edits to a group. Groups with
// recorded contributions are immutable.
type UpdateGroupUseCase struct {
	groupRepo        port.GroupRepository
	contributionRepo port.ContributionRepository
}

// NewUpdateGroupUseCase wires dependencies.
func NewUpdateGroupUseCase(
	groupRepo port.GroupRepository,
	contributionRepo port.ContributionRepository,
) *UpdateGroupUseCase {
	return &UpdateGroupUseCase{
		groupRepo:        groupRepo,
		contributionRepo: contributionRepo,
	}
}

// Execute updates the group's attributes. Zero-valued request fields keep
// the current value.
func (uc *UpdateGroupUseCase) Execute(
	ctx context.Context,
	req dto.UpdateGroupRequest,
) (dto.GroupResponse, error) {
	now := time.Now().UTC()

	// 1. Retrieve the group.
	group, err := uc.groupRepo.FindByID(ctx, req.GroupID)
	if err != nil {
		return dto.GroupResponse{}, fmt.Errorf("find group: %w", err)
	}

	// 2. Groups become immutable once any contribution exists.
	hasContributions, err := uc.contributionRepo.ExistsForGroup(ctx, req.GroupID)
	if err != nil {
		return dto.GroupResponse{}, fmt.Errorf("check contributions: %w", err)
	}

	// 3. Apply the edit.
	group, err = group.Update(req.Name, req.DurationWeeks, req.WeeklyAmount, req.MemberLimit, hasContributions, now)
	if err != nil {
		return dto.GroupResponse{}, fmt.Errorf("update group: %w", err)
	}

	// 4. Persist with optimistic concurrency.
	if err := uc.groupRepo.Update(ctx, group); err != nil {
		return dto.GroupResponse{}, fmt.Errorf("save group: %w", err)
	}

	return toGroupResponse(group), nil
}

// DeleteGroupUseCase removes a group that has no contribution history.
type DeleteGroupUseCase struct {
	groupRepo        port.GroupRepository
	contributionRepo port.ContributionRepository
}

// NewDeleteGroupUseCase wires dependencies.
func NewDeleteGroupUseCase(
	groupRepo port.GroupRepository,
	contributionRepo port.ContributionRepository,
) *DeleteGroupUseCase {
	return &DeleteGroupUseCase{
		groupRepo:        groupRepo,
		contributionRepo: contributionRepo,
	}
}

// Execute deletes the group unless contributions have been recorded.
func (uc *DeleteGroupUseCase) Execute(ctx context.Context, groupID string) error {
	// 1. Ensure the group exists.
	if _, err := uc.groupRepo.FindByID(ctx, groupID); err != nil {
		return fmt.Errorf("find group: %w", err)
	}

	// 2. Groups with history are never physically deleted.
	hasContributions, err := uc.contributionRepo.ExistsForGroup(ctx, groupID)
	if err != nil {
		return fmt.Errorf("check contributions: %w", err)
	}
	if hasContributions {
		return valueobject.Conflictf("the group has recorded contributions and cannot be deleted")
	}

	// 3. Delete.
	if err := uc.groupRepo.Delete(ctx, groupID); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return nil
}
