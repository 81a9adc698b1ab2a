package usecase

import (
	"context"
	"fmt"

	"github.com/tandaclub/tanda/internal/application/dto"
	"github.com/tandaclub/tanda/internal/domain/event"
	"github.com/tandaclub/tanda/internal/domain/port"
	"github.com/tandaclub/tanda/internal/domain/valueobject"
)

// DeleteContributionUseCase removes a contribution. Only the member's most
// recent contribution in a group may be deleted, so the payment trail never
// develops gaps that would invalidate earlier eligibility computations.
type DeleteContributionUseCase struct {
	contributionRepo port.ContributionRepository
	publisher        port.EventPublisher
}

// NewDeleteContributionUseCase wires dependencies.
func NewDeleteContributionUseCase(
	contributionRepo port.ContributionRepository,
	publisher port.EventPublisher,
) *DeleteContributionUseCase {
	return &DeleteContributionUseCase{
		contributionRepo: contributionRepo,
		publisher:        publisher,
	}
}

// Execute deletes the contribution identified by the request.
func (uc *DeleteContributionUseCase) Execute(
	ctx context.Context,
	req dto.DeleteContributionRequest,
) error {
	// 1. Retrieve the target.
	target, err := uc.contributionRepo.FindByID(ctx, req.ContributionID)
	if err != nil {
		return fmt.Errorf("find contribution: %w", err)
	}

	// 2. Only the owning member or an administrator may remove it.
	if req.RequesterID != target.MemberID && req.RequesterRole != roleAdmin {
		return valueobject.Forbiddenf("you cannot delete another member's contribution")
	}

	// 3. Only the chronologically latest contribution may go.
	latest, err := uc.contributionRepo.FindLatestByGroupAndMember(ctx, target.GroupID, target.MemberID)
	if err != nil {
		return fmt.Errorf("find latest contribution: %w", err)
	}
	if latest.ID != target.ID {
		return valueobject.Forbiddenf("only the most recent contribution can be deleted")
	}

	// 4. Delete.
	if err := uc.contributionRepo.Delete(ctx, target.ID); err != nil {
		return fmt.Errorf("delete contribution: %w", err)
	}

	// 5. Publish events (best-effort).
	publishEvents(ctx, uc.publisher, event.NewContributionDeleted(
		target.ID, target.GroupID, target.MemberID, target.Week,
	))

	return nil
}
