package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/tandaclub/tanda/internal/application/dto"
	"github.com/tandaclub/tanda/internal/domain/event"
	"github.com/tandaclub/tanda/internal/domain/model"
	"github.com/tandaclub/tanda/internal/domain/port"
)

// RecordContributionUseCase validates and records a member's weekly payment
// into a group's savings pool.
type RecordContributionUseCase struct {
	groupRepo        port.GroupRepository
	contributionRepo port.ContributionRepository
	publisher        port.EventPublisher
}

// NewRecordContributionUseCase wires dependencies.
func NewRecordContributionUseCase(
	groupRepo port.GroupRepository,
	contributionRepo port.ContributionRepository,
	publisher port.EventPublisher,
) *RecordContributionUseCase {
	return &RecordContributionUseCase{
		groupRepo:        groupRepo,
		contributionRepo: contributionRepo,
		publisher:        publisher,
	}
}

// Execute records the contribution. Validation short-circuits on the first
// failing check: group exists, roster membership, week range, duplicate
// week, amount. The store's unique index closes the duplicate-check race
// between two concurrent requests for the same week.
func (uc *RecordContributionUseCase) Execute(
	ctx context.Context,
	req dto.RecordContributionRequest,
) (dto.ContributionResponse, error) {
	now := time.Now().UTC()

	// 1. Retrieve the group.
	group, err := uc.groupRepo.FindByID(ctx, req.GroupID)
	if err != nil {
		return dto.ContributionResponse{}, fmt.Errorf("find group: %w", err)
	}

	// 2. Look up an existing record for the same (group, member, week).
	alreadyPaid, err := uc.contributionRepo.ExistsForWeek(ctx, req.GroupID, req.MemberID, req.Week)
	if err != nil {
		return dto.ContributionResponse{}, fmt.Errorf("check existing contribution: %w", err)
	}

	// 3. Validate and build the record.
	contribution, err := model.NewContribution(group, req.MemberID, req.Week, req.Amount, alreadyPaid, now)
	if err != nil {
		return dto.ContributionResponse{}, fmt.Errorf("new contribution: %w", err)
	}

	// 4. Persist atomically against the unique index.
	if err := uc.contributionRepo.Save(ctx, contribution); err != nil {
		return dto.ContributionResponse{}, fmt.Errorf("save contribution: %w", err)
	}

	// 5. Publish events (best-effort).
	publishEvents(ctx, uc.publisher, event.NewContributionRecorded(
		contribution.ID, contribution.GroupID, contribution.MemberID,
		contribution.Week, contribution.Amount,
	))

	return toContributionResponse(contribution), nil
}
