package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/tandaclub/tanda/internal/application/dto"
	"github.com/tandaclub/tanda/internal/domain/model"
	"github.com/tandaclub/tanda/internal/domain/port"
)

// CreateGroupUseCase opens a new savings group with an empty roster.
type CreateGroupUseCase struct {
	groupRepo port.GroupRepository
	publisher port.EventPublisher
}

// NewCreateGroupUseCase wires dependencies.
func NewCreateGroupUseCase(
	groupRepo port.GroupRepository,
	publisher port.EventPublisher,
) *CreateGroupUseCase {
	return &CreateGroupUseCase{
		groupRepo: groupRepo,
		publisher: publisher,
	}
}

// Execute creates the group. Name uniqueness is enforced by the store.
func (uc *CreateGroupUseCase) Execute(
	ctx context.Context,
	req dto.CreateGroupRequest,
) (dto.GroupResponse, error) {
	now := time.Now().UTC()

	// 1. Build the aggregate (validates duration, amount, capacity).
	group, err := model.NewGroup(req.Name, req.DurationWeeks, req.WeeklyAmount, req.MemberLimit, req.CreatorID, now)
	if err != nil {
		return dto.GroupResponse{}, fmt.Errorf("new group: %w", err)
	}

	// 2. Persist.
	if err := uc.groupRepo.Save(ctx, group); err != nil {
		return dto.GroupResponse{}, fmt.Errorf("save group: %w", err)
	}

	// 3. Publish events (best-effort).
	publishEvents(ctx, uc.publisher, group.DomainEvents()...)

	return toGroupResponse(group), nil
}
