package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/tandaclub/tanda/internal/application/dto"
	"github.com/tandaclub/tanda/internal/domain/port"
)

// JoinGroupUseCase adds a member to a group's roster.
type JoinGroupUseCase struct {
	groupRepo port.GroupRepository
	members   port.MemberDirectory
	publisher port.EventPublisher
}

// NewJoinGroupUseCase wires dependencies.
func NewJoinGroupUseCase(
	groupRepo port.GroupRepository,
	members port.MemberDirectory,
	publisher port.EventPublisher,
) *JoinGroupUseCase {
	return &JoinGroupUseCase{
		groupRepo: groupRepo,
		members:   members,
		publisher: publisher,
	}
}

// Execute adds the member, enforcing capacity and duplicate checks.
func (uc *JoinGroupUseCase) Execute(
	ctx context.Context,
	req dto.JoinGroupRequest,
) (dto.GroupResponse, error) {
	now := time.Now().UTC()

	// 1. Resolve the member against the identity store.
	if err := ensureMemberExists(ctx, uc.members, req.MemberID); err != nil {
		return dto.GroupResponse{}, err
	}

	// 2. Retrieve the group.
	group, err := uc.groupRepo.FindByID(ctx, req.GroupID)
	if err != nil {
		return dto.GroupResponse{}, fmt.Errorf("find group: %w", err)
	}

	// 3. Add to the roster (capacity and duplicate checks).
	group, err = group.AddMember(req.MemberID, now)
	if err != nil {
		return dto.GroupResponse{}, fmt.Errorf("add member: %w", err)
	}

	// 4. Persist with optimistic concurrency.
	if err := uc.groupRepo.Update(ctx, group); err != nil {
		return dto.GroupResponse{}, fmt.Errorf("save group: %w", err)
	}

	// 5. Publish events (best-effort).
	publishEvents(ctx, uc.publisher, group.DomainEvents()...)

	return toGroupResponse(group), nil
}

// LeaveGroupUseCase removes a member from a group's roster. Members with
// recorded contributions cannot leave.
type LeaveGroupUseCase struct {
	groupRepo        port.GroupRepository
	contributionRepo port.ContributionRepository
	publisher        port.EventPublisher
}

// NewLeaveGroupUseCase wires dependencies.
func NewLeaveGroupUseCase(
	groupRepo port.GroupRepository,
	contributionRepo port.ContributionRepository,
	publisher port.EventPublisher,
) *LeaveGroupUseCase {
	return &LeaveGroupUseCase{
		groupRepo:        groupRepo,
		contributionRepo: contributionRepo,
		publisher:        publisher,
	}
}

// Execute removes the member from the roster.
func (uc *LeaveGroupUseCase) Execute(
	ctx context.Context,
	req dto.LeaveGroupRequest,
) (dto.GroupResponse, error) {
	now := time.Now().UTC()

	// 1. Retrieve the group.
	group, err := uc.groupRepo.FindByID(ctx, req.GroupID)
	if err != nil {
		return dto.GroupResponse{}, fmt.Errorf("find group: %w", err)
	}

	// 2. Contributing members stay on the roster for good.
	hasContributed, err := uc.contributionRepo.ExistsForMember(ctx, req.GroupID, req.MemberID)
	if err != nil {
		return dto.GroupResponse{}, fmt.Errorf("check contributions: %w", err)
	}

	// 3. Remove from the roster.
	group, err = group.RemoveMember(req.MemberID, hasContributed, now)
	if err != nil {
		return dto.GroupResponse{}, fmt.Errorf("remove member: %w", err)
	}

	// 4. Persist with optimistic concurrency.
	if err := uc.groupRepo.Update(ctx, group); err != nil {
		return dto.GroupResponse{}, fmt.Errorf("save group: %w", err)
	}

	// 5. Publish events (best-effort).
	publishEvents(ctx, uc.publisher, group.DomainEvents()...)

	return toGroupResponse(group), nil
}
