package usecase

import (
	"context"
	"fmt"

	"github.com/tandaclub/tanda/internal/application/dto"
	"github.com/tandaclub/tanda/internal/domain/port"
)

// GetGroupUseCase retrieves a single group.
type GetGroupUseCase struct {
	groupRepo port.GroupRepository
}

// NewGetGroupUseCase wires dependencies.
func NewGetGroupUseCase(groupRepo port.GroupRepository) *GetGroupUseCase {
	return &GetGroupUseCase{groupRepo: groupRepo}
}

// Execute returns the group by id.
func (uc *GetGroupUseCase) Execute(ctx context.Context, groupID string) (dto.GroupResponse, error) {
	group, err := uc.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		return dto.GroupResponse{}, fmt.Errorf("find group: %w", err)
	}
	return toGroupResponse(group), nil
}

// ListGroupsUseCase lists groups.
type ListGroupsUseCase struct {
	groupRepo port.GroupRepository
}

// NewListGroupsUseCase wires dependencies.
func NewListGroupsUseCase(groupRepo port.GroupRepository) *ListGroupsUseCase {
	return &ListGroupsUseCase{groupRepo: groupRepo}
}

// Execute returns all groups, oldest first.
func (uc *ListGroupsUseCase) Execute(ctx context.Context) ([]dto.GroupResponse, error) {
	groups, err := uc.groupRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	out := make([]dto.GroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroupResponse(g))
	}
	return out, nil
}

// ByMember returns the groups a member belongs to, oldest first.
func (uc *ListGroupsUseCase) ByMember(ctx context.Context, memberID string) ([]dto.GroupResponse, error) {
	groups, err := uc.groupRepo.FindByMemberID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("list groups by member: %w", err)
	}
	out := make([]dto.GroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroupResponse(g))
	}
	return out, nil
}
