package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tandaclub/tanda/internal/application/dto"
	"github.com/tandaclub/tanda/internal/application/usecase"
	"github.com/tandaclub/tanda/internal/domain/model"
	"github.com/tandaclub/tanda/internal/domain/valueobject"
)

func TestCreateGroup_Execute(t *testing.T) {
	t.Run("creates a group with an empty roster", func(t *testing.T) {
		groupRepo := &mockGroupRepository{}
		publisher := &mockEventPublisher{}

		uc := usecase.NewCreateGroupUseCase(groupRepo, publisher)

		resp, err := uc.Execute(context.Background(), dto.CreateGroupRequest{
			Name:          "Vecinos del Centro",
			DurationWeeks: 10,
			WeeklyAmount:  decimal.NewFromInt(100),
			MemberLimit:   10,
			CreatorID:     "creator-001",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.ID)
		assert.Empty(t, resp.MemberIDs)
		assert.Equal(t, "creator-001", resp.CreatorID)

		require.Len(t, groupRepo.savedGroups, 1)
		assert.NotEmpty(t, publisher.publishedEvents)
	})

	t.Run("rejects a duration below four weeks", func(t *testing.T) {
		uc := usecase.NewCreateGroupUseCase(&mockGroupRepository{}, &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.CreateGroupRequest{
			Name:          "Corto",
			DurationWeeks: 3,
			WeeklyAmount:  decimal.NewFromInt(100),
			MemberLimit:   10,
			CreatorID:     "creator-001",
		})

		require.Error(t, err)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrInvalidRange))
	})
}

func TestJoinGroup_Execute(t *testing.T) {
	t.Run("adds the member to the roster", func(t *testing.T) {
		groupRepo := &mockGroupRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Group, error) {
				return savingsGroup("member-001"), nil
			},
		}
		publisher := &mockEventPublisher{}

		uc := usecase.NewJoinGroupUseCase(groupRepo, &mockMemberDirectory{}, publisher)

		resp, err := uc.Execute(context.Background(), dto.JoinGroupRequest{
			GroupID: "group-001", MemberID: "member-002",
		})

		require.NoError(t, err)
		assert.Contains(t, resp.MemberIDs, "member-002")
		require.Len(t, groupRepo.updatedGroups, 1)
		assert.NotEmpty(t, publisher.publishedEvents)
	})

	t.Run("rejects an unknown member", func(t *testing.T) {
		members := &mockMemberDirectory{
			existsFunc: func(ctx context.Context, memberID string) (bool, error) {
				return false, nil
			},
		}
		uc := usecase.NewJoinGroupUseCase(&mockGroupRepository{}, members, &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.JoinGroupRequest{
			GroupID: "group-001", MemberID: "ghost",
		})

		require.Error(t, err)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrNotFound))
	})

	t.Run("rejects a full group", func(t *testing.T) {
		full := model.ReconstructGroup("group-001", "Lleno", 10, decimal.NewFromInt(100), 2,
			[]string{"member-001", "member-002"}, "creator-001", 1,
			savingsGroup().CreatedAt(), savingsGroup().UpdatedAt())
		groupRepo := &mockGroupRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Group, error) {
				return full, nil
			},
		}
		uc := usecase.NewJoinGroupUseCase(groupRepo, &mockMemberDirectory{}, &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.JoinGroupRequest{
			GroupID: "group-001", MemberID: "member-003",
		})

		require.Error(t, err)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrConflict))
		assert.Empty(t, groupRepo.updatedGroups)
	})

	t.Run("rejects a duplicate member", func(t *testing.T) {
		groupRepo := &mockGroupRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Group, error) {
				return savingsGroup("member-001"), nil
			},
		}
		uc := usecase.NewJoinGroupUseCase(groupRepo, &mockMemberDirectory{}, &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.JoinGroupRequest{
			GroupID: "group-001", MemberID: "member-001",
		})

		require.Error(t, err)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrConflict))
	})
}

func TestLeaveGroup_Execute(t *testing.T) {
	t.Run("removes a member without contributions", func(t *testing.T) {
		groupRepo := &mockGroupRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Group, error) {
				return savingsGroup("member-001", "member-002"), nil
			},
		}
		publisher := &mockEventPublisher{}

		uc := usecase.NewLeaveGroupUseCase(groupRepo, &mockContributionRepository{}, publisher)

		resp, err := uc.Execute(context.Background(), dto.LeaveGroupRequest{
			GroupID: "group-001", MemberID: "member-002",
		})

		require.NoError(t, err)
		assert.NotContains(t, resp.MemberIDs, "member-002")
		require.Len(t, groupRepo.updatedGroups, 1)
	})

	t.Run("contributing members cannot leave", func(t *testing.T) {
		groupRepo := &mockGroupRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Group, error) {
				return savingsGroup("member-001"), nil
			},
		}
		contribRepo := &mockContributionRepository{
			existsForMemberFunc: func(ctx context.Context, groupID, memberID string) (bool, error) {
				return true, nil
			},
		}
		uc := usecase.NewLeaveGroupUseCase(groupRepo, contribRepo, &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.LeaveGroupRequest{
			GroupID: "group-001", MemberID: "member-001",
		})

		require.Error(t, err)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrConflict))
		assert.Empty(t, groupRepo.updatedGroups)
	})

	t.Run("removing a non-member is not found", func(t *testing.T) {
		groupRepo := &mockGroupRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Group, error) {
				return savingsGroup("member-001"), nil
			},
		}
		uc := usecase.NewLeaveGroupUseCase(groupRepo, &mockContributionRepository{}, &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.LeaveGroupRequest{
			GroupID: "group-001", MemberID: "member-999",
		})

		require.Error(t, err)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrNotFound))
	})
}

func TestUpdateGroup_Execute(t *testing.T) {
	t.Run("edits an untouched group", func(t *testing.T) {
		groupRepo := &mockGroupRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Group, error) {
				return savingsGroup("member-001"), nil
			},
		}
		uc := usecase.NewUpdateGroupUseCase(groupRepo, &mockContributionRepository{})

		resp, err := uc.Execute(context.Background(), dto.UpdateGroupRequest{
			GroupID: "group-001", Name: "Nuevo Nombre",
		})

		require.NoError(t, err)
		assert.Equal(t, "Nuevo Nombre", resp.Name)
		assert.Equal(t, 10, resp.DurationWeeks) // zero-valued fields keep current values
		require.Len(t, groupRepo.updatedGroups, 1)
	})

	t.Run("a group with contributions is immutable", func(t *testing.T) {
		groupRepo := &mockGroupRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Group, error) {
				return savingsGroup("member-001"), nil
			},
		}
		contribRepo := &mockContributionRepository{
			existsForGroupFunc: func(ctx context.Context, groupID string) (bool, error) {
				return true, nil
			},
		}
		uc := usecase.NewUpdateGroupUseCase(groupRepo, contribRepo)

		_, err := uc.Execute(context.Background(), dto.UpdateGroupRequest{
			GroupID: "group-001", Name: "Nuevo Nombre",
		})

		require.Error(t, err)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrConflict))
		assert.Empty(t, groupRepo.updatedGroups)
	})
}

func TestDeleteGroup_Execute(t *testing.T) {
	t.Run("deletes a group without history", func(t *testing.T) {
		groupRepo := &mockGroupRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Group, error) {
				return savingsGroup(), nil
			},
		}
		uc := usecase.NewDeleteGroupUseCase(groupRepo, &mockContributionRepository{})

		err := uc.Execute(context.Background(), "group-001")

		require.NoError(t, err)
		assert.Equal(t, []string{"group-001"}, groupRepo.deletedIDs)
	})

	t.Run("a group with contributions cannot be deleted", func(t *testing.T) {
		groupRepo := &mockGroupRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Group, error) {
				return savingsGroup(), nil
			},
		}
		contribRepo := &mockContributionRepository{
			existsForGroupFunc: func(ctx context.Context, groupID string) (bool, error) {
				return true, nil
			},
		}
		uc := usecase.NewDeleteGroupUseCase(groupRepo, contribRepo)

		err := uc.Execute(context.Background(), "group-001")

		require.Error(t, err)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrConflict))
		assert.Empty(t, groupRepo.deletedIDs)
	})
}
