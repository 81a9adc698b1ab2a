package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tandaclub/tanda/internal/application/dto"
	"github.com/tandaclub/tanda/internal/application/usecase"
	"github.com/tandaclub/tanda/internal/domain/event"
	"github.com/tandaclub/tanda/internal/domain/model"
	"github.com/tandaclub/tanda/internal/domain/valueobject"
)

func validContributionRequest() dto.RecordContributionRequest {
	return dto.RecordContributionRequest{
		GroupID:  "group-001",
		MemberID: "member-001",
		Week:     3,
		Amount:   decimal.NewFromInt(100),
	}
}

func TestRecordContribution_Execute(t *testing.T) {
	t.Run("successfully records a contribution", func(t *testing.T) {
		groupRepo := &mockGroupRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Group, error) {
				return savingsGroup("member-001", "member-002"), nil
			},
		}
		contribRepo := &mockContributionRepository{}
		publisher := &mockEventPublisher{}

		uc := usecase.NewRecordContributionUseCase(groupRepo, contribRepo, publisher)

		resp, err := uc.Execute(context.Background(), validContributionRequest())

		require.NoError(t, err)
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "group-001", resp.GroupID)
		assert.Equal(t, "member-001", resp.MemberID)
		assert.Equal(t, 3, resp.Week)
		assert.True(t, decimal.NewFromInt(100).Equal(resp.Amount))
		assert.False(t, resp.PaidAt.IsZero())

		require.Len(t, contribRepo.savedContributions, 1)
		assert.NotEmpty(t, publisher.publishedEvents)
	})

	t.Run("fails when group not found", func(t *testing.T) {
		groupRepo := &mockGroupRepository{}
		contribRepo := &mockContributionRepository{}
		publisher := &mockEventPublisher{}

		uc := usecase.NewRecordContributionUseCase(groupRepo, contribRepo, publisher)

		_, err := uc.Execute(context.Background(), validContributionRequest())

		require.Error(t, err)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrNotFound))
		assert.Empty(t, contribRepo.savedContributions)
	})

	t.Run("forbids non-members", func(t *testing.T) {
		groupRepo := &mockGroupRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Group, error) {
				return savingsGroup("member-002"), nil
			},
		}
		contribRepo := &mockContributionRepository{}
		publisher := &mockEventPublisher{}

		uc := usecase.NewRecordContributionUseCase(groupRepo, contribRepo, publisher)

		_, err := uc.Execute(context.Background(), validContributionRequest())

		require.Error(t, err)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrForbidden))
		assert.Empty(t, contribRepo.savedContributions)
	})

	t.Run("rejects a week past the group duration", func(t *testing.T) {
		groupRepo := &mockGroupRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Group, error) {
				return savingsGroup("member-001"), nil
			},
		}
		contribRepo := &mockContributionRepository{}
		publisher := &mockEventPublisher{}

		uc := usecase.NewRecordContributionUseCase(groupRepo, contribRepo, publisher)

		req := validContributionRequest()
		req.Week = 11 // the group runs for 10 weeks
		_, err := uc.Execute(context.Background(), req)

		require.Error(t, err)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrInvalidRange))
	})

	t.Run("rejects a duplicate week", func(t *testing.T) {
		groupRepo := &mockGroupRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Group, error) {
				return savingsGroup("member-001"), nil
			},
		}
		contribRepo := &mockContributionRepository{
			existsForWeekFunc: func(ctx context.Context, groupID, memberID string, week int) (bool, error) {
				return true, nil
			},
		}
		publisher := &mockEventPublisher{}

		uc := usecase.NewRecordContributionUseCase(groupRepo, contribRepo, publisher)

		_, err := uc.Execute(context.Background(), validContributionRequest())

		require.Error(t, err)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrConflict))
		assert.Empty(t, contribRepo.savedContributions)
	})

	t.Run("rejects a wrong amount", func(t *testing.T) {
		groupRepo := &mockGroupRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Group, error) {
				return savingsGroup("member-001"), nil
			},
		}
		contribRepo := &mockContributionRepository{}
		publisher := &mockEventPublisher{}

		uc := usecase.NewRecordContributionUseCase(groupRepo, contribRepo, publisher)

		req := validContributionRequest()
		req.Amount = decimal.NewFromInt(80)
		_, err := uc.Execute(context.Background(), req)

		require.Error(t, err)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrInvalidRange))
		assert.Contains(t, err.Error(), "100")
	})

	t.Run("duplicate check runs before the amount check", func(t *testing.T) {
		groupRepo := &mockGroupRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Group, error) {
				return savingsGroup("member-001"), nil
			},
		}
		contribRepo := &mockContributionRepository{
			existsForWeekFunc: func(ctx context.Context, groupID, memberID string, week int) (bool, error) {
				return true, nil
			},
		}
		publisher := &mockEventPublisher{}

		uc := usecase.NewRecordContributionUseCase(groupRepo, contribRepo, publisher)

		req := validContributionRequest()
		req.Amount = decimal.NewFromInt(80) // wrong amount AND duplicate week
		_, err := uc.Execute(context.Background(), req)

		require.Error(t, err)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrConflict))
	})

	t.Run("fails when saving fails", func(t *testing.T) {
		groupRepo := &mockGroupRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Group, error) {
				return savingsGroup("member-001"), nil
			},
		}
		contribRepo := &mockContributionRepository{
			saveFunc: func(ctx context.Context, c model.Contribution) error {
				return fmt.Errorf("database unavailable")
			},
		}
		publisher := &mockEventPublisher{}

		uc := usecase.NewRecordContributionUseCase(groupRepo, contribRepo, publisher)

		_, err := uc.Execute(context.Background(), validContributionRequest())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "save contribution")
	})

	t.Run("publish failure does not fail the operation", func(t *testing.T) {
		groupRepo := &mockGroupRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Group, error) {
				return savingsGroup("member-001"), nil
			},
		}
		contribRepo := &mockContributionRepository{}
		publisher := &mockEventPublisher{
			publishFunc: func(ctx context.Context, _ ...event.DomainEvent) error {
				return fmt.Errorf("broker unavailable")
			},
		}

		uc := usecase.NewRecordContributionUseCase(groupRepo, contribRepo, publisher)

		_, err := uc.Execute(context.Background(), validContributionRequest())

		require.NoError(t, err)
		require.Len(t, contribRepo.savedContributions, 1)
	})
}
