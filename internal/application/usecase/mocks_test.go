package usecase_test

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tandaclub/tanda/internal/domain/event"
	"github.com/tandaclub/tanda/internal/domain/model"
	"github.com/tandaclub/tanda/internal/domain/valueobject"
)

// --- Mock implementations ---

type mockGroupRepository struct {
	saveFunc           func(ctx context.Context, g model.Group) error
	updateFunc         func(ctx context.Context, g model.Group) error
	deleteFunc         func(ctx context.Context, id string) error
	findByIDFunc       func(ctx context.Context, id string) (model.Group, error)
	findByMemberIDFunc func(ctx context.Context, memberID string) ([]model.Group, error)
	savedGroups        []model.Group
	updatedGroups      []model.Group
	deletedIDs         []string
}

func (m *mockGroupRepository) Save(ctx context.Context, g model.Group) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, g)
	}
	m.savedGroups = append(m.savedGroups, g)
	return nil
}

func (m *mockGroupRepository) Update(ctx context.Context, g model.Group) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, g)
	}
	m.updatedGroups = append(m.updatedGroups, g)
	return nil
}

func (m *mockGroupRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

func (m *mockGroupRepository) FindByID(ctx context.Context, id string) (model.Group, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Group{}, valueobject.NotFoundf("group %s not found", id)
}

func (m *mockGroupRepository) FindByMemberID(ctx context.Context, memberID string) ([]model.Group, error) {
	if m.findByMemberIDFunc != nil {
		return m.findByMemberIDFunc(ctx, memberID)
	}
	return nil, nil
}

func (m *mockGroupRepository) FindAll(_ context.Context) ([]model.Group, error) {
	return nil, nil
}

type mockContributionRepository struct {
	saveFunc                     func(ctx context.Context, c model.Contribution) error
	deleteFunc                   func(ctx context.Context, id string) error
	findByIDFunc                 func(ctx context.Context, id string) (model.Contribution, error)
	findByGroupAndMemberFunc     func(ctx context.Context, groupID, memberID string) ([]model.Contribution, error)
	countByGroupAndMemberFunc    func(ctx context.Context, groupID, memberID string) (int, error)
	existsForWeekFunc            func(ctx context.Context, groupID, memberID string, week int) (bool, error)
	existsForGroupFunc           func(ctx context.Context, groupID string) (bool, error)
	existsForMemberFunc          func(ctx context.Context, groupID, memberID string) (bool, error)
	findLatestByGroupAndMemberFn func(ctx context.Context, groupID, memberID string) (model.Contribution, error)
	savedContributions           []model.Contribution
	deletedIDs                   []string
}

func (m *mockContributionRepository) Save(ctx context.Context, c model.Contribution) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, c)
	}
	m.savedContributions = append(m.savedContributions, c)
	return nil
}

func (m *mockContributionRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

func (m *mockContributionRepository) FindByID(ctx context.Context, id string) (model.Contribution, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Contribution{}, valueobject.NotFoundf("contribution %s not found", id)
}

func (m *mockContributionRepository) FindByGroupID(_ context.Context, _ string) ([]model.Contribution, error) {
	return nil, nil
}

func (m *mockContributionRepository) FindByGroupAndMember(ctx context.Context, groupID, memberID string) ([]model.Contribution, error) {
	if m.findByGroupAndMemberFunc != nil {
		return m.findByGroupAndMemberFunc(ctx, groupID, memberID)
	}
	return nil, nil
}

func (m *mockContributionRepository) CountByGroupAndMember(ctx context.Context, groupID, memberID string) (int, error) {
	if m.countByGroupAndMemberFunc != nil {
		return m.countByGroupAndMemberFunc(ctx, groupID, memberID)
	}
	return 0, nil
}

func (m *mockContributionRepository) ExistsForWeek(ctx context.Context, groupID, memberID string, week int) (bool, error) {
	if m.existsForWeekFunc != nil {
		return m.existsForWeekFunc(ctx, groupID, memberID, week)
	}
	return false, nil
}

func (m *mockContributionRepository) ExistsForGroup(ctx context.Context, groupID string) (bool, error) {
	if m.existsForGroupFunc != nil {
		return m.existsForGroupFunc(ctx, groupID)
	}
	return false, nil
}

func (m *mockContributionRepository) ExistsForMember(ctx context.Context, groupID, memberID string) (bool, error) {
	if m.existsForMemberFunc != nil {
		return m.existsForMemberFunc(ctx, groupID, memberID)
	}
	return false, nil
}

func (m *mockContributionRepository) FindLatestByGroupAndMember(ctx context.Context, groupID, memberID string) (model.Contribution, error) {
	if m.findLatestByGroupAndMemberFn != nil {
		return m.findLatestByGroupAndMemberFn(ctx, groupID, memberID)
	}
	return model.Contribution{}, valueobject.NotFoundf("no contributions for member %s in group %s", memberID, groupID)
}

func (m *mockContributionRepository) FindAll(_ context.Context) ([]model.Contribution, error) {
	return nil, nil
}

func (m *mockContributionRepository) FindByMemberID(_ context.Context, _ string) ([]model.Contribution, error) {
	return nil, nil
}

type mockLoanRepository struct {
	saveFunc        func(ctx context.Context, loan model.Loan) error
	findByIDFunc    func(ctx context.Context, id string) (model.Loan, error)
	hasOpenLoanFunc func(ctx context.Context, memberID string) (bool, error)
	savedLoans      []model.Loan
}

func (m *mockLoanRepository) Save(ctx context.Context, loan model.Loan) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, loan)
	}
	m.savedLoans = append(m.savedLoans, loan)
	return nil
}

func (m *mockLoanRepository) FindByID(ctx context.Context, id string) (model.Loan, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Loan{}, valueobject.NotFoundf("loan %s not found", id)
}

func (m *mockLoanRepository) FindByMemberID(_ context.Context, _ string) ([]model.Loan, error) {
	return nil, nil
}

func (m *mockLoanRepository) FindAll(_ context.Context) ([]model.Loan, error) {
	return nil, nil
}

func (m *mockLoanRepository) HasOpenLoan(ctx context.Context, memberID string) (bool, error) {
	if m.hasOpenLoanFunc != nil {
		return m.hasOpenLoanFunc(ctx, memberID)
	}
	return false, nil
}

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

type mockMemberDirectory struct {
	existsFunc func(ctx context.Context, memberID string) (bool, error)
}

func (m *mockMemberDirectory) Exists(ctx context.Context, memberID string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, memberID)
	}
	return true, nil
}

// --- Fixtures ---

func savingsGroup(members ...string) model.Group {
	now := time.Now().UTC()
	return model.ReconstructGroup(
		"group-001", "Vecinos del Centro",
		10, decimal.NewFromInt(100), 10,
		members, "creator-001",
		1, now, now,
	)
}

func pendingLoan() model.Loan {
	now := time.Now().UTC()
	installment := model.WeeklyInstallment(decimal.NewFromInt(1000), 10, model.DefaultInterestPct)
	return model.ReconstructLoan(
		"loan-001", "member-001",
		decimal.NewFromInt(1000), 10,
		installment, model.DefaultInterestPct,
		model.TotalPayable(installment, 10),
		valueobject.LoanStatusPending,
		nil,
		1, now, now,
	)
}

func approvedLoan() model.Loan {
	loan, err := pendingLoan().Approve(time.Now().UTC())
	if err != nil {
		panic(fmt.Sprintf("approve fixture loan: %v", err))
	}
	return loan.ClearEvents()
}
