package port

import (
	"context"

	"github.com/tandaclub/tanda/internal/domain/event"
	"github.com/tandaclub/tanda/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// GroupRepository persists and retrieves savings groups.
type GroupRepository interface {
	Save(ctx context.Context, group model.Group) error
	// Update persists roster or attribute changes using the group's version
	// for optimistic concurrency control.
	Update(ctx context.Context, group model.Group) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (model.Group, error)
	// FindByMemberID returns the groups a member belongs to, oldest first.
	FindByMemberID(ctx context.Context, memberID string) ([]model.Group, error)
	FindAll(ctx context.Context) ([]model.Group, error)
}

// ContributionRepository persists and retrieves weekly contributions.
type ContributionRepository interface {
	// Save inserts a contribution. The (group, member, week) triple is
	// unique; a concurrent duplicate surfaces as a Conflict error.
	Save(ctx context.Context, c model.Contribution) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (model.Contribution, error)
	FindByGroupID(ctx context.Context, groupID string) ([]model.Contribution, error)
	FindByGroupAndMember(ctx context.Context, groupID, memberID string) ([]model.Contribution, error)
	CountByGroupAndMember(ctx context.Context, groupID, memberID string) (int, error)
	// ExistsForWeek reports whether the (group, member, week) triple is
	// already recorded.
	ExistsForWeek(ctx context.Context, groupID, memberID string, week int) (bool, error)
	// ExistsForGroup reports whether the group has any contributions at
	// all; groups with history are immutable.
	ExistsForGroup(ctx context.Context, groupID string) (bool, error)
	// ExistsForMember reports whether a member has contributed to the
	// group; contributing members cannot be removed from the roster.
	ExistsForMember(ctx context.Context, groupID, memberID string) (bool, error)
	// FindLatestByGroupAndMember returns the member's most recently paid
	// contribution in the group, used to enforce delete-only-latest.
	FindLatestByGroupAndMember(ctx context.Context, groupID, memberID string) (model.Contribution, error)
	FindAll(ctx context.Context) ([]model.Contribution, error)
	FindByMemberID(ctx context.Context, memberID string) ([]model.Contribution, error)
}

// LoanRepository persists and retrieves loans.
type LoanRepository interface {
	Save(ctx context.Context, loan model.Loan) error
	FindByID(ctx context.Context, id string) (model.Loan, error)
	FindByMemberID(ctx context.Context, memberID string) ([]model.Loan, error)
	FindAll(ctx context.Context) ([]model.Loan, error)
	// HasOpenLoan reports whether the member already has a loan in
	// PENDING or APPROVED status.
	HasOpenLoan(ctx context.Context, memberID string) (bool, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// External service ports
// ---------------------------------------------------------------------------

// MemberDirectory resolves member identities registered with the platform.
type MemberDirectory interface {
	Exists(ctx context.Context, memberID string) (bool, error)
}
