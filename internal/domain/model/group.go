package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tandaclub/tanda/internal/domain/event"
	"github.com/tandaclub/tanda/internal/domain/valueobject"
)

// Group configuration bounds.
const (
	MinDurationWeeks = 4
	MinMemberLimit   = 2
)

// MinWeeklyAmount is the smallest weekly contribution a group may set.
var MinWeeklyAmount = decimal.NewFromInt(50)

// ---------------------------------------------------------------------------
// Group aggregate root
// ---------------------------------------------------------------------------

// Group is a fixed-duration rotating savings circle. It is an immutable
// aggregate; mutations return a new copy. Once any contribution has been
// recorded against a group its configuration freezes: callers signal that
// condition through the hasContributions argument of the mutating methods,
// checked against the store inside the same transaction.
type Group struct {
	id            string
	name          string
	durationWeeks int
	weeklyAmount  decimal.Decimal
	memberLimit   int
	memberIDs     []string
	creatorID     string
	version       int
	createdAt     time.Time
	updatedAt     time.Time
	domainEvents  []event.DomainEvent
}

// NewGroup creates a savings circle with an empty roster.
func NewGroup(name string, durationWeeks int, weeklyAmount decimal.Decimal, memberLimit int, creatorID string, now time.Time) (Group, error) {
	if name == "" {
		return Group{}, valueobject.OutOfRangef("group name is required")
	}
	if durationWeeks < MinDurationWeeks {
		return Group{}, valueobject.OutOfRangef("duration must be at least %d weeks", MinDurationWeeks)
	}
	if weeklyAmount.LessThan(MinWeeklyAmount) {
		return Group{}, valueobject.OutOfRangef("weekly amount must be at least %s", MinWeeklyAmount.String())
	}
	if memberLimit < MinMemberLimit {
		return Group{}, valueobject.OutOfRangef("member limit must be at least %d", MinMemberLimit)
	}
	if creatorID == "" {
		return Group{}, valueobject.NotFoundf("creator not found")
	}

	g := Group{
		id:            uuid.New().String(),
		name:          name,
		durationWeeks: durationWeeks,
		weeklyAmount:  weeklyAmount,
		memberLimit:   memberLimit,
		memberIDs:     nil,
		creatorID:     creatorID,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}
	g.domainEvents = append(g.domainEvents, event.NewGroupCreated(
		g.id, name, durationWeeks, weeklyAmount, memberLimit, creatorID,
	))
	return g, nil
}

// ReconstructGroup rebuilds a Group aggregate from persistence.
func ReconstructGroup(
	id, name string,
	durationWeeks int,
	weeklyAmount decimal.Decimal,
	memberLimit int,
	memberIDs []string,
	creatorID string,
	version int,
	createdAt, updatedAt time.Time,
) Group {
	return Group{
		id:            id,
		name:          name,
		durationWeeks: durationWeeks,
		weeklyAmount:  weeklyAmount,
		memberLimit:   memberLimit,
		memberIDs:     memberIDs,
		creatorID:     creatorID,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// ---------------------------------------------------------------------------
// Roster mutation
// ---------------------------------------------------------------------------

// AddMember appends a member to the roster, enforcing capacity and
// no-duplicate rules.
func (g Group) AddMember(memberID string, now time.Time) (Group, error) {
	if len(g.memberIDs) >= g.memberLimit {
		return g, valueobject.Conflictf("group has reached its member limit of %d", g.memberLimit)
	}
	if g.IsMember(memberID) {
		return g, valueobject.Conflictf("member is already part of this group")
	}

	next := g
	next.memberIDs = append(copyMembers(g.memberIDs), memberID)
	next.updatedAt = now
	next.domainEvents = copyEvents(g.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewMemberJoinedGroup(g.id, memberID))
	return next, nil
}

// RemoveMember drops a member from the roster. A member with recorded
// contributions cannot be removed: their payment trail anchors the group's
// eligibility history.
func (g Group) RemoveMember(memberID string, hasContributions bool, now time.Time) (Group, error) {
	if !g.IsMember(memberID) {
		return g, valueobject.NotFoundf("member is not part of this group")
	}
	if hasContributions {
		return g, valueobject.Conflictf("cannot remove a member who has contributions in this group")
	}

	next := g
	next.memberIDs = nil
	for _, id := range g.memberIDs {
		if id != memberID {
			next.memberIDs = append(next.memberIDs, id)
		}
	}
	next.updatedAt = now
	next.domainEvents = copyEvents(g.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewMemberLeftGroup(g.id, memberID))
	return next, nil
}

// ---------------------------------------------------------------------------
// Configuration mutation
// ---------------------------------------------------------------------------

// Update changes the group configuration. It is blocked entirely once the
// group has any recorded contribution.
func (g Group) Update(name string, durationWeeks int, weeklyAmount decimal.Decimal, memberLimit int, hasContributions bool, now time.Time) (Group, error) {
	if hasContributions {
		return g, valueobject.Conflictf("group already has recorded contributions and cannot be updated")
	}
	if name == "" {
		name = g.name
	}
	if durationWeeks == 0 {
		durationWeeks = g.durationWeeks
	}
	if weeklyAmount.IsZero() {
		weeklyAmount = g.weeklyAmount
	}
	if memberLimit == 0 {
		memberLimit = g.memberLimit
	}

	if durationWeeks < MinDurationWeeks {
		return g, valueobject.OutOfRangef("duration must be at least %d weeks", MinDurationWeeks)
	}
	if weeklyAmount.LessThan(MinWeeklyAmount) {
		return g, valueobject.OutOfRangef("weekly amount must be at least %s", MinWeeklyAmount.String())
	}
	if memberLimit < MinMemberLimit {
		return g, valueobject.OutOfRangef("member limit must be at least %d", MinMemberLimit)
	}
	if memberLimit < len(g.memberIDs) {
		return g, valueobject.Conflictf("member limit %d is below the current roster size %d", memberLimit, len(g.memberIDs))
	}

	next := g
	next.name = name
	next.durationWeeks = durationWeeks
	next.weeklyAmount = weeklyAmount
	next.memberLimit = memberLimit
	next.updatedAt = now
	next.domainEvents = copyEvents(g.domainEvents)
	return next, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (g Group) ID() string                       { return g.id }
func (g Group) Name() string                     { return g.name }
func (g Group) DurationWeeks() int               { return g.durationWeeks }
func (g Group) WeeklyAmount() decimal.Decimal    { return g.weeklyAmount }
func (g Group) MemberLimit() int                 { return g.memberLimit }
func (g Group) CreatorID() string                { return g.creatorID }
func (g Group) Version() int                     { return g.version }
func (g Group) CreatedAt() time.Time             { return g.createdAt }
func (g Group) UpdatedAt() time.Time             { return g.updatedAt }
func (g Group) DomainEvents() []event.DomainEvent { return g.domainEvents }

// MemberIDs returns the ordered roster as a defensive copy.
func (g Group) MemberIDs() []string {
	if g.memberIDs == nil {
		return nil
	}
	return copyMembers(g.memberIDs)
}

// MemberCount returns the current roster size.
func (g Group) MemberCount() int { return len(g.memberIDs) }

// IsMember reports whether memberID is on the roster.
func (g Group) IsMember(memberID string) bool {
	for _, id := range g.memberIDs {
		if id == memberID {
			return true
		}
	}
	return false
}

// ClearEvents returns a copy with an empty event list.
func (g Group) ClearEvents() Group {
	next := g
	next.domainEvents = nil
	return next
}

func copyMembers(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
