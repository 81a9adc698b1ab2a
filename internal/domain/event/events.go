package event

import (
	"github.com/shopspring/decimal"

	"github.com/tandaclub/tanda/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// ---------------------------------------------------------------------------
// Group events
// ---------------------------------------------------------------------------

// GroupCreated is raised when a new savings circle is opened.
type GroupCreated struct {
	events.BaseEvent
	Name          string          `json:"name"`
	DurationWeeks int             `json:"duration_weeks"`
	WeeklyAmount  decimal.Decimal `json:"weekly_amount"`
	MemberLimit   int             `json:"member_limit"`
	CreatorID     string          `json:"creator_id"`
}

func NewGroupCreated(groupID, name string, durationWeeks int, weeklyAmount decimal.Decimal, memberLimit int, creatorID string) GroupCreated {
	return GroupCreated{
		BaseEvent:     events.NewBaseEvent("GroupCreated", groupID, "Group"),
		Name:          name,
		DurationWeeks: durationWeeks,
		WeeklyAmount:  weeklyAmount,
		MemberLimit:   memberLimit,
		CreatorID:     creatorID,
	}
}

// MemberJoinedGroup is raised when a member is added to a group roster.
type MemberJoinedGroup struct {
	events.BaseEvent
	MemberID string `json:"member_id"`
}

func NewMemberJoinedGroup(groupID, memberID string) MemberJoinedGroup {
	return MemberJoinedGroup{
		BaseEvent: events.NewBaseEvent("MemberJoinedGroup", groupID, "Group"),
		MemberID:  memberID,
	}
}

// MemberLeftGroup is raised when a member is removed from a group roster.
type MemberLeftGroup struct {
	events.BaseEvent
	MemberID string `json:"member_id"`
}

func NewMemberLeftGroup(groupID, memberID string) MemberLeftGroup {
	return MemberLeftGroup{
		BaseEvent: events.NewBaseEvent("MemberLeftGroup", groupID, "Group"),
		MemberID:  memberID,
	}
}

// ---------------------------------------------------------------------------
// Contribution events
// ---------------------------------------------------------------------------

// ContributionRecorded is raised when a weekly payment enters the pool.
type ContributionRecorded struct {
	events.BaseEvent
	GroupID  string          `json:"group_id"`
	MemberID string          `json:"member_id"`
	Week     int             `json:"week"`
	Amount   decimal.Decimal `json:"amount"`
}

func NewContributionRecorded(contributionID, groupID, memberID string, week int, amount decimal.Decimal) ContributionRecorded {
	return ContributionRecorded{
		BaseEvent: events.NewBaseEvent("ContributionRecorded", contributionID, "Contribution"),
		GroupID:   groupID,
		MemberID:  memberID,
		Week:      week,
		Amount:    amount,
	}
}

// ContributionDeleted is raised when a member's latest contribution is undone.
type ContributionDeleted struct {
	events.BaseEvent
	GroupID  string `json:"group_id"`
	MemberID string `json:"member_id"`
	Week     int    `json:"week"`
}

func NewContributionDeleted(contributionID, groupID, memberID string, week int) ContributionDeleted {
	return ContributionDeleted{
		BaseEvent: events.NewBaseEvent("ContributionDeleted", contributionID, "Contribution"),
		GroupID:   groupID,
		MemberID:  memberID,
		Week:      week,
	}
}

// ---------------------------------------------------------------------------
// Loan events
// ---------------------------------------------------------------------------

// LoanRequested is raised when an eligible member submits a loan request.
type LoanRequested struct {
	events.BaseEvent
	MemberID          string          `json:"member_id"`
	Principal         decimal.Decimal `json:"principal"`
	TermWeeks         int             `json:"term_weeks"`
	WeeklyInstallment decimal.Decimal `json:"weekly_installment"`
	TotalPayable      decimal.Decimal `json:"total_payable"`
}

func NewLoanRequested(loanID, memberID string, principal decimal.Decimal, termWeeks int, weeklyInstallment, totalPayable decimal.Decimal) LoanRequested {
	return LoanRequested{
		BaseEvent:         events.NewBaseEvent("LoanRequested", loanID, "Loan"),
		MemberID:          memberID,
		Principal:         principal,
		TermWeeks:         termWeeks,
		WeeklyInstallment: weeklyInstallment,
		TotalPayable:      totalPayable,
	}
}

// LoanStatusChanged is raised on every loan status transition, including the
// automatic completion when the last weekly installment is registered.
type LoanStatusChanged struct {
	events.BaseEvent
	MemberID   string `json:"member_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

func NewLoanStatusChanged(loanID, memberID, fromStatus, toStatus string) LoanStatusChanged {
	return LoanStatusChanged{
		BaseEvent:  events.NewBaseEvent("LoanStatusChanged", loanID, "Loan"),
		MemberID:   memberID,
		FromStatus: fromStatus,
		ToStatus:   toStatus,
	}
}

// LoanPaymentRegistered is raised when one week of an approved loan is paid.
type LoanPaymentRegistered struct {
	events.BaseEvent
	MemberID string          `json:"member_id"`
	Week     int             `json:"week"`
	Amount   decimal.Decimal `json:"amount"`
}

func NewLoanPaymentRegistered(loanID, memberID string, week int, amount decimal.Decimal) LoanPaymentRegistered {
	return LoanPaymentRegistered{
		BaseEvent: events.NewBaseEvent("LoanPaymentRegistered", loanID, "Loan"),
		MemberID:  memberID,
		Week:      week,
		Amount:    amount,
	}
}
