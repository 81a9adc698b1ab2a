package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// CreateGroupRequest carries the data needed to open a new savings group.
type CreateGroupRequest struct {
	Name          string          `json:"name"`
	DurationWeeks int             `json:"duration_weeks"`
	WeeklyAmount  decimal.Decimal `json:"weekly_amount"`
	MemberLimit   int             `json:"member_limit"`
	CreatorID     string          `json:"creator_id"`
}

// UpdateGroupRequest carries administrative edits to a group. Zero-valued
// fields keep the current value.
type UpdateGroupRequest struct {
	GroupID       string          `json:"group_id"`
	Name          string          `json:"name"`
	DurationWeeks int             `json:"duration_weeks"`
	WeeklyAmount  decimal.Decimal `json:"weekly_amount"`
	MemberLimit   int             `json:"member_limit"`
}

// JoinGroupRequest adds a member to a group's roster.
type JoinGroupRequest struct {
	GroupID  string `json:"group_id"`
	MemberID string `json:"member_id"`
}

// LeaveGroupRequest removes a member from a group's roster.
type LeaveGroupRequest struct {
	GroupID  string `json:"group_id"`
	MemberID string `json:"member_id"`
}

// RecordContributionRequest carries one member's weekly payment.
type RecordContributionRequest struct {
	GroupID  string          `json:"group_id"`
	MemberID string          `json:"member_id"`
	Week     int             `json:"week"`
	Amount   decimal.Decimal `json:"amount"`
}

// DeleteContributionRequest identifies a contribution to remove and the
// actor requesting the removal.
type DeleteContributionRequest struct {
	ContributionID string `json:"contribution_id"`
	RequesterID    string `json:"requester_id"`
	RequesterRole  string `json:"requester_role"`
}

// ContributionStatsRequest identifies the member/group pair to project.
type ContributionStatsRequest struct {
	GroupID  string `json:"group_id"`
	MemberID string `json:"member_id"`
}

// RequestLoanRequest carries a member's borrowing request.
type RequestLoanRequest struct {
	MemberID  string          `json:"member_id"`
	Principal decimal.Decimal `json:"principal"`
	TermWeeks int             `json:"term_weeks"`
}

// DecideLoanRequest carries an approve/reject decision on a pending loan.
type DecideLoanRequest struct {
	LoanID        string `json:"loan_id"`
	Approve       bool   `json:"approve"`
	RequesterRole string `json:"requester_role"`
}

// RegisterPaymentRequest marks one scheduled week as paid.
type RegisterPaymentRequest struct {
	LoanID string `json:"loan_id"`
	Week   int    `json:"week"`
}

// MarkLoanPaidRequest settles a loan outside per-week tracking.
type MarkLoanPaidRequest struct {
	LoanID        string `json:"loan_id"`
	RequesterRole string `json:"requester_role"`
}

// GetLoanRequest identifies a loan to retrieve.
type GetLoanRequest struct {
	LoanID string `json:"loan_id"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// GroupResponse is the external representation of a savings group.
type GroupResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	DurationWeeks int             `json:"duration_weeks"`
	WeeklyAmount  decimal.Decimal `json:"weekly_amount"`
	MemberLimit   int             `json:"member_limit"`
	MemberIDs     []string        `json:"member_ids"`
	CreatorID     string          `json:"creator_id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// GroupMembersResponse lists the roster of a single group.
type GroupMembersResponse struct {
	GroupID   string   `json:"group_id"`
	MemberIDs []string `json:"member_ids"`
}

// ContributionResponse is the external representation of a contribution.
type ContributionResponse struct {
	ID        string          `json:"id"`
	GroupID   string          `json:"group_id"`
	MemberID  string          `json:"member_id"`
	Week      int             `json:"week"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    time.Time       `json:"paid_at"`
	CreatedAt time.Time       `json:"created_at"`
}

// ContributionStatsResponse is the member's payment record projection for
// one group.
type ContributionStatsResponse struct {
	GroupID               string          `json:"group_id"`
	MemberID              string          `json:"member_id"`
	TotalContributions    int             `json:"total_contributions"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	ExpectedContributions int             `json:"expected_contributions"`
	ParticipationPct      decimal.Decimal `json:"participation_pct"`
	EligibleForLoan       bool            `json:"eligible_for_loan"`
}

// PaymentRecordResponse represents a single week of a loan's schedule.
type PaymentRecordResponse struct {
	Week   int             `json:"week"`
	Paid   bool            `json:"paid"`
	PaidAt *time.Time      `json:"paid_at,omitempty"`
	Amount decimal.Decimal `json:"amount"`
}

// LoanSummaryResponse is the derived repayment progress of a loan.
type LoanSummaryResponse struct {
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	WeeksRemaining  int             `json:"weeks_remaining"`
	AmountRemaining decimal.Decimal `json:"amount_remaining"`
	ProgressPct     int             `json:"progress_pct"`
}

// LoanResponse is the external representation of a loan.
type LoanResponse struct {
	ID                string                  `json:"id"`
	MemberID          string                  `json:"member_id"`
	Principal         decimal.Decimal         `json:"principal"`
	TermWeeks         int                     `json:"term_weeks"`
	WeeklyInstallment decimal.Decimal         `json:"weekly_installment"`
	InterestPct       int                     `json:"interest_pct"`
	TotalPayable      decimal.Decimal         `json:"total_payable"`
	Status            string                  `json:"status"`
	Schedule          []PaymentRecordResponse `json:"schedule,omitempty"`
	Summary           *LoanSummaryResponse    `json:"summary,omitempty"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}
