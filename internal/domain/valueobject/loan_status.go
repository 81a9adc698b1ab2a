package valueobject

import (
	"fmt"
)

// ---------------------------------------------------------------------------
// LoanStatus – immutable value object
// ---------------------------------------------------------------------------

// LoanStatus represents the lifecycle stage of a loan.
type LoanStatus struct {
	value string
}

const (
	loanStatusPending  = "PENDING"
	loanStatusApproved = "APPROVED"
	loanStatusRejected = "REJECTED"
	loanStatusPaid     = "PAID"
)

var (
	LoanStatusPending  = LoanStatus{value: loanStatusPending}
	LoanStatusApproved = LoanStatus{value: loanStatusApproved}
	LoanStatusRejected = LoanStatus{value: loanStatusRejected}
	LoanStatusPaid     = LoanStatus{value: loanStatusPaid}
)

var validLoanStatuses = map[string]LoanStatus{
	loanStatusPending:  LoanStatusPending,
	loanStatusApproved: LoanStatusApproved,
	loanStatusRejected: LoanStatusRejected,
	loanStatusPaid:     LoanStatusPaid,
}

// NewLoanStatus creates a LoanStatus from a raw string.
func NewLoanStatus(s string) (LoanStatus, error) {
	v, ok := validLoanStatuses[s]
	if !ok {
		return LoanStatus{}, fmt.Errorf("invalid loan status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s LoanStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s LoanStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s LoanStatus) Equal(other LoanStatus) bool { return s.value == other.value }

// IsTerminal reports whether no further transitions are possible. A rejected
// or fully paid loan never leaves its state, and neither blocks the member
// from requesting a new loan.
func (s LoanStatus) IsTerminal() bool {
	return s.value == loanStatusRejected || s.value == loanStatusPaid
}

// ---------------------------------------------------------------------------
// LoanEvent – tagged state machine events
// ---------------------------------------------------------------------------

// LoanEvent names a trigger that may move a loan between statuses.
type LoanEvent string

const (
	// LoanEventApprove moves a pending loan into repayment tracking.
	LoanEventApprove LoanEvent = "approve"
	// LoanEventReject terminally declines a pending loan.
	LoanEventReject LoanEvent = "reject"
	// LoanEventLastInstallmentPaid fires when a weekly payment registration
	// leaves no unpaid weeks; the loan completes without a separate action.
	LoanEventLastInstallmentPaid LoanEvent = "last_installment_paid"
	// LoanEventSettle is the administrative override that closes an approved
	// loan regardless of per-week tracking (early payoff, write-off).
	LoanEventSettle LoanEvent = "settle"
)

var loanTransitions = map[LoanStatus]map[LoanEvent]LoanStatus{
	LoanStatusPending: {
		LoanEventApprove: LoanStatusApproved,
		LoanEventReject:  LoanStatusRejected,
	},
	LoanStatusApproved: {
		LoanEventLastInstallmentPaid: LoanStatusPaid,
		LoanEventSettle:              LoanStatusPaid,
	},
}

// TransitionLoan is the pure transition function of the loan state machine.
// It returns the successor status, or an IllegalState domain error naming the
// current status when the event is not permitted from it.
func TransitionLoan(current LoanStatus, ev LoanEvent) (LoanStatus, error) {
	if next, ok := loanTransitions[current][ev]; ok {
		return next, nil
	}
	return LoanStatus{}, IllegalStatef("not editable, already %s", current.String())
}
