package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tandaclub/tanda/internal/domain/event"
	"github.com/tandaclub/tanda/internal/domain/valueobject"
)

// Loan term bounds in weeks.
const (
	MinTermWeeks = 4
	MaxTermWeeks = 12
)

// ---------------------------------------------------------------------------
// Loan aggregate root
// ---------------------------------------------------------------------------

// Loan is an immutable aggregate. Mutations return a new copy.
type Loan struct {
	id                string
	memberID          string
	principal         decimal.Decimal
	termWeeks         int
	weeklyInstallment decimal.Decimal
	interestPct       int
	totalPayable      decimal.Decimal
	status            valueobject.LoanStatus
	schedule          []PaymentRecord
	version           int
	createdAt         time.Time
	updatedAt         time.Time
	domainEvents      []event.DomainEvent
}

// LoanSummary is the derived repayment progress view attached to a loan
// detail response.
type LoanSummary struct {
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	WeeksRemaining  int             `json:"weeks_remaining"`
	AmountRemaining decimal.Decimal `json:"amount_remaining"`
	ProgressPct     int             `json:"progress_pct"`
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewLoanRequest creates a pending loan for a member. The installment and
// total payable derive from the flat default interest rate; the payment
// schedule stays empty until approval.
func NewLoanRequest(memberID string, principal decimal.Decimal, termWeeks int, now time.Time) (Loan, error) {
	if memberID == "" {
		return Loan{}, valueobject.NotFoundf("member not found")
	}
	if principal.LessThanOrEqual(decimal.Zero) {
		return Loan{}, valueobject.OutOfRangef("principal must be positive")
	}
	if termWeeks < MinTermWeeks || termWeeks > MaxTermWeeks {
		return Loan{}, valueobject.OutOfRangef("term must be between %d and %d weeks", MinTermWeeks, MaxTermWeeks)
	}

	installment := WeeklyInstallment(principal, termWeeks, DefaultInterestPct)
	total := TotalPayable(installment, termWeeks)

	loan := Loan{
		id:                uuid.New().String(),
		memberID:          memberID,
		principal:         principal,
		termWeeks:         termWeeks,
		weeklyInstallment: installment,
		interestPct:       DefaultInterestPct,
		totalPayable:      total,
		status:            valueobject.LoanStatusPending,
		schedule:          nil,
		version:           1,
		createdAt:         now,
		updatedAt:         now,
	}

	loan.domainEvents = append(loan.domainEvents, event.NewLoanRequested(
		loan.id, memberID, principal, termWeeks, installment, total,
	))

	return loan, nil
}

// ReconstructLoan rebuilds a Loan aggregate from persistence.
func ReconstructLoan(
	id, memberID string,
	principal decimal.Decimal,
	termWeeks int,
	weeklyInstallment decimal.Decimal,
	interestPct int,
	totalPayable decimal.Decimal,
	status valueobject.LoanStatus,
	schedule []PaymentRecord,
	version int,
	createdAt, updatedAt time.Time,
) Loan {
	return Loan{
		id:                id,
		memberID:          memberID,
		principal:         principal,
		termWeeks:         termWeeks,
		weeklyInstallment: weeklyInstallment,
		interestPct:       interestPct,
		totalPayable:      totalPayable,
		status:            status,
		schedule:          schedule,
		version:           version,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// Approve moves a pending loan into repayment and generates the full payment
// schedule: one unpaid record per week 1..termWeeks.
func (l Loan) Approve(now time.Time) (Loan, error) {
	status, err := valueobject.TransitionLoan(l.status, valueobject.LoanEventApprove)
	if err != nil {
		return l, err
	}

	next := l
	next.status = status
	next.schedule = NewPaymentSchedule(l.termWeeks, l.weeklyInstallment)
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewLoanStatusChanged(
		l.id, l.memberID, l.status.String(), status.String(),
	))
	return next, nil
}

// Reject terminally declines a pending loan.
func (l Loan) Reject(now time.Time) (Loan, error) {
	status, err := valueobject.TransitionLoan(l.status, valueobject.LoanEventReject)
	if err != nil {
		return l, err
	}

	next := l
	next.status = status
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewLoanStatusChanged(
		l.id, l.memberID, l.status.String(), status.String(),
	))
	return next, nil
}

// RegisterPayment marks one week of an approved loan as paid. When the last
// unpaid week is settled the loan completes automatically via the
// last-installment-paid transition; no separate action is required.
func (l Loan) RegisterPayment(week int, now time.Time) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusApproved) {
		return l, valueobject.IllegalStatef("cannot register payment, loan is %s", l.status.String())
	}
	if week < 1 || week > l.termWeeks {
		return l, valueobject.OutOfRangef("week must be between 1 and %d", l.termWeeks)
	}

	idx := -1
	for i, rec := range l.schedule {
		if rec.Week == week {
			idx = i
			break
		}
	}
	if idx == -1 {
		return l, valueobject.NotFoundf("week %d not found in payment schedule", week)
	}
	if l.schedule[idx].Paid {
		return l, valueobject.Conflictf("duplicate payment: week %d is already paid", week)
	}

	next := l
	next.schedule = copySchedule(l.schedule)
	paidAt := now
	next.schedule[idx].Paid = true
	next.schedule[idx].PaidAt = &paidAt
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewLoanPaymentRegistered(
		l.id, l.memberID, week, next.schedule[idx].Amount,
	))

	allPaid := true
	for _, rec := range next.schedule {
		if !rec.Paid {
			allPaid = false
			break
		}
	}
	if allPaid {
		status, err := valueobject.TransitionLoan(next.status, valueobject.LoanEventLastInstallmentPaid)
		if err != nil {
			return l, err
		}
		next.domainEvents = append(next.domainEvents, event.NewLoanStatusChanged(
			l.id, l.memberID, next.status.String(), status.String(),
		))
		next.status = status
	}

	return next, nil
}

// MarkPaid is the administrative override settling an approved loan without
// registering every week individually (early payoff, write-off).
func (l Loan) MarkPaid(now time.Time) (Loan, error) {
	status, err := valueobject.TransitionLoan(l.status, valueobject.LoanEventSettle)
	if err != nil {
		return l, err
	}

	next := l
	next.status = status
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewLoanStatusChanged(
		l.id, l.memberID, l.status.String(), status.String(),
	))
	return next, nil
}

// Summary derives the repayment progress projection.
func (l Loan) Summary() LoanSummary {
	paid := decimal.Zero
	remainingWeeks := 0
	for _, rec := range l.schedule {
		if rec.Paid {
			paid = paid.Add(rec.Amount)
		} else {
			remainingWeeks++
		}
	}

	progress := 0
	if l.totalPayable.IsPositive() {
		progress = int(paid.Div(l.totalPayable).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
	}

	return LoanSummary{
		AmountPaid:      paid,
		WeeksRemaining:  remainingWeeks,
		AmountRemaining: l.totalPayable.Sub(paid),
		ProgressPct:     progress,
	}
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() string                         { return l.id }
func (l Loan) MemberID() string                   { return l.memberID }
func (l Loan) Principal() decimal.Decimal         { return l.principal }
func (l Loan) TermWeeks() int                     { return l.termWeeks }
func (l Loan) WeeklyInstallment() decimal.Decimal { return l.weeklyInstallment }
func (l Loan) InterestPct() int                   { return l.interestPct }
func (l Loan) TotalPayable() decimal.Decimal      { return l.totalPayable }
func (l Loan) Status() valueobject.LoanStatus     { return l.status }
func (l Loan) Version() int                       { return l.version }
func (l Loan) CreatedAt() time.Time               { return l.createdAt }
func (l Loan) UpdatedAt() time.Time               { return l.updatedAt }
func (l Loan) DomainEvents() []event.DomainEvent  { return l.domainEvents }

// Schedule returns a defensive copy of the payment schedule.
func (l Loan) Schedule() []PaymentRecord {
	if l.schedule == nil {
		return nil
	}
	return copySchedule(l.schedule)
}

// ClearEvents returns a copy with an empty event list.
func (l Loan) ClearEvents() Loan {
	next := l
	next.domainEvents = nil
	return next
}

func copyEvents(evts []event.DomainEvent) []event.DomainEvent {
	if evts == nil {
		return nil
	}
	out := make([]event.DomainEvent, len(evts))
	copy(out, evts)
	return out
}

func copySchedule(schedule []PaymentRecord) []PaymentRecord {
	out := make([]PaymentRecord, len(schedule))
	copy(out, schedule)
	return out
}
