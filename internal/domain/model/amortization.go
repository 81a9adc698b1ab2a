package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultInterestPct is the flat interest rate applied to every loan.
const DefaultInterestPct = 5

// PaymentRecord is one week of a loan's repayment schedule. Records are
// created in bulk at approval time and mutated one at a time as payments are
// registered; they are never deleted or resized.
type PaymentRecord struct {
	Week   int             `json:"week"`
	Paid   bool            `json:"paid"`
	PaidAt *time.Time      `json:"paid_at,omitempty"`
	Amount decimal.Decimal `json:"amount"`
}

// WeeklyInstallment computes the fixed weekly payment for a flat-interest
// loan:
//
//	ceil(principal * (1 + interestPct/100) / weeks)
//
// Rounding is always upward so the borrower never pays less than the true
// amortized cost; the drift this introduces is part of the contract, not an
// approximation artifact.
func WeeklyInstallment(principal decimal.Decimal, weeks, interestPct int) decimal.Decimal {
	if weeks <= 0 {
		return decimal.Zero
	}
	// principal * (100 + pct) / (100 * weeks), computed in one division to
	// keep the quotient exact before the ceiling.
	numerator := principal.Mul(decimal.NewFromInt(int64(100 + interestPct)))
	return numerator.Div(decimal.NewFromInt(int64(100 * weeks))).Ceil()
}

// TotalPayable is installment × weeks. Because each installment is rounded
// up individually, the total is always ≥ principal * (1 + interestPct/100).
func TotalPayable(weeklyInstallment decimal.Decimal, weeks int) decimal.Decimal {
	return weeklyInstallment.Mul(decimal.NewFromInt(int64(weeks)))
}

// NewPaymentSchedule builds the full schedule skeleton generated at loan
// approval: one unpaid record per week 1..termWeeks, each owing the weekly
// installment.
func NewPaymentSchedule(termWeeks int, weeklyInstallment decimal.Decimal) []PaymentRecord {
	if termWeeks <= 0 {
		return nil
	}
	schedule := make([]PaymentRecord, 0, termWeeks)
	for week := 1; week <= termWeeks; week++ {
		schedule = append(schedule, PaymentRecord{
			Week:   week,
			Paid:   false,
			PaidAt: nil,
			Amount: weeklyInstallment,
		})
	}
	return schedule
}
