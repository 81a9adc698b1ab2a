package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tandaclub/tanda/internal/domain/valueobject"
)

func testLoan(t *testing.T) Loan {
	t.Helper()
	loan, err := NewLoanRequest("member-001", decimal.NewFromInt(1000), 10, time.Now().UTC())
	require.NoError(t, err)
	return loan.ClearEvents()
}

func approvedTestLoan(t *testing.T) Loan {
	t.Helper()
	loan, err := testLoan(t).Approve(time.Now().UTC())
	require.NoError(t, err)
	return loan.ClearEvents()
}

func TestNewLoanRequest(t *testing.T) {
	now := time.Now().UTC()

	t.Run("creates a pending loan with derived amounts", func(t *testing.T) {
		loan, err := NewLoanRequest("member-001", decimal.NewFromInt(1000), 10, now)
		require.NoError(t, err)

		assert.Equal(t, "member-001", loan.MemberID())
		assert.True(t, loan.Status().Equal(valueobject.LoanStatusPending))
		assert.True(t, loan.WeeklyInstallment().Equal(decimal.NewFromInt(105)))
		assert.True(t, loan.TotalPayable().Equal(decimal.NewFromInt(1050)))
		assert.Equal(t, DefaultInterestPct, loan.InterestPct())
		assert.Empty(t, loan.Schedule())
		assert.Equal(t, 1, loan.Version())
		assert.Len(t, loan.DomainEvents(), 1)
	})

	t.Run("rejects term below four weeks", func(t *testing.T) {
		_, err := NewLoanRequest("member-001", decimal.NewFromInt(1000), 3, now)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrInvalidRange))
	})

	t.Run("rejects term above twelve weeks", func(t *testing.T) {
		_, err := NewLoanRequest("member-001", decimal.NewFromInt(1000), 13, now)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrInvalidRange))
	})

	t.Run("rejects non-positive principal", func(t *testing.T) {
		_, err := NewLoanRequest("member-001", decimal.Zero, 10, now)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrInvalidRange))
	})
}

func TestLoanApprove(t *testing.T) {
	t.Run("generates the full payment schedule", func(t *testing.T) {
		loan, err := testLoan(t).Approve(time.Now().UTC())
		require.NoError(t, err)

		assert.True(t, loan.Status().Equal(valueobject.LoanStatusApproved))
		schedule := loan.Schedule()
		require.Len(t, schedule, 10)
		assert.Equal(t, 1, schedule[0].Week)
		assert.Equal(t, 10, schedule[9].Week)
		for _, rec := range schedule {
			assert.False(t, rec.Paid)
			assert.True(t, rec.Amount.Equal(decimal.NewFromInt(105)))
		}
	})

	t.Run("cannot approve twice", func(t *testing.T) {
		_, err := approvedTestLoan(t).Approve(time.Now().UTC())
		assert.True(t, valueobject.IsKind(err, valueobject.ErrIllegalState))
		assert.EqualError(t, err, "not editable, already APPROVED")
	})
}

func TestLoanReject(t *testing.T) {
	t.Run("terminally declines a pending loan", func(t *testing.T) {
		loan, err := testLoan(t).Reject(time.Now().UTC())
		require.NoError(t, err)
		assert.True(t, loan.Status().Equal(valueobject.LoanStatusRejected))
		assert.True(t, loan.Status().IsTerminal())
	})

	t.Run("cannot reject once approved", func(t *testing.T) {
		_, err := approvedTestLoan(t).Reject(time.Now().UTC())
		assert.True(t, valueobject.IsKind(err, valueobject.ErrIllegalState))
	})
}

func TestLoanRegisterPayment(t *testing.T) {
	now := time.Now().UTC()

	t.Run("marks the week paid", func(t *testing.T) {
		loan, err := approvedTestLoan(t).RegisterPayment(1, now)
		require.NoError(t, err)

		schedule := loan.Schedule()
		assert.True(t, schedule[0].Paid)
		require.NotNil(t, schedule[0].PaidAt)
		assert.False(t, schedule[1].Paid)
		assert.True(t, loan.Status().Equal(valueobject.LoanStatusApproved))
	})

	t.Run("does not mutate the receiver", func(t *testing.T) {
		original := approvedTestLoan(t)
		_, err := original.RegisterPayment(1, now)
		require.NoError(t, err)
		assert.False(t, original.Schedule()[0].Paid)
	})

	t.Run("last payment completes the loan", func(t *testing.T) {
		loan := approvedTestLoan(t)
		var err error
		for week := 1; week <= loan.TermWeeks(); week++ {
			loan, err = loan.RegisterPayment(week, now)
			require.NoError(t, err)
		}
		assert.True(t, loan.Status().Equal(valueobject.LoanStatusPaid))
	})

	t.Run("duplicate payment conflicts", func(t *testing.T) {
		loan, err := approvedTestLoan(t).RegisterPayment(1, now)
		require.NoError(t, err)
		_, err = loan.RegisterPayment(1, now)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrConflict))
	})

	t.Run("week outside the term is rejected", func(t *testing.T) {
		_, err := approvedTestLoan(t).RegisterPayment(11, now)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrInvalidRange))
	})

	t.Run("pending loan cannot take payments", func(t *testing.T) {
		_, err := testLoan(t).RegisterPayment(1, now)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrIllegalState))
	})
}

func TestLoanMarkPaid(t *testing.T) {
	t.Run("settles an approved loan", func(t *testing.T) {
		loan, err := approvedTestLoan(t).MarkPaid(time.Now().UTC())
		require.NoError(t, err)
		assert.True(t, loan.Status().Equal(valueobject.LoanStatusPaid))
	})

	t.Run("pending loan cannot be settled", func(t *testing.T) {
		_, err := testLoan(t).MarkPaid(time.Now().UTC())
		assert.True(t, valueobject.IsKind(err, valueobject.ErrIllegalState))
		assert.EqualError(t, err, "not editable, already PENDING")
	})
}

func TestLoanSummary(t *testing.T) {
	now := time.Now().UTC()

	t.Run("fresh approved loan has zero progress", func(t *testing.T) {
		summary := approvedTestLoan(t).Summary()
		assert.True(t, summary.AmountPaid.IsZero())
		assert.Equal(t, 10, summary.WeeksRemaining)
		assert.True(t, summary.AmountRemaining.Equal(decimal.NewFromInt(1050)))
		assert.Equal(t, 0, summary.ProgressPct)
	})

	t.Run("progress is rounded to the nearest percent", func(t *testing.T) {
		loan := approvedTestLoan(t)
		var err error
		for week := 1; week <= 3; week++ {
			loan, err = loan.RegisterPayment(week, now)
			require.NoError(t, err)
		}

		// 315 of 1050 paid = 30%.
		summary := loan.Summary()
		assert.True(t, summary.AmountPaid.Equal(decimal.NewFromInt(315)))
		assert.Equal(t, 7, summary.WeeksRemaining)
		assert.True(t, summary.AmountRemaining.Equal(decimal.NewFromInt(735)))
		assert.Equal(t, 30, summary.ProgressPct)
	})

	t.Run("fully repaid loan reports one hundred percent", func(t *testing.T) {
		loan := approvedTestLoan(t)
		var err error
		for week := 1; week <= loan.TermWeeks(); week++ {
			loan, err = loan.RegisterPayment(week, now)
			require.NoError(t, err)
		}

		summary := loan.Summary()
		assert.True(t, summary.AmountPaid.Equal(decimal.NewFromInt(1050)))
		assert.Equal(t, 0, summary.WeeksRemaining)
		assert.True(t, summary.AmountRemaining.IsZero())
		assert.Equal(t, 100, summary.ProgressPct)
	})
}
