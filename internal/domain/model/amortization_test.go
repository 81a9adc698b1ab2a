package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeeklyInstallment(t *testing.T) {
	t.Run("divides evenly without rounding", func(t *testing.T) {
		// 1000 * 1.05 / 10 = 105 exact.
		got := WeeklyInstallment(decimal.NewFromInt(1000), 10, 5)
		assert.True(t, got.Equal(decimal.NewFromInt(105)), "got %s", got)
	})

	t.Run("rounds up on exact thirds", func(t *testing.T) {
		// 1000 * 1.05 / 3 = 350 exact.
		got := WeeklyInstallment(decimal.NewFromInt(1000), 3, 5)
		assert.True(t, got.Equal(decimal.NewFromInt(350)), "got %s", got)
	})

	t.Run("rounds fractional installment upward", func(t *testing.T) {
		// 1001 * 1.05 / 3 = 350.35 -> 351.
		got := WeeklyInstallment(decimal.NewFromInt(1001), 3, 5)
		assert.True(t, got.Equal(decimal.NewFromInt(351)), "got %s", got)
	})

	t.Run("zero weeks yields zero", func(t *testing.T) {
		got := WeeklyInstallment(decimal.NewFromInt(1000), 0, 5)
		assert.True(t, got.IsZero())
	})
}

func TestTotalPayable(t *testing.T) {
	t.Run("is installment times weeks", func(t *testing.T) {
		total := TotalPayable(decimal.NewFromInt(105), 10)
		assert.True(t, total.Equal(decimal.NewFromInt(1050)), "got %s", total)
	})

	t.Run("carries the rounding drift", func(t *testing.T) {
		// 1001 over 3 weeks: 351 * 3 = 1053, slightly above 1051.05.
		installment := WeeklyInstallment(decimal.NewFromInt(1001), 3, 5)
		total := TotalPayable(installment, 3)
		assert.True(t, total.Equal(decimal.NewFromInt(1053)), "got %s", total)
		assert.True(t, total.GreaterThan(decimal.NewFromFloat(1051.05)))
	})
}

func TestNewPaymentSchedule(t *testing.T) {
	t.Run("builds one unpaid record per week", func(t *testing.T) {
		schedule := NewPaymentSchedule(4, decimal.NewFromInt(105))
		require.Len(t, schedule, 4)
		for i, rec := range schedule {
			assert.Equal(t, i+1, rec.Week)
			assert.False(t, rec.Paid)
			assert.Nil(t, rec.PaidAt)
			assert.True(t, rec.Amount.Equal(decimal.NewFromInt(105)))
		}
	})

	t.Run("non-positive term yields nil", func(t *testing.T) {
		assert.Nil(t, NewPaymentSchedule(0, decimal.NewFromInt(105)))
	})
}
