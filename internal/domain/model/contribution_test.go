package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tandaclub/tanda/internal/domain/valueobject"
)

func contributionGroup(t *testing.T) Group {
	t.Helper()
	g, err := newTestGroup(t).AddMember("member-001", time.Now().UTC())
	require.NoError(t, err)
	return g.ClearEvents()
}

func TestNewContribution(t *testing.T) {
	now := time.Now().UTC()
	amount := decimal.NewFromInt(100)

	t.Run("records a valid weekly payment", func(t *testing.T) {
		group := contributionGroup(t)
		c, err := NewContribution(group, "member-001", 3, amount, false, now)
		require.NoError(t, err)

		assert.NotEmpty(t, c.ID)
		assert.Equal(t, group.ID(), c.GroupID)
		assert.Equal(t, "member-001", c.MemberID)
		assert.Equal(t, 3, c.Week)
		assert.True(t, c.Amount.Equal(amount))
		assert.Equal(t, now, c.PaidAt)
	})

	t.Run("non-members are forbidden", func(t *testing.T) {
		_, err := NewContribution(contributionGroup(t), "member-999", 3, amount, false, now)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrForbidden))
	})

	t.Run("week beyond the group duration is rejected", func(t *testing.T) {
		_, err := NewContribution(contributionGroup(t), "member-001", 11, amount, false, now)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrInvalidRange))
	})

	t.Run("week zero is rejected", func(t *testing.T) {
		_, err := NewContribution(contributionGroup(t), "member-001", 0, amount, false, now)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrInvalidRange))
	})

	t.Run("paid week conflicts", func(t *testing.T) {
		_, err := NewContribution(contributionGroup(t), "member-001", 3, amount, true, now)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrConflict))
	})

	t.Run("duplicate check runs before the amount check", func(t *testing.T) {
		// Both flags are wrong; the duplicate wins.
		_, err := NewContribution(contributionGroup(t), "member-001", 3, decimal.NewFromInt(99), true, now)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrConflict))
	})

	t.Run("amount must match the group's weekly amount", func(t *testing.T) {
		_, err := NewContribution(contributionGroup(t), "member-001", 3, decimal.NewFromInt(99), false, now)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrInvalidRange))
		assert.Contains(t, err.Error(), "100")
	})
}
