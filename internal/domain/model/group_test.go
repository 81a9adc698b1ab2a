package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tandaclub/tanda/internal/domain/valueobject"
)

func newTestGroup(t *testing.T) Group {
	t.Helper()
	g, err := NewGroup("Vecinos del Centro", 10, decimal.NewFromInt(100), 3, "creator-001", time.Now().UTC())
	require.NoError(t, err)
	return g.ClearEvents()
}

func TestNewGroup(t *testing.T) {
	now := time.Now().UTC()

	t.Run("creates a group with an empty roster", func(t *testing.T) {
		g, err := NewGroup("Vecinos del Centro", 10, decimal.NewFromInt(100), 3, "creator-001", now)
		require.NoError(t, err)

		assert.NotEmpty(t, g.ID())
		assert.Equal(t, "Vecinos del Centro", g.Name())
		assert.Equal(t, 10, g.DurationWeeks())
		assert.Equal(t, 0, g.MemberCount())
		assert.Equal(t, 1, g.Version())
		assert.Len(t, g.DomainEvents(), 1)
	})

	t.Run("rejects short duration", func(t *testing.T) {
		_, err := NewGroup("Vecinos", 3, decimal.NewFromInt(100), 3, "creator-001", now)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrInvalidRange))
	})

	t.Run("rejects weekly amount below minimum", func(t *testing.T) {
		_, err := NewGroup("Vecinos", 10, decimal.NewFromInt(49), 3, "creator-001", now)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrInvalidRange))
	})

	t.Run("rejects member limit below two", func(t *testing.T) {
		_, err := NewGroup("Vecinos", 10, decimal.NewFromInt(100), 1, "creator-001", now)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrInvalidRange))
	})
}

func TestGroupAddMember(t *testing.T) {
	now := time.Now().UTC()

	t.Run("appends to the roster", func(t *testing.T) {
		g, err := newTestGroup(t).AddMember("member-001", now)
		require.NoError(t, err)
		assert.True(t, g.IsMember("member-001"))
		assert.Equal(t, 1, g.MemberCount())
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		g, err := newTestGroup(t).AddMember("member-001", now)
		require.NoError(t, err)
		_, err = g.AddMember("member-001", now)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrConflict))
	})

	t.Run("enforces the member limit", func(t *testing.T) {
		g := newTestGroup(t)
		var err error
		for _, id := range []string{"m1", "m2", "m3"} {
			g, err = g.AddMember(id, now)
			require.NoError(t, err)
		}
		_, err = g.AddMember("m4", now)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrConflict))
	})
}

func TestGroupRemoveMember(t *testing.T) {
	now := time.Now().UTC()

	t.Run("drops a member without contributions", func(t *testing.T) {
		g, err := newTestGroup(t).AddMember("member-001", now)
		require.NoError(t, err)
		g, err = g.RemoveMember("member-001", false, now)
		require.NoError(t, err)
		assert.False(t, g.IsMember("member-001"))
	})

	t.Run("unknown member is not found", func(t *testing.T) {
		_, err := newTestGroup(t).RemoveMember("member-999", false, now)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrNotFound))
	})

	t.Run("member with contributions stays", func(t *testing.T) {
		g, err := newTestGroup(t).AddMember("member-001", now)
		require.NoError(t, err)
		_, err = g.RemoveMember("member-001", true, now)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrConflict))
	})
}

func TestGroupUpdate(t *testing.T) {
	now := time.Now().UTC()

	t.Run("changes configuration before any contribution", func(t *testing.T) {
		g, err := newTestGroup(t).Update("Nuevo Nombre", 12, decimal.NewFromInt(150), 5, false, now)
		require.NoError(t, err)
		assert.Equal(t, "Nuevo Nombre", g.Name())
		assert.Equal(t, 12, g.DurationWeeks())
		assert.True(t, g.WeeklyAmount().Equal(decimal.NewFromInt(150)))
		assert.Equal(t, 5, g.MemberLimit())
	})

	t.Run("zero-valued fields keep the current value", func(t *testing.T) {
		g, err := newTestGroup(t).Update("", 0, decimal.Zero, 0, false, now)
		require.NoError(t, err)
		assert.Equal(t, "Vecinos del Centro", g.Name())
		assert.Equal(t, 10, g.DurationWeeks())
	})

	t.Run("frozen once contributions exist", func(t *testing.T) {
		_, err := newTestGroup(t).Update("Nuevo", 0, decimal.Zero, 0, true, now)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrConflict))
	})

	t.Run("member limit cannot drop below the roster", func(t *testing.T) {
		g := newTestGroup(t)
		var err error
		for _, id := range []string{"m1", "m2", "m3"} {
			g, err = g.AddMember(id, now)
			require.NoError(t, err)
		}
		_, err = g.Update("", 0, decimal.Zero, 2, false, now)
		assert.True(t, valueobject.IsKind(err, valueobject.ErrConflict))
	})
}
