package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tandaclub/tanda/internal/domain/valueobject"
)

// Contribution is one member's payment for one week of one group. The triple
// (group, member, week) is unique; the storage layer enforces it atomically.
type Contribution struct {
	ID        string          `json:"id"`
	GroupID   string          `json:"group_id"`
	MemberID  string          `json:"member_id"`
	Week      int             `json:"week"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    time.Time       `json:"paid_at"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewContribution validates a contribution request against its group and
// builds the record with a server-assigned timestamp. Checks run in a fixed
// order and the first failure short-circuits: roster membership, week range,
// duplicate week, amount. The alreadyPaid flag is the caller's lookup of an
// existing (group, member, week) record; the store re-enforces uniqueness
// atomically on insert.
func NewContribution(group Group, memberID string, week int, amount decimal.Decimal, alreadyPaid bool, now time.Time) (Contribution, error) {
	if !group.IsMember(memberID) {
		return Contribution{}, valueobject.Forbiddenf("you are not a member of this group")
	}
	if week < 1 || week > group.DurationWeeks() {
		return Contribution{}, valueobject.OutOfRangef("week %d is not valid, the group runs for %d weeks", week, group.DurationWeeks())
	}
	if alreadyPaid {
		return Contribution{}, valueobject.Conflictf("week %d has already been paid", week)
	}
	if !amount.Equal(group.WeeklyAmount()) {
		return Contribution{}, valueobject.OutOfRangef("contribution amount must be %s", group.WeeklyAmount().String())
	}

	return Contribution{
		ID:        uuid.New().String(),
		GroupID:   group.ID(),
		MemberID:  memberID,
		Week:      week,
		Amount:    amount,
		PaidAt:    now,
		CreatedAt: now,
	}, nil
}
