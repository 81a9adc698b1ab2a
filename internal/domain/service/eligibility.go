package service

import (
	"github.com/shopspring/decimal"

	"github.com/tandaclub/tanda/internal/domain/model"
)

// ---------------------------------------------------------------------------
// EligibilityEvaluator – domain service for loan qualification rules
// ---------------------------------------------------------------------------

// MinParticipationPct is the participation threshold (inclusive) a member
// must reach in a group to qualify for a loan.
var MinParticipationPct = decimal.NewFromInt(80)

// maxLoanPoolShare caps the borrowable amount at half the group's theoretical
// full-cycle pool.
var maxLoanPoolShare = decimal.NewFromFloat(0.5)

// Evaluation is the outcome of evaluating one member against one group.
type Evaluation struct {
	GroupID          string
	ParticipationPct decimal.Decimal
	Eligible         bool
	MaxLoanAmount    decimal.Decimal
}

// ContributionStats is the read-only projection of a member's payment record
// within a group, exposed by the contribution stats endpoint.
type ContributionStats struct {
	TotalContributions    int             `json:"total_contributions"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	ExpectedContributions int             `json:"expected_contributions"`
	ParticipationPct      decimal.Decimal `json:"participation_pct"`
	EligibleForLoan       bool            `json:"eligible_for_loan"`
}

// EligibilityEvaluator encapsulates the participation and borrowing rules.
type EligibilityEvaluator struct{}

// NewEligibilityEvaluator returns a new evaluator instance.
func NewEligibilityEvaluator() *EligibilityEvaluator {
	return &EligibilityEvaluator{}
}

// Evaluate computes a member's standing in a group from their contribution
// count:
//
//	participationPct = contributions / group.duration × 100  (2 decimals)
//	eligible         = participationPct >= 80
//	maxLoanAmount    = group.weeklyAmount × group.duration × 0.5
//
// Historical contributions count even if the member has since left the
// roster; membership is deliberately not re-checked here.
func (e *EligibilityEvaluator) Evaluate(group model.Group, contributionCount int) Evaluation {
	pct := ParticipationPct(contributionCount, group.DurationWeeks())

	return Evaluation{
		GroupID:          group.ID(),
		ParticipationPct: pct,
		Eligible:         pct.GreaterThanOrEqual(MinParticipationPct),
		MaxLoanAmount:    MaxLoanAmount(group.WeeklyAmount(), group.DurationWeeks()),
	}
}

// Stats builds the contribution statistics projection for a member in a
// group, reusing the participation formula and the ≥80% loan threshold.
func (e *EligibilityEvaluator) Stats(group model.Group, contributions []model.Contribution) ContributionStats {
	total := decimal.Zero
	for _, c := range contributions {
		total = total.Add(c.Amount)
	}

	pct := ParticipationPct(len(contributions), group.DurationWeeks())

	return ContributionStats{
		TotalContributions:    len(contributions),
		TotalAmount:           total,
		ExpectedContributions: group.DurationWeeks(),
		ParticipationPct:      pct,
		EligibleForLoan:       pct.GreaterThanOrEqual(MinParticipationPct),
	}
}

// ParticipationPct is contributions ÷ duration expressed as a percentage,
// rounded to two decimals.
func ParticipationPct(contributionCount, durationWeeks int) decimal.Decimal {
	if durationWeeks <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(contributionCount) * 100).
		Div(decimal.NewFromInt(int64(durationWeeks))).
		Round(2)
}

// MaxLoanAmount is half of the group's theoretical full-cycle pool.
func MaxLoanAmount(weeklyAmount decimal.Decimal, durationWeeks int) decimal.Decimal {
	pool := weeklyAmount.Mul(decimal.NewFromInt(int64(durationWeeks)))
	return pool.Mul(maxLoanPoolShare)
}
