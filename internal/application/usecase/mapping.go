package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tandaclub/tanda/internal/application/dto"
	"github.com/tandaclub/tanda/internal/domain/event"
	"github.com/tandaclub/tanda/internal/domain/model"
	"github.com/tandaclub/tanda/internal/domain/port"
	"github.com/tandaclub/tanda/internal/domain/valueobject"
)

// roleAdmin is the role the identity layer assigns to administrators.
const roleAdmin = "admin"

// publishEvents emits domain events best-effort. Notification delivery must
// never fail the originating operation, so failures are logged and dropped.
func publishEvents(ctx context.Context, publisher port.EventPublisher, evts ...event.DomainEvent) {
	if publisher == nil || len(evts) == 0 {
		return
	}
	if err := publisher.Publish(ctx, evts...); err != nil {
		slog.WarnContext(ctx, "failed to publish domain events",
			slog.Int("count", len(evts)),
			slog.String("error", err.Error()),
		)
	}
}

// ensureMemberExists resolves the member against the identity store. A nil
// directory disables the check.
func ensureMemberExists(ctx context.Context, dir port.MemberDirectory, memberID string) error {
	if dir == nil {
		return nil
	}
	ok, err := dir.Exists(ctx, memberID)
	if err != nil {
		return fmt.Errorf("resolve member: %w", err)
	}
	if !ok {
		return valueobject.NotFoundf("member %s not found", memberID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Model → DTO mapping
// ---------------------------------------------------------------------------

func toGroupResponse(g model.Group) dto.GroupResponse {
	return dto.GroupResponse{
		ID:            g.ID(),
		Name:          g.Name(),
		DurationWeeks: g.DurationWeeks(),
		WeeklyAmount:  g.WeeklyAmount(),
		MemberLimit:   g.MemberLimit(),
		MemberIDs:     g.MemberIDs(),
		CreatorID:     g.CreatorID(),
		CreatedAt:     g.CreatedAt(),
		UpdatedAt:     g.UpdatedAt(),
	}
}

func toContributionResponse(c model.Contribution) dto.ContributionResponse {
	return dto.ContributionResponse{
		ID:        c.ID,
		GroupID:   c.GroupID,
		MemberID:  c.MemberID,
		Week:      c.Week,
		Amount:    c.Amount,
		PaidAt:    c.PaidAt,
		CreatedAt: c.CreatedAt,
	}
}

func toContributionResponses(cs []model.Contribution) []dto.ContributionResponse {
	out := make([]dto.ContributionResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, toContributionResponse(c))
	}
	return out
}

func toLoanResponse(l model.Loan, withSummary bool) dto.LoanResponse {
	schedule := l.Schedule()
	records := make([]dto.PaymentRecordResponse, 0, len(schedule))
	for _, rec := range schedule {
		records = append(records, dto.PaymentRecordResponse{
			Week:   rec.Week,
			Paid:   rec.Paid,
			PaidAt: rec.PaidAt,
			Amount: rec.Amount,
		})
	}

	resp := dto.LoanResponse{
		ID:                l.ID(),
		MemberID:          l.MemberID(),
		Principal:         l.Principal(),
		TermWeeks:         l.TermWeeks(),
		WeeklyInstallment: l.WeeklyInstallment(),
		InterestPct:       l.InterestPct(),
		TotalPayable:      l.TotalPayable(),
		Status:            l.Status().String(),
		Schedule:          records,
		CreatedAt:         l.CreatedAt(),
		UpdatedAt:         l.UpdatedAt(),
	}

	if withSummary {
		s := l.Summary()
		resp.Summary = &dto.LoanSummaryResponse{
			AmountPaid:      s.AmountPaid,
			WeeksRemaining:  s.WeeksRemaining,
			AmountRemaining: s.AmountRemaining,
			ProgressPct:     s.ProgressPct,
		}
	}

	return resp
}

func toLoanResponses(loans []model.Loan) []dto.LoanResponse {
	out := make([]dto.LoanResponse, 0, len(loans))
	for _, l := range loans {
		out = append(out, toLoanResponse(l, false))
	}
	return out
}
