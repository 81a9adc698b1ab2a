package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/tandaclub/tanda/internal/application/dto"
	"github.com/tandaclub/tanda/internal/domain/model"
	"github.com/tandaclub/tanda/internal/domain/port"
	"github.com/tandaclub/tanda/internal/domain/service"
	"github.com/tandaclub/tanda/internal/domain/valueobject"
)

// RequestLoanUseCase creates a pending loan for a member after checking
// eligibility across the member's groups.
type RequestLoanUseCase struct {
	loanRepo         port.LoanRepository
	groupRepo        port.GroupRepository
	contributionRepo port.ContributionRepository
	evaluator        *service.EligibilityEvaluator
	publisher        port.EventPublisher
}

// NewRequestLoanUseCase wires dependencies.
func NewRequestLoanUseCase(
	loanRepo port.LoanRepository,
	groupRepo port.GroupRepository,
	contributionRepo port.ContributionRepository,
	evaluator *service.EligibilityEvaluator,
	publisher port.EventPublisher,
) *RequestLoanUseCase {
	return &RequestLoanUseCase{
		loanRepo:         loanRepo,
		groupRepo:        groupRepo,
		contributionRepo: contributionRepo,
		evaluator:        evaluator,
		publisher:        publisher,
	}
}

// Execute processes a borrowing request. Groups are evaluated oldest first
// and the first one reaching the participation threshold qualifies the
// member; remaining groups are not consulted. First match, not best match.
func (uc *RequestLoanUseCase) Execute(
	ctx context.Context,
	req dto.RequestLoanRequest,
) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	// 1. One open loan per member. The store re-checks on insert, this
	//    pre-check just yields the friendlier error.
	hasOpen, err := uc.loanRepo.HasOpenLoan(ctx, req.MemberID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("check open loans: %w", err)
	}
	if hasOpen {
		return dto.LoanResponse{}, valueobject.Conflictf("you already have a pending or approved loan")
	}

	// 2. Find the qualifying group, oldest membership first.
	groups, err := uc.groupRepo.FindByMemberID(ctx, req.MemberID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find groups: %w", err)
	}
	if len(groups) == 0 {
		return dto.LoanResponse{}, valueobject.Forbiddenf("not eligible, you do not belong to any group")
	}

	qualifying, err := uc.firstEligibleGroup(ctx, req.MemberID, groups)
	if err != nil {
		return dto.LoanResponse{}, err
	}

	// 3. Cap the principal at the qualifying group's maximum.
	if req.Principal.GreaterThan(qualifying.MaxLoanAmount) {
		return dto.LoanResponse{}, valueobject.OutOfRangef(
			"principal exceeds the maximum loan of %s for your group", qualifying.MaxLoanAmount.String())
	}

	// 4. Build the pending loan (validates term and principal, computes
	//    the installment and total payable).
	loan, err := model.NewLoanRequest(req.MemberID, req.Principal, req.TermWeeks, now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("new loan: %w", err)
	}

	// 5. Persist atomically against the open-loan index.
	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}

	// 6. Publish events (best-effort).
	publishEvents(ctx, uc.publisher, loan.DomainEvents()...)

	return toLoanResponse(loan, false), nil
}

// firstEligibleGroup evaluates the member against each group in order and
// returns the first eligible evaluation.
func (uc *RequestLoanUseCase) firstEligibleGroup(
	ctx context.Context,
	memberID string,
	groups []model.Group,
) (service.Evaluation, error) {
	for _, g := range groups {
		count, err := uc.contributionRepo.CountByGroupAndMember(ctx, g.ID(), memberID)
		if err != nil {
			return service.Evaluation{}, fmt.Errorf("count contributions: %w", err)
		}
		if eval := uc.evaluator.Evaluate(g, count); eval.Eligible {
			return eval, nil
		}
	}
	return service.Evaluation{}, valueobject.Forbiddenf(
		"not eligible, you need at least %s%% participation in a group", service.MinParticipationPct.String())
}
