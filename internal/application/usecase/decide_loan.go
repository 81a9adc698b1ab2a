package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/tandaclub/tanda/internal/application/dto"
	"github.com/tandaclub/tanda/internal/domain/port"
	"github.com/tandaclub/tanda/internal/domain/valueobject"
)

// DecideLoanUseCase approves or rejects a pending loan. Approval generates
// the full payment schedule.
type DecideLoanUseCase struct {
	loanRepo  port.LoanRepository
	publisher port.EventPublisher
}

// NewDecideLoanUseCase wires dependencies.
func NewDecideLoanUseCase(
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
) *DecideLoanUseCase {
	return &DecideLoanUseCase{
		loanRepo:  loanRepo,
		publisher: publisher,
	}
}

// Execute applies the decision. Only administrators decide loans; only
// pending loans are decidable.
func (uc *DecideLoanUseCase) Execute(
	ctx context.Context,
	req dto.DecideLoanRequest,
) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	// 1. Role check.
	if req.RequesterRole != roleAdmin {
		return dto.LoanResponse{}, valueobject.Forbiddenf("only administrators can decide loans")
	}

	// 2. Retrieve the loan.
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}

	// 3. Transition.
	if req.Approve {
		loan, err = loan.Approve(now)
	} else {
		loan, err = loan.Reject(now)
	}
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("decide loan: %w", err)
	}

	// 4. Persist with optimistic concurrency so two concurrent decisions
	//    cannot both generate a schedule.
	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}

	// 5. Publish events (best-effort).
	publishEvents(ctx, uc.publisher, loan.DomainEvents()...)

	return toLoanResponse(loan, false), nil
}

// RegisterPaymentUseCase marks one scheduled week of an approved loan as
// paid. Paying the last open week settles the loan.
type RegisterPaymentUseCase struct {
	loanRepo  port.LoanRepository
	publisher port.EventPublisher
}

// NewRegisterPaymentUseCase wires dependencies.
func NewRegisterPaymentUseCase(
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
) *RegisterPaymentUseCase {
	return &RegisterPaymentUseCase{
		loanRepo:  loanRepo,
		publisher: publisher,
	}
}

// Execute registers the weekly payment.
func (uc *RegisterPaymentUseCase) Execute(
	ctx context.Context,
	req dto.RegisterPaymentRequest,
) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	// 1. Retrieve the loan.
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}

	// 2. Mark the week paid; the aggregate settles the loan itself when
	//    the last open week is covered.
	loan, err = loan.RegisterPayment(req.Week, now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("register payment: %w", err)
	}

	// 3. Persist with optimistic concurrency.
	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}

	// 4. Publish events (best-effort).
	publishEvents(ctx, uc.publisher, loan.DomainEvents()...)

	return toLoanResponse(loan, true), nil
}

// MarkLoanPaidUseCase settles an approved loan outside per-week tracking,
// e.g. early payoff or write-off.
type MarkLoanPaidUseCase struct {
	loanRepo  port.LoanRepository
	publisher port.EventPublisher
}

// NewMarkLoanPaidUseCase wires dependencies.
func NewMarkLoanPaidUseCase(
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
) *MarkLoanPaidUseCase {
	return &MarkLoanPaidUseCase{
		loanRepo:  loanRepo,
		publisher: publisher,
	}
}

// Execute forces the loan to its settled state. Administrators only.
func (uc *MarkLoanPaidUseCase) Execute(
	ctx context.Context,
	req dto.MarkLoanPaidRequest,
) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	// 1. Role check.
	if req.RequesterRole != roleAdmin {
		return dto.LoanResponse{}, valueobject.Forbiddenf("only administrators can settle loans")
	}

	// 2. Retrieve the loan.
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}

	// 3. Settle.
	loan, err = loan.MarkPaid(now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("mark loan paid: %w", err)
	}

	// 4. Persist with optimistic concurrency.
	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}

	// 5. Publish events (best-effort).
	publishEvents(ctx, uc.publisher, loan.DomainEvents()...)

	return toLoanResponse(loan, false), nil
}
