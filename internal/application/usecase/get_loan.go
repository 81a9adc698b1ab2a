package usecase

import (
	"context"
	"fmt"

	"github.com/tandaclub/tanda/internal/application/dto"
	"github.com/tandaclub/tanda/internal/domain/port"
)

// GetLoanUseCase retrieves a loan with its derived repayment summary.
type GetLoanUseCase struct {
	loanRepo port.LoanRepository
}

// NewGetLoanUseCase wires dependencies.
func NewGetLoanUseCase(loanRepo port.LoanRepository) *GetLoanUseCase {
	return &GetLoanUseCase{loanRepo: loanRepo}
}

// Execute returns the loan with amount paid, weeks remaining and progress.
func (uc *GetLoanUseCase) Execute(ctx context.Context, req dto.GetLoanRequest) (dto.LoanResponse, error) {
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}
	return toLoanResponse(loan, true), nil
}

// ListLoansUseCase lists loans.
type ListLoansUseCase struct {
	loanRepo port.LoanRepository
}

// NewListLoansUseCase wires dependencies.
func NewListLoansUseCase(loanRepo port.LoanRepository) *ListLoansUseCase {
	return &ListLoansUseCase{loanRepo: loanRepo}
}

// Execute returns every loan, oldest first.
func (uc *ListLoansUseCase) Execute(ctx context.Context) ([]dto.LoanResponse, error) {
	loans, err := uc.loanRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	return toLoanResponses(loans), nil
}

// ByMember returns one member's loans, oldest first.
func (uc *ListLoansUseCase) ByMember(ctx context.Context, memberID string) ([]dto.LoanResponse, error) {
	loans, err := uc.loanRepo.FindByMemberID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("list loans by member: %w", err)
	}
	return toLoanResponses(loans), nil
}
