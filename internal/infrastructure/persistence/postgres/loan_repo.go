package postgres

import (
	"context"
	"time"

	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tandaclub/tanda/internal/domain/model"
	"github.com/tandaclub/tanda/internal/domain/valueobject"
	pkgpostgres "github.com/tandaclub/tanda/pkg/postgres"
)

// LoanRepo implements port.LoanRepository.
type LoanRepo struct {
	pool *pgxpool.Pool
}

// NewLoanRepo creates a new PostgreSQL-backed loan repository.
func NewLoanRepo(pool *pgxpool.Pool) *LoanRepo {
	return &LoanRepo{pool: pool}
}

const loanColumns = `
	id, member_id, principal, term_weeks, weekly_installment,
	interest_pct, total_payable, status, version, created_at, updated_at
`

// Save persists a loan and its payment schedule. Existing rows take a
// version-guarded UPDATE: a stale version writes zero rows, so two concurrent
// approvals cannot both generate a schedule. New rows go through INSERT,
// where a partial unique index on member_id over open statuses enforces one
// open loan per member. The two statements stay separate because an upsert's
// candidate tuple would collide with the partial index entry of the very row
// it updates.
func (r *LoanRepo) Save(ctx context.Context, loan model.Loan) error {
	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		updateQuery := `
			UPDATE loans SET
				status     = $2,
				version    = version + 1,
				updated_at = $3
			WHERE id = $1 AND version = $4
		`
		tag, err := tx.Exec(ctx, updateQuery,
			loan.ID(), loan.Status().String(), loan.UpdatedAt(), loan.Version(),
		)
		if err != nil {
			return fmt.Errorf("update loan: %w", err)
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM loans WHERE id = $1)`, loan.ID(),
			).Scan(&exists); err != nil {
				return fmt.Errorf("check loan exists: %w", err)
			}
			if exists {
				return valueobject.Conflictf("the loan was modified concurrently, retry")
			}

			insertQuery := `
				INSERT INTO loans (
					id, member_id, principal, term_weeks, weekly_installment,
					interest_pct, total_payable, status, version, created_at, updated_at
				) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
			`
			_, err := tx.Exec(ctx, insertQuery,
				loan.ID(), loan.MemberID(), loan.Principal(), loan.TermWeeks(), loan.WeeklyInstallment(),
				loan.InterestPct(), loan.TotalPayable(), loan.Status().String(),
				loan.Version(), loan.CreatedAt(), loan.UpdatedAt(),
			)
			if err != nil {
				if isUniqueViolation(err) {
					return valueobject.Conflictf("you already have a pending or approved loan")
				}
				return fmt.Errorf("save loan: %w", err)
			}
		}

		for _, rec := range loan.Schedule() {
			recordQuery := `
				INSERT INTO loan_payments (loan_id, week, paid, paid_at, amount)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (loan_id, week) DO UPDATE SET
					paid    = EXCLUDED.paid,
					paid_at = EXCLUDED.paid_at
			`
			_, err := tx.Exec(ctx, recordQuery,
				loan.ID(), rec.Week, rec.Paid, rec.PaidAt, rec.Amount,
			)
			if err != nil {
				return fmt.Errorf("save payment record %d: %w", rec.Week, err)
			}
		}

		return nil
	})
}

// FindByID retrieves a loan and its payment schedule.
func (r *LoanRepo) FindByID(ctx context.Context, id string) (model.Loan, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id)
	loan, err := scanLoanRow(row)
	if err != nil {
		if isNoRows(err) {
			return model.Loan{}, valueobject.NotFoundf("loan %s not found", id)
		}
		return model.Loan{}, err
	}

	schedule, err := r.loadSchedule(ctx, id)
	if err != nil {
		return model.Loan{}, err
	}

	return withSchedule(loan, schedule), nil
}

// FindByMemberID retrieves all loans of a member, oldest first.
func (r *LoanRepo) FindByMemberID(ctx context.Context, memberID string) ([]model.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE member_id = $1 ORDER BY created_at ASC`
	return r.queryLoans(ctx, query, memberID)
}

// FindAll retrieves every loan, oldest first.
func (r *LoanRepo) FindAll(ctx context.Context) ([]model.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans ORDER BY created_at ASC`
	return r.queryLoans(ctx, query)
}

// HasOpenLoan reports whether the member has a pending or approved loan.
func (r *LoanRepo) HasOpenLoan(ctx context.Context, memberID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM loans WHERE member_id = $1 AND status IN ('PENDING','APPROVED'))`,
		memberID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check open loans: %w", err)
	}
	return exists, nil
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

func (r *LoanRepo) queryLoans(ctx context.Context, query string, args ...any) ([]model.Loan, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var loans []model.Loan
	for rows.Next() {
		loan, err := scanLoanRow(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, loan := range loans {
		schedule, err := r.loadSchedule(ctx, loan.ID())
		if err != nil {
			return nil, err
		}
		loans[i] = withSchedule(loan, schedule)
	}
	return loans, nil
}

func scanLoanRow(s scannable) (model.Loan, error) {
	var (
		id, memberID                               string
		principal, weeklyInstallment, totalPayable decimal.Decimal
		termWeeks, interestPct, version            int
		statusStr                                  string
		createdAt, updatedAt                       time.Time
	)

	err := s.Scan(
		&id, &memberID, &principal, &termWeeks, &weeklyInstallment,
		&interestPct, &totalPayable, &statusStr, &version, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.Loan{}, err
	}

	status, err := valueobject.NewLoanStatus(statusStr)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse loan status: %w", err)
	}

	return model.ReconstructLoan(
		id, memberID, principal, termWeeks, weeklyInstallment,
		interestPct, totalPayable, status, nil,
		version, createdAt, updatedAt,
	), nil
}

func (r *LoanRepo) loadSchedule(ctx context.Context, loanID string) ([]model.PaymentRecord, error) {
	query := `
		SELECT week, paid, paid_at, amount
		FROM loan_payments
		WHERE loan_id = $1
		ORDER BY week
	`
	rows, err := r.pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("query payment records: %w", err)
	}
	defer rows.Close()

	var schedule []model.PaymentRecord
	for rows.Next() {
		var rec model.PaymentRecord
		if err := rows.Scan(&rec.Week, &rec.Paid, &rec.PaidAt, &rec.Amount); err != nil {
			return nil, fmt.Errorf("scan payment record: %w", err)
		}
		schedule = append(schedule, rec)
	}
	return schedule, rows.Err()
}

func withSchedule(loan model.Loan, schedule []model.PaymentRecord) model.Loan {
	return model.ReconstructLoan(
		loan.ID(), loan.MemberID(), loan.Principal(), loan.TermWeeks(), loan.WeeklyInstallment(),
		loan.InterestPct(), loan.TotalPayable(), loan.Status(), schedule,
		loan.Version(), loan.CreatedAt(), loan.UpdatedAt(),
	)
}
