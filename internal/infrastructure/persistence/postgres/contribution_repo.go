package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tandaclub/tanda/internal/domain/model"
	"github.com/tandaclub/tanda/internal/domain/valueobject"
	pkgpostgres "github.com/tandaclub/tanda/pkg/postgres"
)

// ContributionRepo implements port.ContributionRepository.
type ContributionRepo struct {
	pool *pgxpool.Pool
}

// NewContributionRepo creates a new PostgreSQL-backed contribution repository.
func NewContributionRepo(pool *pgxpool.Pool) *ContributionRepo {
	return &ContributionRepo{pool: pool}
}

const contributionColumns = `id, group_id, member_id, week, amount, paid_at, created_at`

// Save inserts a contribution inside a transaction that holds a share lock
// on the group row, so roster mutations serialize against it and the
// membership re-check sees a consistent roster. The unique index on
// (group_id, member_id, week) closes the duplicate race.
func (r *ContributionRepo) Save(ctx context.Context, c model.Contribution) error {
	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var isMember bool
		err := tx.QueryRow(ctx,
			`SELECT $2 = ANY(member_ids) FROM groups WHERE id = $1 FOR SHARE`,
			c.GroupID, c.MemberID,
		).Scan(&isMember)
		if err != nil {
			if isNoRows(err) {
				return valueobject.NotFoundf("group %s not found", c.GroupID)
			}
			return fmt.Errorf("lock group: %w", err)
		}
		if !isMember {
			return valueobject.Forbiddenf("you are not a member of this group")
		}

		query := `
			INSERT INTO contributions (id, group_id, member_id, week, amount, paid_at, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`
		_, err = tx.Exec(ctx, query,
			c.ID, c.GroupID, c.MemberID, c.Week, c.Amount, c.PaidAt, c.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return valueobject.Conflictf("week %d has already been paid", c.Week)
			}
			return fmt.Errorf("save contribution: %w", err)
		}

		return nil
	})
}

// Delete removes a contribution by id.
func (r *ContributionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contributions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contribution: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return valueobject.NotFoundf("contribution %s not found", id)
	}
	return nil
}

// FindByID retrieves a single contribution.
func (r *ContributionRepo) FindByID(ctx context.Context, id string) (model.Contribution, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+contributionColumns+` FROM contributions WHERE id = $1`, id)
	c, err := scanContributionRow(row)
	if err != nil {
		if isNoRows(err) {
			return model.Contribution{}, valueobject.NotFoundf("contribution %s not found", id)
		}
		return model.Contribution{}, err
	}
	return c, nil
}

// FindByGroupID returns a group's contributions ordered by week.
func (r *ContributionRepo) FindByGroupID(ctx context.Context, groupID string) ([]model.Contribution, error) {
	query := `SELECT ` + contributionColumns + ` FROM contributions WHERE group_id = $1 ORDER BY member_id, week`
	return r.queryContributions(ctx, query, groupID)
}

// FindByGroupAndMember returns one member's contributions in a group,
// ordered by week.
func (r *ContributionRepo) FindByGroupAndMember(ctx context.Context, groupID, memberID string) ([]model.Contribution, error) {
	query := `SELECT ` + contributionColumns + ` FROM contributions WHERE group_id = $1 AND member_id = $2 ORDER BY week`
	return r.queryContributions(ctx, query, groupID, memberID)
}

// FindByMemberID returns one member's contributions across all groups.
func (r *ContributionRepo) FindByMemberID(ctx context.Context, memberID string) ([]model.Contribution, error) {
	query := `SELECT ` + contributionColumns + ` FROM contributions WHERE member_id = $1 ORDER BY paid_at`
	return r.queryContributions(ctx, query, memberID)
}

// FindAll returns every contribution, oldest first.
func (r *ContributionRepo) FindAll(ctx context.Context) ([]model.Contribution, error) {
	query := `SELECT ` + contributionColumns + ` FROM contributions ORDER BY paid_at`
	return r.queryContributions(ctx, query)
}

// CountByGroupAndMember counts a member's contributions in a group.
func (r *ContributionRepo) CountByGroupAndMember(ctx context.Context, groupID, memberID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM contributions WHERE group_id = $1 AND member_id = $2`,
		groupID, memberID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count contributions: %w", err)
	}
	return count, nil
}

// ExistsForWeek reports whether the (group, member, week) triple is taken.
func (r *ContributionRepo) ExistsForWeek(ctx context.Context, groupID, memberID string, week int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM contributions WHERE group_id = $1 AND member_id = $2 AND week = $3)`,
		groupID, memberID, week,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check contribution week: %w", err)
	}
	return exists, nil
}

// ExistsForGroup reports whether the group has any contributions.
func (r *ContributionRepo) ExistsForGroup(ctx context.Context, groupID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM contributions WHERE group_id = $1)`,
		groupID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check group contributions: %w", err)
	}
	return exists, nil
}

// ExistsForMember reports whether a member has contributed to the group.
func (r *ContributionRepo) ExistsForMember(ctx context.Context, groupID, memberID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM contributions WHERE group_id = $1 AND member_id = $2)`,
		groupID, memberID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check member contributions: %w", err)
	}
	return exists, nil
}

// FindLatestByGroupAndMember returns the member's most recently paid
// contribution in the group.
func (r *ContributionRepo) FindLatestByGroupAndMember(ctx context.Context, groupID, memberID string) (model.Contribution, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+contributionColumns+` FROM contributions
		 WHERE group_id = $1 AND member_id = $2
		 ORDER BY paid_at DESC, week DESC
		 LIMIT 1`,
		groupID, memberID)
	c, err := scanContributionRow(row)
	if err != nil {
		if isNoRows(err) {
			return model.Contribution{}, valueobject.NotFoundf("no contributions for member %s in group %s", memberID, groupID)
		}
		return model.Contribution{}, err
	}
	return c, nil
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

func (r *ContributionRepo) queryContributions(ctx context.Context, query string, args ...any) ([]model.Contribution, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query contributions: %w", err)
	}
	defer rows.Close()

	var cs []model.Contribution
	for rows.Next() {
		c, err := scanContributionRow(rows)
		if err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	return cs, rows.Err()
}

func scanContributionRow(s scannable) (model.Contribution, error) {
	var (
		c                 model.Contribution
		amount            decimal.Decimal
		paidAt, createdAt time.Time
	)
	err := s.Scan(&c.ID, &c.GroupID, &c.MemberID, &c.Week, &amount, &paidAt, &createdAt)
	if err != nil {
		return model.Contribution{}, err
	}
	c.Amount = amount
	c.PaidAt = paidAt
	c.CreatedAt = createdAt
	return c, nil
}
