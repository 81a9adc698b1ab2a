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

// GroupRepo implements port.GroupRepository.
type GroupRepo struct {
	pool *pgxpool.Pool
}

// NewGroupRepo creates a new PostgreSQL-backed group repository.
func NewGroupRepo(pool *pgxpool.Pool) *GroupRepo {
	return &GroupRepo{pool: pool}
}

const groupColumns = `
	id, name, duration_weeks, weekly_amount, member_limit,
	member_ids, creator_id, version, created_at, updated_at
`

// Save inserts a new group. The name carries a unique constraint.
func (r *GroupRepo) Save(ctx context.Context, group model.Group) error {
	query := `
		INSERT INTO groups (
			id, name, duration_weeks, weekly_amount, member_limit,
			member_ids, creator_id, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`
	_, err := r.pool.Exec(ctx, query,
		group.ID(), group.Name(), group.DurationWeeks(), group.WeeklyAmount(), group.MemberLimit(),
		group.MemberIDs(), group.CreatorID(), group.Version(), group.CreatedAt(), group.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return valueobject.Conflictf("a group named %q already exists", group.Name())
		}
		return fmt.Errorf("save group: %w", err)
	}
	return nil
}

// Update persists roster or configuration changes with optimistic locking.
// The row is locked while the current roster is compared against the new
// one; a member leaving the roster must not have contributions, and the
// check has to see the roster and the contribution table at the same
// instant to stay ahead of concurrent contribution inserts.
func (r *GroupRepo) Update(ctx context.Context, group model.Group) error {
	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var currentMembers []string
		var version int
		err := tx.QueryRow(ctx,
			`SELECT member_ids, version FROM groups WHERE id = $1 FOR UPDATE`,
			group.ID(),
		).Scan(&currentMembers, &version)
		if err != nil {
			if isNoRows(err) {
				return valueobject.NotFoundf("group %s not found", group.ID())
			}
			return fmt.Errorf("lock group: %w", err)
		}
		if version != group.Version() {
			return valueobject.Conflictf("the group was modified concurrently, retry")
		}

		for _, removed := range removedMembers(currentMembers, group.MemberIDs()) {
			var contributed bool
			err = tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM contributions WHERE group_id = $1 AND member_id = $2)`,
				group.ID(), removed,
			).Scan(&contributed)
			if err != nil {
				return fmt.Errorf("check member contributions: %w", err)
			}
			if contributed {
				return valueobject.Conflictf("cannot remove a member who has contributions in this group")
			}
		}

		query := `
			UPDATE groups SET
				name           = $2,
				duration_weeks = $3,
				weekly_amount  = $4,
				member_limit   = $5,
				member_ids     = $6,
				version        = version + 1,
				updated_at     = $7
			WHERE id = $1
		`
		_, err = tx.Exec(ctx, query,
			group.ID(), group.Name(), group.DurationWeeks(), group.WeeklyAmount(),
			group.MemberLimit(), group.MemberIDs(), group.UpdatedAt(),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return valueobject.Conflictf("a group named %q already exists", group.Name())
			}
			return fmt.Errorf("update group: %w", err)
		}

		return nil
	})
}

// Delete removes a group. Groups with contribution history are blocked by
// the usecase; the foreign key backs that check up.
func (r *GroupRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return valueobject.NotFoundf("group %s not found", id)
	}
	return nil
}

// FindByID retrieves a single group.
func (r *GroupRepo) FindByID(ctx context.Context, id string) (model.Group, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE id = $1`, id)
	group, err := scanGroupRow(row)
	if err != nil {
		if isNoRows(err) {
			return model.Group{}, valueobject.NotFoundf("group %s not found", id)
		}
		return model.Group{}, err
	}
	return group, nil
}

// FindByMemberID returns the groups a member belongs to, oldest first. The
// ordering feeds the first-eligible-group policy of loan requests.
func (r *GroupRepo) FindByMemberID(ctx context.Context, memberID string) ([]model.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE $1 = ANY(member_ids) ORDER BY created_at ASC`
	return r.queryGroups(ctx, query, memberID)
}

// FindAll returns every group, oldest first.
func (r *GroupRepo) FindAll(ctx context.Context) ([]model.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups ORDER BY created_at ASC`
	return r.queryGroups(ctx, query)
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

func (r *GroupRepo) queryGroups(ctx context.Context, query string, args ...any) ([]model.Group, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()

	var groups []model.Group
	for rows.Next() {
		g, err := scanGroupRow(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func scanGroupRow(s scannable) (model.Group, error) {
	var (
		id, name             string
		durationWeeks        int
		weeklyAmount         decimal.Decimal
		memberLimit          int
		memberIDs            []string
		creatorID            string
		version              int
		createdAt, updatedAt time.Time
	)

	err := s.Scan(
		&id, &name, &durationWeeks, &weeklyAmount, &memberLimit,
		&memberIDs, &creatorID, &version, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.Group{}, err
	}

	return model.ReconstructGroup(
		id, name, durationWeeks, weeklyAmount, memberLimit,
		memberIDs, creatorID, version, createdAt, updatedAt,
	), nil
}

func removedMembers(current, next []string) []string {
	keep := make(map[string]struct{}, len(next))
	for _, id := range next {
		keep[id] = struct{}{}
	}
	var removed []string
	for _, id := range current {
		if _, ok := keep[id]; !ok {
			removed = append(removed, id)
		}
	}
	return removed
}
