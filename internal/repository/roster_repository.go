package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clansdown/KingShotMinisterScheduler/internal/models"
)

// RosterRepository persists alliance roster members.
type RosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository constructs repository.
func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

const rosterColumns = `id, alliance, name, speedup, used_for, construction, research, training, truegold, start_time, end_time, all_times, created_at, updated_at`

// ListAll returns every roster member in import order. The scheduler's tie
// breaking depends on input order, so the ordering here must be stable.
func (r *RosterRepository) ListAll(ctx context.Context) ([]models.RosterMember, error) {
	query := fmt.Sprintf(`SELECT %s FROM roster_members ORDER BY created_at ASC, id ASC`, rosterColumns)
	var members []models.RosterMember
	if err := r.db.SelectContext(ctx, &members, query); err != nil {
		return nil, fmt.Errorf("list roster members: %w", err)
	}
	return members, nil
}

// List returns one page of roster members with pagination metadata.
func (r *RosterRepository) List(ctx context.Context, page, pageSize int) ([]models.RosterMember, *models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM roster_members`); err != nil {
		return nil, nil, fmt.Errorf("count roster members: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM roster_members ORDER BY alliance ASC, name ASC LIMIT $1 OFFSET $2`, rosterColumns)
	var members []models.RosterMember
	if err := r.db.SelectContext(ctx, &members, query, pageSize, (page-1)*pageSize); err != nil {
		return nil, nil, fmt.Errorf("list roster members: %w", err)
	}
	return members, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Upsert inserts a member, replacing an existing record with the same
// alliance/name identity.
func (r *RosterRepository) Upsert(ctx context.Context, member *models.RosterMember) error {
	if member == nil {
		return fmt.Errorf("roster member payload is nil")
	}
	if member.Alliance == "" || member.Name == "" {
		return fmt.Errorf("alliance and name are required")
	}
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
	}
	member.UpdatedAt = now

	const query = `
INSERT INTO roster_members (id, alliance, name, speedup, used_for, construction, research, training, truegold, start_time, end_time, all_times, created_at, updated_at)
VALUES (:id, :alliance, :name, :speedup, :used_for, :construction, :research, :training, :truegold, :start_time, :end_time, :all_times, :created_at, :updated_at)
ON CONFLICT (alliance, name) DO UPDATE SET
	speedup = EXCLUDED.speedup,
	used_for = EXCLUDED.used_for,
	construction = EXCLUDED.construction,
	research = EXCLUDED.research,
	training = EXCLUDED.training,
	truegold = EXCLUDED.truegold,
	start_time = EXCLUDED.start_time,
	end_time = EXCLUDED.end_time,
	all_times = EXCLUDED.all_times,
	updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		return fmt.Errorf("upsert roster member: %w", err)
	}
	return nil
}

// Delete removes a roster member by id.
func (r *RosterRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM roster_members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete roster member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("roster member rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
