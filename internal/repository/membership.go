package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/minseo-kang/seminar-enrollment/internal/model"
)

// Schema constraint names mapped onto domain errors on insert.
const (
	constraintUserSeminar      = "memberships_user_seminar_key"
	constraintActiveInstructor = "memberships_one_active_instructor"
)

// MembershipRepository handles persistence for memberships.
type MembershipRepository struct {
	db *DB
}

// NewMembershipRepository constructs a MembershipRepository.
func NewMembershipRepository(db *DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

const membershipColumns = `id, user_id, seminar_id, is_participant, is_active, created_at, modified_at, dropped_at`

func scanMembership(row pgx.Row) (*model.Membership, error) {
	var m model.Membership
	err := row.Scan(&m.ID, &m.UserID, &m.SeminarID, &m.Participant, &m.Active, &m.CreatedAt, &m.ModifiedAt, &m.DroppedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new membership. The schema's unique constraints back
// the service-level duplicate and instructor-exclusivity checks, so a
// violation here means a concurrent writer won the race; it is reported
// with the same domain error the pre-check would have produced.
func (r *MembershipRepository) Create(ctx context.Context, m *model.Membership) error {
	_, err := r.db.exec(ctx,
		`INSERT INTO memberships (id, user_id, seminar_id, is_participant, is_active, created_at, modified_at, dropped_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.UserID, m.SeminarID, m.Participant, m.Active, m.CreatedAt, m.ModifiedAt, m.DroppedAt,
	)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			switch constraint {
			case constraintUserSeminar:
				return model.ErrAlreadyEnrolled
			case constraintActiveInstructor:
				return model.ErrInstructorBusy
			}
		}
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

// Update persists a new membership snapshot over the stored one. Only
// the mutable fields change; (user, seminar, participant) are fixed at
// creation.
func (r *MembershipRepository) Update(ctx context.Context, m *model.Membership) error {
	tag, err := r.db.exec(ctx,
		`UPDATE memberships SET is_active = $2, modified_at = $3, dropped_at = $4 WHERE id = $1`,
		m.ID, m.Active, m.ModifiedAt, m.DroppedAt,
	)
	if err != nil {
		return fmt.Errorf("update membership: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update membership: no row with id %s", m.ID)
	}
	return nil
}

// FindBySeminarID returns all memberships for a seminar, active or not.
func (r *MembershipRepository) FindBySeminarID(ctx context.Context, seminarID string) ([]model.Membership, error) {
	return r.findAll(ctx,
		`SELECT `+membershipColumns+` FROM memberships WHERE seminar_id = $1 ORDER BY created_at ASC`,
		seminarID)
}

// FindByUserID returns all memberships held by a user across all
// seminars, active or not.
func (r *MembershipRepository) FindByUserID(ctx context.Context, userID string) ([]model.Membership, error) {
	return r.findAll(ctx,
		`SELECT `+membershipColumns+` FROM memberships WHERE user_id = $1 ORDER BY created_at ASC`,
		userID)
}

// FindByUserAndSeminar returns the membership for a (user, seminar)
// pair, or (nil, nil) when none exists.
func (r *MembershipRepository) FindByUserAndSeminar(ctx context.Context, userID, seminarID string) (*model.Membership, error) {
	row := r.db.queryRow(ctx,
		`SELECT `+membershipColumns+` FROM memberships WHERE user_id = $1 AND seminar_id = $2`,
		userID, seminarID)
	m, err := scanMembership(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return m, nil
}

func (r *MembershipRepository) findAll(ctx context.Context, sql string, args ...any) ([]model.Membership, error) {
	rows, err := r.db.query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []model.Membership
	for rows.Next() {
		var m model.Membership
		if err := rows.Scan(&m.ID, &m.UserID, &m.SeminarID, &m.Participant, &m.Active, &m.CreatedAt, &m.ModifiedAt, &m.DroppedAt); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}
