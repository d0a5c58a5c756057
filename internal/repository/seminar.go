package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/minseo-kang/seminar-enrollment/internal/model"
)

// SeminarRepository handles persistence for seminars.
type SeminarRepository struct {
	db *DB
}

// NewSeminarRepository constructs a SeminarRepository.
func NewSeminarRepository(db *DB) *SeminarRepository {
	return &SeminarRepository{db: db}
}

const seminarColumns = `id, name, capacity, session_count, schedule, online, created_at`

func scanSeminar(row pgx.Row) (*model.Seminar, error) {
	var s model.Seminar
	err := row.Scan(&s.ID, &s.Name, &s.Capacity, &s.SessionCount, &s.Schedule, &s.Online, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindByID returns a single seminar or model.ErrSeminarNotFound.
func (r *SeminarRepository) FindByID(ctx context.Context, id string) (*model.Seminar, error) {
	row := r.db.queryRow(ctx,
		`SELECT `+seminarColumns+` FROM seminars WHERE id = $1`, id)
	s, err := scanSeminar(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSeminarNotFound
		}
		return nil, fmt.Errorf("get seminar: %w", err)
	}
	return s, nil
}

// FindByIDForUpdate is FindByID with an exclusive row-level lock. Inside
// a transaction it serialises every read-check-write sequence that
// targets the same seminar, which is what keeps the capacity invariant
// under concurrent joins.
func (r *SeminarRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.Seminar, error) {
	row := r.db.queryRow(ctx,
		`SELECT `+seminarColumns+` FROM seminars WHERE id = $1 FOR UPDATE`, id)
	s, err := scanSeminar(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSeminarNotFound
		}
		return nil, fmt.Errorf("lock seminar row: %w", err)
	}
	return s, nil
}

// FindByName returns the seminar with the given name, or (nil, nil) when
// none exists.
func (r *SeminarRepository) FindByName(ctx context.Context, name string) (*model.Seminar, error) {
	row := r.db.queryRow(ctx,
		`SELECT `+seminarColumns+` FROM seminars WHERE name = $1`, name)
	s, err := scanSeminar(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get seminar by name: %w", err)
	}
	return s, nil
}

// Create inserts a new seminar. A duplicate name surfaces as
// model.ErrDuplicateName.
func (r *SeminarRepository) Create(ctx context.Context, s *model.Seminar) error {
	_, err := r.db.exec(ctx,
		`INSERT INTO seminars (id, name, capacity, session_count, schedule, online, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Name, s.Capacity, s.SessionCount, s.Schedule, s.Online, s.CreatedAt,
	)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return model.ErrDuplicateName
		}
		return fmt.Errorf("insert seminar: %w", err)
	}
	return nil
}

// Delete removes a seminar record. Membership rows referencing it are
// removed by the schema's ON DELETE CASCADE.
func (r *SeminarRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.exec(ctx, `DELETE FROM seminars WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete seminar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSeminarNotFound
	}
	return nil
}

// List returns seminar summaries, optionally filtered by a name
// substring. The default order is newest first; earliestFirst flips it
// to ascending creation time. The id tiebreak keeps both orders stable.
func (r *SeminarRepository) List(ctx context.Context, nameFilter string, earliestFirst bool) ([]model.SeminarSummary, error) {
	order := `ORDER BY created_at DESC, id DESC`
	if earliestFirst {
		order = `ORDER BY created_at ASC, id ASC`
	}

	rows, err := r.db.query(ctx,
		`SELECT `+seminarColumns+` FROM seminars
		 WHERE ($1 = '' OR name ILIKE '%' || $1 || '%') `+order,
		nameFilter,
	)
	if err != nil {
		return nil, fmt.Errorf("list seminars: %w", err)
	}
	defer rows.Close()

	var seminars []model.SeminarSummary
	for rows.Next() {
		var s model.SeminarSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Capacity, &s.SessionCount, &s.Schedule, &s.Online, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan seminar: %w", err)
		}
		seminars = append(seminars, s)
	}
	return seminars, rows.Err()
}
