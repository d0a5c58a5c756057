package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/minseo-kang/seminar-enrollment/internal/model"
)

// UserRepository reads user accounts. Accounts are managed by an
// upstream system; this service never writes them.
type UserRepository struct {
	db *DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID returns a user or model.ErrUserNotFound.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := r.db.queryRow(ctx,
		`SELECT id, username, email, role, is_registered FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.Registered)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// ProfileRepository answers participant-profile existence checks.
type ProfileRepository struct {
	db *DB
}

// NewProfileRepository constructs a ProfileRepository.
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// HasParticipantProfile reports whether the user holds a participant
// profile, the prerequisite for joining any seminar as a participant.
func (r *ProfileRepository) HasParticipantProfile(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.db.queryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM participant_profiles WHERE user_id = $1)`,
		userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check participant profile: %w", err)
	}
	return exists, nil
}
