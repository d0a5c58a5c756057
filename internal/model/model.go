// Package model defines the core domain types for the seminar
// enrollment system.
package model

import "time"

// Seminar is a bookable seminar created by an instructor. Seminars are
// never mutated after creation; they can only be deleted.
type Seminar struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Capacity     int       `json:"capacity"`
	SessionCount int       `json:"session_count"`
	Schedule     string    `json:"schedule"`
	Online       bool      `json:"online"`
	CreatedAt    time.Time `json:"created_at"`
}

// User is the acting account. Role and registration status are decided
// upstream; this service only reads them.
type User struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	Registered bool   `json:"registered"`
}

// Membership records one user's relationship to one seminar, including
// its active/inactive history. Rows are never deleted on drop.
type Membership struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	SeminarID   string     `json:"seminar_id"`
	Participant bool       `json:"participant"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	ModifiedAt  time.Time  `json:"modified_at"`
	DroppedAt   *time.Time `json:"dropped_at,omitempty"`
}

// Dropped returns a copy of the membership marked inactive at now.
// The receiver is left untouched; callers persist the new snapshot.
func (m Membership) Dropped(now time.Time) Membership {
	m.Active = false
	m.ModifiedAt = now
	m.DroppedAt = &now
	return m
}

// CreateSeminarRequest is the payload for creating a new seminar.
type CreateSeminarRequest struct {
	Name         string `json:"name"`
	Capacity     int    `json:"capacity"`
	SessionCount int    `json:"session_count"`
	Schedule     string `json:"schedule"`
	Online       bool   `json:"online"`
}

// ParticipateRequest is the payload for joining a seminar.
type ParticipateRequest struct {
	Role string `json:"role"`
}

// InstructorSummary identifies the instructor attached to a seminar view.
type InstructorSummary struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joined_at"`
}

// SeminarView is the public representation of a seminar returned by the
// service. Instructor is populated on creation, where the creator is known.
type SeminarView struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Capacity     int                `json:"capacity"`
	SessionCount int                `json:"session_count"`
	Schedule     string             `json:"schedule"`
	Online       bool               `json:"online"`
	CreatedAt    time.Time          `json:"created_at"`
	Instructor   *InstructorSummary `json:"instructor,omitempty"`
}

// View builds the public representation of s.
func (s *Seminar) View() *SeminarView {
	return &SeminarView{
		ID:           s.ID,
		Name:         s.Name,
		Capacity:     s.Capacity,
		SessionCount: s.SessionCount,
		Schedule:     s.Schedule,
		Online:       s.Online,
		CreatedAt:    s.CreatedAt,
	}
}

// SeminarSummary is one entry in a seminar listing.
type SeminarSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Capacity     int       `json:"capacity"`
	SessionCount int       `json:"session_count"`
	Schedule     string    `json:"schedule"`
	Online       bool      `json:"online"`
	CreatedAt    time.Time `json:"created_at"`
}

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
