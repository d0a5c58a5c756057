package model

import "errors"

// Domain errors. The handler layer maps these onto HTTP statuses; the
// service layer returns them unwrapped or wrapped with %w.
var (
	// Invalid request (400).
	ErrInvalidRole     = errors.New("unknown role")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrCannotInstruct  = errors.New("a participant account cannot join as instructor")
	ErrSeminarFull     = errors.New("seminar is at capacity")
	ErrAlreadyEnrolled = errors.New("already enrolled in this seminar")
	ErrDroppedBefore   = errors.New("cannot rejoin a seminar after dropping it")
	ErrInstructorBusy  = errors.New("already instructing an active seminar")

	// Forbidden (403).
	ErrNotRegistered           = errors.New("user is not an active registered account")
	ErrParticipantCannotCreate = errors.New("participants cannot create seminars")
	ErrNoParticipantProfile    = errors.New("user has no participant profile")
	ErrInstructorCannotDrop    = errors.New("instructors cannot drop their seminar")
	ErrDeleteForbidden         = errors.New("only the seminar's active instructor can delete it")

	// Not found (404).
	ErrSeminarNotFound = errors.New("seminar not found")
	ErrUserNotFound    = errors.New("user not found")

	// Conflict (409).
	ErrDuplicateName = errors.New("a seminar with this name already exists")
)
