// Package service implements the seminar-membership state machine: every
// create/join/drop/delete decision is made here, with the stores acting
// as dumb collaborators.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/minseo-kang/seminar-enrollment/internal/clock"
	"github.com/minseo-kang/seminar-enrollment/internal/model"
)

// SeminarStore is the seminar persistence contract consumed by the service.
type SeminarStore interface {
	FindByID(ctx context.Context, id string) (*model.Seminar, error)
	// FindByIDForUpdate locks the seminar row for the remainder of the
	// surrounding transaction, serialising concurrent writers per seminar.
	FindByIDForUpdate(ctx context.Context, id string) (*model.Seminar, error)
	// FindByName returns (nil, nil) when no seminar has the given name.
	FindByName(ctx context.Context, name string) (*model.Seminar, error)
	Create(ctx context.Context, s *model.Seminar) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, nameFilter string, earliestFirst bool) ([]model.SeminarSummary, error)
}

// MembershipStore is the membership persistence contract.
type MembershipStore interface {
	Create(ctx context.Context, m *model.Membership) error
	Update(ctx context.Context, m *model.Membership) error
	FindBySeminarID(ctx context.Context, seminarID string) ([]model.Membership, error)
	FindByUserID(ctx context.Context, userID string) ([]model.Membership, error)
	// FindByUserAndSeminar returns (nil, nil) when no membership exists.
	FindByUserAndSeminar(ctx context.Context, userID, seminarID string) (*model.Membership, error)
}

// ProfileGate answers whether a user holds a participant profile.
type ProfileGate interface {
	HasParticipantProfile(ctx context.Context, userID string) (bool, error)
}

// TxRunner executes fn as one atomic unit against the stores. Every
// read-check-write sequence below runs inside it.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SeminarService orchestrates all seminar enrollment operations. It is
// stateless and safe for concurrent use; atomicity comes from TxRunner
// plus the row locks taken by the stores.
type SeminarService struct {
	seminars    SeminarStore
	memberships MembershipStore
	profiles    ProfileGate
	tx          TxRunner
	clock       clock.Clock
}

// NewSeminarService constructs a SeminarService with its dependencies.
func NewSeminarService(
	seminars SeminarStore,
	memberships MembershipStore,
	profiles ProfileGate,
	tx TxRunner,
	clk clock.Clock,
) *SeminarService {
	return &SeminarService{
		seminars:    seminars,
		memberships: memberships,
		profiles:    profiles,
		tx:          tx,
		clock:       clk,
	}
}

// CreateSeminar creates a seminar and its instructor membership in one
// transaction, sharing a single creation timestamp. Participants cannot
// create seminars, and names are unique.
func (s *SeminarService) CreateSeminar(ctx context.Context, user model.User, req model.CreateSeminarRequest) (*model.SeminarView, error) {
	if user.Role == model.RoleParticipant {
		return nil, model.ErrParticipantCannotCreate
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, fmt.Errorf("%w: seminar name is required", model.ErrInvalidRequest)
	}
	if req.Capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be a positive integer", model.ErrInvalidRequest)
	}
	if req.SessionCount <= 0 {
		return nil, fmt.Errorf("%w: session count must be a positive integer", model.ErrInvalidRequest)
	}

	now := s.clock.Now()
	seminar := &model.Seminar{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Capacity:     req.Capacity,
		SessionCount: req.SessionCount,
		Schedule:     req.Schedule,
		Online:       req.Online,
		CreatedAt:    now,
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		existing, err := s.seminars.FindByName(ctx, seminar.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return model.ErrDuplicateName
		}
		// The unique index on name backs this up if a concurrent create
		// slips past the read above.
		if err := s.seminars.Create(ctx, seminar); err != nil {
			return err
		}
		return s.memberships.Create(ctx, &model.Membership{
			ID:          uuid.New().String(),
			UserID:      user.ID,
			SeminarID:   seminar.ID,
			Participant: false,
			Active:      true,
			CreatedAt:   now,
			ModifiedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}

	view := seminar.View()
	view.Instructor = &model.InstructorSummary{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		JoinedAt: now,
	}
	return view, nil
}

// ParticipateSeminar enrolls user into a seminar in the requested role.
// Every gate is checked inside one transaction holding the seminar row
// lock, so two concurrent joins cannot both take the last capacity slot.
func (s *SeminarService) ParticipateSeminar(ctx context.Context, seminarID string, user model.User, req model.ParticipateRequest) (*model.SeminarView, error) {
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	var seminar *model.Seminar
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		seminar, err = s.seminars.FindByIDForUpdate(ctx, seminarID)
		if err != nil {
			return err
		}
		if !user.Registered {
			return model.ErrNotRegistered
		}
		if user.Role == model.RoleParticipant && role == model.RoleInstructor {
			return model.ErrCannotInstruct
		}

		if role == model.RoleParticipant {
			hasProfile, err := s.profiles.HasParticipantProfile(ctx, user.ID)
			if err != nil {
				return err
			}
			if !hasProfile {
				return model.ErrNoParticipantProfile
			}

			enrolled, err := s.memberships.FindBySeminarID(ctx, seminarID)
			if err != nil {
				return err
			}
			if countActiveParticipants(enrolled) >= seminar.Capacity {
				return model.ErrSeminarFull
			}
		}

		mine, err := s.memberships.FindByUserID(ctx, user.ID)
		if err != nil {
			return err
		}
		for _, m := range mine {
			if m.SeminarID == seminarID && m.Active {
				return model.ErrAlreadyEnrolled
			}
			if role == model.RoleParticipant && m.SeminarID == seminarID && !m.Active {
				return model.ErrDroppedBefore
			}
			if role == model.RoleInstructor && m.Active && !m.Participant {
				return model.ErrInstructorBusy
			}
		}

		now := s.clock.Now()
		return s.memberships.Create(ctx, &model.Membership{
			ID:          uuid.New().String(),
			UserID:      user.ID,
			SeminarID:   seminarID,
			Participant: role == model.RoleParticipant,
			Active:      true,
			CreatedAt:   now,
			ModifiedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}
	return seminar.View(), nil
}

// DropSeminar deactivates the caller's participant membership. Dropping
// with no membership at all is a no-op success; instructors cannot drop.
// The membership row is kept, which is what blocks any later rejoin.
func (s *SeminarService) DropSeminar(ctx context.Context, user model.User, seminarID string) (*model.SeminarView, error) {
	var seminar *model.Seminar
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		seminar, err = s.seminars.FindByID(ctx, seminarID)
		if err != nil {
			return err
		}

		membership, err := s.memberships.FindByUserAndSeminar(ctx, user.ID, seminarID)
		if err != nil {
			return err
		}
		if membership == nil {
			return nil
		}
		if !membership.Participant {
			return model.ErrInstructorCannotDrop
		}

		dropped := membership.Dropped(s.clock.Now())
		return s.memberships.Update(ctx, &dropped)
	})
	if err != nil {
		return nil, err
	}
	return seminar.View(), nil
}

// DeleteSeminar removes a seminar. Only a user whose membership for it
// is active and of the instructor kind may delete it.
func (s *SeminarService) DeleteSeminar(ctx context.Context, user model.User, seminarID string) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.seminars.FindByIDForUpdate(ctx, seminarID); err != nil {
			return err
		}

		membership, err := s.memberships.FindByUserAndSeminar(ctx, user.ID, seminarID)
		if err != nil {
			return err
		}
		if membership == nil || !membership.Active || membership.Participant {
			return model.ErrDeleteForbidden
		}

		return s.seminars.Delete(ctx, seminarID)
	})
}

// GetSeminar returns the public view of a seminar.
func (s *SeminarService) GetSeminar(ctx context.Context, seminarID string) (*model.SeminarView, error) {
	seminar, err := s.seminars.FindByID(ctx, seminarID)
	if err != nil {
		return nil, err
	}
	return seminar.View(), nil
}

// OrderEarliest is the only documented ordering flag: ascending creation
// time. Any other value falls back to the default newest-first order.
const OrderEarliest = "earliest"

// ListSeminars returns seminar summaries filtered by an optional name
// substring.
func (s *SeminarService) ListSeminars(ctx context.Context, nameFilter, order string) ([]model.SeminarSummary, error) {
	return s.seminars.List(ctx, strings.TrimSpace(nameFilter), order == OrderEarliest)
}

func countActiveParticipants(memberships []model.Membership) int {
	n := 0
	for _, m := range memberships {
		if m.Active && m.Participant {
			n++
		}
	}
	return n
}
