// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/minseo-kang/seminar-enrollment/internal/model"
)

// SeminarService is the engine surface the handlers need.
type SeminarService interface {
	CreateSeminar(ctx context.Context, user model.User, req model.CreateSeminarRequest) (*model.SeminarView, error)
	ParticipateSeminar(ctx context.Context, seminarID string, user model.User, req model.ParticipateRequest) (*model.SeminarView, error)
	DropSeminar(ctx context.Context, user model.User, seminarID string) (*model.SeminarView, error)
	DeleteSeminar(ctx context.Context, user model.User, seminarID string) error
	GetSeminar(ctx context.Context, seminarID string) (*model.SeminarView, error)
	ListSeminars(ctx context.Context, nameFilter, order string) ([]model.SeminarSummary, error)
}

// UserDirectory resolves the acting user from their id. Authentication
// proper lives upstream; this service trusts the identity header.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// SeminarHandler holds all HTTP handlers for the seminar API.
type SeminarHandler struct {
	svc   SeminarService
	users UserDirectory
}

// NewSeminarHandler constructs a SeminarHandler.
func NewSeminarHandler(svc SeminarService, users UserDirectory) *SeminarHandler {
	return &SeminarHandler{svc: svc, users: users}
}

// userHeader carries the acting user's id, set by the upstream gateway.
const userHeader = "X-User-ID"

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// errStatus maps domain errors onto HTTP status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidRole),
		errors.Is(err, model.ErrInvalidRequest),
		errors.Is(err, model.ErrCannotInstruct),
		errors.Is(err, model.ErrSeminarFull),
		errors.Is(err, model.ErrAlreadyEnrolled),
		errors.Is(err, model.ErrDroppedBefore),
		errors.Is(err, model.ErrInstructorBusy):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotRegistered),
		errors.Is(err, model.ErrParticipantCannotCreate),
		errors.Is(err, model.ErrNoParticipantProfile),
		errors.Is(err, model.ErrInstructorCannotDrop),
		errors.Is(err, model.ErrDeleteForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrSeminarNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrDuplicateName):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (h *SeminarHandler) handleError(w http.ResponseWriter, err error) {
	status := errStatus(err)
	if status == http.StatusInternalServerError {
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

// actingUser resolves the caller from the identity header.
func (h *SeminarHandler) actingUser(r *http.Request) (model.User, bool) {
	id := r.Header.Get(userHeader)
	if id == "" {
		return model.User{}, false
	}
	user, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		return model.User{}, false
	}
	return *user, true
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// CreateSeminar handles POST /seminars
func (h *SeminarHandler) CreateSeminar(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actingUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unknown user")
		return
	}

	var req model.CreateSeminarRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	view, err := h.svc.CreateSeminar(r.Context(), user, req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// ListSeminars handles GET /seminars?name=&order=earliest
func (h *SeminarHandler) ListSeminars(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	order := r.URL.Query().Get("order")

	seminars, err := h.svc.ListSeminars(r.Context(), name, order)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list seminars")
		return
	}

	// Empty array rather than null for client compatibility.
	if seminars == nil {
		seminars = []model.SeminarSummary{}
	}
	writeJSON(w, http.StatusOK, seminars)
}

// GetSeminar handles GET /seminars/{id}
func (h *SeminarHandler) GetSeminar(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.GetSeminar(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ParticipateSeminar handles POST /seminars/{id}/user
func (h *SeminarHandler) ParticipateSeminar(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actingUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unknown user")
		return
	}

	var req model.ParticipateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	view, err := h.svc.ParticipateSeminar(r.Context(), chi.URLParam(r, "id"), user, req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// DropSeminar handles DELETE /seminars/{id}/user
func (h *SeminarHandler) DropSeminar(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actingUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unknown user")
		return
	}

	view, err := h.svc.DropSeminar(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// DeleteSeminar handles DELETE /seminars/{id}
func (h *SeminarHandler) DeleteSeminar(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actingUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unknown user")
		return
	}

	if err := h.svc.DeleteSeminar(r.Context(), user, chi.URLParam(r, "id")); err != nil {
		h.handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
