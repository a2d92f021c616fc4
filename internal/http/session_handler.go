package http

import (
	"context"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/session"
)

type Sessions interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Register(ctx context.Context, name, email, password string) (*domain.Session, error)
	Logout()
	Snapshot() session.Snapshot
}

type SessionHandler struct {
	sessions Sessions
}

func NewSessionHandler(s Sessions) *SessionHandler {
	return &SessionHandler{sessions: s}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if _, err := h.sessions.Login(r.Context(), req.Email, req.Password); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, h.sessions.Snapshot())
}

func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if _, err := h.sessions.Register(r.Context(), req.Name, req.Email, req.Password); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, h.sessions.Snapshot())
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout()
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.sessions.Snapshot())
}
