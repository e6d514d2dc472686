package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tickr/internal/auth"
	"github.com/desertthunder/tickr/internal/services"
	"github.com/desertthunder/tickr/internal/shared"
	"github.com/desertthunder/tickr/internal/store"
	"github.com/gorilla/mux"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, services.ErrorResponse{Error: message})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// GET /health
func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, services.HealthResponse{Status: "ok"})
}

// AccountHandler serves signup, the caller's identity, and logout.
type AccountHandler struct {
	accounts *services.Accounts
	logger   *log.Logger
}

func NewAccountHandler(accounts *services.Accounts, logger *log.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, logger: logger}
}

func (h *AccountHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodPost, Path: "/v1/users", Handler: h.Signup},
		{Method: http.MethodGet, Path: "/v1/me", Handler: h.Me, RequiresAuth: true},
		{Method: http.MethodDelete, Path: "/v1/me/token", Handler: h.Logout, RequiresAuth: true},
	}
}

// Signup creates a user and returns its session with a fresh token.
// POST /v1/users
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req services.SignupRequest
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.accounts.Signup(req.Email, req.Name)
	switch {
	case errors.Is(err, shared.ErrEmailTaken):
		jsonError(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, shared.ErrInvalidInput):
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		h.logger.Error("signup failed", "error", err)
		jsonError(w, "failed to create user", http.StatusInternalServerError)
		return
	}

	h.logger.Info("user created", "user", session.UserID)
	writeJSON(w, http.StatusCreated, session)
}

// Me returns the caller without its token.
// GET /v1/me
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, auth.Session{UserID: session.UserID, Email: session.Email, Name: session.Name})
}

// Logout revokes the token used for this request.
// DELETE /v1/me/token
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())
	if err := h.accounts.Logout(session.Token); err != nil {
		h.logger.Error("logout failed", "user", session.UserID, "error", err)
		jsonError(w, "failed to revoke token", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ProfileHandler exposes a [store.Store] over HTTP.
type ProfileHandler struct {
	store  store.Store
	logger *log.Logger
}

func NewProfileHandler(st store.Store, logger *log.Logger) *ProfileHandler {
	return &ProfileHandler{store: st, logger: logger}
}

func (h *ProfileHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/v1/profiles/{uid}", Handler: h.Get, RequiresAuth: true},
		{Method: http.MethodPatch, Path: "/v1/profiles/{uid}", Handler: h.Patch, RequiresAuth: true},
	}
}

// Get returns the profile document as stored.
// GET /v1/profiles/{uid}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]

	doc, err := h.store.Fetch(r.Context(), uid)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("fetch failed", "user", uid, "error", err)
		jsonError(w, "failed to fetch profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// Patch applies field mutations atomically, creating the document if needed.
// PATCH /v1/profiles/{uid}
func (h *ProfileHandler) Patch(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]

	var req services.PatchRequest
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Mutations) == 0 {
		jsonError(w, "no mutations", http.StatusBadRequest)
		return
	}

	err := h.store.Update(r.Context(), uid, req.Mutations...)
	if errors.Is(err, store.ErrInvalidMutation) {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error("update failed", "user", uid, "error", err)
		jsonError(w, "failed to update profile", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
