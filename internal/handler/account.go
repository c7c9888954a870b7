package handler

import (
	"log/slog"
	"net/http"

	"github.com/codavaulta/snippet-vault/internal/apperror"
	"github.com/codavaulta/snippet-vault/internal/auth"
	"github.com/codavaulta/snippet-vault/internal/service"
)

// AccountHandler exposes registration, login, logout, account deletion and
// the user listing over HTTP.
type AccountHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(accounts *service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, logger: logger}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/user/register
// Body: {"username": "...", "email": "...", "password": "..."}
//
// Presence checks happen here so the client gets a "Missing <field>"
// message naming the field; format rules live in the service.
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	switch {
	case req.Username == "":
		writeError(w, apperror.ValidationFailed("username", "Missing username"))
		return
	case req.Email == "":
		writeError(w, apperror.ValidationFailed("email", "Missing email"))
		return
	case req.Password == "":
		writeError(w, apperror.ValidationFailed("password", "Missing password"))
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and returns a bearer token plus the
// user's display name.
//
// HTTP: POST /api/user/login
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	switch {
	case req.Email == "":
		writeError(w, apperror.ValidationFailed("email", "Missing email"))
		return
	case req.Password == "":
		writeError(w, apperror.ValidationFailed("password", "Missing password"))
		return
	}

	result, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleLogout acknowledges the end of a session. Tokens are stateless, so
// the client discards its copy; the server only confirms the account still
// exists.
//
// HTTP: POST /api/user/logout
// Auth: required
func (h *AccountHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("missing authentication"))
		return
	}

	if err := h.accounts.Logout(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "logout successful"})
}

// HandleDeleteAccount deletes the authenticated user's own account and,
// through the store's cascade, all of their snippets.
//
// HTTP: DELETE /api/user/delete_user
// Auth: required
func (h *AccountHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("missing authentication"))
		return
	}

	if err := h.accounts.DeleteAccount(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

type adminDeleteRequest struct {
	UserID string `json:"userID"`
}

// HandleAdminDelete deletes any user by ID. The route is mounted behind
// the operator-key middleware; this handler only validates input.
//
// HTTP: DELETE /api/delete_user
// Body: {"userID": "..."}
func (h *AccountHandler) HandleAdminDelete(w http.ResponseWriter, r *http.Request) {
	var req adminDeleteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.UserID == "" {
		writeError(w, apperror.ValidationFailed("userID", "Missing userID"))
		return
	}

	if err := h.accounts.AdminDelete(r.Context(), req.UserID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

// HandleListUsers returns the public projection of every registered user.
//
// HTTP: GET /api/users
func (h *AccountHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// HandleProtected reports who the bearer token belongs to. Mostly useful
// for clients checking whether a stored token is still valid.
//
// HTTP: GET /api/protected
// Auth: required
func (h *AccountHandler) HandleProtected(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("missing authentication"))
		return
	}

	user, err := h.accounts.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"logged_in_as": user.Email})
}
