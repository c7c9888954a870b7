package handler

import (
	"log/slog"
	"net/http"

	"github.com/codavaulta/snippet-vault/internal/apperror"
	"github.com/codavaulta/snippet-vault/internal/auth"
	"github.com/codavaulta/snippet-vault/internal/service"
	"github.com/codavaulta/snippet-vault/internal/validate"
)

// SnippetHandler exposes snippet CRUD over HTTP. All write operations are
// owner-scoped through the authenticated user in the request context.
type SnippetHandler struct {
	snippets *service.SnippetService
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewSnippetHandler creates a SnippetHandler. The account service is only
// used by the stats endpoint.
func NewSnippetHandler(snippets *service.SnippetService, accounts *service.AccountService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{snippets: snippets, accounts: accounts, logger: logger}
}

// HandleListAll returns every stored snippet. Public; no authentication.
//
// HTTP: GET /api/snippets
func (h *SnippetHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	views, err := h.snippets.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// HandleCreate stores a new snippet owned by the authenticated user.
//
// HTTP: POST /api/user/create_snippet
// Body: {"title": "...", "code": "...", "language": "...", "description": "..."}
// Auth: required
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("missing authentication"))
		return
	}

	var input service.CreateSnippetInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}

	view, err := h.snippets.Create(r.Context(), userID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

// HandleListOwn returns the authenticated user's snippets, newest first.
//
// HTTP: GET /api/user/get_snippets
// Auth: required
func (h *SnippetHandler) HandleListOwn(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("missing authentication"))
		return
	}

	views, err := h.snippets.ListForOwner(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

type updateSnippetRequest struct {
	ID string `json:"id"`
	service.UpdateSnippetInput
}

// HandleUpdate applies a partial update to a snippet the caller owns.
// Empty fields are left unchanged; changing the language requires the code
// in the same request.
//
// HTTP: PUT /api/user/update_snippet
// Body: {"id": "...", "title": "...", "code": "...", "language": "...", "description": "..."}
// Auth: required
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("missing authentication"))
		return
	}

	var req updateSnippetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.ID == "" {
		writeError(w, apperror.ValidationFailed("id", "Missing id"))
		return
	}

	view, err := h.snippets.Update(r.Context(), userID, req.ID, req.UpdateSnippetInput)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

type deleteSnippetRequest struct {
	ID string `json:"id"`
}

// HandleDelete removes a snippet the caller owns.
//
// HTTP: DELETE /api/user/delete_snippet
// Body: {"id": "..."}
// Auth: required
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("missing authentication"))
		return
	}

	var req deleteSnippetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.ID == "" {
		writeError(w, apperror.ValidationFailed("id", "Missing id"))
		return
	}

	if err := h.snippets.Delete(r.Context(), userID, req.ID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "snippet deleted"})
}

// HandleLanguages lists the language tags a snippet may carry, sorted.
// Clients use this to populate pickers instead of hardcoding the set.
//
// HTTP: GET /api/languages
func (h *SnippetHandler) HandleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"languages": validate.Languages()})
}

// statsResponse is the body of the stats endpoint.
type statsResponse struct {
	Users    int `json:"users"`
	Snippets int `json:"snippets"`
}

// HandleStats reports how many users and snippets the store holds.
//
// HTTP: GET /api/stats
func (h *SnippetHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.CountUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	snippets, err := h.snippets.CountSnippets(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{Users: users, Snippets: snippets})
}
