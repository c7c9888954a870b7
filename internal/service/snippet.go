package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/codavaulta/snippet-vault/internal/apperror"
	"github.com/codavaulta/snippet-vault/internal/model"
	"github.com/codavaulta/snippet-vault/internal/repository"
	"github.com/codavaulta/snippet-vault/internal/validate"
)

// SnippetService handles snippet creation, listing, updates and deletion.
// Ownership is enforced here: a caller can only see, modify or delete
// their own snippets through the owner-scoped operations.
type SnippetService struct {
	snippets repository.SnippetRepository
	users    repository.UserRepository
	logger   *slog.Logger
}

// NewSnippetService creates a SnippetService.
func NewSnippetService(
	snippets repository.SnippetRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *SnippetService {
	return &SnippetService{
		snippets: snippets,
		users:    users,
		logger:   logger,
	}
}

// CreateSnippetInput carries the client-supplied fields for a new snippet.
// Description is optional and defaults to the empty string.
type CreateSnippetInput struct {
	Title       string `json:"title"`
	Code        string `json:"code"`
	Language    string `json:"language"`
	Description string `json:"description"`
}

// UpdateSnippetInput carries the fields of an update request. An empty
// field means "leave unchanged"; only non-empty fields overwrite.
type UpdateSnippetInput struct {
	Title       string `json:"title"`
	Code        string `json:"code"`
	Language    string `json:"language"`
	Description string `json:"description"`
}

// Create stores a new snippet owned by userID.
//
// Title, code and language are required. The language tag is normalized
// before storage, so "Python" and "python " land as the same value and an
// unknown tag is rejected up front rather than stored as junk.
func (s *SnippetService) Create(ctx context.Context, userID string, input CreateSnippetInput) (*model.SnippetView, error) {
	if input.Title == "" {
		return nil, apperror.ValidationFailed("title", "Missing title")
	}
	if input.Code == "" {
		return nil, apperror.ValidationFailed("code", "Missing code")
	}
	if input.Language == "" {
		return nil, apperror.ValidationFailed("language", "Missing language")
	}

	language, err := validate.NormalizeLanguage(input.Language)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	snippet := &model.Snippet{
		Title:       input.Title,
		Code:        input.Code,
		Language:    language,
		Description: input.Description,
		UserID:      userID,
	}
	if err := s.snippets.Create(ctx, snippet); err != nil {
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.String("snippetID", snippet.ID),
		slog.String("userID", userID),
		slog.String("language", language),
	)

	view := snippet.ToView()
	return &view, nil
}

// ListAll returns every stored snippet regardless of owner. This backs the
// public browse endpoint; no authentication context is needed.
func (s *SnippetService) ListAll(ctx context.Context) ([]model.SnippetView, error) {
	snippets, err := s.snippets.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing snippets: %w", err)
	}
	return toViews(snippets), nil
}

// ListForOwner returns the snippets owned by userID, newest first. A user
// with no snippets gets an empty slice, not an error.
func (s *SnippetService) ListForOwner(ctx context.Context, userID string) ([]model.SnippetView, error) {
	snippets, err := s.snippets.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing snippets for user %s: %w", userID, err)
	}
	return toViews(snippets), nil
}

func toViews(snippets []model.Snippet) []model.SnippetView {
	views := make([]model.SnippetView, 0, len(snippets))
	for i := range snippets {
		views = append(views, snippets[i].ToView())
	}
	return views
}

// Update applies an owner-scoped partial update to a snippet.
//
// A snippet that does not exist and a snippet owned by someone else are
// indistinguishable to the caller: both report NotFound, so the endpoint
// leaks nothing about other users' snippet IDs.
//
// Changing the language requires resubmitting the code in the same
// request. Language describes the code; accepting one without the other
// would let the two drift apart silently.
//
// Any update, even a description-only one, refreshes the snippet's
// updated_at.
func (s *SnippetService) Update(ctx context.Context, userID, snippetID string, input UpdateSnippetInput) (*model.SnippetView, error) {
	snippet, err := s.getOwned(ctx, userID, snippetID)
	if err != nil {
		return nil, err
	}

	if input.Language != "" && input.Code == "" {
		return nil, apperror.ValidationFailed("language", "cannot change language without resubmitting code")
	}

	if input.Title != "" {
		snippet.Title = input.Title
	}
	if input.Code != "" {
		snippet.Code = input.Code
	}
	if input.Language != "" {
		language, err := validate.NormalizeLanguage(input.Language)
		if err != nil {
			return nil, err
		}
		snippet.Language = language
	}
	if input.Description != "" {
		snippet.Description = input.Description
	}

	if err := s.snippets.Update(ctx, snippet); err != nil {
		return nil, fmt.Errorf("updating snippet %s: %w", snippetID, err)
	}

	s.logger.Info("snippet updated",
		slog.String("snippetID", snippetID),
		slog.String("userID", userID),
	)

	view := snippet.ToView()
	return &view, nil
}

// Delete removes a snippet the caller owns. Missing and not-owned collapse
// to the same NotFound, matching Update.
func (s *SnippetService) Delete(ctx context.Context, userID, snippetID string) error {
	if _, err := s.getOwned(ctx, userID, snippetID); err != nil {
		return err
	}

	if err := s.snippets.Delete(ctx, snippetID); err != nil {
		return fmt.Errorf("deleting snippet %s: %w", snippetID, err)
	}

	s.logger.Info("snippet deleted",
		slog.String("snippetID", snippetID),
		slog.String("userID", userID),
	)
	return nil
}

// getOwned fetches a snippet and verifies the caller owns it. An ownership
// mismatch returns the same NotFound as a missing row.
func (s *SnippetService) getOwned(ctx context.Context, userID, snippetID string) (*model.Snippet, error) {
	snippet, err := s.snippets.GetByID(ctx, snippetID)
	if err != nil {
		return nil, err
	}
	if snippet.UserID != userID {
		return nil, apperror.NotFound("snippet", snippetID)
	}
	return snippet, nil
}

// CountSnippets returns the number of stored snippets.
func (s *SnippetService) CountSnippets(ctx context.Context) (int, error) {
	return s.snippets.Count(ctx)
}
