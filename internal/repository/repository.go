// Package repository defines the persistence interfaces the services
// program against. The sqlite subpackage provides the concrete store;
// tests substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/codavaulta/snippet-vault/internal/model"
)

// UserRepository is the persistence contract for user accounts.
//
// Create must enforce uniqueness of username and email and surface a
// violation as apperror.ErrConflict — the service pre-checks duplicates,
// but the pre-check and the insert are not atomic, so a concurrent
// registration can still hit the constraint.
//
// Delete must cascade-delete every snippet owned by the user.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// SnippetRepository is the persistence contract for snippets.
type SnippetRepository interface {
	Create(ctx context.Context, snippet *model.Snippet) error
	GetByID(ctx context.Context, id string) (*model.Snippet, error)
	ListAll(ctx context.Context) ([]model.Snippet, error)
	ListByUser(ctx context.Context, userID string) ([]model.Snippet, error)
	Update(ctx context.Context, snippet *model.Snippet) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
