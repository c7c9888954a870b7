// Package service contains the business logic layer: the account and
// snippet services. Handlers translate HTTP to these calls; repositories
// persist whatever the services decide. Services accept primitives and
// return domain models or typed apperror values — never HTTP types.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/codavaulta/snippet-vault/internal/apperror"
	"github.com/codavaulta/snippet-vault/internal/auth"
	"github.com/codavaulta/snippet-vault/internal/model"
	"github.com/codavaulta/snippet-vault/internal/repository"
	"github.com/codavaulta/snippet-vault/internal/validate"
)

// AccountService handles registration, login, logout and account deletion.
type AccountService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAccountService creates an AccountService with all dependencies
// injected. Wired in server.go.
func NewAccountService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// LoginResult bundles what a successful login returns to the client.
type LoginResult struct {
	Token       string `json:"authenticationToken"`
	DisplayName string `json:"username"`
}

// Register creates a new account.
//
// Validation runs before anything touches the store. Duplicates are
// pre-checked by email and then username so the caller gets a precise
// message; the pre-check is not atomic with the insert, so the repository
// additionally reports UNIQUE violations as Conflict and that error is
// passed through unchanged — a racing duplicate registration degrades to a
// Conflict, never a crash.
//
// The returned projection never includes the password hash.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*model.PublicUser, error) {
	if err := validate.Username(username); err != nil {
		return nil, err
	}
	if err := validate.Email(email); err != nil {
		return nil, err
	}
	if err := validate.Password(password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("user already registered")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperror.Conflict("username already exists")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("checking username: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to create user",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	public := user.ToPublic()
	return &public, nil
}

// Login verifies credentials and issues a 24h bearer token.
//
// An unknown email is NotFound; a known email with the wrong password is
// Unauthorized. The display name is the first whitespace-delimited token
// of the username ("Jo hn" logs in as "Jo").
func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid password")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &LoginResult{
		Token:       token,
		DisplayName: firstNameToken(user.Username),
	}, nil
}

// firstNameToken returns the first whitespace-delimited token of a
// username, or the username itself if it has no spaces.
func firstNameToken(username string) string {
	if fields := strings.Fields(username); len(fields) > 0 {
		return fields[0]
	}
	return username
}

// Logout ends a session from the client's point of view.
//
// Tokens are stateless and there is no revocation set, so logout is
// advisory: the only check is that the identity still refers to an
// existing user (NotFound otherwise, e.g. the account was deleted while
// the token was still live).
func (s *AccountService) Logout(ctx context.Context, userID string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("user logged out", slog.String("userID", userID))
	return nil
}

// DeleteAccount deletes the authenticated user's own account. Snippet
// cleanup is the store's cascade — the user and all their snippets go in
// one atomic step, or the whole operation fails.
func (s *AccountService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("account deleted", slog.String("userID", userID))
	return nil
}

// AdminDelete deletes any user by ID. Same semantics as DeleteAccount but
// without an ownership check; the route is reachable only through the
// operator-key middleware.
func (s *AccountService) AdminDelete(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Warn("user deleted by operator", slog.String("userID", userID))
	return nil
}

// GetByID returns the public projection of a user.
func (s *AccountService) GetByID(ctx context.Context, userID string) (*model.PublicUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	public := user.ToPublic()
	return &public, nil
}

// ListUsers returns the public projection of every user. An empty slice is
// a normal result, not an error.
func (s *AccountService) ListUsers(ctx context.Context) ([]model.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	public := make([]model.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].ToPublic())
	}
	return public, nil
}

// CountUsers returns the number of registered users, queried from the
// store rather than tracked in memory.
func (s *AccountService) CountUsers(ctx context.Context) (int, error) {
	return s.users.Count(ctx)
}
