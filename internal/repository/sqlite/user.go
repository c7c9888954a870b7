package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/codavaulta/snippet-vault/internal/apperror"
	"github.com/codavaulta/snippet-vault/internal/model"
	"github.com/codavaulta/snippet-vault/internal/repository"
)

// UserStore implements repository.UserRepository on the shared connection
// pool. Obtain one via DB.Users().
type UserStore struct {
	conn *sql.DB
}

// Users returns the user repository backed by this database.
func (db *DB) Users() *UserStore {
	return &UserStore{conn: db.conn}
}

// compile-time check that *UserStore implements repository.UserRepository
var _ repository.UserRepository = (*UserStore)(nil)

const userColumns = `id, username, email, password_hash, created_at, updated_at`

// Create inserts a new user, generating its ID and timestamps.
//
// The UNIQUE constraints on username and email are the last line of
// defence against duplicate registration: the service pre-checks, but two
// concurrent registrations can both pass the pre-check and race to the
// insert. The loser's constraint violation is translated to Conflict here
// so the caller sees a normal duplicate, not a 500.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if conflict, ok := uniqueViolation(err); ok {
			return conflict
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	return nil
}

// uniqueViolation maps a SQLite UNIQUE constraint error to a Conflict
// naming the duplicated column. The driver reports these as
// "UNIQUE constraint failed: users.email" style messages.
func uniqueViolation(err error) (*apperror.AppError, bool) {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return nil, false
	}
	switch {
	case strings.Contains(msg, "users.email"):
		return apperror.Conflict("user already registered"), true
	case strings.Contains(msg, "users.username"):
		return apperror.Conflict("username already exists"), true
	default:
		return apperror.Conflict("duplicate value"), true
	}
}

func (s *UserStore) getBy(ctx context.Context, column, value string) (*model.User, error) {
	var u model.User
	err := s.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`, value,
	).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", value)
		}
		return nil, fmt.Errorf("sqlite: getting user by %s %s: %w", column, value, err)
	}
	return &u, nil
}

// GetByID retrieves a user by internal ID.
func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.getBy(ctx, "id", id)
}

// GetByUsername retrieves a user by exact username.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.getBy(ctx, "username", username)
}

// GetByEmail retrieves a user by email address.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getBy(ctx, "email", email)
}

// List returns all users ordered by creation time, newest first.
func (s *UserStore) List(ctx context.Context) ([]model.User, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.PasswordHash,
			&u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}

// Delete removes a user by ID. The ON DELETE CASCADE on snippets.user_id
// removes all of the user's snippets in the same statement — either the
// user and their snippets all go, or none do.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", id)
	}

	return nil
}

// Count returns the number of registered users. This is the store-level
// replacement for keeping a counter in process memory.
func (s *UserStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: counting users: %w", err)
	}
	return n, nil
}
