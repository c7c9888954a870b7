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

// SnippetStore implements repository.SnippetRepository on the shared
// connection pool. Obtain one via DB.Snippets().
type SnippetStore struct {
	conn *sql.DB
}

// Snippets returns the snippet repository backed by this database.
func (db *DB) Snippets() *SnippetStore {
	return &SnippetStore{conn: db.conn}
}

// compile-time check that *SnippetStore implements repository.SnippetRepository
var _ repository.SnippetRepository = (*SnippetStore)(nil)

const snippetColumns = `id, title, code, language, description, user_id, created_at, updated_at`

// Create inserts a new snippet, generating its ID and timestamps. Both
// timestamps are set to the same instant, so a freshly created snippet has
// updated_at == created_at.
//
// The foreign key on user_id means inserting a snippet for a nonexistent
// owner fails at the database; the service checks the owner first, so
// hitting the constraint here indicates the owner was deleted concurrently
// and is reported as NotFound.
func (s *SnippetStore) Create(ctx context.Context, snippet *model.Snippet) error {
	snippet.ID = xid.New().String()
	now := time.Now()
	snippet.CreatedAt = now
	snippet.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO snippets (id, title, code, language, description, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		snippet.ID,
		snippet.Title,
		snippet.Code,
		snippet.Language,
		snippet.Description,
		snippet.UserID,
		snippet.CreatedAt,
		snippet.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user", snippet.UserID)
		}
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	return nil
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// GetByID retrieves a single snippet by its ID.
func (s *SnippetStore) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	var sn model.Snippet
	err := s.conn.QueryRowContext(ctx,
		`SELECT `+snippetColumns+` FROM snippets WHERE id = ?`, id,
	).Scan(
		&sn.ID,
		&sn.Title,
		&sn.Code,
		&sn.Language,
		&sn.Description,
		&sn.UserID,
		&sn.CreatedAt,
		&sn.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}
	return &sn, nil
}

func (s *SnippetStore) queryList(ctx context.Context, query string, args ...any) ([]model.Snippet, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets: %w", err)
	}
	defer rows.Close()

	snippets := []model.Snippet{}
	for rows.Next() {
		var sn model.Snippet
		if err := rows.Scan(
			&sn.ID, &sn.Title, &sn.Code, &sn.Language, &sn.Description,
			&sn.UserID, &sn.CreatedAt, &sn.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		snippets = append(snippets, sn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippets, nil
}

// ListAll returns every snippet, newest first. An empty database yields an
// empty slice, not an error.
func (s *SnippetStore) ListAll(ctx context.Context) ([]model.Snippet, error) {
	return s.queryList(ctx,
		`SELECT `+snippetColumns+` FROM snippets ORDER BY created_at DESC`)
}

// ListByUser returns the snippets owned by userID, newest first.
func (s *SnippetStore) ListByUser(ctx context.Context, userID string) ([]model.Snippet, error) {
	return s.queryList(ctx,
		`SELECT `+snippetColumns+` FROM snippets WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
}

// Update persists the mutable fields of a snippet and refreshes its
// updated_at. id, user_id and created_at are immutable and never written.
// A vanished row (deleted concurrently) reports NotFound, not a fault.
func (s *SnippetStore) Update(ctx context.Context, snippet *model.Snippet) error {
	snippet.UpdatedAt = time.Now()

	result, err := s.conn.ExecContext(ctx,
		`UPDATE snippets
		 SET title = ?, code = ?, language = ?, description = ?, updated_at = ?
		 WHERE id = ?`,
		snippet.Title,
		snippet.Code,
		snippet.Language,
		snippet.Description,
		snippet.UpdatedAt,
		snippet.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating snippet %s: %w", snippet.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", snippet.ID)
	}

	return nil
}

// Delete removes a snippet by ID.
func (s *SnippetStore) Delete(ctx context.Context, id string) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM snippets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", id)
	}

	return nil
}

// Count returns the number of stored snippets.
func (s *SnippetStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM snippets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: counting snippets: %w", err)
	}
	return n, nil
}
