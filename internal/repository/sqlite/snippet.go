package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sakif/codevault/internal/apperror"
	"github.com/sakif/codevault/internal/model"
	"github.com/sakif/codevault/internal/repository"
)

// Compile-time check: *DB must satisfy the repository interface.
var _ repository.SnippetRepository = (*DB)(nil)

const selectColumns = `SELECT id, title, description, code, language, category, tags, created_at, updated_at FROM snippets`

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSnippet(row scanner) (model.Snippet, error) {
	var (
		s                  model.Snippet
		id                 int64
		tags               string
		created, updatedAt int64
	)
	if err := row.Scan(&id, &s.Title, &s.Description, &s.Code, &s.Language, &s.Category,
		&tags, &created, &updatedAt); err != nil {
		return model.Snippet{}, err
	}
	s.ID = strconv.FormatInt(id, 10)
	s.CreatedAt = time.Unix(0, created)
	s.UpdatedAt = time.Unix(0, updatedAt)
	s.Tags = []string{}
	if err := json.Unmarshal([]byte(tags), &s.Tags); err != nil {
		return model.Snippet{}, fmt.Errorf("decoding tags of snippet %d: %w", id, err)
	}
	return s, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encoding tags: %w", err)
	}
	return string(b), nil
}

// parseID maps a snippet id back to the integer key. Anything that is not
// one of our ids simply does not exist, including other spellings of the
// same number such as "+5" or "05".
func parseID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || strconv.FormatInt(n, 10) != id {
		return 0, false
	}
	return n, true
}

// Create assigns an id and both timestamps, then inserts the snippet.
//
// Ids are the creation time in Unix milliseconds, bumped past the last one
// handed out when two snippets land in the same millisecond.
func (db *DB) Create(ctx context.Context, snippet *model.Snippet) error {
	tags, err := encodeTags(snippet.Tags)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	db.idMu.Lock()
	defer db.idMu.Unlock()

	now := db.now()
	id := now.UnixMilli()
	if id <= db.lastID {
		id = db.lastID + 1
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO snippets (id, title, description, code, language, category, tags, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, snippet.Title, snippet.Description, snippet.Code, snippet.Language, snippet.Category,
		tags, now.UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	db.lastID = id
	snippet.ID = strconv.FormatInt(id, 10)
	snippet.CreatedAt = now
	snippet.UpdatedAt = now
	return nil
}

// GetByID returns the snippet with the given id.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, apperror.NotFound("snippet", id)
	}

	s, err := scanSnippet(db.conn.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}
	return &s, nil
}

// List returns every snippet, most recent first.
func (db *DB) List(ctx context.Context) ([]model.Snippet, error) {
	rows, err := db.conn.QueryContext(ctx, selectColumns+` ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets: %w", err)
	}
	defer rows.Close()

	// An empty slice, not nil, so callers and JSON see [] rather than null.
	snippets := make([]model.Snippet, 0)
	for rows.Next() {
		s, err := scanSnippet(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		snippets = append(snippets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}
	return snippets, nil
}

// Update replaces the editable fields of the stored snippet. The stored
// CreatedAt is written back into snippet and UpdatedAt is set to now.
func (db *DB) Update(ctx context.Context, snippet *model.Snippet) error {
	key, ok := parseID(snippet.ID)
	if !ok {
		return apperror.NotFound("snippet", snippet.ID)
	}
	tags, err := encodeTags(snippet.Tags)
	if err != nil {
		return fmt.Errorf("sqlite: updating snippet %s: %w", snippet.ID, err)
	}

	now := db.now()
	var created int64
	err = db.conn.QueryRowContext(ctx,
		`UPDATE snippets
		 SET title = ?, description = ?, code = ?, language = ?, category = ?, tags = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING created_at`,
		snippet.Title, snippet.Description, snippet.Code, snippet.Language, snippet.Category,
		tags, now.UnixNano(), key,
	).Scan(&created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("snippet", snippet.ID)
		}
		return fmt.Errorf("sqlite: updating snippet %s: %w", snippet.ID, err)
	}

	snippet.CreatedAt = time.Unix(0, created)
	snippet.UpdatedAt = now
	return nil
}

// Delete removes the snippet with the given id.
func (db *DB) Delete(ctx context.Context, id string) error {
	key, ok := parseID(id)
	if !ok {
		return apperror.NotFound("snippet", id)
	}

	result, err := db.conn.ExecContext(ctx, `DELETE FROM snippets WHERE id = ?`, key)
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
func (db *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM snippets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: counting snippets: %w", err)
	}
	return n, nil
}
