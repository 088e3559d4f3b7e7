// Package repository declares the storage contract for snippets.
//
// The service layer depends on this interface only. Two implementations keep
// everything for the lifetime of a session and no longer: repository/memory
// (a slice) and repository/sqlite (a private in-memory SQLite database).
package repository

import (
	"context"

	"github.com/sakif/codevault/internal/model"
)

// SnippetRepository stores one collection of snippets.
//
// List returns snippets most recent first. Update and Delete return an
// apperror.ErrNotFound error when no snippet has the given id.
type SnippetRepository interface {
	Create(ctx context.Context, snippet *model.Snippet) error
	GetByID(ctx context.Context, id string) (*model.Snippet, error)
	List(ctx context.Context) ([]model.Snippet, error)
	Update(ctx context.Context, snippet *model.Snippet) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
