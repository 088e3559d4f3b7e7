// Package service contains the business rules of CodeVault.
//
// THE LAYERS:
//
//	Handler (HTTP)       → parses forms and JSON, renders views
//	Dashboard / Session  → per-browser UI state (selection, filters, view)
//	Service              → validation and logging around the repository
//	Repository           → the in-memory collection
//
// Services accept plain Go values and return apperror values. They never see
// an *http.Request, so the same rules apply whether a snippet is saved from
// the dashboard form or through the JSON API.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/codevault/internal/apperror"
	"github.com/sakif/codevault/internal/model"
	"github.com/sakif/codevault/internal/repository"
)

// SnippetService handles business logic for one snippet collection.
type SnippetService struct {
	repo   repository.SnippetRepository
	logger *slog.Logger
}

// NewSnippetService creates a SnippetService over repo.
func NewSnippetService(repo repository.SnippetRepository, logger *slog.Logger) *SnippetService {
	return &SnippetService{
		repo:   repo,
		logger: logger,
	}
}

// Create validates and stores a new snippet. The repository assigns the id
// and sets CreatedAt and UpdatedAt to the same instant.
//
// Only title and code are required. Everything else may be empty, and
// every field is stored as given.
func (s *SnippetService) Create(ctx context.Context, in model.SnippetInput) (*model.Snippet, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	snippet := &model.Snippet{}
	snippet.Apply(in)

	if err := s.repo.Create(ctx, snippet); err != nil {
		s.logger.Error("failed to create snippet",
			slog.String("title", in.Title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("title", snippet.Title),
	)
	return snippet, nil
}

// GetByID returns one snippet, or an apperror.ErrNotFound error.
func (s *SnippetService) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}
	return s.repo.GetByID(ctx, id)
}

// List returns the whole collection, most recent first.
func (s *SnippetService) List(ctx context.Context) ([]model.Snippet, error) {
	snippets, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list snippets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing snippets: %w", err)
	}
	return snippets, nil
}

// Count returns the size of the collection.
func (s *SnippetService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Update replaces the editable fields of an existing snippet.
//
// The id must match a stored snippet. Id and CreatedAt always keep their
// stored values and UpdatedAt is refreshed, whatever the caller passed in.
// An unknown id leaves the collection untouched and returns
// apperror.ErrNotFound.
func (s *SnippetService) Update(ctx context.Context, snippet model.Snippet) (*model.Snippet, error) {
	snippet.ID = strings.TrimSpace(snippet.ID)
	if snippet.ID == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}

	if err := validate(snippet.Input()); err != nil {
		return nil, err
	}

	updated := snippet.Clone()
	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Warn("update of unknown snippet ignored", slog.String("id", snippet.ID))
			return nil, err
		}
		s.logger.Error("failed to update snippet",
			slog.String("id", snippet.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating snippet: %w", err)
	}

	s.logger.Info("snippet updated",
		slog.String("id", updated.ID),
		slog.String("title", updated.Title),
	)
	return &updated, nil
}

// Delete removes a snippet. Deleting an id that is not there is a no-op, and
// Delete reports whether anything was removed.
func (s *SnippetService) Delete(ctx context.Context, id string) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, apperror.ValidationFailed("id", "snippet ID is required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("deleting snippet: %w", err)
	}

	s.logger.Info("snippet deleted", slog.String("id", id))
	return true, nil
}

func validate(in model.SnippetInput) error {
	if in.Title == "" {
		return apperror.ValidationFailed("title", "snippet title is required")
	}
	if in.Code == "" {
		return apperror.ValidationFailed("code", "snippet code is required")
	}
	return nil
}
