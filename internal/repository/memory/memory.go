// Package memory implements repository.SnippetRepository in process memory.
//
// A Store is one collection. Nothing is written anywhere: when the owning
// session is dropped, so is the data.
package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/sakif/codevault/internal/apperror"
	"github.com/sakif/codevault/internal/model"
	"github.com/sakif/codevault/internal/repository"
)

var _ repository.SnippetRepository = (*Store)(nil)

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time

// Store is an ordered collection, most recent first.
//
// A session's requests can arrive concurrently from several browser tabs, so
// every method takes the mutex.
type Store struct {
	mu       sync.RWMutex
	snippets []model.Snippet
	now      Clock
	lastID   int64
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(c Clock) Option {
	return func(s *Store) { s.now = c }
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create assigns an id and both timestamps, then prepends the snippet.
//
// Ids are the creation time in Unix milliseconds. Two snippets created in the
// same millisecond would collide, so the id is bumped past the last one
// handed out.
func (s *Store) Create(ctx context.Context, snippet *model.Snippet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id

	snippet.ID = strconv.FormatInt(id, 10)
	snippet.CreatedAt = now
	snippet.UpdatedAt = now

	s.snippets = append([]model.Snippet{snippet.Clone()}, s.snippets...)
	return nil
}

// GetByID returns a copy of the snippet with the given id.
func (s *Store) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, apperror.NotFound("snippet", id)
	}
	found := s.snippets[i].Clone()
	return &found, nil
}

// List returns copies of every snippet, most recent first.
func (s *Store) List(ctx context.Context) ([]model.Snippet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Snippet, 0, len(s.snippets))
	for _, sn := range s.snippets {
		out = append(out, sn.Clone())
	}
	return out, nil
}

// Update replaces the stored snippet with the same id. The stored id and
// CreatedAt win over whatever the caller passed; UpdatedAt is set to now and
// written back into snippet.
func (s *Store) Update(ctx context.Context, snippet *model.Snippet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(snippet.ID)
	if i < 0 {
		return apperror.NotFound("snippet", snippet.ID)
	}

	snippet.CreatedAt = s.snippets[i].CreatedAt
	snippet.UpdatedAt = s.now()
	s.snippets[i] = snippet.Clone()
	return nil
}

// Delete removes the snippet with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return apperror.NotFound("snippet", id)
	}
	s.snippets = append(s.snippets[:i], s.snippets[i+1:]...)
	return nil
}

// Count returns the number of stored snippets.
func (s *Store) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snippets), nil
}

// indexOf must be called with s.mu held.
func (s *Store) indexOf(id string) int {
	for i := range s.snippets {
		if s.snippets[i].ID == id {
			return i
		}
	}
	return -1
}
