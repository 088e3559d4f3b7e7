package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/codevault/internal/apperror"
	"github.com/sakif/codevault/internal/model"
)

// fakeClock hands out a fixed time until advanced.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)}
	return New(WithClock(clock.Now)), clock
}

func createTestSnippet(t *testing.T, s *Store, title string) *model.Snippet {
	t.Helper()
	sn := &model.Snippet{Title: title, Code: "code of " + title, Tags: []string{"t"}}
	require.NoError(t, s.Create(context.Background(), sn))
	return sn
}

func TestCreate(t *testing.T) {
	s, clock := newTestStore(t)

	sn := createTestSnippet(t, s, "first")

	assert.NotEmpty(t, sn.ID)
	assert.Equal(t, clock.Now(), sn.CreatedAt)
	assert.Equal(t, sn.CreatedAt, sn.UpdatedAt)

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCreate_IDsUniqueWithinSameMillisecond(t *testing.T) {
	s, _ := newTestStore(t)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		sn := createTestSnippet(t, s, "same instant")
		assert.False(t, seen[sn.ID], "duplicate id %s", sn.ID)
		seen[sn.ID] = true
	}
}

func TestCreate_PrependsMostRecentFirst(t *testing.T) {
	s, clock := newTestStore(t)

	createTestSnippet(t, s, "older")
	clock.Advance(time.Second)
	createTestSnippet(t, s, "newer")

	list, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Title)
	assert.Equal(t, "older", list[1].Title)
}

func TestGetByID_ReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	sn := createTestSnippet(t, s, "copy me")

	got, err := s.GetByID(context.Background(), sn.ID)
	require.NoError(t, err)
	got.Title = "mutated"
	got.Tags[0] = "mutated"

	again, err := s.GetByID(context.Background(), sn.ID)
	require.NoError(t, err)
	assert.Equal(t, "copy me", again.Title)
	assert.Equal(t, "t", again.Tags[0])
}

func TestGetByID_NotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestUpdate_PreservesIdentityAndAdvancesUpdatedAt(t *testing.T) {
	s, clock := newTestStore(t)
	sn := createTestSnippet(t, s, "before")
	created := sn.CreatedAt

	clock.Advance(5 * time.Minute)
	edit := &model.Snippet{ID: sn.ID, Title: "after", Code: "new code", CreatedAt: time.Time{}}
	require.NoError(t, s.Update(context.Background(), edit))

	got, err := s.GetByID(context.Background(), sn.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, "new code", got.Code)
	assert.Equal(t, created, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(created))
	assert.Equal(t, got.UpdatedAt, edit.UpdatedAt)
}

func TestUpdate_KeepsPosition(t *testing.T) {
	s, _ := newTestStore(t)
	a := createTestSnippet(t, s, "a")
	createTestSnippet(t, s, "b")

	require.NoError(t, s.Update(context.Background(), &model.Snippet{ID: a.ID, Title: "a2", Code: "x"}))

	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "b", list[0].Title)
	assert.Equal(t, "a2", list[1].Title)
}

func TestUpdate_NotFoundLeavesCollectionUnchanged(t *testing.T) {
	s, _ := newTestStore(t)
	createTestSnippet(t, s, "only")
	before, _ := s.List(context.Background())

	err := s.Update(context.Background(), &model.Snippet{ID: "nope", Title: "x", Code: "y"})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	after, _ := s.List(context.Background())
	assert.Equal(t, before, after)
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t)
	a := createTestSnippet(t, s, "a")
	b := createTestSnippet(t, s, "b")

	require.NoError(t, s.Delete(context.Background(), a.ID))

	list, _ := s.List(context.Background())
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	err := s.Delete(context.Background(), a.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestCancelledContext(t *testing.T) {
	s, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Create(ctx, &model.Snippet{Title: "x"}), context.Canceled)
	_, err := s.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSeed(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, Seed(context.Background(), s))

	list, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "React useState Hook", list[0].Title)
	assert.Equal(t, "CSS Flexbox Center", list[1].Title)
	assert.NotEqual(t, list[0].ID, list[1].ID)
	assert.Equal(t, []string{"css", "flexbox", "center"}, list[1].Tags)
}
