// Package dashboard is the state container behind the dashboard view.
//
// A Dashboard owns one snippet collection plus the UI state around it: the
// category filter, the search query, the selected snippet, whether the
// editor is in form mode, and whether the sidebar is open. Handlers call its
// methods and render its Snapshot; they never touch the collection directly.
package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/sakif/codevault/internal/apperror"
	"github.com/sakif/codevault/internal/catalog"
	"github.com/sakif/codevault/internal/editor"
	"github.com/sakif/codevault/internal/model"
	"github.com/sakif/codevault/internal/service"
)

// Dashboard is safe for concurrent use. One browser session can have
// several tabs open against the same dashboard.
type Dashboard struct {
	snippets *service.SnippetService
	logger   *slog.Logger
	closer   io.Closer

	mu          sync.Mutex
	criteria    Criteria
	selectedID  string
	editing     bool
	sidebarOpen bool
}

// New creates a dashboard over snippets with the default UI state: all
// categories, empty search, nothing selected, sidebar open.
func New(snippets *service.SnippetService, logger *slog.Logger) *Dashboard {
	return &Dashboard{
		snippets:    snippets,
		logger:      logger,
		criteria:    Criteria{Category: catalog.AllCategories},
		sidebarOpen: true,
	}
}

// Close releases the collection's storage, if it holds any. The dashboard
// must not be used afterwards.
func (d *Dashboard) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// Snippets exposes the underlying service for the JSON API.
func (d *Dashboard) Snippets() *service.SnippetService {
	return d.snippets
}

// AddSnippet creates a snippet from in, selects it, and leaves form mode.
func (d *Dashboard) AddSnippet(ctx context.Context, in model.SnippetInput) (*model.Snippet, error) {
	created, err := d.snippets.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.selectedID = created.ID
	d.editing = false
	d.mu.Unlock()
	return created, nil
}

// UpdateSnippet replaces an existing snippet, selects it, and leaves form
// mode. If no snippet has that id the collection and the UI state are left
// as they were and an apperror.ErrNotFound error is returned.
func (d *Dashboard) UpdateSnippet(ctx context.Context, s model.Snippet) (*model.Snippet, error) {
	updated, err := d.snippets.Update(ctx, s)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.selectedID = updated.ID
	d.editing = false
	d.mu.Unlock()
	return updated, nil
}

// DeleteSnippet removes the snippet with id if it exists. When it was the
// selected one, the selection is cleared; any other selection is kept.
func (d *Dashboard) DeleteSnippet(ctx context.Context, id string) error {
	removed, err := d.snippets.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		d.logger.Debug("delete of unknown snippet ignored", slog.String("id", id))
	}

	d.mu.Lock()
	if d.selectedID == id {
		d.selectedID = ""
	}
	d.mu.Unlock()
	return nil
}

// FilteredSnippets applies the current criteria to the whole collection.
// It is recomputed on every call.
func (d *Dashboard) FilteredSnippets(ctx context.Context) ([]model.Snippet, error) {
	all, err := d.snippets.List(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(all, d.Criteria()), nil
}

// Criteria returns the active filter.
func (d *Dashboard) Criteria() Criteria {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.criteria
}

// SetCategory picks a sidebar category. An empty id means all.
func (d *Dashboard) SetCategory(id string) {
	if id == "" {
		id = catalog.AllCategories
	}
	d.mu.Lock()
	d.criteria.Category = id
	d.mu.Unlock()
}

// SetSearch replaces the search query.
func (d *Dashboard) SetSearch(q string) {
	d.mu.Lock()
	d.criteria.Query = q
	d.mu.Unlock()
}

// Select shows a snippet in the editor panel. The editing flag is not
// touched: selecting another snippet while in form mode reloads the form.
func (d *Dashboard) Select(ctx context.Context, id string) error {
	if _, err := d.snippets.GetByID(ctx, id); err != nil {
		return err
	}
	d.mu.Lock()
	d.selectedID = id
	d.mu.Unlock()
	return nil
}

// Edit selects a snippet and enters form mode.
func (d *Dashboard) Edit(ctx context.Context, id string) error {
	if _, err := d.snippets.GetByID(ctx, id); err != nil {
		return err
	}
	d.mu.Lock()
	d.selectedID = id
	d.editing = true
	d.mu.Unlock()
	return nil
}

// NewSnippet clears the selection and enters form mode with a blank form.
func (d *Dashboard) NewSnippet() {
	d.mu.Lock()
	d.selectedID = ""
	d.editing = true
	d.mu.Unlock()
}

// Cancel leaves form mode. The selection is kept.
func (d *Dashboard) Cancel() {
	d.mu.Lock()
	d.editing = false
	d.mu.Unlock()
}

// ToggleSidebar opens or closes the sidebar.
func (d *Dashboard) ToggleSidebar() {
	d.mu.Lock()
	d.sidebarOpen = !d.sidebarOpen
	d.mu.Unlock()
}

// Save is the editor's save button: it updates the selected snippet, or
// adds a new one when nothing is selected.
//
// A form with an empty title or code is rejected before anything else
// happens, matching the disabled button.
func (d *Dashboard) Save(ctx context.Context, f editor.Form) (*model.Snippet, error) {
	if !f.CanSave() {
		field := "title"
		if f.Title != "" {
			field = "code"
		}
		return nil, apperror.ValidationFailed(field, "title and code are required")
	}

	d.mu.Lock()
	selectedID := d.selectedID
	d.mu.Unlock()

	if selectedID == "" {
		return d.AddSnippet(ctx, f.Input())
	}

	current, err := d.snippets.GetByID(ctx, selectedID)
	if err != nil {
		return nil, err
	}
	return d.UpdateSnippet(ctx, f.Apply(*current))
}

// Snapshot is everything the dashboard template needs.
type Snapshot struct {
	Snippets    []model.Snippet
	Total       int
	Criteria    Criteria
	Selected    *model.Snippet
	Editing     bool
	Mode        editor.Mode
	Heading     string
	Form        editor.Form
	SidebarOpen bool
}

// Snapshot builds the read model for one render.
//
// A selection that no longer resolves (deleted through the API from another
// tab) is dropped here.
func (d *Dashboard) Snapshot(ctx context.Context) (Snapshot, error) {
	all, err := d.snippets.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var selected *model.Snippet
	if d.selectedID != "" {
		sn, err := d.snippets.GetByID(ctx, d.selectedID)
		switch {
		case err == nil:
			selected = sn
		case errors.Is(err, apperror.ErrNotFound):
			d.selectedID = ""
		default:
			return Snapshot{}, err
		}
	}

	return Snapshot{
		Snippets:    Filter(all, d.criteria),
		Total:       len(all),
		Criteria:    d.criteria,
		Selected:    selected,
		Editing:     d.editing,
		Mode:        editor.ModeFor(selected, d.editing),
		Heading:     editor.Heading(selected),
		Form:        editor.FormForMode(selected),
		SidebarOpen: d.sidebarOpen,
	}, nil
}

// SelectedID returns the id of the selected snippet, or "".
func (d *Dashboard) SelectedID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selectedID
}

// Editing reports whether the editor is in form mode.
func (d *Dashboard) Editing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.editing
}
