package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/codevault/internal/apperror"
	"github.com/sakif/codevault/internal/catalog"
	"github.com/sakif/codevault/internal/clipboard"
	"github.com/sakif/codevault/internal/dashboard"
	"github.com/sakif/codevault/internal/editor"
	"github.com/sakif/codevault/internal/session"
)

// DashboardHandler serves the dashboard page and its form actions.
//
// ROUTES:
//
//	GET  /dashboard?category=&q=            render (query params set filter and search)
//	POST /dashboard/sidebar                 toggle the sidebar
//	POST /dashboard/new                     blank form
//	POST /dashboard/cancel                  leave form mode
//	POST /dashboard/save                    add or update
//	POST /dashboard/snippets/{id}/select    show in the editor panel
//	POST /dashboard/snippets/{id}/edit      open in the form
//	POST /dashboard/snippets/{id}/delete    remove
//	POST /dashboard/snippets/{id}/copy      copy the code to the clipboard
type DashboardHandler struct {
	views     *Views
	clipboard clipboard.Writer
	logger    *slog.Logger
}

// NewDashboardHandler creates a DashboardHandler. Copy actions write to clip.
func NewDashboardHandler(views *Views, clip clipboard.Writer, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{views: views, clipboard: clip, logger: logger}
}

// HandleShow renders the dashboard.
//
// HTTP: GET /dashboard
//
// category and q are applied only when present, so a plain /dashboard keeps
// whatever filter the session already has.
func (h *DashboardHandler) HandleShow(w http.ResponseWriter, r *http.Request) {
	s, dash, err := dashboardOf(r)
	if err != nil {
		seeOther(w, r, "/")
		return
	}

	q := r.URL.Query()
	if q.Has("category") {
		dash.SetCategory(q.Get("category"))
	}
	if q.Has("q") {
		dash.SetSearch(q.Get("q"))
	}

	data := pageData{}
	if q.Has("copied") {
		data.Notice = "Copied to clipboard"
	}
	h.render(w, r, http.StatusOK, s, dash, data, nil)
}

// HandleToggleSidebar opens or closes the category sidebar.
func (h *DashboardHandler) HandleToggleSidebar(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(d *dashboard.Dashboard) error {
		d.ToggleSidebar()
		return nil
	})
}

// HandleNew clears the selection and opens a blank form.
func (h *DashboardHandler) HandleNew(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(d *dashboard.Dashboard) error {
		d.NewSnippet()
		return nil
	})
}

// HandleCancel leaves form mode without saving.
func (h *DashboardHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(d *dashboard.Dashboard) error {
		d.Cancel()
		return nil
	})
}

// HandleSelect shows a snippet read-only.
func (h *DashboardHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.act(w, r, func(d *dashboard.Dashboard) error {
		return d.Select(r.Context(), id)
	})
}

// HandleEdit opens a snippet in the form.
func (h *DashboardHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.act(w, r, func(d *dashboard.Dashboard) error {
		return d.Edit(r.Context(), id)
	})
}

// HandleDelete removes a snippet. Deleting one that is already gone is not
// an error.
func (h *DashboardHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.act(w, r, func(d *dashboard.Dashboard) error {
		return d.DeleteSnippet(r.Context(), id)
	})
}

// HandleSave is the editor's save button.
//
// HTTP: POST /dashboard/save
// FORM: title, description, code, language, category, tags (comma separated)
//
// On failure the form is shown again with what the user typed.
func (h *DashboardHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	s, dash, err := dashboardOf(r)
	if err != nil {
		seeOther(w, r, "/")
		return
	}

	form := editor.Form{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Code:        r.PostFormValue("code"),
		Language:    r.PostFormValue("language"),
		Category:    r.PostFormValue("category"),
		Tags:        r.PostFormValue("tags"),
	}

	if _, err := dash.Save(r.Context(), form); err != nil {
		status, _ := classify(err)
		h.render(w, r, status, s, dash, pageData{Error: h.message(s, err)}, &form)
		return
	}
	seeOther(w, r, "/dashboard")
}

// HandleCopy writes a snippet's code, byte for byte, to the configured
// clipboard. Browsers with the Clipboard API copy on their own through
// GET /api/snippets/{id}/raw; this is the fallback.
func (h *DashboardHandler) HandleCopy(w http.ResponseWriter, r *http.Request) {
	s, dash, err := dashboardOf(r)
	if err != nil {
		seeOther(w, r, "/")
		return
	}

	id := chi.URLParam(r, "id")
	snippet, err := dash.Snippets().GetByID(r.Context(), id)
	if err != nil {
		status, _ := classify(err)
		h.render(w, r, status, s, dash, pageData{Error: h.message(s, err)}, nil)
		return
	}

	if err := h.clipboard.Write(snippet.Code); err != nil {
		h.logger.Error("copy to clipboard failed",
			slog.String("session", s.ID),
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		h.render(w, r, http.StatusInternalServerError, s, dash,
			pageData{Error: "Could not copy to the clipboard."}, nil)
		return
	}

	h.logger.Debug("snippet copied", slog.String("session", s.ID), slog.String("id", id))
	seeOther(w, r, "/dashboard?copied=1")
}

// act runs one state change and redirects back, or re-renders with the
// error.
func (h *DashboardHandler) act(w http.ResponseWriter, r *http.Request, fn func(*dashboard.Dashboard) error) {
	s, dash, err := dashboardOf(r)
	if err != nil {
		seeOther(w, r, "/")
		return
	}
	if err := fn(dash); err != nil {
		status, _ := classify(err)
		h.render(w, r, status, s, dash, pageData{Error: h.message(s, err)}, nil)
		return
	}
	seeOther(w, r, "/dashboard")
}

// render draws the dashboard. A non-nil form replaces the one the snapshot
// would show, and forces form mode.
func (h *DashboardHandler) render(w http.ResponseWriter, r *http.Request, status int, s *session.Session, dash *dashboard.Dashboard, data pageData, form *editor.Form) {
	snap, err := dash.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("failed to build dashboard snapshot",
			slog.String("session", s.ID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if form != nil {
		snap.Form = *form
		snap.Mode = editor.ModeForm
		snap.Heading = editor.Heading(snap.Selected)
	}

	data.Title = "Dashboard | CodeVault"
	data.Account = s.Account()
	data.Dash = snap
	data.Sidebar = catalog.SidebarCategories
	data.Languages = catalog.Languages
	data.Categories = catalog.Categories
	h.views.render(w, status, "dashboard", data)
}

func (h *DashboardHandler) message(s *session.Session, err error) string {
	status, _ := classify(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("dashboard action failed",
			slog.String("session", s.ID),
			slog.String("error", err.Error()),
		)
	}
	return apperror.MessageOf(err, "Something went wrong. Please try again.")
}
