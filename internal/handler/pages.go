package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/codevault/internal/session"
)

var viewTitles = map[session.View]string{
	session.ViewLanding: "CodeVault",
	session.ViewLogin:   "Sign In | CodeVault",
	session.ViewSignup:  "Create Account | CodeVault",
}

// PageHandler serves the root view selector and the switches between the
// landing page and the two auth screens.
type PageHandler struct {
	views  *Views
	logger *slog.Logger
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(views *Views, logger *slog.Logger) *PageHandler {
	return &PageHandler{views: views, logger: logger}
}

// HandleRoot renders whatever view the session is on.
//
// HTTP: GET /
//
// A signed-in session always sees the dashboard, which lives at its own
// URL, so it is redirected there.
func (h *PageHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	s, err := sessionOf(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	view := s.CurrentView()
	if view == session.ViewDashboard {
		seeOther(w, r, "/dashboard")
		return
	}
	renderScreen(h.views, w, http.StatusOK, s, view, pageData{})
}

// HandleView switches between landing, login and signup.
//
// HTTP: POST /view/{name}
func (h *PageHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	s, err := sessionOf(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	name := chi.URLParam(r, "name")
	view, ok := session.ParseView(name)
	if !ok {
		http.Error(w, "unknown view "+name, http.StatusNotFound)
		return
	}
	if err := s.Show(view); err != nil {
		// The dashboard is reached by signing in, not by asking for it.
		seeOther(w, r, "/")
		return
	}

	h.logger.Debug("view switched",
		slog.String("session", s.ID),
		slog.String("view", view.String()),
	)
	seeOther(w, r, "/")
}

// renderScreen renders landing, login or signup with the screen's submit
// state filled in.
func renderScreen(v *Views, w http.ResponseWriter, status int, s *session.Session, view session.View, data pageData) {
	data.Title = viewTitles[view]
	data.Submitting = s.ScreenState(view) == session.Submitting
	v.render(w, status, view.String(), data)
}
