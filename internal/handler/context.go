package handler

import (
	"net/http"

	"github.com/sakif/codevault/internal/apperror"
	"github.com/sakif/codevault/internal/dashboard"
	"github.com/sakif/codevault/internal/middleware"
	"github.com/sakif/codevault/internal/session"
)

func sessionOf(r *http.Request) (*session.Session, error) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		return nil, apperror.Unauthorized("no session")
	}
	return s, nil
}

// dashboardOf returns the signed-in dashboard of the request's session.
// Routes behind middleware.RequireAuthenticated always have one; the error
// covers a logout racing the request from another tab.
func dashboardOf(r *http.Request) (*session.Session, *dashboard.Dashboard, error) {
	s, err := sessionOf(r)
	if err != nil {
		return nil, nil, err
	}
	dash, ok := s.Dashboard()
	if !ok {
		return nil, nil, apperror.Unauthorized("sign in required")
	}
	return s, dash, nil
}

func seeOther(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}
