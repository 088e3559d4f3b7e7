package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/codevault/internal/apperror"
	"github.com/sakif/codevault/internal/auth"
	"github.com/sakif/codevault/internal/service"
	"github.com/sakif/codevault/internal/session"
)

// AuthHandler manages the mock sign-in flow.
//
// HANDLER RESPONSIBILITIES:
//   - HandleLogin  → submit the login screen
//   - HandleSignup → submit the sign-up screen
//   - HandleLogout → sign out, dropping the dashboard
//   - HandleMe     → return the signed-in account
//
// Both submits block for the authenticator's simulated delay. While one is
// in flight the screen's state is "submitting", which any other tab of the
// same session renders as a disabled button with the loading label.
type AuthHandler struct {
	views  *Views
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(views *Views, auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{views: views, auth: auth, logger: logger}
}

// HandleLogin submits the login form.
//
// HTTP: POST /login
// FORM: email, password
//
// Any non-empty email and password are accepted.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	s, err := sessionOf(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	creds := auth.Credentials{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	if err := s.SubmitLogin(r.Context(), h.auth, creds); err != nil {
		h.failed(w, r, s, session.ViewLogin, authForm{Email: creds.Email}, err)
		return
	}
	seeOther(w, r, "/dashboard")
}

// HandleSignup submits the sign-up form.
//
// HTTP: POST /signup
// FORM: name, email, password, confirmPassword
//
// When the passwords differ the screen is rendered again with a blocking
// "Passwords do not match" alert and nothing is submitted.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	s, err := sessionOf(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	reg := auth.Registration{
		Name:            r.PostFormValue("name"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
	}
	if err := s.SubmitSignup(r.Context(), h.auth, reg); err != nil {
		h.failed(w, r, s, session.ViewSignup, authForm{Name: reg.Name, Email: reg.Email}, err)
		return
	}
	seeOther(w, r, "/dashboard")
}

func (h *AuthHandler) failed(w http.ResponseWriter, r *http.Request, s *session.Session, view session.View, form authForm, err error) {
	if errors.Is(err, context.Canceled) {
		// The browser gave up waiting; there is nobody to render for.
		h.logger.Debug("auth submit abandoned", slog.String("session", s.ID))
		return
	}

	status, _ := classify(err)
	data := pageData{Form: form}
	switch {
	case errors.Is(err, apperror.ErrPasswordMismatch):
		data.Alert = apperror.MessageOf(err, "Passwords do not match")
	case status == http.StatusInternalServerError:
		h.logger.Error("auth submit failed",
			slog.String("session", s.ID),
			slog.String("view", view.String()),
			slog.String("error", err.Error()),
		)
		data.Error = "Something went wrong. Please try again."
	default:
		data.Error = apperror.MessageOf(err, "Please check the form and try again.")
	}

	// The failed screen becomes the current one, so a reload shows it too.
	if showErr := s.Show(view); showErr != nil {
		h.logger.Warn("could not switch view", slog.String("error", showErr.Error()))
	}
	renderScreen(h.views, w, status, s, view, data)
}

// HandleLogout signs out and goes back to the screen the user signed in
// from. The session
// (and its cookie) survive, but the dashboard and its snippets do not.
//
// HTTP: POST /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	s, err := sessionOf(r)
	if err != nil {
		seeOther(w, r, "/")
		return
	}
	if acct := s.Account(); acct != nil {
		h.logger.Info("user logged out",
			slog.String("session", s.ID),
			slog.String("email", acct.Email),
		)
	}
	if err := s.Logout(); err != nil {
		h.logger.Warn("failed to close dashboard on logout",
			slog.String("session", s.ID),
			slog.String("error", err.Error()),
		)
	}
	seeOther(w, r, "/")
}

// HandleMe returns the signed-in account.
//
// HTTP: GET /api/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	s, err := sessionOf(r)
	if err != nil {
		writeError(w, err)
		return
	}
	acct := s.Account()
	if acct == nil {
		writeError(w, apperror.Unauthorized("sign in required"))
		return
	}
	writeJSON(w, http.StatusOK, acct)
}
