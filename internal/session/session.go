// Package session holds the per-browser state of CodeVault.
//
// A Session plays the part of the application root: it remembers which view
// is showing and whether the user is signed in, and once they are it owns
// their Dashboard. Logging out drops the dashboard, and with it every
// snippet of that session.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/sakif/codevault/internal/apperror"
	"github.com/sakif/codevault/internal/auth"
	"github.com/sakif/codevault/internal/dashboard"
	"github.com/sakif/codevault/internal/model"
	"github.com/sakif/codevault/internal/service"
)

// DashboardFactory builds the dashboard a session gets on sign-in.
type DashboardFactory func(ctx context.Context) (*dashboard.Dashboard, error)

// Session is one browser's state. It is safe for concurrent use.
type Session struct {
	ID        string
	CreatedAt time.Time

	newDashboard DashboardFactory

	mu        sync.Mutex
	view      View
	account   *model.Account
	dashboard *dashboard.Dashboard
	screens   map[View]ScreenState
	lastSeen  time.Time
}

func newSession(id string, now time.Time, factory DashboardFactory) *Session {
	return &Session{
		ID:           id,
		CreatedAt:    now,
		newDashboard: factory,
		view:         ViewLanding,
		screens:      map[View]ScreenState{ViewLogin: Idle, ViewSignup: Idle},
		lastSeen:     now,
	}
}

// CurrentView is the root view selector: the dashboard once signed in,
// otherwise whichever auth screen (or the landing page) was chosen.
func (s *Session) CurrentView() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account != nil {
		return ViewDashboard
	}
	return s.view
}

// Authenticated reports whether the session has signed in.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account != nil
}

// Show switches between the landing page and the two auth screens. The
// dashboard cannot be shown this way; it follows from signing in.
func (s *Session) Show(v View) error {
	if v == ViewDashboard {
		return apperror.ValidationFailed("view", "the dashboard requires signing in")
	}
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
	return nil
}

// Account returns the signed-in account, or nil.
func (s *Session) Account() *model.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account == nil {
		return nil
	}
	acct := *s.account
	return &acct
}

// Dashboard returns the session's dashboard, or false when not signed in.
func (s *Session) Dashboard() (*dashboard.Dashboard, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dashboard, s.dashboard != nil
}

// ScreenState returns the submit state of the login or sign-up screen.
func (s *Session) ScreenState(v View) ScreenState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screens[v]
}

// SubmitLogin runs the login screen's submit: idle → submitting, wait for
// the authenticator, back to idle, then sign in.
func (s *Session) SubmitLogin(ctx context.Context, svc *service.AuthService, c auth.Credentials) error {
	if err := svc.CheckLogin(c); err != nil {
		return err
	}
	return s.submit(ctx, ViewLogin, func(ctx context.Context) (*model.Account, error) {
		return svc.Login(ctx, c)
	})
}

// SubmitSignup runs the sign-up screen's submit. A password that does not
// match its confirmation is rejected before the screen leaves idle.
func (s *Session) SubmitSignup(ctx context.Context, svc *service.AuthService, r auth.Registration) error {
	if err := svc.CheckSignUp(r); err != nil {
		return err
	}
	return s.submit(ctx, ViewSignup, func(ctx context.Context) (*model.Account, error) {
		return svc.SignUp(ctx, r)
	})
}

func (s *Session) submit(ctx context.Context, screen View, call func(context.Context) (*model.Account, error)) error {
	s.mu.Lock()
	if s.screens[screen] == Submitting {
		s.mu.Unlock()
		return apperror.Conflict("a submission is already in progress")
	}
	s.screens[screen] = Submitting
	s.mu.Unlock()

	// The lock is not held while the authenticator waits, so other requests
	// of this session can still render the "submitting" state.
	acct, err := call(ctx)
	var dash *dashboard.Dashboard
	if err == nil {
		dash, err = s.newDashboard(ctx)
	}

	s.mu.Lock()
	s.screens[screen] = Idle
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.account = acct
	replaced := s.dashboard
	s.dashboard = dash
	s.mu.Unlock()

	// Signing in on both auth screens at once leaves one dashboard behind.
	if replaced != nil {
		replaced.Close()
	}
	return nil
}

// Logout signs out and discards the dashboard. The next sign-in starts
// over from the example snippets. The chosen view is left alone, so the
// browser lands back on the screen it signed in from.
func (s *Session) Logout() error {
	return s.release()
}

// release signs out and closes the dashboard, if any.
func (s *Session) release() error {
	s.mu.Lock()
	dash := s.dashboard
	s.account = nil
	s.dashboard = nil
	s.mu.Unlock()

	if dash == nil {
		return nil
	}
	return dash.Close()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}
