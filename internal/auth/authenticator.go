// Package auth holds the authentication collaborators of CodeVault.
//
// CodeVault has no real accounts. The login and sign-up screens talk to an
// Authenticator, and the only implementation, Simulator, waits a fixed delay
// and then lets anyone in. A real identity backend can replace it without
// touching the screens (see session.Screen).
//
// The package also provides the session cookie signer (token.go) and the
// password hasher (password.go).
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sakif/codevault/internal/model"
)

// DefaultDelay is the simulated network latency of login and sign-up.
const DefaultDelay = 1500 * time.Millisecond

// Credentials is what the login screen collects.
type Credentials struct {
	Email    string
	Password string
}

// Registration is what the sign-up screen collects.
type Registration struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Authenticator turns screen input into a signed-in Account.
type Authenticator interface {
	Login(ctx context.Context, c Credentials) (*model.Account, error)
	SignUp(ctx context.Context, r Registration) (*model.Account, error)
}

// Simulator is an Authenticator that accepts everyone after Delay.
//
// The wait stops early if ctx is cancelled (the browser went away), in which
// case ctx.Err() is returned. Otherwise it always succeeds.
type Simulator struct {
	delay     time.Duration
	passwords *PasswordService
	now       func() time.Time
}

var _ Authenticator = (*Simulator)(nil)

// NewSimulator creates a Simulator. A negative delay is treated as zero.
func NewSimulator(delay time.Duration, passwords *PasswordService) *Simulator {
	if delay < 0 {
		delay = 0
	}
	return &Simulator{delay: delay, passwords: passwords, now: time.Now}
}

// Delay returns the simulated latency.
func (s *Simulator) Delay() time.Duration {
	return s.delay
}

// Login waits and returns an account named after the email's local part.
// No credential is checked.
func (s *Simulator) Login(ctx context.Context, c Credentials) (*model.Account, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return &model.Account{
		Name:      displayName(c.Email),
		Email:     c.Email,
		CreatedAt: s.now(),
	}, nil
}

// SignUp waits and returns an account built from the registration. The
// password is kept only as a bcrypt hash.
func (s *Simulator) SignUp(ctx context.Context, r Registration) (*model.Account, error) {
	hash, err := s.passwords.Hash(r.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: signing up %s: %w", r.Email, err)
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = displayName(r.Email)
	}
	return &model.Account{
		Name:         name,
		Email:        r.Email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}, nil
}

func (s *Simulator) wait(ctx context.Context) error {
	if s.delay == 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func displayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return email
	}
	return local
}
