package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/codevault/internal/apperror"
	"github.com/sakif/codevault/internal/auth"
	"github.com/sakif/codevault/internal/model"
)

// AuthService applies the sign-in rules the screens enforce before handing
// off to the Authenticator:
//
//   - every field of the form is required
//   - on sign-up, password and confirmation must be byte-for-byte equal
//
// Those are the only checks in the system. Whatever reaches the
// Authenticator is accepted by the Simulator.
type AuthService struct {
	authn  auth.Authenticator
	logger *slog.Logger
}

// NewAuthService creates an AuthService around authn.
func NewAuthService(authn auth.Authenticator, logger *slog.Logger) *AuthService {
	return &AuthService{authn: authn, logger: logger}
}

// CheckLogin validates the login form without submitting it.
func (s *AuthService) CheckLogin(c auth.Credentials) error {
	if strings.TrimSpace(c.Email) == "" {
		return apperror.ValidationFailed("email", "email is required")
	}
	if c.Password == "" {
		return apperror.ValidationFailed("password", "password is required")
	}
	return nil
}

// CheckSignUp validates the sign-up form without submitting it.
// The password comparison is exact: no trimming, no normalisation.
func (s *AuthService) CheckSignUp(r auth.Registration) error {
	if strings.TrimSpace(r.Name) == "" {
		return apperror.ValidationFailed("name", "name is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return apperror.ValidationFailed("email", "email is required")
	}
	if r.Password == "" {
		return apperror.ValidationFailed("password", "password is required")
	}
	if r.ConfirmPassword == "" {
		return apperror.ValidationFailed("confirmPassword", "please confirm your password")
	}
	if r.Password != r.ConfirmPassword {
		return apperror.PasswordMismatch()
	}
	return nil
}

// Login validates and submits the login form.
func (s *AuthService) Login(ctx context.Context, c auth.Credentials) (*model.Account, error) {
	c.Email = strings.TrimSpace(c.Email)
	if err := s.CheckLogin(c); err != nil {
		return nil, err
	}

	acct, err := s.authn.Login(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("service/auth: login %s: %w", c.Email, err)
	}

	s.logger.Info("user logged in", slog.String("email", acct.Email))
	return acct, nil
}

// SignUp validates and submits the sign-up form.
func (s *AuthService) SignUp(ctx context.Context, r auth.Registration) (*model.Account, error) {
	r.Email = strings.TrimSpace(r.Email)
	if err := s.CheckSignUp(r); err != nil {
		if errors.Is(err, apperror.ErrPasswordMismatch) {
			s.logger.Info("sign-up rejected: passwords do not match", slog.String("email", r.Email))
		}
		return nil, err
	}

	acct, err := s.authn.SignUp(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("service/auth: sign-up %s: %w", r.Email, err)
	}

	s.logger.Info("user signed up",
		slog.String("email", acct.Email),
		slog.String("name", acct.Name),
	)
	return acct, nil
}
