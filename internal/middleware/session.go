package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/codevault/internal/auth"
	"github.com/sakif/codevault/internal/session"
)

// CookieName is the cookie that carries the signed session token.
const CookieName = "codevault_session"

// contextKey is unexported so no other package can read or shadow the
// session stored in a request context.
type contextKey string

const sessionKey contextKey = "session"

// Sessions attaches a session to every request.
//
// The cookie holds a JWT whose subject is the session id. A missing,
// invalid or expired token, or one naming a session the store no longer
// has, starts a fresh session on the landing page and sets a new cookie.
// The cookie is HttpOnly and SameSite=Lax.
func Sessions(tokens *auth.TokenService, store *session.Store, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := lookup(r, tokens, store)
			if !ok {
				s = store.Create()
				token, err := tokens.Generate(s.ID)
				if err != nil {
					logger.Error("failed to issue session token", slog.String("error", err.Error()))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(tokens.Lifetime().Seconds()),
					HttpOnly: true,
					Secure:   r.TLS != nil,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), sessionKey, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func lookup(r *http.Request, tokens *auth.TokenService, store *session.Store) (*session.Session, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	id, err := tokens.Validate(cookie.Value)
	if err != nil {
		return nil, false
	}
	return store.Get(id)
}

// SessionFromContext returns the session Sessions attached to ctx.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*session.Session)
	return s, ok && s != nil
}

// WithSession returns a copy of ctx carrying s. Handler tests use it to
// skip the cookie round trip.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// RequireAuthenticated stops requests from sessions that have not signed
// in. API routes get a 401 JSON body; pages are redirected to the landing
// page.
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := SessionFromContext(r.Context())
		if ok && s.Authenticated() {
			next.ServeHTTP(w, r)
			return
		}

		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized","message":"sign in required"}` + "\n"))
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
}
