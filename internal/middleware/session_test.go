package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/codevault/internal/auth"
	"github.com/sakif/codevault/internal/dashboard"
	"github.com/sakif/codevault/internal/service"
	"github.com/sakif/codevault/internal/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newFixtures(t *testing.T) (*auth.TokenService, *session.Store) {
	t.Helper()
	tokens, err := auth.NewTokenService("middleware-test-secret", time.Hour)
	require.NoError(t, err)
	factory := func(ctx context.Context) (*dashboard.Dashboard, error) {
		return dashboard.NewSeeded(ctx, testLogger())
	}
	return tokens, session.NewStore(time.Hour, factory, testLogger())
}

// sessionEcho writes the id of the request's session.
var sessionEcho = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	s, ok := SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "no session", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte(s.ID))
})

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", CookieName)
	return nil
}

func TestSessions_NewVisitorGetsCookie(t *testing.T) {
	tokens, store := newFixtures(t)
	h := Sessions(tokens, store, testLogger())(sessionEcho)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	cookie := sessionCookie(t, rr)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.Equal(t, 1, store.Len())

	id, err := tokens.Validate(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, id, rr.Body.String())
}

func TestSessions_CookieIsReused(t *testing.T) {
	tokens, store := newFixtures(t)
	h := Sessions(tokens, store, testLogger())(sessionEcho)

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := sessionCookie(t, first)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	second := httptest.NewRecorder()
	h.ServeHTTP(second, req)

	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Empty(t, second.Result().Cookies(), "a valid cookie is not reissued")
	assert.Equal(t, 1, store.Len())
}

func TestSessions_BadCookieStartsOver(t *testing.T) {
	tokens, store := newFixtures(t)
	h := Sessions(tokens, store, testLogger())(sessionEcho)

	tests := map[string]string{
		"garbage":         "not-a-jwt",
		"unknown session": mustToken(t, tokens, "d0000000000000000000"),
	}
	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: CookieName, Value: value})
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.NotEqual(t, value, sessionCookie(t, rr).Value)
		})
	}
}

func mustToken(t *testing.T, tokens *auth.TokenService, id string) string {
	t.Helper()
	tok, err := tokens.Generate(id)
	require.NoError(t, err)
	return tok
}

func TestRequireAuthenticated(t *testing.T) {
	_, store := newFixtures(t)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := RequireAuthenticated(ok)

	anon := store.Create()

	t.Run("page redirects", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req = req.WithContext(WithSession(req.Context(), anon))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/", rr.Header().Get("Location"))
	})

	t.Run("api returns 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/snippets", nil)
		req = req.WithContext(WithSession(req.Context(), anon))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Body.String(), `"unauthorized"`)
	})

	t.Run("no session at all", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("signed in passes through", func(t *testing.T) {
		signedIn := store.Create()
		svc := service.NewAuthService(auth.NewSimulator(0, auth.NewPasswordService(bcrypt.MinCost)), testLogger())
		require.NoError(t, signedIn.SubmitLogin(context.Background(), svc,
			auth.Credentials{Email: "ada@example.com", Password: "pw"}))

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req = req.WithContext(WithSession(req.Context(), signedIn))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusTeapot, rr.Code)
	})
}

func TestLogger_RecordsRequest(t *testing.T) {
	tokens, store := newFixtures(t)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})
	h := chimiddleware.RequestID(Sessions(tokens, store, testLogger())(Logger(logger)(notFound)))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "path=/missing")
	assert.Contains(t, out, "status=404")
	assert.Contains(t, out, "request_id=")
	assert.Contains(t, out, "session=")
}
