package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/codevault/internal/auth"
	"github.com/sakif/codevault/internal/clipboard"
	"github.com/sakif/codevault/internal/dashboard"
	"github.com/sakif/codevault/internal/handler"
	"github.com/sakif/codevault/internal/highlight"
	"github.com/sakif/codevault/internal/middleware"
	"github.com/sakif/codevault/internal/model"
	"github.com/sakif/codevault/internal/service"
	"github.com/sakif/codevault/internal/session"
	"github.com/sakif/codevault/internal/web"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixture is one browser session behind the same routes the server mounts,
// minus the cookie middleware: the session is injected directly.
type fixture struct {
	t         *testing.T
	store     *session.Store
	session   *session.Session
	auth      *service.AuthService
	clipboard *clipboard.Recorder
	router    http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithDelay(t, 0)
}

func newFixtureWithDelay(t *testing.T, delay time.Duration) *fixture {
	t.Helper()
	logger := testLogger()

	factory := func(ctx context.Context) (*dashboard.Dashboard, error) {
		return dashboard.NewSeeded(ctx, logger)
	}
	store := session.NewStore(time.Hour, factory, logger)
	sim := auth.NewSimulator(delay, auth.NewPasswordService(bcrypt.MinCost))
	authService := service.NewAuthService(sim, logger)

	views, err := handler.NewViews(web.Templates(), highlight.New(""), logger)
	require.NoError(t, err)

	f := &fixture{
		t:         t,
		store:     store,
		session:   store.Create(),
		auth:      authService,
		clipboard: &clipboard.Recorder{},
	}

	pages := handler.NewPageHandler(views, logger)
	authHandler := handler.NewAuthHandler(views, authService, logger)
	dash := handler.NewDashboardHandler(views, f.clipboard, logger)
	api := handler.NewSnippetHandler(logger)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithSession(req.Context(), f.session)))
		})
	})
	r.Get("/", pages.HandleRoot)
	r.Post("/view/{name}", pages.HandleView)
	r.Post("/login", authHandler.HandleLogin)
	r.Post("/signup", authHandler.HandleSignup)
	r.Post("/logout", authHandler.HandleLogout)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuthenticated)
		r.Get("/dashboard", dash.HandleShow)
		r.Post("/dashboard/sidebar", dash.HandleToggleSidebar)
		r.Post("/dashboard/new", dash.HandleNew)
		r.Post("/dashboard/cancel", dash.HandleCancel)
		r.Post("/dashboard/save", dash.HandleSave)
		r.Post("/dashboard/snippets/{id}/select", dash.HandleSelect)
		r.Post("/dashboard/snippets/{id}/edit", dash.HandleEdit)
		r.Post("/dashboard/snippets/{id}/delete", dash.HandleDelete)
		r.Post("/dashboard/snippets/{id}/copy", dash.HandleCopy)
		r.Get("/api/me", authHandler.HandleMe)
		r.Get("/api/snippets", api.HandleList)
		r.Post("/api/snippets", api.HandleCreate)
		r.Get("/api/snippets/{id}", api.HandleGetByID)
		r.Put("/api/snippets/{id}", api.HandleUpdate)
		r.Delete("/api/snippets/{id}", api.HandleDelete)
		r.Get("/api/snippets/{id}/raw", api.HandleRaw)
	})
	r.Get("/healthz", handler.HandleHealth(store))
	f.router = r
	return f
}

func (f *fixture) signIn() *dashboard.Dashboard {
	f.t.Helper()
	require.NoError(f.t, f.session.SubmitLogin(context.Background(), f.auth,
		auth.Credentials{Email: "ada@example.com", Password: "secret"}))
	dash, ok := f.session.Dashboard()
	require.True(f.t, ok)
	return dash
}

func (f *fixture) do(method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	f.t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func (f *fixture) get(target string) *httptest.ResponseRecorder {
	return f.do(http.MethodGet, target, nil, "")
}

func (f *fixture) postForm(target string, values url.Values) *httptest.ResponseRecorder {
	return f.do(http.MethodPost, target, strings.NewReader(values.Encode()), "application/x-www-form-urlencoded")
}

func (f *fixture) sendJSON(method, target, body string) *httptest.ResponseRecorder {
	return f.do(method, target, strings.NewReader(body), "application/json")
}

// byTitle finds a snippet of the signed-in dashboard.
func byTitle(t *testing.T, dash *dashboard.Dashboard, title string) model.Snippet {
	t.Helper()
	all, err := dash.Snippets().List(context.Background())
	require.NoError(t, err)
	for _, s := range all {
		if s.Title == title {
			return s
		}
	}
	t.Fatalf("no snippet titled %q", title)
	return model.Snippet{}
}
