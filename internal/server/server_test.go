package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/codevault/internal/clipboard"
	"github.com/sakif/codevault/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:           8080,
		SessionSecret:  "server-test-secret-value",
		SessionTTL:     time.Hour,
		SweepInterval:  time.Minute,
		AuthDelay:      0,
		BcryptCost:     4,
		Clipboard:      "none",
		Storage:        "memory",
		HighlightStyle: "dracula",
		LogLevel:       "error",
		LogFormat:      "text",
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// browser is an http.Client with a cookie jar that does not follow
// redirects, so each step's status is visible.
func browser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestEndToEnd(t *testing.T) {
	for _, storage := range []string{"memory", "sqlite"} {
		t.Run(storage, func(t *testing.T) {
			cfg := testConfig()
			cfg.Storage = storage
			endToEnd(t, cfg)
		})
	}
}

func endToEnd(t *testing.T, cfg *config.Config) {
	rec := &clipboard.Recorder{}
	srv, err := New(cfg, testLogger(), Options{Clipboard: rec})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	client := browser(t)

	// Landing page, with a session cookie.
	resp, err := client.Get(ts.URL + "/")
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "Get Started")
	assert.Equal(t, 1, srv.Sessions().Len())

	// The dashboard is closed before signing in.
	resp, err = client.Get(ts.URL + "/dashboard")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, err = client.PostForm(ts.URL+"/signup", url.Values{
		"name": {"Ada"}, "email": {"ada@example.com"}, "password": {"abc"}, "confirmPassword": {"xyz"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Passwords do not match")

	resp, err = client.PostForm(ts.URL+"/signup", url.Values{
		"name": {"Ada"}, "email": {"ada@example.com"}, "password": {"abc"}, "confirmPassword": {"abc"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	resp, err = client.Get(ts.URL + "/dashboard")
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Snippets (2)")

	resp, err = client.Post(ts.URL+"/api/snippets", "application/json",
		strings.NewReader(`{"title":"From API","code":"echo hi","language":"Shell","category":"DevOps"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = client.Get(ts.URL + "/dashboard?q=api")
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "Snippets (1)")

	resp, err = client.Get(ts.URL + "/api/me")
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), `"name":"Ada"`)

	resp, err = client.PostForm(ts.URL+"/logout", url.Values{})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, err = client.Get(ts.URL + "/api/snippets")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	assert.Equal(t, 1, srv.Sessions().Len(), "one browser, one session")
}

func TestSessionsAreIsolated(t *testing.T) {
	srv, err := New(testConfig(), testLogger(), Options{})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	signIn := func(c *http.Client) {
		resp, err := c.PostForm(ts.URL+"/login", url.Values{"email": {"a@b.c"}, "password": {"p"}})
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	}

	alice, bob := browser(t), browser(t)
	signIn(alice)
	signIn(bob)

	resp, err := alice.Post(ts.URL+"/api/snippets", "application/json",
		strings.NewReader(`{"title":"Alice only","code":"x"}`))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = bob.Get(ts.URL + "/api/snippets")
	require.NoError(t, err)
	assert.NotContains(t, readBody(t, resp), "Alice only")
}

func TestStaticAndHealth(t *testing.T) {
	srv, err := New(testConfig(), testLogger(), Options{})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/static/app.css")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), `"status":"ok"`)
	assert.Empty(t, resp.Cookies(), "health checks do not start sessions")
}

func TestNew_RejectsBadClipboard(t *testing.T) {
	cfg := testConfig()
	cfg.Clipboard = "fax"
	_, err := New(cfg, testLogger(), Options{})
	assert.Error(t, err)
}

func TestNew_RejectsUnknownStorage(t *testing.T) {
	cfg := testConfig()
	cfg.Storage = "postgres"
	_, err := New(cfg, testLogger(), Options{})
	assert.Error(t, err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	cfg := testConfig()
	cfg.Port = port
	srv, err := New(cfg, testLogger(), Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/healthz", port))
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
