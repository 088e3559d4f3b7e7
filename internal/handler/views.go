// Package handler contains the HTTP handlers of CodeVault.
//
// HANDLER RESPONSIBILITIES:
// 1. Parse the incoming HTTP request (path params, form values, JSON)
// 2. Call the session, dashboard or service layer
// 3. Write the response: a rendered page, a redirect, or JSON
//
// Handlers hold no state of their own. Everything a page shows comes from
// the request's session (see middleware.Sessions).
//
// Page actions follow post/redirect/get: a successful POST redirects with
// 303 See Other, so reloading the browser never repeats the action. A
// failed POST re-renders the page with the error and the matching status.
package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/sakif/codevault/internal/catalog"
	"github.com/sakif/codevault/internal/dashboard"
	"github.com/sakif/codevault/internal/highlight"
	"github.com/sakif/codevault/internal/model"
)

// visibleTags is how many tags a list item shows before "+N".
const visibleTags = 3

var pages = []string{"landing", "login", "signup", "dashboard"}

// Views holds the parsed page templates. Each page is parsed together with
// base.html, which defines the document shell and pulls in the page's
// {{define "content"}} block.
type Views struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// NewViews parses every page from fsys. Templates are parsed once at
// startup and reused for every request.
func NewViews(fsys fs.FS, hl *highlight.Highlighter, logger *slog.Logger) (*Views, error) {
	funcs := template.FuncMap{
		"languageColor": catalog.LanguageColor,
		"highlight":     hl.MustHTML,
		"headTags":      headTags,
		"moreTags":      moreTags,
	}

	parsed := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(fsys, "base.html", page+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", page, err)
		}
		parsed[page] = tmpl
	}
	return &Views{pages: parsed, logger: logger}, nil
}

// pageData is what every template receives. Fields a page does not use are
// left zero.
type pageData struct {
	Title string
	Page  string

	// Alert is shown with window.alert as soon as the page loads.
	Alert  string
	Error  string
	Notice string

	// auth screens
	Submitting bool
	Form       authForm

	// dashboard
	Account    *model.Account
	Dash       dashboard.Snapshot
	Sidebar    []catalog.SidebarCategory
	Languages  []string
	Categories []string
}

// authForm echoes the non-secret fields back after a failed submit.
// Passwords are never written back into the page.
type authForm struct {
	Name  string
	Email string
}

// render executes a page into a buffer first, so a template error still
// produces a clean 500 instead of half a page.
func (v *Views) render(w http.ResponseWriter, status int, page string, data pageData) {
	tmpl, ok := v.pages[page]
	if !ok {
		v.logger.Error("unknown page template", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	data.Page = page
	if data.Title == "" {
		data.Title = "CodeVault"
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		v.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		v.logger.Debug("client went away during render", slog.String("error", err.Error()))
	}
}

func headTags(tags []string) []string {
	if len(tags) > visibleTags {
		return tags[:visibleTags]
	}
	return tags
}

// moreTags is the N of "+N", or 0 when every tag is visible.
func moreTags(tags []string) int {
	if len(tags) > visibleTags {
		return len(tags) - visibleTags
	}
	return 0
}
