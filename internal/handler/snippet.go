package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/codevault/internal/dashboard"
	"github.com/sakif/codevault/internal/model"
)

// SnippetHandler is the JSON API over the signed-in session's collection.
//
// It works on the same collection the dashboard shows, but it does not
// move the dashboard's selection or filters. Deleting the selected snippet
// still clears the selection.
type SnippetHandler struct {
	logger *slog.Logger
}

// NewSnippetHandler creates a new SnippetHandler.
func NewSnippetHandler(logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{logger: logger}
}

// HandleList returns the collection, most recent first.
//
// HTTP: GET /api/snippets?category=React&q=hook
//
// Both parameters are optional. They filter exactly like the sidebar and the
// search box, without changing what the dashboard itself shows.
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	_, dash, err := dashboardOf(r)
	if err != nil {
		writeError(w, err)
		return
	}

	all, err := dash.Snippets().List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	criteria := dashboard.Criteria{
		Category: r.URL.Query().Get("category"),
		Query:    r.URL.Query().Get("q"),
	}
	writeJSON(w, http.StatusOK, dashboard.Filter(all, criteria))
}

// HandleGetByID returns one snippet.
//
// HTTP: GET /api/snippets/{id}
func (h *SnippetHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	_, dash, err := dashboardOf(r)
	if err != nil {
		writeError(w, err)
		return
	}

	snippet, err := dash.Snippets().GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snippet)
}

// HandleRaw returns a snippet's code as plain text, exactly as stored. The
// copy buttons fetch it for navigator.clipboard.writeText.
//
// HTTP: GET /api/snippets/{id}/raw
func (h *SnippetHandler) HandleRaw(w http.ResponseWriter, r *http.Request) {
	_, dash, err := dashboardOf(r)
	if err != nil {
		writeError(w, err)
		return
	}

	snippet, err := dash.Snippets().GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(snippet.Code)); err != nil {
		h.logger.Debug("client went away during raw write", slog.String("error", err.Error()))
	}
}

// HandleCreate stores a new snippet.
//
// HTTP: POST /api/snippets
// REQUEST BODY: {"title": "...", "code": "...", "language": "Go", "category": "Utils", "tags": ["x"]}
//
// The server assigns id, createdAt and updatedAt.
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, dash, err := dashboardOf(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var in model.SnippetInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.logger.Warn("invalid snippet JSON", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	created, err := dash.Snippets().Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleUpdate replaces the editable fields of a snippet.
//
// HTTP: PUT /api/snippets/{id}
//
// The body has the same shape as for create. id and createdAt keep their
// stored values; an unknown id is a 404 and changes nothing.
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	_, dash, err := dashboardOf(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var in model.SnippetInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.logger.Warn("invalid snippet JSON", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	snippet := model.Snippet{ID: chi.URLParam(r, "id")}
	snippet.Apply(in)

	updated, err := dash.Snippets().Update(r.Context(), snippet)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete removes a snippet.
//
// HTTP: DELETE /api/snippets/{id}
//
// Deleting an id that is not there still answers 204 No Content.
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, dash, err := dashboardOf(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := dash.DeleteSnippet(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
