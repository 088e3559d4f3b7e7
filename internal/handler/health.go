package handler

import (
	"net/http"

	"github.com/sakif/codevault/internal/session"
)

// HandleHealth reports liveness and the number of sessions held.
//
// HTTP: GET /healthz
func HandleHealth(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"sessions": store.Len(),
		})
	}
}
