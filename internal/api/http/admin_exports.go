package http

import (
	"context"
	"net/http"

	"github.com/mind-engage/mindengage-papers/internal/audit"
)

// EventLister is the read side of the export audit log.
type EventLister interface {
	List(ctx context.Context, limit int) ([]audit.Event, error)
}

// GET /admin/exports?limit=50 lists recorded exports, newest first.
func ListExportEventsHandler(events EventLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := events.List(r.Context(), parseIntDefault(r.URL.Query().Get("limit"), 100))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
