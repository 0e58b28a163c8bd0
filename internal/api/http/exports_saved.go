package http

import (
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-papers/internal/storage"
)

// MountExports serves the artifacts the export service saved under exports/.
func MountExports(r chi.Router, bs storage.BlobStore) {
	// GET /exports -> newest first
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		list, err := bs.List("exports/")
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, list)
	})

	// GET /exports/*   -> returns the blob at exports/<whatever follows>
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := path.Clean("exports/" + strings.TrimPrefix(chi.URLParam(r, "*"), "/"))
		if !strings.HasPrefix(key, "exports/") {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		rc, err := bs.Get(key)
		if err != nil {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		defer rc.Close()
		ct := mime.TypeByExtension(path.Ext(key))
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		_, _ = io.Copy(w, rc)
	})
}
