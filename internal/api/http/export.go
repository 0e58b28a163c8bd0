package http

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-papers/internal/export"
	"github.com/mind-engage/mindengage-papers/internal/session"
)

func exportInput(st session.State, mode export.Mode) export.Input {
	in := export.Input{Mode: mode}
	if mode == export.ModeBank {
		in.Bank = st.Bank()
	} else {
		in.Paper = st.Paper()
	}
	return in
}

// GET /export/{mode}/{format} renders the session as a download.
func ExportHandler(sess *session.Session, svc *export.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode, err := export.ParseMode(chi.URLParam(r, "mode"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		art, ok := render(w, r, svc, chi.URLParam(r, "format"), exportInput(sess.Snapshot(), mode))
		if !ok {
			return
		}
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": art.Filename}))
		writeArtifact(w, art)
	}
}

// GET /paper/print serves the print view inline so the browser can print it.
func PrintHandler(sess *session.Session, svc *export.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		art, ok := render(w, r, svc, "html", exportInput(sess.Snapshot(), export.ModePaper))
		if !ok {
			return
		}
		writeArtifact(w, art)
	}
}

func render(w http.ResponseWriter, r *http.Request, svc *export.Service, format string, in export.Input) (export.Artifact, bool) {
	art, err := svc.Export(r.Context(), format, in)
	switch {
	case err == nil:
		return art, true
	case errors.Is(err, export.ErrUnknownFormat):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, export.ErrEmptySelection):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Export failed: "+err.Error())
	}
	return export.Artifact{}, false
}

func writeArtifact(w http.ResponseWriter, art export.Artifact) {
	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	if art.Key != "" {
		w.Header().Set("X-Export-Key", art.Key)
	}
	_, _ = w.Write(art.Data)
}
