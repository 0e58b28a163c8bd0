package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-papers/internal/paper"
	"github.com/mind-engage/mindengage-papers/internal/question"
	"github.com/mind-engage/mindengage-papers/internal/session"
)

type paperResponse struct {
	Mode   session.Mode `json:"mode"`
	Layout paper.Layout `json:"layout"`
	Paper  paper.Paper  `json:"paper"`
}

func toPaper(st session.State) paperResponse {
	return paperResponse{Mode: st.Mode, Layout: st.Layout, Paper: st.Paper()}
}

// GET /paper returns the layout and the assembled paper with per-section status.
func GetPaperHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, toPaper(sess.Snapshot()))
	}
}

func SetMetadataHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var m paper.Metadata
		if !decodeJSON(w, r, &m) {
			return
		}
		if err := question.ValidateStruct("metadata", m); err != nil {
			if !writeInvalid(w, err) {
				writeError(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		writeJSON(w, http.StatusOK, toPaper(sess.SetMetadata(m)))
	}
}

// PUT /mode  { "mode": "bank" | "paper" }
func SetModeHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Mode session.Mode `json:"mode"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Mode != session.ModeBank && req.Mode != session.ModePaper {
			writeError(w, http.StatusBadRequest, "mode must be bank or paper")
			return
		}
		writeJSON(w, http.StatusOK, toPaper(sess.SetMode(req.Mode)))
	}
}

func AddSectionHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, st := sess.AddSection()
		writeJSON(w, http.StatusCreated, map[string]interface{}{"id": id, "layout": st.Layout, "paper": st.Paper()})
	}
}

// sectionID resolves {sectionID} and answers 404 for sections that do not exist.
func sectionID(w http.ResponseWriter, r *http.Request, sess *session.Session) (string, bool) {
	id := chi.URLParam(r, "sectionID")
	if _, ok := sess.Snapshot().Layout.Section(id); !ok {
		writeError(w, http.StatusNotFound, "section not found")
		return "", false
	}
	return id, true
}

// PATCH /paper/sections/{sectionID}  { "name"?, "questionType"?, "marksPerQuestion"?, "sectionMarks"? }
func UpdateSectionHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sectionID(w, r, sess)
		if !ok {
			return
		}
		var p paper.SectionPatch
		if !decodeJSON(w, r, &p) {
			return
		}
		writeJSON(w, http.StatusOK, toPaper(sess.UpdateSection(id, p)))
	}
}

func RemoveSectionHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sectionID(w, r, sess)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toPaper(sess.RemoveSection(id)))
	}
}

// POST /paper/sections/{sectionID}/toggle/{questionID}. Requests that would break
// capacity or exclusivity return the unchanged paper.
func ToggleInSectionHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sectionID(w, r, sess)
		if !ok {
			return
		}
		qid, ok := urlInt64(w, r, "questionID")
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toPaper(sess.ToggleInSection(id, qid)))
	}
}

func AddAllEligibleHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sectionID(w, r, sess)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toPaper(sess.AddAllEligible(id)))
	}
}

func EligiblePoolHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pool, ok := sess.EligiblePool(chi.URLParam(r, "sectionID"))
		if !ok {
			writeError(w, http.StatusNotFound, "section not found")
			return
		}
		writeJSON(w, http.StatusOK, pool)
	}
}

// POST /paper/sections/reorder  { "from": 0, "to": 2 }
func ReorderSectionsHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			From int `json:"from"`
			To   int `json:"to"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		writeJSON(w, http.StatusOK, toPaper(sess.ReorderSections(req.From, req.To)))
	}
}

// PUT /paper/active-section  { "id": "..." }
func SetActiveSectionHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID string `json:"id"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if _, ok := sess.Snapshot().Layout.Section(req.ID); !ok {
			writeError(w, http.StatusNotFound, "section not found")
			return
		}
		writeJSON(w, http.StatusOK, toPaper(sess.SetActive(req.ID)))
	}
}
