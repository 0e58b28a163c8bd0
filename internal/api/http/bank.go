package http

import (
	"errors"
	"net/http"

	"github.com/mind-engage/mindengage-papers/internal/bank"
	"github.com/mind-engage/mindengage-papers/internal/question"
	"github.com/mind-engage/mindengage-papers/internal/session"
)

type bankResponse struct {
	Scope *question.Scope `json:"scope"`
	View  bank.View       `json:"view"`
	Guard bank.Guard      `json:"guard"`
}

func toBank(st session.State) bankResponse {
	return bankResponse{Scope: st.Scope, View: st.View(), Guard: bank.DesignGuard(len(st.Selection))}
}

// POST /bank/scope  { "subject": "...", "grade": "...", "lesson_ids": [..], "lo_ids": [..] }
func SetScopeHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Subject   string  `json:"subject"`
			Grade     string  `json:"grade"`
			LessonIDs []int64 `json:"lesson_ids"`
			LOIDs     []int64 `json:"lo_ids"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Subject == "" || req.Grade == "" {
			writeError(w, http.StatusBadRequest, "subject and grade required")
			return
		}
		st, err := sess.Refresh(r.Context(), question.Scope{
			Subject:   req.Subject,
			Grade:     req.Grade,
			LessonIDs: req.LessonIDs,
			LOIDs:     req.LOIDs,
		})
		writeFetch(w, st, err)
	}
}

// POST /bank/reload keeps the current scope and selections.
func ReloadBankHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := sess.Reload(r.Context())
		writeFetch(w, st, err)
	}
}

func writeFetch(w http.ResponseWriter, st session.State, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, toBank(st))
	case errors.Is(err, session.ErrSuperseded):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrNoScope):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func GetBankHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, toBank(sess.Snapshot()))
	}
}

// PUT /bank/filters stages filters; they take effect on apply.
func StageFiltersHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f bank.Filters
		if !decodeJSON(w, r, &f) {
			return
		}
		if err := question.ValidateStruct("filters", f); err != nil {
			if !writeInvalid(w, err) {
				writeError(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		writeJSON(w, http.StatusOK, toBank(sess.StageFilters(f)))
	}
}

func ApplyFiltersHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, toBank(sess.ApplyFilters()))
	}
}

func ResetFiltersHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, toBank(sess.ResetFilters()))
	}
}

// PUT /bank/sort  { "sort": "difficulty_asc" }
func SetSortHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Sort string `json:"sort"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		m, err := bank.ParseSortMode(req.Sort)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, toBank(sess.SetSort(m)))
	}
}

func ToggleSelectionHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qid, ok := urlInt64(w, r, "questionID")
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toBank(sess.ToggleSelection(qid)))
	}
}

// POST /bank/selection/all selects every visible question.
func SelectVisibleHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, toBank(sess.SelectVisible()))
	}
}

// POST /bank/selection/clear deselects the visible questions only.
func ClearVisibleHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, toBank(sess.ClearVisible()))
	}
}

func DesignGuardHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sess.DesignGuard())
	}
}
