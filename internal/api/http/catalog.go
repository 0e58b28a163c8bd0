package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/mind-engage/mindengage-papers/internal/question"
	"github.com/mind-engage/mindengage-papers/internal/session"
)

// GET /lessons?subject=Science&grade=Grade%206
func ListLessonsHandler(repo question.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject := strings.TrimSpace(r.URL.Query().Get("subject"))
		grade := strings.TrimSpace(r.URL.Query().Get("grade"))
		if subject == "" || grade == "" {
			writeError(w, http.StatusBadRequest, "subject and grade required")
			return
		}
		list, err := repo.GetLessons(r.Context(), subject, grade)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /outcomes?lesson_id=1&lesson_id=2 (or lesson_ids=1,2)
func ListOutcomesHandler(repo question.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := queryIDs(r, "lesson_id", "lesson_ids")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		list, err := repo.GetLearningOutcomes(r.Context(), ids)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// POST /questions creates a question. The bank is reloaded and the new question joins
// the active section when it fits.
func CreateQuestionHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var d question.Draft
		if !decodeJSON(w, r, &d) {
			return
		}
		q, st, err := sess.CreateQuestion(r.Context(), d)
		switch {
		case err == nil:
		case writeInvalid(w, err):
			return
		case errors.Is(err, question.ErrNotFound):
			writeError(w, http.StatusNotFound, err.Error())
			return
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"question": q,
			"layout":   st.Layout,
			"selected": st.Selection.Has(q.ID),
		})
	}
}

// queryIDs accepts repeated single-id params and comma separated lists.
func queryIDs(r *http.Request, single, list string) ([]int64, error) {
	q := r.URL.Query()
	raw := append([]string{}, q[single]...)
	for _, v := range q[list] {
		raw = append(raw, strings.Split(v, ",")...)
	}
	out := make([]int64, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return nil, errors.New("invalid id: " + s)
		}
		out = append(out, id)
	}
	return out, nil
}
