package http

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/mind-engage/mindengage-papers/internal/question"
	"github.com/mind-engage/mindengage-papers/internal/session"
)

type importFailure struct {
	Row    int                   `json:"row"` // 1-based, header excluded
	Error  string                `json:"error"`
	Fields []question.FieldError `json:"fields,omitempty"`
}

// POST /admin/questions/bulk accepts a JSON array of drafts in the body, or a
// multipart file= holding either JSON or CSV. Rows are created one by one; bad rows
// are reported and the rest still go in.
func BulkImportQuestionsHandler(repo question.Repository, sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var drafts []question.Draft
		ct := r.Header.Get("Content-Type")
		if strings.HasPrefix(ct, "multipart/form-data") {
			f, _, err := r.FormFile("file")
			if err != nil {
				writeError(w, http.StatusBadRequest, "file required")
				return
			}
			defer f.Close()
			// sniff CSV vs JSON by first non-space byte
			br := bufio.NewReader(f)
			first, err := firstNonSpace(br)
			if err != nil {
				writeError(w, http.StatusBadRequest, "empty file")
				return
			}
			if first == '[' {
				if err := json.NewDecoder(br).Decode(&drafts); err != nil {
					writeError(w, http.StatusBadRequest, "bad json")
					return
				}
			} else {
				ds, err := parseQuestionCSV(br)
				if err != nil {
					writeError(w, http.StatusBadRequest, "bad csv: "+err.Error())
					return
				}
				drafts = ds
			}
		} else if !decodeJSON(w, r, &drafts) {
			return
		}

		inserted := 0
		failures := make([]importFailure, 0)
		for i, d := range drafts {
			if _, err := repo.CreateQuestion(r.Context(), d); err != nil {
				fail := importFailure{Row: i + 1, Error: err.Error()}
				var verr *question.ValidationError
				if errors.As(err, &verr) {
					fail.Fields = verr.Fields
				}
				failures = append(failures, fail)
				continue
			}
			inserted++
		}
		if inserted > 0 && sess != nil {
			if _, err := sess.Reload(r.Context()); err != nil && !errors.Is(err, session.ErrNoScope) {
				log.Printf("[import] reload after import: %v", err)
			}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"inserted": inserted,
			"failed":   len(failures),
			"errors":   failures,
		})
	}
}

func firstNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == 0xEF || b == 0xBB || b == 0xBF {
			continue
		}
		return b, br.UnreadByte()
	}
}

// parseQuestionCSV reads a header row naming the draft's JSON fields. subject, grade,
// question_text, question_type, marks and lesson_id are required columns.
func parseQuestionCSV(r io.Reader) ([]question.Draft, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	hdr, err := cr.Read()
	if err != nil {
		return nil, err
	}
	idx := map[string]int{}
	for i, h := range hdr {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, k := range []string{"subject", "grade", "question_text", "question_type", "marks", "lesson_id"} {
		if _, ok := idx[k]; !ok {
			return nil, errors.New("missing column: " + k)
		}
	}
	col := func(rec []string, k string) string {
		if i, ok := idx[k]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	num := func(rec []string, k string) (int64, error) {
		s := col(rec, k)
		if s == "" {
			return 0, nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %q is not a number", k, s)
		}
		return v, nil
	}

	var out []question.Draft
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		d := question.Draft{
			Subject:      col(rec, "subject"),
			Grade:        col(rec, "grade"),
			QuestionText: col(rec, "question_text"),
			QuestionType: col(rec, "question_type"),
			AnswerKey:    col(rec, "answer_key"),
			ImageURL:     col(rec, "image_url"),
		}
		var marks, diff int64
		if marks, err = num(rec, "marks"); err == nil {
			if diff, err = num(rec, "difficulty"); err == nil {
				if d.LessonID, err = num(rec, "lesson_id"); err == nil {
					d.LOID, err = num(rec, "lo_id")
				}
			}
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		d.Marks = int(marks)
		d.Difficulty = question.Difficulty(diff)
		out = append(out, d)
	}
	return out, nil
}
