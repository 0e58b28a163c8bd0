// Package delimited renders question lists as CSV.
package delimited

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/mind-engage/mindengage-papers/internal/export"
)

var bankHeader = []string{"ID", "Marks", "Type", "Question", "Answer Key", "Lesson", "Learning Outcome", "Difficulty"}

type Renderer struct{}

func init() { export.Register(Renderer{}) }

func (Renderer) Format() string      { return "csv" }
func (Renderer) ContentType() string { return "text/csv; charset=utf-8" }
func (Renderer) Extension() string   { return "csv" }

// Render writes one row per question. Paper mode prefixes a Section column.
// Quotes inside fields are doubled by encoding/csv.
func (Renderer) Render(_ context.Context, in export.Input, w io.Writer) error {
	cw := csv.NewWriter(w)
	paperMode := in.Mode == export.ModePaper

	header := bankHeader
	if paperMode {
		header = append([]string{"Section"}, bankHeader...)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range export.Rows(in) {
		q := r.Item.Question
		rec := []string{
			strconv.FormatInt(q.ID, 10),
			strconv.Itoa(q.Marks),
			q.QuestionType,
			r.Item.Text,
			q.Answer(),
			r.Lesson,
			r.Outcome,
			r.Difficulty,
		}
		if paperMode {
			rec = append([]string{r.Section}, rec...)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
