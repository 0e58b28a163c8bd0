package bank

import (
	"sort"

	"github.com/mind-engage/mindengage-papers/internal/question"
)

// TypeGroup is one question-type bucket inside a marks bucket.
type TypeGroup struct {
	Type      string              `json:"type"`
	Questions []question.Question `json:"questions"`
}

type MarkGroup struct {
	Marks int         `json:"marks"`
	Types []TypeGroup `json:"types"`
}

// Group buckets questions by marks (ascending), then by type in first-appearance order.
// Order inside a bucket follows the input.
func Group(questions []question.Question) []MarkGroup {
	byMarks := map[int]*MarkGroup{}
	typeIdx := map[int]map[string]int{}
	marks := make([]int, 0)
	for _, q := range questions {
		mg, ok := byMarks[q.Marks]
		if !ok {
			mg = &MarkGroup{Marks: q.Marks}
			byMarks[q.Marks] = mg
			typeIdx[q.Marks] = map[string]int{}
			marks = append(marks, q.Marks)
		}
		ti, ok := typeIdx[q.Marks][q.QuestionType]
		if !ok {
			ti = len(mg.Types)
			typeIdx[q.Marks][q.QuestionType] = ti
			mg.Types = append(mg.Types, TypeGroup{Type: q.QuestionType})
		}
		mg.Types[ti].Questions = append(mg.Types[ti].Questions, q)
	}
	sort.Ints(marks)
	out := make([]MarkGroup, 0, len(marks))
	for _, m := range marks {
		out = append(out, *byMarks[m])
	}
	return out
}

// Flatten lists grouped questions in display order.
func Flatten(groups []MarkGroup) []question.Question {
	out := make([]question.Question, 0)
	for _, mg := range groups {
		for _, tg := range mg.Types {
			out = append(out, tg.Questions...)
		}
	}
	return out
}
