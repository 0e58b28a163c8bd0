package bank

import "github.com/mind-engage/mindengage-papers/internal/question"

// Filters are AND-combined; a zero field matches everything.
type Filters struct {
	Type       string              `json:"type,omitempty"`
	Marks      int                 `json:"marks,omitempty" validate:"gte=0"`
	Difficulty question.Difficulty `json:"difficulty,omitempty" validate:"gte=0,lte=3"`
	LessonID   int64               `json:"lesson_id,omitempty" validate:"gte=0"`
}

func (f Filters) Match(q question.Question) bool {
	if f.Type != "" && q.QuestionType != f.Type {
		return false
	}
	if f.Marks != 0 && q.Marks != f.Marks {
		return false
	}
	if f.Difficulty != 0 && q.Difficulty != f.Difficulty {
		return false
	}
	if f.LessonID != 0 && q.LessonID != f.LessonID {
		return false
	}
	return true
}

func (f Filters) Apply(questions []question.Question) []question.Question {
	out := make([]question.Question, 0, len(questions))
	for _, q := range questions {
		if f.Match(q) {
			out = append(out, q)
		}
	}
	return out
}

// FilterState separates what the author is editing from what the listing shows.
type FilterState struct {
	Staged  Filters `json:"staged"`
	Applied Filters `json:"applied"`
}

// Stage edits the staged filters only; the listing is unchanged until Apply.
func (s FilterState) Stage(f Filters) FilterState {
	s.Staged = f
	return s
}

func (s FilterState) Apply() FilterState {
	s.Applied = s.Staged
	return s
}

// Reset clears staged and applied together.
func (s FilterState) Reset() FilterState { return FilterState{} }
