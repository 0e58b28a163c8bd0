package question

import "strings"

// Difficulty is the ordinal difficulty tag of a question.
type Difficulty int

const (
	DifficultyBasic  Difficulty = 1
	DifficultyMedium Difficulty = 2
	DifficultyHard   Difficulty = 3
)

// Label renders the difficulty the way every export shows it.
// Anything outside 1..2 is treated as Hard.
func (d Difficulty) Label() string {
	switch d {
	case DifficultyBasic:
		return "Basic"
	case DifficultyMedium:
		return "Medium"
	default:
		return "Hard"
	}
}

type Question struct {
	ID            int64      `json:"id" db:"id"`
	Subject       string     `json:"subject" db:"subject"`
	Grade         string     `json:"grade" db:"grade"`
	QuestionText  string     `json:"question_text" db:"question_text"` // raw; may carry [item-N] / [Set a-b] tags
	QuestionType  string     `json:"question_type" db:"question_type"` // MCQ, Short Answer, ...
	Marks         int        `json:"marks" db:"marks"`
	AnswerKey     *string    `json:"answer_key,omitempty" db:"answer_key"`
	ImageURL      *string    `json:"image_url,omitempty" db:"image_url"`
	Difficulty    Difficulty `json:"difficulty" db:"difficulty"`
	LessonID      int64      `json:"lesson_id" db:"lesson_id"`
	LessonTitle   string     `json:"lesson_title,omitempty" db:"lesson_title"`
	LOID          *int64     `json:"lo_id,omitempty" db:"lo_id"`
	LODescription string     `json:"lo_description,omitempty" db:"lo_description"`
}

// Answer returns the answer key or "" when the question has none.
func (q Question) Answer() string {
	if q.AnswerKey == nil {
		return ""
	}
	return strings.TrimSpace(*q.AnswerKey)
}

// Image returns the image reference or "".
func (q Question) Image() string {
	if q.ImageURL == nil {
		return ""
	}
	return strings.TrimSpace(*q.ImageURL)
}

type Lesson struct {
	ID      int64  `json:"id" db:"id"`
	Subject string `json:"subject" db:"subject"`
	Grade   string `json:"grade" db:"grade"`
	Title   string `json:"title" db:"title"`
}

type LearningOutcome struct {
	ID          int64  `json:"id" db:"id"`
	LessonID    int64  `json:"lesson_id" db:"lesson_id"`
	Description string `json:"description" db:"description"`
}

// Scope is the key filter a repository fetch is made with.
type Scope struct {
	Subject   string  `json:"subject"`
	Grade     string  `json:"grade"`
	LessonIDs []int64 `json:"lesson_ids"`
	LOIDs     []int64 `json:"lo_ids"`
}

// Matches reports whether q falls inside the scope. With no lesson or outcome ids the
// whole subject/grade matches. When outcome ids are given, a question tagged with an
// outcome must carry one of them; untagged questions fall back to their lesson.
func (s Scope) Matches(q Question) bool {
	if q.Subject != s.Subject || q.Grade != s.Grade {
		return false
	}
	switch {
	case len(s.LessonIDs) == 0 && len(s.LOIDs) == 0:
		return true
	case len(s.LOIDs) == 0:
		return containsID(s.LessonIDs, q.LessonID)
	case q.LOID != nil:
		return containsID(s.LOIDs, *q.LOID)
	default:
		return containsID(s.LessonIDs, q.LessonID)
	}
}

func (s Scope) Clone() Scope {
	out := s
	out.LessonIDs = append([]int64(nil), s.LessonIDs...)
	out.LOIDs = append([]int64(nil), s.LOIDs...)
	return out
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Draft is the partial record accepted by CreateQuestion.
type Draft struct {
	Subject      string     `json:"subject" validate:"required"`
	Grade        string     `json:"grade" validate:"required"`
	QuestionText string     `json:"question_text" validate:"required"`
	QuestionType string     `json:"question_type" validate:"required"`
	Marks        int        `json:"marks" validate:"gt=0"`
	AnswerKey    string     `json:"answer_key"`
	ImageURL     string     `json:"image_url" validate:"omitempty,url"`
	Difficulty   Difficulty `json:"difficulty" validate:"oneof=1 2 3"`
	LessonID     int64      `json:"lesson_id" validate:"gt=0"`
	LOID         int64      `json:"lo_id" validate:"gte=0"`
}

// Normalize trims text fields and applies the defaults new questions get.
func (d Draft) Normalize() Draft {
	d.Subject = strings.TrimSpace(d.Subject)
	d.Grade = strings.TrimSpace(d.Grade)
	d.QuestionText = strings.TrimSpace(d.QuestionText)
	d.QuestionType = strings.TrimSpace(d.QuestionType)
	d.AnswerKey = strings.TrimSpace(d.AnswerKey)
	d.ImageURL = strings.TrimSpace(d.ImageURL)
	if d.Difficulty == 0 {
		d.Difficulty = DifficultyBasic
	}
	return d
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalID(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}
