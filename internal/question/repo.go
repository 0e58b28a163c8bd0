package question

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("question not found")

// Repository is the question service the authoring engine reads from.
// Fetches are ordered by question id.
type Repository interface {
	GetQuestions(ctx context.Context, scope Scope) ([]Question, error)
	GetLessons(ctx context.Context, subject, grade string) ([]Lesson, error)
	GetLearningOutcomes(ctx context.Context, lessonIDs []int64) ([]LearningOutcome, error)
	CreateQuestion(ctx context.Context, d Draft) (Question, error)
}

// Catalog is the write side used by seeding and admin bulk import.
type Catalog interface {
	Repository
	PutLesson(ctx context.Context, l Lesson) (Lesson, error)
	PutOutcome(ctx context.Context, lo LearningOutcome) (LearningOutcome, error)
	CountQuestions(ctx context.Context) (int, error)
}
