package question

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore keeps the catalog in process. Used by tests and the offline demo.
type MemoryStore struct {
	mu        sync.RWMutex
	nextID    int64
	lessons   map[int64]Lesson
	outcomes  map[int64]LearningOutcome
	questions map[int64]Question
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lessons:   map[int64]Lesson{},
		outcomes:  map[int64]LearningOutcome{},
		questions: map[int64]Question{},
	}
}

func (s *MemoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *MemoryStore) PutLesson(_ context.Context, l Lesson) (Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == 0 {
		l.ID = s.id()
	} else if l.ID > s.nextID {
		s.nextID = l.ID
	}
	s.lessons[l.ID] = l
	return l, nil
}

func (s *MemoryStore) PutOutcome(_ context.Context, lo LearningOutcome) (LearningOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lessons[lo.LessonID]; !ok {
		return LearningOutcome{}, fmt.Errorf("outcome for lesson %d: %w", lo.LessonID, ErrNotFound)
	}
	if lo.ID == 0 {
		lo.ID = s.id()
	} else if lo.ID > s.nextID {
		s.nextID = lo.ID
	}
	s.outcomes[lo.ID] = lo
	return lo, nil
}

func (s *MemoryStore) CreateQuestion(_ context.Context, d Draft) (Question, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return Question{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	lesson, ok := s.lessons[d.LessonID]
	if !ok {
		return Question{}, fmt.Errorf("lesson %d: %w", d.LessonID, ErrNotFound)
	}
	q := Question{
		ID:           s.id(),
		Subject:      d.Subject,
		Grade:        d.Grade,
		QuestionText: d.QuestionText,
		QuestionType: d.QuestionType,
		Marks:        d.Marks,
		AnswerKey:    optional(d.AnswerKey),
		ImageURL:     optional(d.ImageURL),
		Difficulty:   d.Difficulty,
		LessonID:     lesson.ID,
		LessonTitle:  lesson.Title,
		LOID:         optionalID(d.LOID),
	}
	if q.LOID != nil {
		lo, ok := s.outcomes[*q.LOID]
		if !ok {
			return Question{}, fmt.Errorf("outcome %d: %w", *q.LOID, ErrNotFound)
		}
		q.LODescription = lo.Description
	}
	s.questions[q.ID] = q
	return q, nil
}

func (s *MemoryStore) GetQuestions(_ context.Context, scope Scope) ([]Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Question, 0)
	for _, q := range s.questions {
		if scope.Matches(q) {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetLessons(_ context.Context, subject, grade string) ([]Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Lesson, 0)
	for _, l := range s.lessons {
		if l.Subject == subject && l.Grade == grade {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetLearningOutcomes(_ context.Context, lessonIDs []int64) ([]LearningOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]LearningOutcome, 0)
	for _, lo := range s.outcomes {
		if containsID(lessonIDs, lo.LessonID) {
			out = append(out, lo)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) CountQuestions(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions), nil
}
