package question

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func init() {
	// modernc registers as "sqlite", which sqlx does not know by name.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// SQLStore reads and writes the catalog tables created by internal/db.
type SQLStore struct {
	db     *sqlx.DB
	driver string // "sqlite", "postgres" or "mysql"
}

func NewSQLStore(db *sqlx.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

const selectQuestions = `SELECT q.id, q.subject, q.grade, q.question_text, q.question_type, q.marks,
	q.answer_key, q.image_url, q.difficulty, q.lesson_id,
	COALESCE(l.title, '') AS lesson_title, q.lo_id, COALESCE(lo.description, '') AS lo_description
FROM questions q
LEFT JOIN lessons l ON l.id = q.lesson_id
LEFT JOIN learning_outcomes lo ON lo.id = q.lo_id`

func (s *SQLStore) GetQuestions(ctx context.Context, scope Scope) ([]Question, error) {
	where := ` WHERE q.subject = ? AND q.grade = ?`
	args := []interface{}{scope.Subject, scope.Grade}
	switch {
	case len(scope.LessonIDs) == 0 && len(scope.LOIDs) == 0:
	case len(scope.LOIDs) == 0:
		where += ` AND q.lesson_id IN (?)`
		args = append(args, scope.LessonIDs)
	case len(scope.LessonIDs) == 0:
		where += ` AND q.lo_id IN (?)`
		args = append(args, scope.LOIDs)
	default:
		where += ` AND ((q.lo_id IS NOT NULL AND q.lo_id IN (?)) OR (q.lo_id IS NULL AND q.lesson_id IN (?)))`
		args = append(args, scope.LOIDs, scope.LessonIDs)
	}
	query, args, err := sqlx.In(selectQuestions+where+` ORDER BY q.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("build question query: %w", err)
	}
	out := make([]Question, 0)
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("get questions: %w", err)
	}
	return out, nil
}

func (s *SQLStore) GetLessons(ctx context.Context, subject, grade string) ([]Lesson, error) {
	out := make([]Lesson, 0)
	err := s.db.SelectContext(ctx, &out,
		s.db.Rebind(`SELECT id, subject, grade, title FROM lessons WHERE subject = ? AND grade = ? ORDER BY id`),
		subject, grade)
	if err != nil {
		return nil, fmt.Errorf("get lessons: %w", err)
	}
	return out, nil
}

func (s *SQLStore) GetLearningOutcomes(ctx context.Context, lessonIDs []int64) ([]LearningOutcome, error) {
	out := make([]LearningOutcome, 0)
	if len(lessonIDs) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`SELECT id, lesson_id, description FROM learning_outcomes WHERE lesson_id IN (?) ORDER BY id`, lessonIDs)
	if err != nil {
		return nil, fmt.Errorf("build outcome query: %w", err)
	}
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("get learning outcomes: %w", err)
	}
	return out, nil
}

func (s *SQLStore) CreateQuestion(ctx context.Context, d Draft) (Question, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return Question{}, err
	}
	var exists int
	if err := s.db.GetContext(ctx, &exists, s.db.Rebind(`SELECT 1 FROM lessons WHERE id = ?`), d.LessonID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, fmt.Errorf("lesson %d: %w", d.LessonID, ErrNotFound)
		}
		return Question{}, err
	}
	id, err := s.insert(ctx,
		`INSERT INTO questions (subject, grade, question_text, question_type, marks, answer_key, image_url, difficulty, lesson_id, lo_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Subject, d.Grade, d.QuestionText, d.QuestionType, d.Marks,
		optional(d.AnswerKey), optional(d.ImageURL), int(d.Difficulty), d.LessonID, optionalID(d.LOID))
	if err != nil {
		return Question{}, fmt.Errorf("create question: %w", err)
	}
	return s.getQuestion(ctx, id)
}

func (s *SQLStore) getQuestion(ctx context.Context, id int64) (Question, error) {
	var q Question
	if err := s.db.GetContext(ctx, &q, s.db.Rebind(selectQuestions+` WHERE q.id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, ErrNotFound
		}
		return Question{}, err
	}
	return q, nil
}

func (s *SQLStore) PutLesson(ctx context.Context, l Lesson) (Lesson, error) {
	if l.ID != 0 {
		_, err := s.db.ExecContext(ctx, s.db.Rebind(`INSERT INTO lessons (id, subject, grade, title) VALUES (?, ?, ?, ?)`),
			l.ID, l.Subject, l.Grade, l.Title)
		return l, err
	}
	id, err := s.insert(ctx, `INSERT INTO lessons (subject, grade, title) VALUES (?, ?, ?)`, l.Subject, l.Grade, l.Title)
	if err != nil {
		return Lesson{}, fmt.Errorf("put lesson: %w", err)
	}
	l.ID = id
	return l, nil
}

func (s *SQLStore) PutOutcome(ctx context.Context, lo LearningOutcome) (LearningOutcome, error) {
	if lo.ID != 0 {
		_, err := s.db.ExecContext(ctx, s.db.Rebind(`INSERT INTO learning_outcomes (id, lesson_id, description) VALUES (?, ?, ?)`),
			lo.ID, lo.LessonID, lo.Description)
		return lo, err
	}
	id, err := s.insert(ctx, `INSERT INTO learning_outcomes (lesson_id, description) VALUES (?, ?)`, lo.LessonID, lo.Description)
	if err != nil {
		return LearningOutcome{}, fmt.Errorf("put outcome: %w", err)
	}
	lo.ID = id
	return lo, nil
}

func (s *SQLStore) CountQuestions(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM questions`); err != nil {
		return 0, err
	}
	return n, nil
}

// insert runs an INSERT and returns the generated id. Postgres has no LastInsertId.
func (s *SQLStore) insert(ctx context.Context, query string, args ...interface{}) (int64, error) {
	if s.driver == "postgres" {
		var id int64
		err := s.db.QueryRowxContext(ctx, s.db.Rebind(query+` RETURNING id`), args...).Scan(&id)
		return id, err
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
