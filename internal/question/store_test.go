package question_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-papers/internal/db"
	"github.com/mind-engage/mindengage-papers/internal/question"
)

func openSQLite(t *testing.T) *question.SQLStore {
	t.Helper()
	conn, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return question.NewSQLStore(conn, string(db.DriverSQLite))
}

// both stores must satisfy the same contract
func stores(t *testing.T) map[string]question.Catalog {
	return map[string]question.Catalog{
		"memory": question.NewMemoryStore(),
		"sqlite": openSQLite(t),
	}
}

func TestCatalogContract(t *testing.T) {
	ctx := context.Background()
	for name, c := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, question.SeedDemo(ctx, c))

			n, err := c.CountQuestions(ctx)
			require.NoError(t, err)
			assert.Equal(t, 10, n)

			lessons, err := c.GetLessons(ctx, "Science", "Grade 6")
			require.NoError(t, err)
			require.Len(t, lessons, 2)
			assert.Equal(t, "Living Organisms", lessons[0].Title)

			los, err := c.GetLearningOutcomes(ctx, []int64{lessons[0].ID})
			require.NoError(t, err)
			require.Len(t, los, 2)

			empty, err := c.GetLearningOutcomes(ctx, nil)
			require.NoError(t, err)
			assert.Empty(t, empty)

			all, err := c.GetQuestions(ctx, question.Scope{Subject: "Science", Grade: "Grade 6"})
			require.NoError(t, err)
			require.Len(t, all, 10)
			for i := 1; i < len(all); i++ {
				assert.Less(t, all[i-1].ID, all[i].ID, "ordered by id")
			}
			assert.Equal(t, "Living Organisms", all[0].LessonTitle)
			assert.Equal(t, "A tree", all[0].Answer())

			byLesson, err := c.GetQuestions(ctx, question.Scope{Subject: "Science", Grade: "Grade 6", LessonIDs: []int64{lessons[1].ID}})
			require.NoError(t, err)
			assert.Len(t, byLesson, 5)

			// first outcome of lesson 1 tags two questions; untagged ones of lesson 1 count too
			byLO, err := c.GetQuestions(ctx, question.Scope{
				Subject: "Science", Grade: "Grade 6",
				LessonIDs: []int64{lessons[0].ID}, LOIDs: []int64{los[0].ID},
			})
			require.NoError(t, err)
			assert.Len(t, byLO, 2)
			for _, q := range byLO {
				require.NotNil(t, q.LOID)
				assert.Equal(t, los[0].ID, *q.LOID)
				assert.Equal(t, los[0].Description, q.LODescription)
			}

			none, err := c.GetQuestions(ctx, question.Scope{Subject: "Maths", Grade: "Grade 6"})
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestCreateQuestion(t *testing.T) {
	ctx := context.Background()
	for name, c := range stores(t) {
		t.Run(name, func(t *testing.T) {
			l, err := c.PutLesson(ctx, question.Lesson{Subject: "Maths", Grade: "Grade 5", Title: "Fractions"})
			require.NoError(t, err)

			q, err := c.CreateQuestion(ctx, question.Draft{
				Subject: "Maths", Grade: "Grade 5", QuestionText: "  What is 1/2 + 1/4?  ",
				QuestionType: "Short Answer", Marks: 2, LessonID: l.ID,
			})
			require.NoError(t, err)
			assert.NotZero(t, q.ID)
			assert.Equal(t, "What is 1/2 + 1/4?", q.QuestionText)
			assert.Nil(t, q.AnswerKey)
			assert.Nil(t, q.ImageURL)
			assert.Nil(t, q.LOID)
			assert.Equal(t, question.DifficultyBasic, q.Difficulty)
			assert.Equal(t, "Fractions", q.LessonTitle)

			_, err = c.CreateQuestion(ctx, question.Draft{
				Subject: "Maths", Grade: "Grade 5", QuestionText: "x", QuestionType: "MCQ", Marks: 1, LessonID: 9999,
			})
			assert.True(t, errors.Is(err, question.ErrNotFound))

			_, err = c.CreateQuestion(ctx, question.Draft{Subject: "Maths"})
			var verr *question.ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}
