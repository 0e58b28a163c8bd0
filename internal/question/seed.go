package question

import (
	"context"
	"fmt"
)

type seedQuestion struct {
	text, typ, key string
	marks          int
	diff           Difficulty
	outcome        int // index into the lesson's outcomes, -1 for none
}

type seedLesson struct {
	title     string
	outcomes  []string
	questions []seedQuestion
}

var demoLessons = []seedLesson{
	{
		title:    "Living Organisms",
		outcomes: []string{"Classify living things by their characteristics", "Describe the parts of a cell"},
		questions: []seedQuestion{
			{"[item-1] Which of these is a living thing? [Set 1-2]", "MCQ", "A tree", 1, DifficultyBasic, 0},
			{"[item-2] Name the organelle that controls the cell.", "MCQ", "Nucleus", 1, DifficultyBasic, 1},
			{"Which part of the plant cell makes food?", "MCQ", "Chloroplast", 1, DifficultyMedium, 1},
			{"Give two differences between plant and animal cells.", "Short Answer", "Cell wall; chloroplasts", 2, DifficultyMedium, 1},
			{"Explain why viruses are hard to classify as living.", "Long Answer", "", 5, DifficultyHard, 0},
		},
	},
	{
		title:    "Forces and Motion",
		outcomes: []string{"Relate force, mass and acceleration"},
		questions: []seedQuestion{
			{"What is the SI unit of force?", "MCQ", "Newton", 1, DifficultyBasic, 0},
			{"A push or a pull is called a ____.", "MCQ", "Force", 1, DifficultyBasic, 0},
			{"State Newton's first law of motion.", "Short Answer", "An object stays at rest or in uniform motion unless acted on by a net force.", 2, DifficultyMedium, 0},
			{"Why do we lurch forward when a bus stops suddenly?", "Short Answer", "Inertia", 2, DifficultyMedium, -1},
			{"Describe an experiment to show friction depends on surface.", "Long Answer", "", 5, DifficultyHard, -1},
		},
	},
}

// SeedDemo loads a small Science / Grade 6 bank into an empty catalog.
func SeedDemo(ctx context.Context, c Catalog) error {
	const subject, grade = "Science", "Grade 6"
	for _, sl := range demoLessons {
		l, err := c.PutLesson(ctx, Lesson{Subject: subject, Grade: grade, Title: sl.title})
		if err != nil {
			return fmt.Errorf("seed lesson %q: %w", sl.title, err)
		}
		loIDs := make([]int64, 0, len(sl.outcomes))
		for _, desc := range sl.outcomes {
			lo, err := c.PutOutcome(ctx, LearningOutcome{LessonID: l.ID, Description: desc})
			if err != nil {
				return fmt.Errorf("seed outcome: %w", err)
			}
			loIDs = append(loIDs, lo.ID)
		}
		for _, sq := range sl.questions {
			d := Draft{
				Subject:      subject,
				Grade:        grade,
				QuestionText: sq.text,
				QuestionType: sq.typ,
				Marks:        sq.marks,
				AnswerKey:    sq.key,
				Difficulty:   sq.diff,
				LessonID:     l.ID,
			}
			if sq.outcome >= 0 {
				d.LOID = loIDs[sq.outcome]
			}
			if _, err := c.CreateQuestion(ctx, d); err != nil {
				return fmt.Errorf("seed question: %w", err)
			}
		}
	}
	return nil
}
