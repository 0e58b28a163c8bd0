package export

import (
	"github.com/mind-engage/mindengage-papers/internal/paper"
)

// Row is one flattened question as the tabular and structured exports carry it.
// Every renderer that lists questions reads them through Rows so order, marks and
// text agree across formats.
type Row struct {
	Section    string
	Number     int
	Item       paper.Item
	Lesson     string
	Outcome    string
	Difficulty string
}

// Rows walks the input in display order: sections then items in paper mode, lesson
// then outcome groups in bank mode.
func Rows(in Input) []Row {
	out := make([]Row, 0)
	if in.Mode == ModeBank {
		for _, lg := range in.Bank.Lessons {
			for _, og := range lg.Outcomes {
				for _, it := range og.Items {
					out = append(out, newRow("", it))
				}
			}
		}
		return out
	}
	for _, b := range in.Paper.Sections {
		for _, it := range b.Items {
			out = append(out, newRow(b.Section.Name, it))
		}
	}
	return out
}

func newRow(section string, it paper.Item) Row {
	return Row{
		Section:    section,
		Number:     it.Number,
		Item:       it,
		Lesson:     it.Question.LessonTitle,
		Outcome:    it.Question.LODescription,
		Difficulty: it.DifficultyLabel(),
	}
}
