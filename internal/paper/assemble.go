package paper

import (
	"fmt"

	"github.com/mind-engage/mindengage-papers/internal/question"
)

// Lookup resolves question ids against the current repository snapshot.
type Lookup map[int64]question.Question

func NewLookup(qs []question.Question) Lookup {
	l := make(Lookup, len(qs))
	for _, q := range qs {
		l[q.ID] = q
	}
	return l
}

// Item is one numbered question as every renderer shows it.
type Item struct {
	Number   int               `json:"number"`
	Question question.Question `json:"question"`
	Text     string            `json:"text"` // cleaned
}

func (it Item) Marks() int { return it.Question.Marks }
func (it Item) Image() string { return it.Question.Image() }
func (it Item) Answer() string { return AnswerOrPlaceholder(it.Question) }
func (it Item) KeyReference() string { return KeyReference(it.Question.QuestionText) }
func (it Item) DifficultyLabel() string { return it.Question.Difficulty.Label() }

// KeyLine is the plain-text answer key entry: number, reference snippet, answer.
func (it Item) KeyLine() string {
	return fmt.Sprintf("%d. Ref: %s - %s", it.Number, it.KeyReference(), it.Answer())
}

func newItem(n int, q question.Question) Item {
	return Item{Number: n, Question: q, Text: CleanText(q.QuestionText)}
}

type SectionBlock struct {
	Section Section `json:"section"`
	Status  Status  `json:"status"`
	Items   []Item  `json:"items"`
}

func (b SectionBlock) Heading() string { return SectionHeading(b.Section) }

// Paper is the read-only assembled document. It is rebuilt on every request.
type Paper struct {
	Metadata            Metadata       `json:"metadata"`
	Sections            []SectionBlock `json:"sections"`
	TotalAllocatedMarks int            `json:"totalAllocatedMarks"`
	IsAligned           bool           `json:"isAligned"`
}

// Assemble resolves each section's ids and numbers them 1..N per section. Ids the
// lookup no longer knows are skipped and do not consume a number.
func Assemble(meta Metadata, layout Layout, lookup Lookup) Paper {
	p := Paper{Metadata: meta, Sections: make([]SectionBlock, 0, len(layout.Sections))}
	for _, s := range layout.Sections {
		block := SectionBlock{Section: s.clone(), Status: s.Status(), Items: make([]Item, 0, len(s.SelectedIDs))}
		for _, id := range s.SelectedIDs {
			q, ok := lookup[id]
			if !ok {
				continue
			}
			block.Items = append(block.Items, newItem(len(block.Items)+1, q))
		}
		p.Sections = append(p.Sections, block)
	}
	p.TotalAllocatedMarks = layout.TotalAllocatedMarks()
	p.IsAligned = p.TotalAllocatedMarks == meta.TotalMarks
	return p
}

// Questions lists the resolved questions in paper order, each once.
func (p Paper) Questions() []question.Question {
	seen := map[int64]bool{}
	out := make([]question.Question, 0)
	for _, b := range p.Sections {
		for _, it := range b.Items {
			if seen[it.Question.ID] {
				continue
			}
			seen[it.Question.ID] = true
			out = append(out, it.Question)
		}
	}
	return out
}

func (p Paper) ItemCount() int {
	n := 0
	for _, b := range p.Sections {
		n += len(b.Items)
	}
	return n
}

const (
	UncategorizedLesson = "Uncategorized Lessons"
	GeneralOutcome      = "General Learning Outcomes"
)

type OutcomeGroup struct {
	Outcome string `json:"outcome"`
	Items   []Item `json:"items"`
}

type LessonGroup struct {
	Lesson   string         `json:"lesson"`
	Outcomes []OutcomeGroup `json:"outcomes"`
}

// Bank is the bank-mode document: the selected questions grouped lesson then outcome.
type Bank struct {
	Metadata  Metadata            `json:"metadata"`
	Questions []question.Question `json:"questions"`
	Lessons   []LessonGroup       `json:"lessons"`
}

// AssembleBank groups questions by lesson then learning outcome, both in first
// appearance order. Numbering restarts in each outcome group.
func AssembleBank(meta Metadata, questions []question.Question) Bank {
	b := Bank{Metadata: meta, Questions: append([]question.Question(nil), questions...), Lessons: []LessonGroup{}}
	lessonIdx := map[string]int{}
	outcomeIdx := map[string]map[string]int{}
	for _, q := range questions {
		lesson := q.LessonTitle
		if lesson == "" {
			lesson = UncategorizedLesson
		}
		outcome := q.LODescription
		if outcome == "" {
			outcome = GeneralOutcome
		}
		li, ok := lessonIdx[lesson]
		if !ok {
			li = len(b.Lessons)
			lessonIdx[lesson] = li
			outcomeIdx[lesson] = map[string]int{}
			b.Lessons = append(b.Lessons, LessonGroup{Lesson: lesson})
		}
		lg := &b.Lessons[li]
		oi, ok := outcomeIdx[lesson][outcome]
		if !ok {
			oi = len(lg.Outcomes)
			outcomeIdx[lesson][outcome] = oi
			lg.Outcomes = append(lg.Outcomes, OutcomeGroup{Outcome: outcome})
		}
		og := &lg.Outcomes[oi]
		og.Items = append(og.Items, newItem(len(og.Items)+1, q))
	}
	return b
}
