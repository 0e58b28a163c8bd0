// Package structured renders the JSON exports: the bank listing and the autograde
// submission payload for a paper.
package structured

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/mind-engage/mindengage-papers/internal/export"
	"github.com/mind-engage/mindengage-papers/internal/paper"
	"github.com/mind-engage/mindengage-papers/internal/question"
)

const (
	Source  = "MindEngage Papers"
	Version = "2.0"

	isoMillis = "2006-01-02T15:04:05.000Z07:00"
)

type Renderer struct{}

func init() { export.Register(Renderer{}) }

func (Renderer) Format() string      { return "json" }
func (Renderer) ContentType() string { return "application/json" }
func (Renderer) Extension() string   { return "json" }

func (Renderer) Render(_ context.Context, in export.Input, w io.Writer) error {
	var payload interface{}
	if in.Mode == export.ModeBank {
		payload = BankPayload(in)
	} else {
		payload = AutogradePayload(in.Paper, in.Now)
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// --- bank export ---

type Bank struct {
	Subject    string         `json:"subject"`
	Grade      string         `json:"grade"`
	ExportDate string         `json:"exportDate"`
	Count      int            `json:"count"`
	Questions  []BankQuestion `json:"questions"`
}

// BankQuestion always carries answer_key as a string; image is null when absent.
type BankQuestion struct {
	ID        int64   `json:"id"`
	Text      string  `json:"text"`
	AnswerKey string  `json:"answer_key"`
	Marks     int     `json:"marks"`
	Type      string  `json:"type"`
	Image     *string `json:"image"`
	Lesson    string  `json:"lesson"`
	Outcome   string  `json:"outcome"`
}

func BankPayload(in export.Input) Bank {
	meta := in.Bank.Metadata
	out := Bank{
		Subject:    meta.Subject,
		Grade:      meta.Grade,
		ExportDate: in.Now.UTC().Format(isoMillis),
		Questions:  make([]BankQuestion, 0),
	}
	for _, r := range export.Rows(in) {
		q := r.Item.Question
		out.Questions = append(out.Questions, BankQuestion{
			ID:        q.ID,
			Text:      r.Item.Text,
			AnswerKey: paper.AnswerOrEmpty(q),
			Marks:     q.Marks,
			Type:      q.QuestionType,
			Image:     imageOrNil(q),
			Lesson:    r.Lesson,
			Outcome:   r.Outcome,
		})
	}
	out.Count = len(out.Questions)
	return out
}

// --- autograde export ---

type Autograde struct {
	Source       string              `json:"source"`
	Version      string              `json:"version"`
	Timestamp    string              `json:"timestamp"`
	Metadata     AutogradeMetadata   `json:"metadata"`
	Sections     []AutogradeSection  `json:"sections"`
	QuestionBank []AutogradeQuestion `json:"questionBank"`
}

type AutogradeMetadata struct {
	Title        string `json:"title"`
	Subject      string `json:"subject"`
	Grade        string `json:"grade"`
	TotalMarks   int    `json:"totalMarks"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions"`
	SchoolName   string `json:"schoolName"`
}

type AutogradeSection struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	QuestionType      string  `json:"questionType"`
	MarksPerQuestion  int     `json:"marksPerQuestion"`
	TotalSectionMarks int     `json:"totalSectionMarks"`
	QuestionIDs       []int64 `json:"questionIds"`
}

type AutogradeQuestion struct {
	ID        int64   `json:"id"`
	Text      string  `json:"text"`
	AnswerKey string  `json:"answer_key"`
	Marks     int     `json:"marks"`
	Type      string  `json:"type"`
	Image     *string `json:"image"`
	Subject   string  `json:"subject"`
	Grade     string  `json:"grade"`
}

// AutogradePayload lists the sections and only the questions they reference, in paper
// order. Ids that no longer resolve are left out of both.
func AutogradePayload(p paper.Paper, now time.Time) Autograde {
	m := p.Metadata
	out := Autograde{
		Source:    Source,
		Version:   Version,
		Timestamp: now.UTC().Format(isoMillis),
		Metadata: AutogradeMetadata{
			Title:        m.Title,
			Subject:      m.Subject,
			Grade:        m.Grade,
			TotalMarks:   m.TotalMarks,
			Duration:     m.Duration,
			Instructions: m.Instructions,
			SchoolName:   m.SchoolName,
		},
		Sections:     make([]AutogradeSection, 0, len(p.Sections)),
		QuestionBank: make([]AutogradeQuestion, 0),
	}
	for _, b := range p.Sections {
		ids := make([]int64, 0, len(b.Items))
		for _, it := range b.Items {
			ids = append(ids, it.Question.ID)
		}
		out.Sections = append(out.Sections, AutogradeSection{
			ID:                b.Section.ID,
			Name:              b.Section.Name,
			QuestionType:      b.Section.QuestionType,
			MarksPerQuestion:  b.Section.MarksPerQuestion,
			TotalSectionMarks: b.Section.SectionMarks,
			QuestionIDs:       ids,
		})
	}
	for _, q := range p.Questions() {
		out.QuestionBank = append(out.QuestionBank, AutogradeQuestion{
			ID:        q.ID,
			Text:      paper.CleanText(q.QuestionText),
			AnswerKey: paper.AnswerOrEmpty(q),
			Marks:     q.Marks,
			Type:      q.QuestionType,
			Image:     imageOrNil(q),
			Subject:   q.Subject,
			Grade:     q.Grade,
		})
	}
	return out
}

func imageOrNil(q question.Question) *string {
	if img := q.Image(); img != "" {
		return &img
	}
	return nil
}
