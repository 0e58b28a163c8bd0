package session

import (
	"github.com/mind-engage/mindengage-papers/internal/bank"
	"github.com/mind-engage/mindengage-papers/internal/paper"
	"github.com/mind-engage/mindengage-papers/internal/question"
)

type Mode string

const (
	ModeBank  Mode = "bank"
	ModePaper Mode = "paper"
)

// State is the whole authoring session as a value. Transitions below take a State and
// return the next one; none of them mutate their input.
type State struct {
	Mode      Mode                `json:"mode"`
	Scope     *question.Scope     `json:"scope,omitempty"`
	Questions []question.Question `json:"-"`
	Metadata  paper.Metadata      `json:"metadata"`
	Layout    paper.Layout        `json:"layout"`
	Selection bank.Selection      `json:"selection"`
	Filters   bank.FilterState    `json:"filters"`
	Sort      bank.SortMode       `json:"sort"`
}

func NewState() State {
	return State{
		Mode:      ModeBank,
		Metadata:  paper.DefaultMetadata(),
		Layout:    paper.Layout{Sections: []paper.Section{}},
		Selection: bank.Selection{},
		Sort:      bank.SortDefault,
	}
}

// Clone deep-copies the parts callers could otherwise alias.
func (s State) Clone() State {
	out := s
	if s.Scope != nil {
		sc := s.Scope.Clone()
		out.Scope = &sc
	}
	out.Questions = append([]question.Question(nil), s.Questions...)
	out.Layout = s.Layout.Clone()
	out.Selection = append(bank.Selection{}, s.Selection...)
	return out
}

// WithQuestions installs a fresh fetch for scope. A new scope selects every fetched
// question and points the paper header at the scope's subject and grade; a reload of
// the same scope keeps selections that still exist.
func (s State) WithQuestions(scope question.Scope, qs []question.Question, fresh bool) State {
	out := s.Clone()
	sc := scope.Clone()
	out.Scope = &sc
	out.Questions = append([]question.Question(nil), qs...)
	ids := questionIDs(qs)
	if fresh {
		out.Selection = bank.Selection{}.SelectAll(ids)
		out.Metadata.Subject = scope.Subject
		out.Metadata.Grade = scope.Grade
	} else {
		out.Selection = out.Selection.Retain(ids)
	}
	return out
}

func (s State) WithMode(m Mode) State {
	out := s.Clone()
	out.Mode = m
	return out
}

func (s State) WithMetadata(m paper.Metadata) State {
	out := s.Clone()
	out.Metadata = m
	return out
}

func (s State) WithLayout(l paper.Layout) State {
	out := s.Clone()
	out.Layout = l.Clone()
	return out
}

// ToggleInSection always allows removal. Adding is limited to the section's eligible
// pool (loaded, matching type and marks, unclaimed) and then to its capacity.
func (s State) ToggleInSection(sectionID string, qid int64) State {
	sec, ok := s.Layout.Section(sectionID)
	if !ok {
		return s
	}
	if !sec.Has(qid) && !containsID(s.Layout.EligiblePool(sectionID, s.Questions), qid) {
		return s
	}
	return s.WithLayout(s.Layout.ToggleQuestion(sectionID, qid, sec.Capacity()))
}

func (s State) AddAllEligible(sectionID string) State {
	return s.WithLayout(s.Layout.AddAllEligible(sectionID, s.Questions))
}

func (s State) ToggleSelection(qid int64) State {
	out := s.Clone()
	out.Selection = out.Selection.Toggle(qid)
	return out
}

// SelectVisible and ClearVisible act on the currently filtered listing only.
func (s State) SelectVisible() State {
	out := s.Clone()
	out.Selection = out.Selection.SelectAll(s.View().VisibleIDs)
	return out
}

func (s State) ClearVisible() State {
	out := s.Clone()
	out.Selection = out.Selection.Clear(s.View().VisibleIDs)
	return out
}

func (s State) WithFilters(fs bank.FilterState) State {
	out := s.Clone()
	out.Filters = fs
	return out
}

func (s State) WithSort(m bank.SortMode) State {
	out := s.Clone()
	out.Sort = m
	return out
}

func (s State) View() bank.View {
	return bank.BuildView(s.Questions, s.Filters, s.Sort, s.Selection)
}

// SelectedQuestions resolves the bank selection in repository order.
func (s State) SelectedQuestions() []question.Question {
	return s.Selection.Resolve(s.Questions)
}

func (s State) Paper() paper.Paper {
	return paper.Assemble(s.Metadata, s.Layout, paper.NewLookup(s.Questions))
}

func (s State) Bank() paper.Bank {
	return paper.AssembleBank(s.Metadata, s.SelectedQuestions())
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func questionIDs(qs []question.Question) []int64 {
	out := make([]int64, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.ID)
	}
	return out
}
