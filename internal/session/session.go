package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-papers/internal/bank"
	"github.com/mind-engage/mindengage-papers/internal/paper"
	"github.com/mind-engage/mindengage-papers/internal/question"
)

var (
	ErrSuperseded = errors.New("refresh superseded by a newer request")
	ErrNoScope    = errors.New("no question scope loaded")
)

// Session serialises State transitions for the HTTP server. Repository fetches run
// outside the lock; each one carries a generation ticket and only the newest is applied.
type Session struct {
	repo  question.Repository
	newID func() string

	mu    sync.Mutex
	state State
	gen   uint64
}

func New(repo question.Repository) *Session {
	return &Session{repo: repo, newID: uuid.NewString, state: NewState()}
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Session) update(fn func(State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	return s.state.Clone()
}

// Refresh fetches scope and, unless a newer refresh started meanwhile, installs it with
// every fetched question selected.
func (s *Session) Refresh(ctx context.Context, scope question.Scope) (State, error) {
	return s.fetch(ctx, scope, true)
}

// Reload re-fetches the current scope keeping selections that still exist.
func (s *Session) Reload(ctx context.Context) (State, error) {
	s.mu.Lock()
	sc := s.state.Scope
	s.mu.Unlock()
	if sc == nil {
		return State{}, ErrNoScope
	}
	return s.fetch(ctx, *sc, false)
}

func (s *Session) fetch(ctx context.Context, scope question.Scope, fresh bool) (State, error) {
	s.mu.Lock()
	s.gen++
	ticket := s.gen
	s.mu.Unlock()

	qs, err := s.repo.GetQuestions(ctx, scope)

	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket != s.gen {
		return s.state.Clone(), ErrSuperseded
	}
	if err != nil {
		return s.state.Clone(), fmt.Errorf("fetch questions: %w", err)
	}
	s.state = s.state.WithQuestions(scope, qs, fresh)
	return s.state.Clone(), nil
}

// CreateQuestion stores a new question, reloads the bank and puts the question into
// the active section when that section still has room.
func (s *Session) CreateQuestion(ctx context.Context, d question.Draft) (question.Question, State, error) {
	q, err := s.repo.CreateQuestion(ctx, d)
	if err != nil {
		return question.Question{}, State{}, err
	}

	s.mu.Lock()
	sc := s.state.Scope
	s.mu.Unlock()
	if sc == nil {
		_, err = s.fetch(ctx, question.Scope{Subject: q.Subject, Grade: q.Grade}, true)
	} else {
		_, err = s.fetch(ctx, *sc, false)
	}
	if err != nil && !errors.Is(err, ErrSuperseded) {
		log.Printf("[session] reload after create: %v", err)
	}

	st := s.update(func(st State) State {
		st = st.Clone()
		st.Selection = st.Selection.SelectAll([]int64{q.ID})
		if st.Layout.ActiveID != "" {
			st = st.ToggleInSection(st.Layout.ActiveID, q.ID)
		}
		return st
	})
	return q, st, nil
}

func (s *Session) SetMode(m Mode) State {
	return s.update(func(st State) State { return st.WithMode(m) })
}

func (s *Session) SetMetadata(m paper.Metadata) State {
	return s.update(func(st State) State { return st.WithMetadata(m) })
}

// AddSection returns the new section id with the resulting state.
func (s *Session) AddSection() (string, State) {
	id := s.newID()
	return id, s.update(func(st State) State { return st.WithLayout(st.Layout.AddSection(id)) })
}

func (s *Session) RemoveSection(id string) State {
	return s.update(func(st State) State { return st.WithLayout(st.Layout.RemoveSection(id)) })
}

func (s *Session) UpdateSection(id string, p paper.SectionPatch) State {
	return s.update(func(st State) State { return st.WithLayout(st.Layout.UpdateSection(id, p)) })
}

func (s *Session) ToggleInSection(sectionID string, qid int64) State {
	return s.update(func(st State) State { return st.ToggleInSection(sectionID, qid) })
}

func (s *Session) AddAllEligible(sectionID string) State {
	return s.update(func(st State) State { return st.AddAllEligible(sectionID) })
}

func (s *Session) ReorderSections(from, to int) State {
	return s.update(func(st State) State { return st.WithLayout(st.Layout.ReorderSections(from, to)) })
}

func (s *Session) SetActive(id string) State {
	return s.update(func(st State) State { return st.WithLayout(st.Layout.SetActive(id)) })
}

// EligiblePool lists the questions the section could take, in repository order.
func (s *Session) EligiblePool(sectionID string) ([]question.Question, bool) {
	st := s.Snapshot()
	if _, ok := st.Layout.Section(sectionID); !ok {
		return nil, false
	}
	lookup := paper.NewLookup(st.Questions)
	ids := st.Layout.EligiblePool(sectionID, st.Questions)
	out := make([]question.Question, 0, len(ids))
	for _, id := range ids {
		out = append(out, lookup[id])
	}
	return out, true
}

func (s *Session) ToggleSelection(qid int64) State {
	return s.update(func(st State) State { return st.ToggleSelection(qid) })
}

func (s *Session) SelectVisible() State {
	return s.update(func(st State) State { return st.SelectVisible() })
}

func (s *Session) ClearVisible() State {
	return s.update(func(st State) State { return st.ClearVisible() })
}

func (s *Session) StageFilters(f bank.Filters) State {
	return s.update(func(st State) State { return st.WithFilters(st.Filters.Stage(f)) })
}

func (s *Session) ApplyFilters() State {
	return s.update(func(st State) State { return st.WithFilters(st.Filters.Apply()) })
}

func (s *Session) ResetFilters() State {
	return s.update(func(st State) State { return st.WithFilters(st.Filters.Reset()) })
}

func (s *Session) SetSort(m bank.SortMode) State {
	return s.update(func(st State) State { return st.WithSort(m) })
}

func (s *Session) Paper() paper.Paper { return s.Snapshot().Paper() }

func (s *Session) Bank() paper.Bank { return s.Snapshot().Bank() }

func (s *Session) DesignGuard() bank.Guard {
	return bank.DesignGuard(len(s.Snapshot().Selection))
}
