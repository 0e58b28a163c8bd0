package paper

import "github.com/mind-engage/mindengage-papers/internal/question"

// Layout is the ordered set of sections plus the active one. Every transition returns
// a new Layout and leaves the receiver untouched. Requests that would break an
// invariant come back as the unchanged layout.
type Layout struct {
	Sections []Section `json:"sections"`
	ActiveID string    `json:"activeSectionId,omitempty"`
}

// SectionPatch carries the fields an update sets; nil means keep.
type SectionPatch struct {
	Name             *string `json:"name,omitempty"`
	QuestionType     *string `json:"questionType,omitempty"`
	MarksPerQuestion *int    `json:"marksPerQuestion,omitempty"`
	SectionMarks     *int    `json:"sectionMarks,omitempty"`
}

func (l Layout) Clone() Layout {
	out := Layout{ActiveID: l.ActiveID}
	if l.Sections != nil {
		out.Sections = make([]Section, len(l.Sections))
		for i, s := range l.Sections {
			out.Sections[i] = s.clone()
		}
	}
	return out
}

func (l Layout) index(id string) int {
	for i, s := range l.Sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Section returns the section with the given id.
func (l Layout) Section(id string) (Section, bool) {
	if i := l.index(id); i >= 0 {
		return l.Sections[i].clone(), true
	}
	return Section{}, false
}

// AddSection appends a default section named by position and makes it active.
func (l Layout) AddSection(id string) Layout {
	out := l.Clone()
	out.Sections = append(out.Sections, Section{
		ID:               id,
		Name:             sectionName(len(l.Sections)),
		QuestionType:     "MCQ",
		MarksPerQuestion: 1,
		SectionMarks:     10,
		SelectedIDs:      []int64{},
	})
	out.ActiveID = id
	return out
}

// RemoveSection drops the section; its questions become unassigned.
func (l Layout) RemoveSection(id string) Layout {
	i := l.index(id)
	if i < 0 {
		return l
	}
	out := l.Clone()
	out.Sections = append(out.Sections[:i], out.Sections[i+1:]...)
	if out.ActiveID == id {
		out.ActiveID = ""
	}
	return out
}

// UpdateSection merges the patch. A different question type or marks per question
// clears the selection. New section marks keep the selection cut to the new capacity.
// Negative numbers leave the field as it was.
func (l Layout) UpdateSection(id string, p SectionPatch) Layout {
	i := l.index(id)
	if i < 0 {
		return l
	}
	out := l.Clone()
	s := &out.Sections[i]
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.QuestionType != nil && *p.QuestionType != s.QuestionType {
		s.QuestionType = *p.QuestionType
		s.SelectedIDs = []int64{}
	}
	if p.MarksPerQuestion != nil && *p.MarksPerQuestion >= 0 && *p.MarksPerQuestion != s.MarksPerQuestion {
		s.MarksPerQuestion = *p.MarksPerQuestion
		s.SelectedIDs = []int64{}
	}
	if p.SectionMarks != nil && *p.SectionMarks >= 0 {
		s.SectionMarks = *p.SectionMarks
	}
	if c := s.Capacity(); len(s.SelectedIDs) > c {
		s.SelectedIDs = s.SelectedIDs[:c]
	}
	return out
}

// ToggleQuestion deselects qid when selected, otherwise appends it if the section has
// fewer than capacity questions. Exclusivity across sections is the caller's concern.
func (l Layout) ToggleQuestion(sectionID string, qid int64, capacity int) Layout {
	i := l.index(sectionID)
	if i < 0 {
		return l
	}
	s := l.Sections[i]
	if s.Has(qid) {
		out := l.Clone()
		kept := make([]int64, 0, len(s.SelectedIDs))
		for _, id := range s.SelectedIDs {
			if id != qid {
				kept = append(kept, id)
			}
		}
		out.Sections[i].SelectedIDs = kept
		return out
	}
	if len(s.SelectedIDs) >= capacity {
		return l
	}
	out := l.Clone()
	out.Sections[i].SelectedIDs = append(out.Sections[i].SelectedIDs, qid)
	return out
}

// EligiblePool lists, in repository order, the ids of questions whose type and marks
// match the section and that no other section has claimed.
func (l Layout) EligiblePool(sectionID string, questions []question.Question) []int64 {
	i := l.index(sectionID)
	if i < 0 {
		return nil
	}
	s := l.Sections[i]
	claimed := l.claimedExcept(sectionID)
	out := make([]int64, 0)
	for _, q := range questions {
		if q.QuestionType != s.QuestionType || q.Marks != s.MarksPerQuestion {
			continue
		}
		if _, taken := claimed[q.ID]; taken {
			continue
		}
		out = append(out, q.ID)
	}
	return out
}

// AddAllEligible replaces the selection with the first capacity ids of the eligible
// pool. Questions picked by hand that fall outside that prefix are dropped.
func (l Layout) AddAllEligible(sectionID string, questions []question.Question) Layout {
	i := l.index(sectionID)
	if i < 0 {
		return l
	}
	pool := l.EligiblePool(sectionID, questions)
	if c := l.Sections[i].Capacity(); len(pool) > c {
		pool = pool[:c]
	}
	out := l.Clone()
	out.Sections[i].SelectedIDs = pool
	return out
}

// ReorderSections moves the section at from to position to.
func (l Layout) ReorderSections(from, to int) Layout {
	n := len(l.Sections)
	if from == to || from < 0 || to < 0 || from >= n || to >= n {
		return l
	}
	out := l.Clone()
	moved := out.Sections[from]
	rest := append(out.Sections[:from:from], out.Sections[from+1:]...)
	out.Sections = append(rest[:to:to], append([]Section{moved}, rest[to:]...)...)
	return out
}

// SetActive marks a section active. Unknown ids are ignored; "" clears it.
func (l Layout) SetActive(id string) Layout {
	if id != "" && l.index(id) < 0 {
		return l
	}
	out := l.Clone()
	out.ActiveID = id
	return out
}

// ClaimedBy returns the id of the section holding qid.
func (l Layout) ClaimedBy(qid int64) (string, bool) {
	for _, s := range l.Sections {
		if s.Has(qid) {
			return s.ID, true
		}
	}
	return "", false
}

func (l Layout) claimedExcept(sectionID string) map[int64]struct{} {
	out := map[int64]struct{}{}
	for _, s := range l.Sections {
		if s.ID == sectionID {
			continue
		}
		for _, id := range s.SelectedIDs {
			out[id] = struct{}{}
		}
	}
	return out
}

// TotalAllocatedMarks sums the section marks targets.
func (l Layout) TotalAllocatedMarks() int {
	total := 0
	for _, s := range l.Sections {
		total += s.SectionMarks
	}
	return total
}
