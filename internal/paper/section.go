package paper

import "fmt"

// Section is a marks-weighted block of one question type. SelectedIDs keeps insertion
// order, which is also the display order.
type Section struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	QuestionType     string  `json:"questionType"`
	MarksPerQuestion int     `json:"marksPerQuestion"`
	SectionMarks     int     `json:"sectionMarks"`
	SelectedIDs      []int64 `json:"selectedQuestionIds"`
}

// Capacity is how many questions fit: floor(SectionMarks / MarksPerQuestion).
func (s Section) Capacity() int {
	if s.MarksPerQuestion <= 0 || s.SectionMarks <= 0 {
		return 0
	}
	return s.SectionMarks / s.MarksPerQuestion
}

// Allocated is the marks currently filled by selected questions.
func (s Section) Allocated() int { return len(s.SelectedIDs) * s.MarksPerQuestion }

func (s Section) IsFull() bool { return len(s.SelectedIDs) >= s.Capacity() }

// Missing is the number of questions still needed to reach capacity.
func (s Section) Missing() int {
	if m := s.Capacity() - len(s.SelectedIDs); m > 0 {
		return m
	}
	return 0
}

func (s Section) Has(qid int64) bool {
	for _, id := range s.SelectedIDs {
		if id == qid {
			return true
		}
	}
	return false
}

func (s Section) clone() Section {
	if s.SelectedIDs != nil {
		ids := make([]int64, len(s.SelectedIDs))
		copy(ids, s.SelectedIDs)
		s.SelectedIDs = ids
	}
	return s
}

// Status is the derived per-section view shown next to each section.
type Status struct {
	Capacity  int  `json:"capacity"`
	Selected  int  `json:"selected"`
	Allocated int  `json:"allocatedMarks"`
	Missing   int  `json:"missing"`
	Full      bool `json:"full"`
}

func (s Section) Status() Status {
	return Status{
		Capacity:  s.Capacity(),
		Selected:  len(s.SelectedIDs),
		Allocated: s.Allocated(),
		Missing:   s.Missing(),
		Full:      s.IsFull(),
	}
}

// sectionName returns "Section A".."Section Z", then "Section AA", "Section AB", ...
func sectionName(n int) string {
	label := ""
	for n++; n > 0; n = (n - 1) / 26 {
		label = string(rune('A'+(n-1)%26)) + label
	}
	return fmt.Sprintf("Section %s", label)
}
