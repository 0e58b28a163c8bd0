package bank

import (
	"fmt"

	"github.com/mind-engage/mindengage-papers/internal/question"
)

// Selection is the ordered set of question ids picked for a bank export.
type Selection []int64

func (s Selection) Has(id int64) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle flips one id.
func (s Selection) Toggle(id int64) Selection {
	out := make(Selection, 0, len(s)+1)
	found := false
	for _, v := range s {
		if v == id {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, id)
	}
	return out
}

// SelectAll adds every id of the currently filtered set.
func (s Selection) SelectAll(ids []int64) Selection {
	out := append(Selection{}, s...)
	seen := idSet(s)
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// Clear removes every id of the currently filtered set; others stay selected.
func (s Selection) Clear(ids []int64) Selection {
	drop := idSet(ids)
	out := make(Selection, 0, len(s))
	for _, v := range s {
		if !drop[v] {
			out = append(out, v)
		}
	}
	return out
}

// Retain keeps only ids that still exist in the snapshot.
func (s Selection) Retain(ids []int64) Selection {
	keep := idSet(ids)
	out := make(Selection, 0, len(s))
	for _, v := range s {
		if keep[v] {
			out = append(out, v)
		}
	}
	return out
}

// Resolve returns the selected questions in repository order.
func (s Selection) Resolve(questions []question.Question) []question.Question {
	picked := idSet(s)
	out := make([]question.Question, 0, len(s))
	for _, q := range questions {
		if picked[q.ID] {
			out = append(out, q)
		}
	}
	return out
}

func idSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// MinDesignSelection is the selection size below which moving on to paper design asks
// for confirmation.
const MinDesignSelection = 5

type Guard struct {
	Selected     int    `json:"selected"`
	NeedsConfirm bool   `json:"needsConfirm"`
	Prompt       string `json:"prompt,omitempty"`
}

// DesignGuard is advisory. Proceeding is always allowed.
func DesignGuard(selected int) Guard {
	g := Guard{Selected: selected}
	if selected < MinDesignSelection {
		g.NeedsConfirm = true
		g.Prompt = fmt.Sprintf("Only %d question(s) selected; at least %d are recommended (%d short). Continue to paper design anyway?",
			selected, MinDesignSelection, MinDesignSelection-selected)
	}
	return g
}
