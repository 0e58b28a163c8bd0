package bank

import "github.com/mind-engage/mindengage-papers/internal/question"

// View is the bank listing as the author sees it.
type View struct {
	Total       int         `json:"total"`
	Visible     int         `json:"visible"`
	Groups      []MarkGroup `json:"groups"`
	VisibleIDs  []int64     `json:"visibleIds"`
	SelectedIDs []int64     `json:"selectedIds"`
	Filters     FilterState `json:"filters"`
	Sort        SortMode    `json:"sort"`
}

// BuildView filters by the applied filters, groups, then sorts inside buckets.
func BuildView(questions []question.Question, filters FilterState, mode SortMode, sel Selection) View {
	visible := filters.Applied.Apply(questions)
	groups := Sort(Group(visible), mode)
	ids := make([]int64, 0, len(visible))
	for _, q := range Flatten(groups) {
		ids = append(ids, q.ID)
	}
	return View{
		Total:       len(questions),
		Visible:     len(visible),
		Groups:      groups,
		VisibleIDs:  ids,
		SelectedIDs: append([]int64{}, sel...),
		Filters:     filters,
		Sort:        mode,
	}
}
