package bank

import (
	"fmt"
	"sort"
	"strings"
)

type SortMode string

const (
	SortDefault        SortMode = "default"
	SortDifficultyAsc  SortMode = "difficulty_asc"
	SortDifficultyDesc SortMode = "difficulty_desc"
	SortLessonAsc      SortMode = "lesson_asc"
	SortLessonDesc     SortMode = "lesson_desc"
)

func ParseSortMode(s string) (SortMode, error) {
	switch m := SortMode(strings.TrimSpace(s)); m {
	case "":
		return SortDefault, nil
	case SortDefault, SortDifficultyAsc, SortDifficultyDesc, SortLessonAsc, SortLessonDesc:
		return m, nil
	default:
		return "", fmt.Errorf("unknown sort mode %q", s)
	}
}

// Sort re-orders questions inside each (marks, type) bucket. Buckets keep their places.
func Sort(groups []MarkGroup, mode SortMode) []MarkGroup {
	out := make([]MarkGroup, len(groups))
	for i, mg := range groups {
		out[i] = MarkGroup{Marks: mg.Marks, Types: make([]TypeGroup, len(mg.Types))}
		for j, tg := range mg.Types {
			qs := append(tg.Questions[:0:0], tg.Questions...)
			switch mode {
			case SortDifficultyAsc:
				sort.SliceStable(qs, func(a, b int) bool { return qs[a].Difficulty < qs[b].Difficulty })
			case SortDifficultyDesc:
				sort.SliceStable(qs, func(a, b int) bool { return qs[a].Difficulty > qs[b].Difficulty })
			case SortLessonAsc:
				sort.SliceStable(qs, func(a, b int) bool { return qs[a].LessonTitle < qs[b].LessonTitle })
			case SortLessonDesc:
				sort.SliceStable(qs, func(a, b int) bool { return qs[a].LessonTitle > qs[b].LessonTitle })
			}
			out[i].Types[j] = TypeGroup{Type: tg.Type, Questions: qs}
		}
	}
	return out
}
