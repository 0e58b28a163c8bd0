package paper

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mind-engage/mindengage-papers/internal/question"
)

var (
	itemTagRe = regexp.MustCompile(`(?i)^\[item[-_ ]?\d+\]\s*`)
	setTagRe  = regexp.MustCompile(`(?i) \[set \d+-\d+\]$`)
)

// CleanText strips the bookkeeping tags authors leave in question text: a leading
// "[item-N]" and a trailing " [Set a-b]". It repeats until nothing changes, so
// CleanText(CleanText(s)) == CleanText(s).
func CleanText(s string) string {
	for {
		next := strings.TrimSpace(setTagRe.ReplaceAllString(itemTagRe.ReplaceAllString(s, ""), ""))
		if next == s {
			return s
		}
		s = next
	}
}

func DifficultyLabel(d question.Difficulty) string { return d.Label() }

// MarkLabel is the per-question marks shown in paper mode.
func MarkLabel(marks int) string { return fmt.Sprintf("[%d]", marks) }

// BankMarkLabel is the per-question marks shown in bank listings.
func BankMarkLabel(marks int) string { return fmt.Sprintf("[%d Marks]", marks) }

// SectionHeading renders "NAME (N Marks)".
func SectionHeading(s Section) string {
	return fmt.Sprintf("%s (%d Marks)", strings.ToUpper(s.Name), s.SectionMarks)
}

const keyRefLen = 40

// KeyReference is the answer-key snippet: the first 40 runes of the cleaned text and "...".
func KeyReference(text string) string {
	r := []rune(CleanText(text))
	if len(r) > keyRefLen {
		r = r[:keyRefLen]
	}
	return string(r) + "..."
}

const NoKeyPlaceholder = "No key provided."

func AnswerOrPlaceholder(q question.Question) string {
	if a := q.Answer(); a != "" {
		return a
	}
	return NoKeyPlaceholder
}

// AnswerOrEmpty is used by structured exports where the key is always a string.
func AnswerOrEmpty(q question.Question) string { return q.Answer() }
