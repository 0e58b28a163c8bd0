package paper

import "strings"

// Metadata is the paper header. TotalMarks is the author's target and is never derived.
type Metadata struct {
	Title        string `json:"title"`
	Subject      string `json:"subject"`
	Grade        string `json:"grade"`
	TotalMarks   int    `json:"totalMarks" validate:"gte=0"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions"`
	SchoolName   string `json:"schoolName"`
	SchoolLogo   string `json:"schoolLogo,omitempty"` // data URI or URL
}

func DefaultMetadata() Metadata {
	return Metadata{
		Title:        "Semester Final Examination",
		TotalMarks:   50,
		Duration:     "2 Hours",
		Instructions: "1. All questions are compulsory.\n2. Use of calculators is permitted where specified.",
		SchoolName:   "Greenwood International School",
	}
}

// DisplayTitle returns the title, or "Exam" when it is blank.
func (m Metadata) DisplayTitle() string {
	if t := strings.TrimSpace(m.Title); t != "" {
		return t
	}
	return "Exam"
}

// InstructionLines splits the instructions into non-blank lines.
func (m Metadata) InstructionLines() []string {
	var out []string
	for _, l := range strings.Split(m.Instructions, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// OrNA returns "N/A" for a blank header field.
func OrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
