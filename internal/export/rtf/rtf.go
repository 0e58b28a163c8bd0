// Package rtf renders papers and bank listings as Rich Text Format. Images are not
// embedded; each one becomes a reference line carrying its URL.
package rtf

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"

	"github.com/mind-engage/mindengage-papers/internal/export"
	"github.com/mind-engage/mindengage-papers/internal/paper"
)

const header = `{\rtf1\ansi\ansicpg1252\deff0{\fonttbl{\f0\froman Times New Roman;}{\f1\fswiss Arial;}}` +
	`{\colortbl;\red0\green0\blue0;\red90\green90\blue90;\red30\green60\blue120;}` + "\n" +
	`\paperw11906\paperh16838\margl1134\margr1134\margt1134\margb1134` + "\n"

type Renderer struct{}

func init() { export.Register(Renderer{}) }

func (Renderer) Format() string      { return "rtf" }
func (Renderer) ContentType() string { return "application/rtf" }
func (Renderer) Extension() string   { return "rtf" }

func (Renderer) Render(_ context.Context, in export.Input, w io.Writer) error {
	var b strings.Builder
	b.WriteString(header)
	if in.Mode == export.ModeBank {
		writeBank(&b, in.Bank)
	} else {
		writePaper(&b, in.Paper)
	}
	b.WriteString("}")
	_, err := io.WriteString(w, b.String())
	return err
}

func writePaper(b *strings.Builder, p paper.Paper) {
	m := p.Metadata
	writeLogo(b, m)
	if m.SchoolName != "" {
		para(b, `\qc\b\fs28\cf3 `, m.SchoolName)
	}
	para(b, `\qc\b\fs32 `, m.DisplayTitle())
	para(b, `\qc\fs22 `, fmt.Sprintf("Subject: %s    Grade: %s", paper.OrNA(m.Subject), paper.OrNA(m.Grade)))
	para(b, `\qc\fs22 `, fmt.Sprintf("Duration: %s    Max Marks: %d", paper.OrNA(m.Duration), m.TotalMarks))
	b.WriteString(`\pard\brdrb\brdrs\brdrw10\par` + "\n")

	if lines := m.InstructionLines(); len(lines) > 0 {
		para(b, `\b\fs22 `, "General Instructions:")
		for _, l := range lines {
			para(b, `\i\fs20 `, l)
		}
	}

	for _, s := range p.Sections {
		b.WriteString(`\pard\sb240\par` + "\n")
		para(b, `\b\fs24 `, s.Heading())
		for _, it := range s.Items {
			b.WriteString(`\pard\sb120\fs22 `)
			b.WriteString(escape(fmt.Sprintf("%d. %s", it.Number, it.Text)))
			b.WriteString(`\tab `)
			b.WriteString(escape(paper.MarkLabel(it.Marks())))
			b.WriteString(`\par` + "\n")
			if img := it.Image(); img != "" {
				para(b, `\i\fs18\cf2 `, "[SEE ILLUSTRATION]: "+img)
			}
		}
	}
	para(b, `\qc\sb360\fs20 `, "--- End of Paper ---")

	b.WriteString(`\page` + "\n")
	para(b, `\qc\b\fs28 `, "OFFICIAL ANSWER KEY")
	for _, s := range p.Sections {
		para(b, `\b\sb200\fs22 `, s.Section.Name)
		for _, it := range s.Items {
			para(b, `\fs20 `, it.KeyLine())
		}
	}
}

func writeBank(b *strings.Builder, bk paper.Bank) {
	m := bk.Metadata
	school := m.SchoolName
	if school == "" {
		school = "Institution Name"
	}
	writeLogo(b, m)
	para(b, `\qc\b\fs28\cf3 `, school)
	para(b, `\qc\b\fs32 `, "Question Bank Repository")
	para(b, `\qc\fs22 `, fmt.Sprintf("Subject: %s    |    Grade: %s", paper.OrNA(m.Subject), paper.OrNA(m.Grade)))

	for _, lg := range bk.Lessons {
		b.WriteString(`\pard\sb240\par` + "\n")
		para(b, `\b\fs26\cf3 `, lg.Lesson)
		for _, og := range lg.Outcomes {
			para(b, `\i\sb120\fs22 `, "Outcome: "+og.Outcome)
			for _, it := range og.Items {
				para(b, `\sb120\fs22 `, fmt.Sprintf("%d. %s %s", it.Number, it.Text, paper.BankMarkLabel(it.Marks())))
				if key := it.Question.Answer(); key != "" {
					para(b, `\li360\fs20 `, "Answer Key: "+key)
				}
				if img := it.Image(); img != "" {
					para(b, `\li360\i\fs18\cf2 `, "[IMAGE ATTACHED]: "+img)
				}
				para(b, `\li360\fs18\cf2 `, "Type: "+it.Question.QuestionType)
			}
		}
	}
}

// para writes one paragraph: reset, control words, escaped text.
// writeLogo leaves a reference line; inline data URIs are too large to be useful there.
func writeLogo(b *strings.Builder, m paper.Metadata) {
	switch {
	case m.SchoolLogo == "":
	case strings.HasPrefix(m.SchoolLogo, "data:"):
		para(b, `\qc\i\fs18\cf2 `, "[SCHOOL LOGO]: embedded image")
	default:
		para(b, `\qc\i\fs18\cf2 `, "[SCHOOL LOGO]: "+m.SchoolLogo)
	}
}

func para(b *strings.Builder, controls, text string) {
	b.WriteString(`\pard\plain\f0`)
	if !strings.HasPrefix(controls, `\`) {
		b.WriteString(" ")
	}
	b.WriteString(controls)
	b.WriteString(escape(text))
	b.WriteString(`\par` + "\n")
}

// escape quotes RTF control characters and writes non-ASCII as \uN? escapes.
func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\\' || r == '{' || r == '}':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\line `)
		case r == '\t':
			b.WriteString(`\tab `)
		case r < 0x80:
			b.WriteRune(r)
		case r > 0xFFFF:
			r1, r2 := utf16.EncodeRune(r)
			fmt.Fprintf(&b, `\u%d?\u%d?`, int16(r1), int16(r2))
		default:
			fmt.Fprintf(&b, `\u%d?`, int16(r))
		}
	}
	return b.String()
}
