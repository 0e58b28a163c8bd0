// Package pdf renders the print view as an A4 PDF with gofpdf.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/mind-engage/mindengage-papers/internal/export"
	"github.com/mind-engage/mindengage-papers/internal/paper"
)

// creationDate is fixed so identical input yields identical bytes.
var creationDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

const (
	font       = "Times"
	lineH      = 6.0
	marksW     = 22.0
	mmPerPixel = 25.4 / 96
	logoMax    = 80 // pixels
)

type Renderer struct{}

func init() { export.Register(Renderer{}) }

func (Renderer) Format() string      { return "pdf" }
func (Renderer) ContentType() string { return "application/pdf" }
func (Renderer) Extension() string   { return "pdf" }

// Filename is <title>_<subject>_<grade>.pdf.
func (Renderer) Filename(in export.Input) string { return export.PDFFilename(in.Metadata()) }

func (Renderer) Render(ctx context.Context, in export.Input, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(creationDate)
	pdf.SetCatalogSort(true)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")

	r := &writer{ctx: ctx, pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), images: in.Images}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(font, "I", 8)
		pdf.SetTextColor(90, 90, 90)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.SetTitle(r.tr(in.Metadata().DisplayTitle()), false)

	if in.Mode == export.ModeBank {
		r.bank(in.Bank)
	} else {
		r.paper(in.Paper)
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return pdf.Output(w)
}

type writer struct {
	ctx    context.Context
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	images export.ImageFetcher
	nimg   int
}

func (r *writer) width() float64 {
	pw, _ := r.pdf.GetPageSize()
	lm, _, rm, _ := r.pdf.GetMargins()
	return pw - lm - rm
}

func (r *writer) text(style string, size float64, align, s string) {
	r.pdf.SetFont(font, style, size)
	r.pdf.MultiCell(0, lineH, r.tr(s), "", align, false)
}

func (r *writer) rule() {
	lm, _, _, _ := r.pdf.GetMargins()
	y := r.pdf.GetY() + 2
	r.pdf.Line(lm, y, lm+r.width(), y)
	r.pdf.Ln(5)
}

// item writes "n. text" wrapped on the left and the marks label on the right.
func (r *writer) item(s, marks string) {
	lm, _, _, _ := r.pdf.GetMargins()
	y := r.pdf.GetY()
	r.pdf.SetFont(font, "B", 11)
	r.pdf.SetXY(lm+r.width()-marksW, y)
	r.pdf.CellFormat(marksW, lineH, r.tr(marks), "", 0, "R", false, 0, "")
	r.pdf.SetXY(lm, y)
	r.pdf.SetFont(font, "", 11)
	r.pdf.MultiCell(r.width()-marksW-2, lineH, r.tr(s), "", "L", false)
}

// image draws ref centred, scaled into maxW x maxH pixels. Anything gofpdf cannot
// take is logged and skipped.
func (r *writer) image(ref string, maxW, maxH int) {
	img, ok := export.LoadImage(r.ctx, r.images, ref)
	if !ok {
		return
	}
	kind := strings.ToUpper(img.Format)
	if kind == "JPEG" {
		kind = "JPG"
	}
	r.nimg++
	name := fmt.Sprintf("img%d", r.nimg)
	opts := gofpdf.ImageOptions{ImageType: kind}
	r.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
	if err := r.pdf.Error(); err != nil {
		log.Printf("[export] pdf image %s skipped: %v", name, err)
		r.pdf.ClearError()
		return
	}
	pw, ph := export.FitBox(img.Width, img.Height, maxW, maxH)
	w, h := float64(pw)*mmPerPixel, float64(ph)*mmPerPixel
	_, pageH := r.pdf.GetPageSize()
	_, _, _, bm := r.pdf.GetMargins()
	if r.pdf.GetY()+h > pageH-bm {
		r.pdf.AddPage()
	}
	lm, _, _, _ := r.pdf.GetMargins()
	x := lm + (r.width()-w)/2
	r.pdf.ImageOptions(name, x, r.pdf.GetY()+1, w, h, true, opts, 0, "")
	r.pdf.Ln(2)
}

func (r *writer) logo(m paper.Metadata) {
	if m.SchoolLogo != "" {
		r.image(m.SchoolLogo, logoMax, logoMax)
	}
}

func (r *writer) paper(p paper.Paper) {
	m := p.Metadata
	r.pdf.AddPage()
	r.logo(m)
	if m.SchoolName != "" {
		r.pdf.SetTextColor(30, 60, 120)
		r.text("B", 16, "C", m.SchoolName)
		r.pdf.SetTextColor(0, 0, 0)
	}
	r.text("B", 15, "C", m.DisplayTitle())
	r.pdf.Ln(2)
	half := r.width() / 2
	r.pdf.SetFont(font, "", 11)
	r.pdf.CellFormat(half, lineH, r.tr("Subject: "+paper.OrNA(m.Subject)), "", 0, "L", false, 0, "")
	r.pdf.CellFormat(half, lineH, r.tr("Grade: "+paper.OrNA(m.Grade)), "", 1, "R", false, 0, "")
	r.pdf.CellFormat(half, lineH, r.tr("Duration: "+paper.OrNA(m.Duration)), "", 0, "L", false, 0, "")
	r.pdf.CellFormat(half, lineH, fmt.Sprintf("Max Marks: %d", m.TotalMarks), "", 1, "R", false, 0, "")
	r.rule()

	if lines := m.InstructionLines(); len(lines) > 0 {
		r.text("B", 11, "L", "General Instructions:")
		for _, l := range lines {
			r.text("I", 10, "L", l)
		}
		r.pdf.Ln(2)
	}

	for _, s := range p.Sections {
		r.pdf.Ln(3)
		r.text("B", 12, "L", s.Heading())
		for _, it := range s.Items {
			r.item(fmt.Sprintf("%d. %s", it.Number, it.Text), paper.MarkLabel(it.Marks()))
			if img := it.Image(); img != "" {
				r.image(img, 450, 300)
			}
		}
	}
	r.pdf.Ln(6)
	r.text("", 10, "C", "--- End of Examination ---")

	r.pdf.AddPage()
	r.text("B", 15, "C", "Answer Key")
	r.pdf.SetTextColor(90, 90, 90)
	r.text("", 10, "C", m.DisplayTitle()+" - "+paper.OrNA(m.Subject))
	r.pdf.SetTextColor(0, 0, 0)
	for _, s := range p.Sections {
		r.pdf.Ln(3)
		r.text("B", 11, "L", s.Section.Name)
		for _, it := range s.Items {
			r.text("", 10, "L", it.KeyLine())
		}
	}
}

func (r *writer) bank(bk paper.Bank) {
	m := bk.Metadata
	r.pdf.AddPage()
	r.logo(m)
	school := m.SchoolName
	if school == "" {
		school = "Institution Name"
	}
	r.pdf.SetTextColor(30, 60, 120)
	r.text("B", 16, "C", school)
	r.pdf.SetTextColor(0, 0, 0)
	r.text("B", 15, "C", "Question Bank Repository")
	r.text("", 11, "C", fmt.Sprintf("Subject: %s    |    Grade: %s", paper.OrNA(m.Subject), paper.OrNA(m.Grade)))
	r.rule()

	for _, lg := range bk.Lessons {
		r.pdf.Ln(3)
		r.pdf.SetTextColor(30, 60, 120)
		r.text("B", 13, "L", lg.Lesson)
		r.pdf.SetTextColor(0, 0, 0)
		for _, og := range lg.Outcomes {
			r.text("I", 11, "L", "Outcome: "+og.Outcome)
			for _, it := range og.Items {
				r.item(fmt.Sprintf("%d. %s", it.Number, it.Text), paper.BankMarkLabel(it.Marks()))
				if key := it.Question.Answer(); key != "" {
					r.text("", 10, "L", "    Answer Key: "+key)
				}
				if img := it.Image(); img != "" {
					r.image(img, 400, 250)
				}
				r.text("", 9, "L", "    Type: "+it.Question.QuestionType)
			}
		}
	}
}
