// Package docx renders papers and bank listings as Word documents (OOXML).
package docx

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/mind-engage/mindengage-papers/internal/export"
	"github.com/mind-engage/mindengage-papers/internal/paper"
)

const (
	footerRelID = "rIdFooter"
	emuPerPixel = 9525
	rightTabPos = 9638 // twips; text width of A4 with 2cm margins
	logoMax     = 80   // pixels
)

const docOpen = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" ` +
	`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"><w:body>`

const docClose = `<w:sectPr><w:footerReference w:type="default" r:id="` + footerRelID + `"/>` +
	`<w:pgSz w:w="11906" w:h="16838"/>` +
	`<w:pgMar w:top="1134" w:right="1134" w:bottom="1134" w:left="1134" w:header="708" w:footer="708" w:gutter="0"/>` +
	`</w:sectPr></w:body></w:document>`

const footerXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:ftr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:p><w:pPr><w:jc w:val="center"/></w:pPr>` +
	`<w:r><w:t xml:space="preserve">Page </w:t></w:r>` +
	`<w:r><w:fldChar w:fldCharType="begin"/></w:r><w:r><w:instrText xml:space="preserve"> PAGE </w:instrText></w:r>` +
	`<w:r><w:fldChar w:fldCharType="separate"/></w:r><w:r><w:t>1</w:t></w:r><w:r><w:fldChar w:fldCharType="end"/></w:r>` +
	`<w:r><w:t xml:space="preserve"> of </w:t></w:r>` +
	`<w:r><w:fldChar w:fldCharType="begin"/></w:r><w:r><w:instrText xml:space="preserve"> NUMPAGES </w:instrText></w:r>` +
	`<w:r><w:fldChar w:fldCharType="separate"/></w:r><w:r><w:t>1</w:t></w:r><w:r><w:fldChar w:fldCharType="end"/></w:r>` +
	`</w:p></w:ftr>`

type Renderer struct{}

func init() { export.Register(Renderer{}) }

func (Renderer) Format() string { return "docx" }
func (Renderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}
func (Renderer) Extension() string { return "docx" }

func (Renderer) Render(ctx context.Context, in export.Input, w io.Writer) error {
	d := &doc{ctx: ctx, images: in.Images}
	d.body.WriteString(docOpen)
	if in.Mode == export.ModeBank {
		d.writeBank(in.Bank)
	} else {
		d.writePaper(in.Paper)
	}
	d.body.WriteString(docClose)
	return buildPackage(w, d.body.String(), footerXML, d.media)
}

type doc struct {
	ctx    context.Context
	images export.ImageFetcher
	body   strings.Builder
	media  []mediaPart
}

// runStyle is the subset of run and paragraph formatting the documents use.
type runStyle struct {
	bold, italic bool
	size         int // half-points; 0 keeps the default
	color        string
	center       bool
	before       int // spacing before, twips
	indent       int // left indent, twips
}

func (d *doc) paragraph(st runStyle, text string) {
	d.body.WriteString(`<w:p>`)
	d.pPr(st, false)
	d.run(st, text)
	d.body.WriteString(`</w:p>`)
}

func (d *doc) pPr(st runStyle, tabs bool) {
	d.body.WriteString(`<w:pPr>`)
	if tabs {
		fmt.Fprintf(&d.body, `<w:tabs><w:tab w:val="right" w:pos="%d"/></w:tabs>`, rightTabPos)
	}
	fmt.Fprintf(&d.body, `<w:spacing w:before="%d" w:after="60"/>`, st.before)
	if st.indent > 0 {
		fmt.Fprintf(&d.body, `<w:ind w:left="%d"/>`, st.indent)
	}
	if st.center {
		d.body.WriteString(`<w:jc w:val="center"/>`)
	}
	d.body.WriteString(`</w:pPr>`)
}

func (d *doc) run(st runStyle, text string) {
	d.body.WriteString(`<w:r><w:rPr>`)
	if st.bold {
		d.body.WriteString(`<w:b/>`)
	}
	if st.italic {
		d.body.WriteString(`<w:i/>`)
	}
	if st.color != "" {
		fmt.Fprintf(&d.body, `<w:color w:val="%s"/>`, st.color)
	}
	if st.size > 0 {
		fmt.Fprintf(&d.body, `<w:sz w:val="%d"/>`, st.size)
	}
	d.body.WriteString(`</w:rPr><w:t xml:space="preserve">`)
	xml.EscapeText(&d.body, []byte(text))
	d.body.WriteString(`</w:t></w:r>`)
}

// tabbedLine writes "left<TAB>right" with the right part flush to the margin.
func (d *doc) tabbedLine(st runStyle, left, right string) {
	d.body.WriteString(`<w:p>`)
	d.pPr(st, true)
	d.run(st, left)
	d.body.WriteString(`<w:r><w:tab/></w:r>`)
	d.run(runStyle{bold: true, size: st.size}, right)
	d.body.WriteString(`</w:p>`)
}

func (d *doc) pageBreak() {
	d.body.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
}

func (d *doc) rule() {
	d.body.WriteString(`<w:p><w:pPr><w:pBdr><w:bottom w:val="single" w:sz="6" w:space="1" w:color="000000"/></w:pBdr></w:pPr></w:p>`)
}

// table writes a borderless grid of label/value cells.
func (d *doc) table(rows [][2]string) {
	d.body.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="5000" w:type="pct"/></w:tblPr><w:tblGrid><w:gridCol w:w="4819"/><w:gridCol w:w="4819"/></w:tblGrid>`)
	for _, r := range rows {
		d.body.WriteString(`<w:tr>`)
		for _, cell := range r {
			d.body.WriteString(`<w:tc><w:tcPr><w:tcW w:w="2500" w:type="pct"/></w:tcPr>`)
			d.paragraph(runStyle{size: 22}, cell)
			d.body.WriteString(`</w:tc>`)
		}
		d.body.WriteString(`</w:tr>`)
	}
	d.body.WriteString(`</w:tbl>`)
}

// image embeds ref scaled into maxW x maxH pixels. Unreachable images are skipped.
func (d *doc) image(ref string, maxW, maxH int) {
	img, ok := export.LoadImage(d.ctx, d.images, ref)
	if !ok {
		return
	}
	if _, known := imageContentTypes[img.Format]; !known {
		return
	}
	n := len(d.media) + 1
	ext := img.Format
	part := mediaPart{relID: fmt.Sprintf("rIdImg%d", n), name: fmt.Sprintf("media/image%d.%s", n, ext), format: ext, data: img.Data}
	d.media = append(d.media, part)

	w, h := export.FitBox(img.Width, img.Height, maxW, maxH)
	cx, cy := w*emuPerPixel, h*emuPerPixel
	fmt.Fprintf(&d.body, `<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:drawing>`+
		`<wp:inline distT="0" distB="0" distL="0" distR="0"><wp:extent cx="%d" cy="%d"/><wp:docPr id="%d" name="Picture %d"/>`+
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture"><pic:pic>`+
		`<pic:nvPicPr><pic:cNvPr id="%d" name="image%d.%s"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`,
		cx, cy, n, n, n, n, ext, part.relID, cx, cy)
}

func (d *doc) writePaper(p paper.Paper) {
	m := p.Metadata
	if m.SchoolLogo != "" {
		d.image(m.SchoolLogo, logoMax, logoMax)
	}
	if m.SchoolName != "" {
		d.paragraph(runStyle{bold: true, size: 28, center: true, color: "1E3C78"}, m.SchoolName)
	}
	d.paragraph(runStyle{bold: true, size: 32, center: true, before: 120}, m.DisplayTitle())
	d.table([][2]string{
		{"Subject: " + paper.OrNA(m.Subject), "Grade: " + paper.OrNA(m.Grade)},
		{"Duration: " + paper.OrNA(m.Duration), fmt.Sprintf("Max Marks: %d", m.TotalMarks)},
	})
	d.rule()

	if lines := m.InstructionLines(); len(lines) > 0 {
		d.paragraph(runStyle{bold: true, size: 22, before: 120}, "General Instructions:")
		for _, l := range lines {
			d.paragraph(runStyle{italic: true, size: 20}, l)
		}
	}

	for _, s := range p.Sections {
		d.paragraph(runStyle{bold: true, size: 24, before: 240}, s.Heading())
		for _, it := range s.Items {
			d.tabbedLine(runStyle{size: 22, before: 120}, fmt.Sprintf("%d. %s", it.Number, it.Text), paper.MarkLabel(it.Marks()))
			if img := it.Image(); img != "" {
				d.image(img, 450, 300)
			}
		}
	}

	d.pageBreak()
	d.paragraph(runStyle{bold: true, size: 28, center: true}, "OFFICIAL ANSWER KEY")
	for _, s := range p.Sections {
		d.paragraph(runStyle{bold: true, size: 22, before: 200}, s.Section.Name)
		for _, it := range s.Items {
			d.paragraph(runStyle{size: 20}, it.KeyLine())
		}
	}
}

func (d *doc) writeBank(bk paper.Bank) {
	m := bk.Metadata
	school := m.SchoolName
	if school == "" {
		school = "Institution Name"
	}
	if m.SchoolLogo != "" {
		d.image(m.SchoolLogo, logoMax, logoMax)
	}
	d.paragraph(runStyle{bold: true, size: 28, center: true, color: "1E3C78"}, school)
	d.paragraph(runStyle{bold: true, size: 32, center: true}, "Question Bank Repository")
	d.paragraph(runStyle{size: 22, center: true}, fmt.Sprintf("Subject: %s    |    Grade: %s", paper.OrNA(m.Subject), paper.OrNA(m.Grade)))
	d.rule()

	for _, lg := range bk.Lessons {
		d.paragraph(runStyle{bold: true, size: 26, before: 240, color: "1E3C78"}, lg.Lesson)
		for _, og := range lg.Outcomes {
			d.paragraph(runStyle{italic: true, size: 22, before: 120}, "Outcome: "+og.Outcome)
			for _, it := range og.Items {
				d.paragraph(runStyle{size: 22, before: 120}, fmt.Sprintf("%d. %s %s", it.Number, it.Text, paper.BankMarkLabel(it.Marks())))
				if key := it.Question.Answer(); key != "" {
					d.paragraph(runStyle{size: 20, indent: 360}, "Answer Key: "+key)
				}
				if img := it.Image(); img != "" {
					d.image(img, 400, 250)
				}
				d.paragraph(runStyle{size: 18, indent: 360, color: "5A5A5A"}, "Type: "+it.Question.QuestionType)
			}
		}
	}
}
