// Package printview renders the print-ready HTML page: the paper body, then the
// answer key on a new printed page.
package printview

import (
	"context"
	"embed"
	"html/template"
	"io"
	"strings"

	"github.com/mind-engage/mindengage-papers/internal/export"
	"github.com/mind-engage/mindengage-papers/internal/paper"
)

//go:embed templates/*.html
var templateFS embed.FS

var tmpl = template.Must(template.New("print").Funcs(template.FuncMap{
	"markLabel":     paper.MarkLabel,
	"bankMarkLabel": paper.BankMarkLabel,
	"orNA":          paper.OrNA,
	"upper":         strings.ToUpper,
	"safeImage":     safeImage,
}).ParseFS(templateFS, "templates/*.html"))

type Renderer struct{}

func init() { export.Register(Renderer{}) }

func (Renderer) Format() string      { return "html" }
func (Renderer) ContentType() string { return "text/html; charset=utf-8" }
func (Renderer) Extension() string   { return "html" }

type view struct {
	Bank  bool
	Meta  paper.Metadata
	Paper paper.Paper
	Lists paper.Bank
}

// Render tolerates zero sections and zero questions; the body is simply empty.
func (Renderer) Render(_ context.Context, in export.Input, w io.Writer) error {
	v := view{Bank: in.Mode == export.ModeBank, Meta: in.Metadata(), Paper: in.Paper, Lists: in.Bank}
	return tmpl.ExecuteTemplate(w, "page.html", v)
}

// safeImage lets data: image URIs through as src values; other schemes go through
// html/template's normal URL filtering.
func safeImage(ref string) interface{} {
	if strings.HasPrefix(ref, "data:image/") {
		return template.URL(ref)
	}
	return ref
}
