package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mind-engage/mindengage-papers/internal/paper"
)

var (
	spaceRe   = regexp.MustCompile(`\s+`)
	pathSepRe = regexp.MustCompile(`[/\\]`)
)

// Filename is Question_Bank_<subject>_<grade>.<ext> or Question_Paper_<subject>_<grade>.<ext>.
func Filename(mode Mode, meta paper.Metadata, ext string) string {
	prefix := "Question_Paper"
	if mode == ModeBank {
		prefix = "Question_Bank"
	}
	return safeName(fmt.Sprintf("%s_%s_%s.%s", prefix, meta.Subject, meta.Grade, ext))
}

// PDFFilename is <title>_<subject>_<grade>.pdf with whitespace runs turned into "_".
func PDFFilename(meta paper.Metadata) string {
	name := fmt.Sprintf("%s_%s_%s", meta.DisplayTitle(), meta.Subject, meta.Grade)
	return safeName(spaceRe.ReplaceAllString(name, "_") + ".pdf")
}

// FilenameFor picks the renderer's own name when it has one.
func FilenameFor(r Renderer, in Input) string {
	if n, ok := r.(Namer); ok {
		return n.Filename(in)
	}
	return Filename(in.Mode, in.Metadata(), r.Extension())
}

// safeName keeps names usable as a single blob key segment.
func safeName(s string) string {
	return pathSepRe.ReplaceAllString(strings.TrimSpace(s), "-")
}
