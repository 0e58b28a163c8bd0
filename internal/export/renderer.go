package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/mind-engage/mindengage-papers/internal/paper"
)

var (
	ErrUnknownFormat  = errors.New("unknown export format")
	ErrEmptySelection = errors.New("select questions first")
)

type Mode string

const (
	ModeBank  Mode = "bank"
	ModePaper Mode = "paper"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeBank, ModePaper:
		return m, nil
	default:
		return "", fmt.Errorf("unknown export mode %q", s)
	}
}

// Input is what every renderer consumes. Paper is used in paper mode, Bank in bank mode.
type Input struct {
	Mode   Mode
	Paper  paper.Paper
	Bank   paper.Bank
	Now    time.Time
	Images ImageFetcher // nil disables embedding
}

func (in Input) Metadata() paper.Metadata {
	if in.Mode == ModeBank {
		return in.Bank.Metadata
	}
	return in.Paper.Metadata
}

// Renderer writes one export format.
type Renderer interface {
	Format() string // registry key, e.g. "docx"
	ContentType() string
	Extension() string
	Render(ctx context.Context, in Input, w io.Writer) error
}

// Namer is implemented by renderers whose download name differs from the default.
type Namer interface {
	Filename(in Input) string
}

// Registry of renderers by format key.
var registry = map[string]Renderer{}

// Register a renderer. Call from init() in subpackages.
func Register(r Renderer) { registry[r.Format()] = r }

// Lookup returns a registered renderer for a format.
func Lookup(format string) (Renderer, bool) {
	r, ok := registry[format]
	return r, ok
}

// Formats lists the registered format keys.
func Formats() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
