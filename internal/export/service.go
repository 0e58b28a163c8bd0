package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/mind-engage/mindengage-papers/internal/audit"
	"github.com/mind-engage/mindengage-papers/internal/storage"
)

// Artifact is a rendered export ready for download.
type Artifact struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Key         string `json:"key,omitempty"` // blob key when saved
	Data        []byte `json:"-"`
}

// Service renders, saves and records exports.
type Service struct {
	store  storage.BlobStore // optional
	events audit.Recorder    // optional
	images ImageFetcher
	now    func() time.Time
}

func NewService(store storage.BlobStore, events audit.Recorder, images ImageFetcher) *Service {
	return &Service{store: store, events: events, images: images, now: time.Now}
}

// Export renders in with the renderer registered for format. Saving and audit failures
// are logged; the rendered bytes are still returned.
func (s *Service) Export(ctx context.Context, format string, in Input) (Artifact, error) {
	r, ok := Lookup(format)
	if !ok {
		return Artifact{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if in.Mode == ModeBank && len(in.Bank.Questions) == 0 {
		return Artifact{}, ErrEmptySelection
	}
	if in.Images == nil {
		in.Images = s.images
	}
	if in.Now.IsZero() {
		in.Now = s.now().UTC()
	}

	var buf bytes.Buffer
	if err := r.Render(ctx, in, &buf); err != nil {
		return Artifact{}, fmt.Errorf("render %s: %w", format, err)
	}
	art := Artifact{Filename: FilenameFor(r, in), ContentType: r.ContentType(), Data: buf.Bytes()}

	if s.store != nil {
		key, err := s.store.Put("exports/"+art.Filename, bytes.NewReader(art.Data))
		if err != nil {
			log.Printf("[export] save %s: %v", art.Filename, err)
		} else {
			art.Key = key
		}
	}
	if s.events != nil {
		payload, _ := json.Marshal(map[string]interface{}{
			"format": format,
			"mode":   in.Mode,
			"items":  itemCount(in),
			"bytes":  len(art.Data),
			"key":    art.Key,
		})
		if err := s.events.Append(ctx, audit.Event{Type: audit.TypeExportRendered, Key: art.Filename, DataJSON: string(payload)}); err != nil {
			log.Printf("[export] audit %s: %v", art.Filename, err)
		}
	}
	return art, nil
}

func itemCount(in Input) int {
	if in.Mode == ModeBank {
		return len(in.Bank.Questions)
	}
	return in.Paper.ItemCount()
}
