package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // decoder
	_ "image/jpeg" // decoder
	_ "image/png"  // decoder
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"
)

const maxImageBytes = 10 << 20

// Image is a fetched and decoded-header bitmap ready for embedding.
type Image struct {
	Data   []byte
	Format string // png, jpeg, gif
	Width  int
	Height int
}

// ImageFetcher resolves an image reference (URL or data URI) to bytes.
type ImageFetcher interface {
	Fetch(ctx context.Context, ref string) (Image, error)
}

// ErrPrivateAddress is returned when an image host resolves to a loopback, private or
// link-local address and the fetcher does not allow those.
var ErrPrivateAddress = errors.New("image host is not a public address")

// HTTPFetcher fetches http(s) URLs and decodes inline data: URIs.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher builds a fetcher with the given timeout. Unless allowPrivate is set,
// connections are checked after DNS resolution and refused for non-public addresses.
func NewHTTPFetcher(timeout time.Duration, allowPrivate bool) *HTTPFetcher {
	if allowPrivate {
		return &HTTPFetcher{Client: &http.Client{Timeout: timeout}}
	}
	dialer := &net.Dialer{Timeout: timeout, Control: refusePrivate}
	return &HTTPFetcher{Client: &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: timeout,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
		},
	}}
}

func refusePrivate(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsMulticast() {
		return ErrPrivateAddress
	}
	return nil
}

func (f *HTTPFetcher) Fetch(ctx context.Context, ref string) (Image, error) {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "data:") {
		raw, err := decodeDataURI(ref)
		if err != nil {
			return Image{}, err
		}
		return DecodeImage(raw)
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return Image{}, fmt.Errorf("unsupported image reference %q", ref)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return Image{}, err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Image{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Image{}, fmt.Errorf("fetch image: %s", resp.Status)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return Image{}, err
	}
	if len(raw) > maxImageBytes {
		return Image{}, errors.New("image too large")
	}
	return DecodeImage(raw)
}

func decodeDataURI(ref string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data URI")
	}
	if strings.HasSuffix(meta, ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}
	s, err := url.PathUnescape(payload)
	return []byte(s), err
}

// DecodeImage reads the bitmap header so renderers know the format and size.
func DecodeImage(raw []byte) (Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Image{}, fmt.Errorf("decode image: %w", err)
	}
	return Image{Data: raw, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// LoadImage fetches ref for embedding. Failures are logged and reported as absent so
// the export carries on without the picture.
func LoadImage(ctx context.Context, f ImageFetcher, ref string) (Image, bool) {
	if f == nil || ref == "" {
		return Image{}, false
	}
	img, err := f.Fetch(ctx, ref)
	if err != nil {
		log.Printf("[export] image %s skipped: %v", truncateRef(ref), err)
		return Image{}, false
	}
	return img, true
}

// FitBox scales w x h to fit inside maxW x maxH keeping the aspect ratio.
func FitBox(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}
	if w*maxH > h*maxW {
		return maxW, h * maxW / w
	}
	return w * maxH / h, maxH
}

func truncateRef(ref string) string {
	if len(ref) > 80 {
		return ref[:80] + "..."
	}
	return ref
}
