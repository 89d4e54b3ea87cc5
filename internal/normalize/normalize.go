// Package normalize converts supported input kinds (raw text, a URL,
// a set of images) into plain text plus provenance metadata. A failed
// URL fetch or missing OCR produces a stub payload instead of an
// error, so the caller can short-circuit without spending provider
// quota on content that was never extracted.
package normalize

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cooked/internal/apperr"
	"cooked/internal/logging"
	"cooked/internal/ocr"
)

// Kind identifies what the raw input is.
type Kind string

const (
	KindText  Kind = "text"
	KindURL   Kind = "url"
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

const userAgent = "Mozilla/5.0 (compatible; CookedApp/1.0)"

// Metadata records where normalized text came from.
type Metadata struct {
	OriginalURL string
	ImageCount  int
	IsStub      bool
}

// Normalized is plain text ready for the extraction chain.
type Normalized struct {
	Text     string
	Kind     Kind
	Metadata Metadata
}

// Normalizer turns user input into Normalized text. Video URLs are not
// handled here; they go through the transcript acquirer instead.
type Normalizer struct {
	httpClient *http.Client
	ocr        ocr.Capability
	logger     *slog.Logger
}

// Option adjusts a Normalizer.
type Option func(*Normalizer)

// WithHTTPClient overrides the HTTP client used for URL fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(n *Normalizer) {
		if client != nil {
			n.httpClient = client
		}
	}
}

// WithLogger attaches a logger for fetch failures.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Normalizer) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// New builds a Normalizer around the given OCR capability.
func New(capability ocr.Capability, opts ...Option) *Normalizer {
	n := &Normalizer{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		ocr:        capability,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize dispatches on kind. Text and URL take the first input
// value; images take the whole slice.
func (n *Normalizer) Normalize(ctx context.Context, input []string, kind Kind) (Normalized, error) {
	switch kind {
	case KindText:
		return n.Text(first(input)), nil
	case KindURL:
		rawURL := first(input)
		if rawURL == "" {
			return Normalized{}, apperr.BadInput("url input is empty")
		}
		return n.URL(ctx, rawURL), nil
	case KindImage:
		if len(input) == 0 {
			return Normalized{}, apperr.BadInput("image input is empty")
		}
		return n.Images(ctx, input), nil
	default:
		return Normalized{}, apperr.BadInput("unsupported input kind %q", string(kind))
	}
}

// Text trims the input and passes it through unchanged.
func (n *Normalizer) Text(text string) Normalized {
	return Normalized{Text: strings.TrimSpace(text), Kind: KindText}
}

// URL fetches the page and strips it down to readable text. Any fetch
// failure degrades to a stub payload rather than an error.
func (n *Normalizer) URL(ctx context.Context, rawURL string) Normalized {
	html, err := n.fetch(ctx, rawURL)
	if err != nil {
		n.logger.Warn("url fetch failed, returning stub",
			slog.String(logging.FieldSource, rawURL),
			slog.String("error", err.Error()))
		return Normalized{
			Text:     urlStubText(rawURL),
			Kind:     KindURL,
			Metadata: Metadata{OriginalURL: rawURL, IsStub: true},
		}
	}
	return Normalized{
		Text:     StripHTML(html),
		Kind:     KindURL,
		Metadata: Metadata{OriginalURL: rawURL},
	}
}

// Images runs the OCR capability over the given image paths, degrading
// to a stub when OCR is not configured or fails.
func (n *Normalizer) Images(ctx context.Context, imagePaths []string) Normalized {
	meta := Metadata{ImageCount: len(imagePaths)}
	if n.ocr == nil || !n.ocr.Available() {
		meta.IsStub = true
		return Normalized{Text: imageStubText(len(imagePaths)), Kind: KindImage, Metadata: meta}
	}
	text, err := n.ocr.ExtractText(ctx, imagePaths)
	if err != nil {
		n.logger.Warn("ocr failed, returning stub", slog.String("error", err.Error()))
		meta.IsStub = true
		return Normalized{Text: imageStubText(len(imagePaths)), Kind: KindImage, Metadata: meta}
	}
	return Normalized{Text: text, Kind: KindImage, Metadata: meta}
}

func (n *Normalizer) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch url: http %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func urlStubText(rawURL string) string {
	return fmt.Sprintf("Recipe from URL: %s\n\nUnable to fetch content automatically. Please paste the recipe text manually.", rawURL)
}

func imageStubText(count int) string {
	return strings.Join([]string{
		fmt.Sprintf("[Image-based recipe input: %d image(s) provided]", count),
		"",
		"OCR processing is not configured.",
		"Set OCR_API_KEY to enable image-to-text extraction.",
		"For now, please paste the recipe text manually.",
	}, "\n")
}

func first(input []string) string {
	if len(input) == 0 {
		return ""
	}
	return input[0]
}
