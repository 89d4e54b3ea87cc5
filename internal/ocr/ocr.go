// Package ocr defines the image-to-text capability consumed by the
// input normalizer. No provider is wired in yet; Unavailable stands in
// so the rest of the pipeline can treat missing OCR as a degraded mode
// instead of a crash.
package ocr

import (
	"context"
	"errors"
)

// ErrUnavailable reports that no OCR provider is configured.
var ErrUnavailable = errors.New("no ocr provider configured")

// Capability extracts plain text from a set of image files.
type Capability interface {
	Available() bool
	ExtractText(ctx context.Context, imagePaths []string) (string, error)
}

// Unavailable is the capability used when OCR_API_KEY is unset. It
// never fabricates content.
type Unavailable struct{}

func (Unavailable) Available() bool { return false }

func (Unavailable) ExtractText(ctx context.Context, imagePaths []string) (string, error) {
	return "", ErrUnavailable
}
