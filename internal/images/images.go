// Package images prepares photo payloads for vision extraction calls.
// Vendor APIs cap request sizes, so anything over the configured
// ceiling (or in a format the vendors reject) is re-encoded as JPEG
// down a fixed width/quality ladder until it fits.
package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	_ "image/png"

	"golang.org/x/image/draw"

	"cooked/internal/apperr"
	"cooked/internal/logging"
)

// DefaultMaxBytes is the payload ceiling applied when the config does
// not override it.
const DefaultMaxBytes = 5 * 1024 * 1024

// Image is an encoded payload ready to send to a vision provider.
type Image struct {
	MediaType string
	Data      []byte
}

// ladder is tried top to bottom; the last rung wins even if the result
// is still over the ceiling.
var ladder = []struct {
	width   int
	quality int
}{
	{1600, 80},
	{1280, 70},
	{1024, 60},
	{800, 50},
}

// Preparer loads and, when needed, shrinks image files.
type Preparer struct {
	maxBytes int64
	logger   *slog.Logger
}

// NewPreparer builds a Preparer with the given payload ceiling. A zero
// or negative ceiling falls back to DefaultMaxBytes.
func NewPreparer(maxBytes int64, logger *slog.Logger) *Preparer {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Preparer{maxBytes: maxBytes, logger: logger}
}

// Prepare reads each file and returns provider-ready payloads in input
// order. An unreadable image is skipped with a log; if none survive,
// the whole call fails.
func (p *Preparer) Prepare(ctx context.Context, paths []string) ([]Image, error) {
	if len(paths) == 0 {
		return nil, apperr.BadInput("no images provided")
	}
	prepared := make([]Image, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := p.prepareOne(path)
		if err != nil {
			p.logger.Warn("skipping unreadable image",
				slog.String(logging.FieldSource, path),
				slog.String("error", err.Error()))
			continue
		}
		prepared = append(prepared, img)
	}
	if len(prepared) == 0 {
		return nil, apperr.BadInput("none of the provided images could be read")
	}
	return prepared, nil
}

func (p *Preparer) prepareOne(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, err
	}
	mediaType := http.DetectContentType(data)
	if int64(len(data)) <= p.maxBytes && (mediaType == "image/jpeg" || mediaType == "image/png") {
		return Image{MediaType: mediaType, Data: data}, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	var encoded []byte
	for _, rung := range ladder {
		encoded, err = encodeJPEG(src, rung.width, rung.quality)
		if err != nil {
			return Image{}, err
		}
		if int64(len(encoded)) <= p.maxBytes {
			break
		}
	}
	return Image{MediaType: "image/jpeg", Data: encoded}, nil
}

// encodeJPEG downscales src to at most maxWidth (aspect preserved,
// never upscales) and encodes it at the given JPEG quality.
func encodeJPEG(src image.Image, maxWidth, quality int) ([]byte, error) {
	bounds := src.Bounds()
	if bounds.Dx() > maxWidth {
		height := bounds.Dy() * maxWidth / bounds.Dx()
		if height < 1 {
			height = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
		src = dst
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
