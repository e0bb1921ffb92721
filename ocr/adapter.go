package ocr

import (
	"errors"
	"fmt"
	"io"

	"github.com/wudi/pdfraster/bitmap"
	"github.com/wudi/pdfraster/bmp"
)

// ErrNoBitmap is returned for a Page without pixels.
var ErrNoBitmap = errors.New("ocr: page has no bitmap")

// Page is a rendered page submitted for recognition.
type Page struct {
	Index  int
	Bitmap bitmap.Source
}

// InputOption mutates an OCR input generated from a rendered page.
type InputOption func(*Input)

// WithLanguages sets language hints on the OCR input.
func WithLanguages(langs ...string) InputOption {
	return func(in *Input) { in.Languages = append([]string(nil), langs...) }
}

// WithRegion sets the recognition region on the OCR input.
func WithRegion(region Region) InputOption {
	return func(in *Input) {
		if region.IsEmpty() {
			in.Region = nil
			return
		}
		in.Region = &region
	}
}

// WithDPI sets the resolution the page was rendered at. It is recorded in
// the encoded image as well.
func WithDPI(dpi int) InputOption {
	return func(in *Input) { in.DPI = dpi }
}

// WithMetadata sets provider-specific metadata for the input.
func WithMetadata(metadata map[string]string) InputOption {
	return func(in *Input) {
		if len(metadata) == 0 {
			in.Metadata = nil
			return
		}
		in.Metadata = make(map[string]string, len(metadata))
		for k, v := range metadata {
			in.Metadata[k] = v
		}
	}
}

// InputFromPage encodes a rendered page as BMP and wraps it in an OCR
// input. Gray bitmaps are expanded to BGR first since BMP output does not
// support them. The generated ID is stable for the page index.
func InputFromPage(p Page, opts ...InputOption) (Input, error) {
	if p.Bitmap == nil {
		return Input{}, fmt.Errorf("page %d: %w", p.Index, ErrNoBitmap)
	}
	in := Input{
		ID:        fmt.Sprintf("page-%d", p.Index),
		Format:    ImageFormatBMP,
		PageIndex: p.Index,
	}
	for _, opt := range opts {
		opt(&in)
	}

	src := p.Bitmap
	if src.PixelFormat() == bitmap.Gray {
		rgb, err := bitmap.FromImage(bitmap.View(src), bitmap.BGR)
		if err != nil {
			return Input{}, fmt.Errorf("expand gray page %d: %w", p.Index, err)
		}
		src = rgb
	}
	var bopts []bmp.Option
	if in.DPI > 0 {
		bopts = append(bopts, bmp.WithDPI(float64(in.DPI), float64(in.DPI)))
	}
	s, err := bmp.NewStream(src, bopts...)
	if err != nil {
		return Input{}, fmt.Errorf("encode page %d: %w", p.Index, err)
	}
	defer s.Close()
	in.Image = make([]byte, s.Len())
	if _, err := io.ReadFull(s, in.Image); err != nil {
		return Input{}, fmt.Errorf("encode page %d: %w", p.Index, err)
	}
	return in, nil
}
