package ocr

import (
	"context"
	"image"
	"math"
)

// ImageFormat identifies the content type of an OCR input image.
type ImageFormat string

const (
	ImageFormatBMP  ImageFormat = "image/bmp"
	ImageFormatPNG  ImageFormat = "image/png"
	ImageFormatJPEG ImageFormat = "image/jpeg"
	ImageFormatTIFF ImageFormat = "image/tiff"
)

// Region is a rectangle in pixel coordinates, origin at the top-left corner
// of the page bitmap.
type Region struct {
	X, Y          float64
	Width, Height float64
}

// IsEmpty reports whether the region has non-positive dimensions.
func (r Region) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Rect rounds the region to whole pixels.
func (r Region) Rect() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.X+r.Width)),
		int(math.Round(r.Y+r.Height)),
	)
}

// Input is one encoded page image submitted for recognition.
type Input struct {
	// ID is echoed back in Result.InputID.
	ID     string
	Image  []byte
	Format ImageFormat
	// PageIndex is the zero-based index of the rendered page.
	PageIndex int
	// DPI is the resolution the page was rendered at; zero means unknown.
	// Tesseract uses it for its size heuristics.
	DPI int
	// Languages are tesseract language codes such as "eng" or "deu".
	Languages []string
	// Region restricts recognition to part of the image. Nil means the whole
	// page.
	Region *Region
	// Metadata passes engine variables through untouched (e.g.
	// "tessedit_pageseg_mode").
	Metadata map[string]string
}

type TextWord struct {
	Text       string
	Bounds     Region
	Confidence float64
}

type TextLine struct {
	Text       string
	Bounds     Region
	Words      []TextWord
	Confidence float64
}

type TextBlock struct {
	Text       string
	Bounds     Region
	Lines      []TextLine
	Confidence float64
}

// Result is the recognition output for one input.
type Result struct {
	InputID   string
	PageIndex int
	PlainText string
	Blocks    []TextBlock
	// Language is the first requested language, if any.
	Language string
}

// Engine recognizes one image per call.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}

// BatchEngine recognizes many images per call, amortizing setup.
type BatchEngine interface {
	Engine
	RecognizeBatch(ctx context.Context, inputs []Input) ([]Result, error)
}
