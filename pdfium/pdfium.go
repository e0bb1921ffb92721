// Package pdfium binds the PDFium rendering library. Pages are rendered into
// native bitmaps that implement bitmap.Source and can be handed straight to
// the bmp encoder.
//
// The cgo binding is compiled with the "pdfium" build tag. Without it every
// entry point reports ErrUnavailable, so callers check the result of Open
// (or Available) once instead of consulting global state.
//
// PDFium is not thread-safe; all native calls are serialized by the package.
// Documents, pages and bitmaps must be released with Close.
package pdfium

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/wudi/pdfraster/bitmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	ErrUnavailable = errors.New("pdfium: native library not available")
	ErrClosed      = errors.New("pdfium: use of closed handle")
)

// ErrorCode is a value returned by FPDF_GetLastError.
type ErrorCode int

const (
	ErrorSuccess  ErrorCode = 0
	ErrorUnknown  ErrorCode = 1
	ErrorFile     ErrorCode = 2
	ErrorFormat   ErrorCode = 3
	ErrorPassword ErrorCode = 4
	ErrorSecurity ErrorCode = 5
	ErrorPage     ErrorCode = 6
)

func (c ErrorCode) String() string {
	switch c {
	case ErrorSuccess:
		return "success"
	case ErrorUnknown:
		return "unknown error"
	case ErrorFile:
		return "file not found or could not be opened"
	case ErrorFormat:
		return "file not in PDF format or corrupted"
	case ErrorPassword:
		return "password required or incorrect password"
	case ErrorSecurity:
		return "unsupported security scheme"
	case ErrorPage:
		return "page not found or content error"
	}
	return fmt.Sprintf("error %d", int(c))
}

// Error reports a failed native call.
type Error struct {
	Op   string
	Code ErrorCode
}

func (e *Error) Error() string {
	return fmt.Sprintf("pdfium: %s: %v", e.Op, e.Code)
}

// Orientation rotates the page clockwise while rendering.
type Orientation int

const (
	Normal Orientation = iota
	Rotate90
	Rotate180
	Rotate270
)

// Flags control rendering. Values match the FPDF_* render flags.
type Flags int

const (
	Annotations      Flags = 0x01
	LCDText          Flags = 0x02
	NoNativeText     Flags = 0x04
	Grayscale        Flags = 0x08
	ReverseByteOrder Flags = 0x10
	DebugInfo        Flags = 0x80
	NoCatch          Flags = 0x100
	LimitImageCache  Flags = 0x200
	ForceHalftone    Flags = 0x400
	Printing         Flags = 0x800
	NoSmoothText     Flags = 0x1000
	NoSmoothImage    Flags = 0x2000
	NoSmoothPath     Flags = 0x4000
)

// Size is a page size in PDF points (1/72 inch).
type Size struct {
	Width, Height float64
}

// RenderOptions configure Page.Render. The zero value renders at 72 dpi
// into a BGRA bitmap on a white background.
type RenderOptions struct {
	DPI float64
	// VerticalDPI is the vertical resolution if it differs from DPI. Zero
	// means DPI.
	VerticalDPI float64
	Format      bitmap.Format
	Orientation Orientation
	Flags       Flags
	// Background fills the bitmap before rendering. Nil means white.
	Background color.Color
	// Limits bound the rendered bitmap. The zero value uses
	// bitmap.DefaultLimits.
	Limits bitmap.Limits
}

func (o RenderOptions) dpi() float64 {
	if o.DPI > 0 {
		return o.DPI
	}
	return 72
}

func (o RenderOptions) dpiY() float64 {
	if o.VerticalDPI > 0 {
		return o.VerticalDPI
	}
	return o.dpi()
}

func (o RenderOptions) format() bitmap.Format {
	if o.Format == 0 {
		return bitmap.BGRA
	}
	return o.Format
}

func (o RenderOptions) limits() bitmap.Limits {
	if o.Limits == (bitmap.Limits{}) {
		return bitmap.DefaultLimits()
	}
	return o.Limits
}

// background returns the fill colour as 0xAARRGGBB.
func (o RenderOptions) background() uint32 {
	c := o.Background
	if c == nil {
		c = color.White
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return uint32(n.A)<<24 | uint32(n.R)<<16 | uint32(n.G)<<8 | uint32(n.B)
}

// pixelSize returns the bitmap size for a page of the given size in points.
// Quarter turns swap the page axes before the horizontal and vertical
// resolutions are applied.
func (o RenderOptions) pixelSize(page Size) (int, int, error) {
	if o.Orientation < Normal || o.Orientation > Rotate270 {
		return 0, 0, fmt.Errorf("pdfium: invalid orientation %d", o.Orientation)
	}
	pw, ph := page.Width, page.Height
	if o.Orientation == Rotate90 || o.Orientation == Rotate270 {
		pw, ph = ph, pw
	}
	w := max(1, int(math.Round(pw*o.dpi()/72)))
	h := max(1, int(math.Round(ph*o.dpiY()/72)))
	if err := checkBitmap(w, h, o.format(), o.limits()); err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

// checkBitmap validates a bitmap allocation against limits.
func checkBitmap(width, height int, f bitmap.Format, limits bitmap.Limits) error {
	if _, err := f.BytesPerPixel(); err != nil {
		return err
	}
	return limits.Check(width, height)
}

// Standard document information keys for Document.Metadata.
const (
	MetaTitle        = "Title"
	MetaAuthor       = "Author"
	MetaSubject      = "Subject"
	MetaKeywords     = "Keywords"
	MetaCreator      = "Creator"
	MetaProducer     = "Producer"
	MetaCreationDate = "CreationDate"
	MetaModDate      = "ModDate"
)

// decodeMetaText converts the NUL-terminated UTF-16LE text FPDF_GetMetaText
// writes into a Go string.
func decodeMetaText(buf []byte) (string, error) {
	if len(buf)%2 != 0 {
		return "", fmt.Errorf("pdfium: odd-length UTF-16 metadata (%d bytes)", len(buf))
	}
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(buf)
	if err != nil {
		return "", fmt.Errorf("pdfium: decode metadata: %w", err)
	}
	return strings.TrimRight(string(out), "\x00"), nil
}
