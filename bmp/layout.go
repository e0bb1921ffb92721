package bmp

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/wudi/pdfraster/bitmap"
)

const (
	fileHeaderSize = 14
	infoHeaderSize = 40  // BITMAPINFOHEADER
	v4HeaderSize   = 108 // BITMAPV4HEADER

	compressionRGB       = 0 // BI_RGB
	compressionBitfields = 3 // BI_BITFIELDS

	redMask   = 0x00ff0000
	greenMask = 0x0000ff00
	blueMask  = 0x000000ff
	alphaMask = 0xff000000

	metersPerInch = 0.0254
)

// Layout describes the encoded form of a bitmap. It is fixed once the
// source dimensions and format are known.
type Layout struct {
	Width, Height int
	Format        bitmap.Format
	BytesPerPixel int
	// HeaderSize is the size of the file and info headers together. Pixel
	// data starts right after it.
	HeaderSize int64
	// RowStride is the size of one encoded row including the padding to a
	// four byte boundary.
	RowStride int64
	// Size is the total length of the encoded file.
	Size int64
}

// NewLayout computes the encoded layout of a width x height bitmap in
// format f.
func NewLayout(width, height int, f bitmap.Format) (Layout, error) {
	if f == bitmap.Gray {
		return Layout{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
	bpp, err := f.BytesPerPixel()
	if err != nil {
		return Layout{}, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	if width <= 0 || height <= 0 {
		return Layout{}, fmt.Errorf("%w: %d x %d", bitmap.ErrInvalidBounds, width, height)
	}
	if width > math.MaxInt32 || height > math.MaxInt32 {
		return Layout{}, fmt.Errorf("%w: %d x %d", ErrTooLarge, width, height)
	}

	l := Layout{
		Width:         width,
		Height:        height,
		Format:        f,
		BytesPerPixel: bpp,
		HeaderSize:    fileHeaderSize + infoHeaderSize,
		RowStride:     ((int64(bpp)*8*int64(width) + 31) / 32) * 4,
	}
	if l.extended() {
		l.HeaderSize = fileHeaderSize + v4HeaderSize
	}
	l.Size = l.HeaderSize + l.RowStride*int64(height)
	if l.Size > math.MaxUint32 {
		return Layout{}, fmt.Errorf("%w: %d x %d %v needs %d bytes", ErrTooLarge, width, height, f, l.Size)
	}
	return l, nil
}

// PixelOffset is the offset of the first pixel row in the encoded file.
func (l Layout) PixelOffset() int64 { return l.HeaderSize }

// RowBytes is the number of bytes of real pixel data in one row.
func (l Layout) RowBytes() int { return l.Width * l.BytesPerPixel }

// extended reports whether the header carries channel bit masks, which is
// needed to declare an alpha channel.
func (l Layout) extended() bool { return l.Format.HasAlpha() }

// Header returns the file and info headers for the layout. Resolutions are
// given in dots per inch. The layout must be the one NewLayout computes for
// its dimensions and format.
func (l Layout) Header(dpiX, dpiY float64) ([]byte, error) {
	want, err := NewLayout(l.Width, l.Height, l.Format)
	if err != nil {
		return nil, err
	}
	if l != want {
		return nil, fmt.Errorf("%w: %+v, want %+v", ErrInvalidLayout, l, want)
	}
	ppmX, err := pixelsPerMeter(dpiX)
	if err != nil {
		return nil, err
	}
	ppmY, err := pixelsPerMeter(dpiY)
	if err != nil {
		return nil, err
	}

	h := make([]byte, l.HeaderSize)
	le := binary.LittleEndian

	h[0], h[1] = 'B', 'M'
	le.PutUint32(h[2:], uint32(l.Size))
	// 6..9 reserved
	le.PutUint32(h[10:], uint32(l.PixelOffset()))

	info := h[fileHeaderSize:]
	le.PutUint32(info[0:], uint32(len(info)))
	le.PutUint32(info[4:], uint32(int32(l.Width)))
	// Negative height marks top-down row order.
	le.PutUint32(info[8:], uint32(-int32(l.Height)))
	le.PutUint16(info[12:], 1)
	le.PutUint16(info[14:], uint16(l.BytesPerPixel*8))
	if l.extended() {
		le.PutUint32(info[16:], compressionBitfields)
	} else {
		le.PutUint32(info[16:], compressionRGB)
	}
	// 20..23 image size, 0 is allowed for uncompressed data
	le.PutUint32(info[24:], uint32(ppmX))
	le.PutUint32(info[28:], uint32(ppmY))
	// 32..39 palette size and important colours

	if l.extended() {
		le.PutUint32(info[40:], redMask)
		le.PutUint32(info[44:], greenMask)
		le.PutUint32(info[48:], blueMask)
		le.PutUint32(info[52:], alphaMask)
		// colour space, endpoints and gamma stay zero
	}
	return h, nil
}

func pixelsPerMeter(dpi float64) (int32, error) {
	if !(dpi > 0) || math.IsInf(dpi, 0) {
		return 0, fmt.Errorf("%w: %v dpi", ErrInvalidResolution, dpi)
	}
	ppm := math.Round(dpi / metersPerInch)
	if ppm > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %v dpi", ErrInvalidResolution, dpi)
	}
	return int32(ppm), nil
}
