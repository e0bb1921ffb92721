package bmp

import (
	"testing"

	"github.com/wudi/pdfraster/bitmap"
)

// patterned returns a width x height bitmap whose rows start every stride
// bytes. Pixel bytes follow a deterministic pattern, row padding is filled
// with pad and the last row carries no padding. With opaque set, the fourth
// byte of four-byte pixels is 0xff.
func patterned(t *testing.T, width, height, stride int, f bitmap.Format, pad byte, opaque bool) *bitmap.Bitmap {
	t.Helper()
	bpp, err := f.BytesPerPixel()
	if err != nil {
		t.Fatalf("bytes per pixel: %v", err)
	}
	if stride == 0 {
		stride = width * bpp
	}
	pix := make([]byte, stride*(height-1)+width*bpp)
	for i := range pix {
		pix[i] = pad
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			for c := 0; c < bpp; c++ {
				v := byte(y*31 + x*7 + c*3 + 1)
				if opaque && c == 3 {
					v = 0xff
				}
				pix[y*stride+x*bpp+c] = v
			}
		}
	}
	b, err := bitmap.Wrap(pix, width, height, stride, f)
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	return b
}

// reference builds the expected encoding of b row by row, independent of
// the stream and encoder code paths.
func reference(t *testing.T, b *bitmap.Bitmap, opts ...Option) []byte {
	t.Helper()
	l, err := NewLayout(b.Width, b.Height, b.Format)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	cfg := newConfig(opts)
	out, err := l.Header(cfg.dpiX, cfg.dpiY)
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	rowBytes := l.RowBytes()
	for y := 0; y < b.Height; y++ {
		row := make([]byte, l.RowStride)
		copy(row, b.Pix[y*b.Stride:y*b.Stride+rowBytes])
		out = append(out, row...)
	}
	return out
}

type strideCase struct {
	name   string
	width  int
	height int
	stride int
	format bitmap.Format
}

var strideCases = []strideCase{
	{"bgr tight", 5, 3, 0, bitmap.BGR},
	{"bgr aligned", 5, 3, 16, bitmap.BGR},
	{"bgr wide", 5, 3, 20, bitmap.BGR},
	{"bgr single pixel", 1, 1, 0, bitmap.BGR},
	{"bgr two columns", 2, 4, 7, bitmap.BGR},
	{"bgrx tight", 3, 2, 0, bitmap.BGRx},
	{"bgrx padded", 3, 2, 16, bitmap.BGRx},
	{"bgra tight", 3, 2, 0, bitmap.BGRA},
	{"bgra padded", 7, 5, 36, bitmap.BGRA},
}
