package bmp

import (
	"bytes"
	"errors"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/wudi/pdfraster/bitmap"
	xbmp "golang.org/x/image/bmp"
)

func TestEncodeMatchesStream(t *testing.T) {
	for _, tc := range strideCases {
		t.Run(tc.name, func(t *testing.T) {
			src := patterned(t, tc.width, tc.height, tc.stride, tc.format, 0xee, false)
			var buf bytes.Buffer
			if err := Encode(&buf, src, WithDPI(300, 300)); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			s, err := NewStream(src, WithDPI(300, 300))
			if err != nil {
				t.Fatalf("NewStream: %v", err)
			}
			streamed, err := io.ReadAll(s)
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if diff := cmp.Diff(streamed, buf.Bytes()); diff != "" {
				t.Fatalf("Encode and NewStream disagree (-stream +encode):\n%s", diff)
			}
		})
	}
}

// The output must decode with an independent BMP reader to the source
// pixels, top row first.
func TestEncodeRoundTrip(t *testing.T) {
	for _, tc := range strideCases {
		t.Run(tc.name, func(t *testing.T) {
			src := patterned(t, tc.width, tc.height, tc.stride, tc.format, 0xee, true)
			var buf bytes.Buffer
			if err := Encode(&buf, src); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			img, err := xbmp.Decode(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got := img.Bounds(); got.Dx() != tc.width || got.Dy() != tc.height {
				t.Fatalf("decoded bounds %v, want %dx%d", got, tc.width, tc.height)
			}
			bpp, _ := tc.format.BytesPerPixel()
			for y := 0; y < tc.height; y++ {
				for x := 0; x < tc.width; x++ {
					p := src.Pix[y*src.Stride+x*bpp:]
					want := color.NRGBA{R: p[2], G: p[1], B: p[0], A: 0xff}
					got := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
					if got != want {
						t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestStreamDecodes(t *testing.T) {
	src := patterned(t, 7, 5, 36, bitmap.BGRA, 0xee, true)
	s, err := NewStream(src)
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	cfg, err := xbmp.DecodeConfig(s)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != 7 || cfg.Height != 5 {
		t.Fatalf("config %dx%d, want 7x5", cfg.Width, cfg.Height)
	}
}

func TestEncodeRejectsGray(t *testing.T) {
	gray, err := bitmap.New(2, 2, bitmap.Gray)
	if err != nil {
		t.Fatalf("new bitmap: %v", err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, gray); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("rejected encode wrote %d bytes", buf.Len())
	}
}

var errSinkFull = errors.New("sink full")

type limitedWriter struct {
	n int
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if len(p) > w.n {
		n := w.n
		w.n = 0
		return n, errSinkFull
	}
	w.n -= len(p)
	return len(p), nil
}

func TestEncodeWriteError(t *testing.T) {
	src := patterned(t, 3, 4, 0, bitmap.BGR, 0, false)
	if err := Encode(&limitedWriter{n: 10}, src); !errors.Is(err, errSinkFull) {
		t.Fatalf("header write: expected errSinkFull, got %v", err)
	}
	if err := Encode(&limitedWriter{n: 54 + 12 + 5}, src); !errors.Is(err, errSinkFull) {
		t.Fatalf("row write: expected errSinkFull, got %v", err)
	}
}

func TestEncodeFile(t *testing.T) {
	dir := t.TempDir()
	src := patterned(t, 5, 3, 20, bitmap.BGR, 0xee, false)
	path := filepath.Join(dir, "page.bmp")
	if err := EncodeFile(path, src, WithDPI(96, 96)); err != nil {
		t.Fatalf("EncodeFile: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if diff := cmp.Diff(reference(t, src, WithDPI(96, 96)), got); diff != "" {
		t.Fatalf("file contents mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeFileFailures(t *testing.T) {
	dir := t.TempDir()
	gray, err := bitmap.New(2, 2, bitmap.Gray)
	if err != nil {
		t.Fatalf("new bitmap: %v", err)
	}
	path := filepath.Join(dir, "gray.bmp")
	if err := EncodeFile(path, gray); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("rejected encode left a file behind: %v", err)
	}

	src := patterned(t, 1, 1, 0, bitmap.BGRA, 0, true)
	if err := EncodeFile(filepath.Join(dir, "missing", "page.bmp"), src); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
