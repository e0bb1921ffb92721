package tesseract

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"os/exec"
	"strings"
	"testing"

	"github.com/wudi/pdfraster/bitmap"
	"github.com/wudi/pdfraster/ocr"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

func ensureTesseractAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed in PATH")
	}
}

func TestEngineRecognizesRenderedPage(t *testing.T) {
	ensureTesseractAvailable(t)

	img := image.NewRGBA(image.Rect(0, 0, 200, 80))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 50),
	}
	d.DrawString("HELLO PDF")

	small, err := bitmap.FromImage(img, bitmap.BGRx)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	page, err := bitmap.Scale(small, 800, 320)
	if err != nil {
		t.Fatalf("Scale: %v", err)
	}

	results, err := ocr.DefaultRecognizePages(context.Background(),
		[]ocr.Page{{Index: 0, Bitmap: page}},
		ocr.WithLanguages("eng"), ocr.WithDPI(300), ocr.WithTesseractPSM(7))
	if err != nil {
		t.Fatalf("DefaultRecognizePages() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !strings.Contains(strings.ToUpper(results[0].PlainText), "HELLO") {
		t.Fatalf("unexpected text %q", results[0].PlainText)
	}
	if results[0].InputID != "page-0" {
		t.Fatalf("unexpected input id %q", results[0].InputID)
	}
}
