//go:build pdfium && cgo

package pdfium

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"testing"

	"github.com/wudi/pdfraster/bitmap"
	"github.com/wudi/pdfraster/bmp"
)

func TestNativeBitmapEncodes(t *testing.T) {
	b, err := NewBitmap(5, 3, bitmap.BGR)
	if err != nil {
		t.Fatalf("NewBitmap: %v", err)
	}
	defer b.Close()
	b.Fill(color.White)
	s, err := bmp.NewStream(b)
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	data, err := io.ReadAll(s)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if int64(len(data)) != s.Len() {
		t.Fatalf("read %d bytes, want %d", len(data), s.Len())
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.pdf"), "")
	var pe *Error
	if !errors.As(err, &pe) || pe.Code != ErrorFile {
		t.Fatalf("Open missing file = %v, want ErrorFile", err)
	}
}

// onePagePDF builds a single-page document with the given MediaBox size and
// title, with a correct cross-reference table.
func onePagePDF(width, height int, title string) []byte {
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] >>", width, height),
		fmt.Sprintf("<< /Title (%s) /Producer (pdfraster) >>", title),
	}
	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R /Info 4 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return b.Bytes()
}

func TestOpenMemoryMetadata(t *testing.T) {
	data := onePagePDF(144, 72, "Quarterly report")
	doc, err := OpenMemory(data, "")
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	// The document keeps its own copy.
	clear(data)
	defer doc.Close()

	n, err := doc.PageCount()
	if err != nil || n != 1 {
		t.Fatalf("PageCount = %d, %v", n, err)
	}
	title, err := doc.Metadata(MetaTitle)
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if title != "Quarterly report" {
		t.Fatalf("title = %q", title)
	}
	if author, err := doc.Metadata(MetaAuthor); err != nil || author != "" {
		t.Fatalf("missing author = %q, %v", author, err)
	}

	page, err := doc.Page(0)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	defer page.Close()
	b, err := page.Render(RenderOptions{DPI: 72, VerticalDPI: 144, Format: bitmap.BGR})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	defer b.Close()
	if b.Width != 144 || b.Height != 144 {
		t.Fatalf("rendered %dx%d, want 144x144", b.Width, b.Height)
	}

	if err := doc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := doc.Metadata(MetaTitle); !errors.Is(err, ErrClosed) {
		t.Fatalf("Metadata after Close = %v, want ErrClosed", err)
	}
}

func TestOpenMemoryGarbage(t *testing.T) {
	_, err := OpenMemory([]byte("not a pdf"), "")
	var pe *Error
	if !errors.As(err, &pe) || pe.Code != ErrorFormat {
		t.Fatalf("OpenMemory garbage = %v, want ErrorFormat", err)
	}
	if _, err := OpenMemory(nil, ""); !errors.As(err, &pe) {
		t.Fatalf("OpenMemory(nil) = %v, want *Error", err)
	}
}

func TestRenderHonoursRaisedLimits(t *testing.T) {
	doc, err := OpenMemory(onePagePDF(600, 1, "wide"), "")
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer doc.Close()
	page, err := doc.Page(0)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	defer page.Close()

	// 600pt at 4800 dpi is 40000 pixels, wider than the default limit.
	opts := RenderOptions{DPI: 4800, Format: bitmap.BGR, Limits: bitmap.Limits{MaxDimension: 50000}}
	b, err := page.Render(opts)
	if err != nil {
		t.Fatalf("Render with raised limits: %v", err)
	}
	defer b.Close()
	if b.Width != 40000 {
		t.Fatalf("width = %d, want 40000", b.Width)
	}
	if _, err := page.Render(RenderOptions{DPI: 4800, Format: bitmap.BGR}); !errors.Is(err, bitmap.ErrTooLarge) {
		t.Fatalf("default limits: expected ErrTooLarge, got %v", err)
	}
}
