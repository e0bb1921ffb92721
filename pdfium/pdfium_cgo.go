//go:build pdfium && cgo

package pdfium

/*
#cgo LDFLAGS: -lpdfium
#include <stdlib.h>
#include <fpdfview.h>
#include <fpdf_doc.h>
*/
import "C"

import (
	"fmt"
	"image"
	"math"
	"sync"
	"unsafe"

	"github.com/wudi/pdfraster/bitmap"
)

var (
	mu       sync.Mutex
	initOnce sync.Once
)

func ensureInit() {
	initOnce.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		C.FPDF_InitLibrary()
	})
}

// Available reports whether the native library is compiled in.
func Available() bool { return true }

// lastError must be called with mu held, right after the failing call.
func lastError(op string) error {
	return &Error{Op: op, Code: ErrorCode(C.FPDF_GetLastError())}
}

// Document is an open PDF document.
type Document struct {
	handle C.FPDF_DOCUMENT
	// mem holds the C copy of an in-memory document; PDFium reads from it
	// until the document is closed.
	mem unsafe.Pointer
}

// Open loads the document at path. password may be empty.
func Open(path, password string) (*Document, error) {
	ensureInit()
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	var cpass *C.char
	if password != "" {
		cpass = C.CString(password)
		defer C.free(unsafe.Pointer(cpass))
	}

	mu.Lock()
	defer mu.Unlock()
	h := C.FPDF_LoadDocument(C.FPDF_STRING(cpath), C.FPDF_BYTESTRING(cpass))
	if h == nil {
		return nil, lastError("load " + path)
	}
	return &Document{handle: h}, nil
}

// OpenMemory loads a document from data. The bytes are copied, so data may
// be reused once OpenMemory returns.
func OpenMemory(data []byte, password string) (*Document, error) {
	if len(data) == 0 || len(data) > math.MaxInt32 {
		return nil, &Error{Op: "load memory document", Code: ErrorFormat}
	}
	ensureInit()
	var cpass *C.char
	if password != "" {
		cpass = C.CString(password)
		defer C.free(unsafe.Pointer(cpass))
	}
	mem := C.CBytes(data)

	mu.Lock()
	defer mu.Unlock()
	h := C.FPDF_LoadMemDocument(mem, C.int(len(data)), C.FPDF_BYTESTRING(cpass))
	if h == nil {
		err := lastError("load memory document")
		C.free(mem)
		return nil, err
	}
	return &Document{handle: h, mem: mem}, nil
}

// Metadata returns the document information entry for tag, such as
// MetaTitle. A missing entry yields "".
func (d *Document) Metadata(tag string) (string, error) {
	if d.handle == nil {
		return "", ErrClosed
	}
	ctag := C.CString(tag)
	defer C.free(unsafe.Pointer(ctag))

	mu.Lock()
	defer mu.Unlock()
	n := C.FPDF_GetMetaText(d.handle, C.FPDF_BYTESTRING(ctag), nil, 0)
	if n <= 2 {
		return "", nil
	}
	buf := make([]byte, int(n))
	C.FPDF_GetMetaText(d.handle, C.FPDF_BYTESTRING(ctag), unsafe.Pointer(&buf[0]), n)
	return decodeMetaText(buf)
}

// PageCount returns the number of pages.
func (d *Document) PageCount() (int, error) {
	if d.handle == nil {
		return 0, ErrClosed
	}
	mu.Lock()
	defer mu.Unlock()
	return int(C.FPDF_GetPageCount(d.handle)), nil
}

// Page loads the page with the given zero-based index.
func (d *Document) Page(index int) (*Page, error) {
	if d.handle == nil {
		return nil, ErrClosed
	}
	mu.Lock()
	defer mu.Unlock()
	h := C.FPDF_LoadPage(d.handle, C.int(index))
	if h == nil {
		return nil, lastError(fmt.Sprintf("load page %d", index))
	}
	return &Page{handle: h, index: index}, nil
}

// Close releases the document. Pages must be closed first.
func (d *Document) Close() error {
	if d.handle == nil {
		return nil
	}
	mu.Lock()
	defer mu.Unlock()
	C.FPDF_CloseDocument(d.handle)
	d.handle = nil
	if d.mem != nil {
		C.free(d.mem)
		d.mem = nil
	}
	return nil
}

// Page is a loaded page of a Document.
type Page struct {
	handle C.FPDF_PAGE
	index  int
}

// Index returns the zero-based page index.
func (p *Page) Index() int { return p.index }

// Size returns the page size in points, excluding non-displayable area.
func (p *Page) Size() (Size, error) {
	if p.handle == nil {
		return Size{}, ErrClosed
	}
	mu.Lock()
	defer mu.Unlock()
	return Size{
		Width:  float64(C.FPDF_GetPageWidth(p.handle)),
		Height: float64(C.FPDF_GetPageHeight(p.handle)),
	}, nil
}

// Render renders the whole page into a new bitmap sized from the page size
// and opts.DPI. The caller must Close the bitmap.
func (p *Page) Render(opts RenderOptions) (*Bitmap, error) {
	size, err := p.Size()
	if err != nil {
		return nil, err
	}
	w, h, err := opts.pixelSize(size)
	if err != nil {
		return nil, err
	}
	b, err := newBitmap(w, h, opts.format(), opts.limits())
	if err != nil {
		return nil, err
	}
	if err := p.RenderTo(b, b.Bounds(), opts); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

// RenderTo fills r of dst with opts.Background and renders the page into it.
func (p *Page) RenderTo(dst *Bitmap, r image.Rectangle, opts RenderOptions) error {
	if p.handle == nil || dst.handle == nil {
		return ErrClosed
	}
	if opts.Orientation < Normal || opts.Orientation > Rotate270 {
		return fmt.Errorf("pdfium: invalid orientation %d", opts.Orientation)
	}
	mu.Lock()
	defer mu.Unlock()
	C.FPDFBitmap_FillRect(dst.handle, C.int(r.Min.X), C.int(r.Min.Y), C.int(r.Dx()), C.int(r.Dy()), C.FPDF_DWORD(opts.background()))
	C.FPDF_RenderPageBitmap(dst.handle, p.handle, C.int(r.Min.X), C.int(r.Min.Y), C.int(r.Dx()), C.int(r.Dy()), C.int(opts.Orientation), C.int(opts.Flags))
	return nil
}

// Close releases the page.
func (p *Page) Close() error {
	if p.handle == nil {
		return nil
	}
	mu.Lock()
	defer mu.Unlock()
	C.FPDF_ClosePage(p.handle)
	p.handle = nil
	return nil
}

// Bitmap is a bitmap allocated by PDFium. Its Pix slice points into native
// memory and becomes invalid after Close.
type Bitmap struct {
	bitmap.Bitmap
	handle C.FPDF_BITMAP
}

// NewBitmap allocates a native bitmap of the given size and format, within
// bitmap.DefaultLimits.
func NewBitmap(width, height int, f bitmap.Format) (*Bitmap, error) {
	return newBitmap(width, height, f, bitmap.DefaultLimits())
}

func newBitmap(width, height int, f bitmap.Format, limits bitmap.Limits) (*Bitmap, error) {
	if err := checkBitmap(width, height, f, limits); err != nil {
		return nil, err
	}
	mu.Lock()
	defer mu.Unlock()
	h := C.FPDFBitmap_CreateEx(C.int(width), C.int(height), C.int(f), nil, 0)
	if h == nil {
		return nil, lastError("create bitmap")
	}
	stride := int(C.FPDFBitmap_GetStride(h))
	buf := C.FPDFBitmap_GetBuffer(h)
	return &Bitmap{
		Bitmap: bitmap.Bitmap{
			Pix:    unsafe.Slice((*byte)(buf), stride*height),
			Stride: stride,
			Width:  width,
			Height: height,
			Format: f,
		},
		handle: h,
	}, nil
}

// Close frees the native bitmap.
func (b *Bitmap) Close() error {
	if b.handle == nil {
		return nil
	}
	mu.Lock()
	defer mu.Unlock()
	C.FPDFBitmap_Destroy(b.handle)
	b.handle = nil
	b.Pix = nil
	return nil
}
