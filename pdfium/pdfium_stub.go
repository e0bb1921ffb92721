//go:build !pdfium || !cgo

package pdfium

import (
	"image"

	"github.com/wudi/pdfraster/bitmap"
)

// Available reports whether the native library is compiled in.
func Available() bool { return false }

// Document is an open PDF document.
type Document struct{}

// Open reports ErrUnavailable; build with the "pdfium" tag to enable it.
func Open(path, password string) (*Document, error) { return nil, ErrUnavailable }

// OpenMemory reports ErrUnavailable.
func OpenMemory(data []byte, password string) (*Document, error) { return nil, ErrUnavailable }

func (d *Document) PageCount() (int, error)             { return 0, ErrUnavailable }
func (d *Document) Page(index int) (*Page, error)       { return nil, ErrUnavailable }
func (d *Document) Metadata(tag string) (string, error) { return "", ErrUnavailable }
func (d *Document) Close() error                        { return nil }

// Page is a loaded page of a Document.
type Page struct{}

func (p *Page) Index() int                                                     { return 0 }
func (p *Page) Size() (Size, error)                                            { return Size{}, ErrUnavailable }
func (p *Page) Render(opts RenderOptions) (*Bitmap, error)                     { return nil, ErrUnavailable }
func (p *Page) RenderTo(dst *Bitmap, r image.Rectangle, o RenderOptions) error { return ErrUnavailable }
func (p *Page) Close() error                                                   { return nil }

// Bitmap is a bitmap allocated by PDFium.
type Bitmap struct {
	bitmap.Bitmap
}

// NewBitmap reports ErrUnavailable.
func NewBitmap(width, height int, f bitmap.Format) (*Bitmap, error) { return nil, ErrUnavailable }

func (b *Bitmap) Close() error { return nil }
