package bitmap

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Source describes a rectangular pixel buffer owned by someone else, for
// example a bitmap the native renderer has just drawn a page into.
//
// Row y of the image starts at pix[y*stride]. The last row does not need to
// carry its trailing padding.
type Source interface {
	PixelFormat() Format
	Size() (width, height int)
	Buffer() (pix []byte, stride int)
}

// Bitmap is an in-memory pixel buffer. It implements Source and image.Image.
type Bitmap struct {
	// Pix holds the pixels. The pixel at (x, y) starts at
	// Pix[y*Stride + x*bytesPerPixel].
	Pix []byte
	// Stride is the number of bytes between vertically adjacent pixels.
	Stride int
	Width  int
	Height int
	Format Format
}

// New allocates a zeroed bitmap with tightly packed rows.
func New(width, height int, f Format) (*Bitmap, error) {
	bpp, err := f.BytesPerPixel()
	if err != nil {
		return nil, err
	}
	if err := DefaultLimits().Check(width, height); err != nil {
		return nil, err
	}
	return &Bitmap{
		Pix:    make([]byte, width*bpp*height),
		Stride: width * bpp,
		Width:  width,
		Height: height,
		Format: f,
	}, nil
}

// Wrap creates a bitmap over caller-owned memory. The caller keeps pix alive
// and unchanged for as long as the bitmap (or anything encoding it) is used.
func Wrap(pix []byte, width, height, stride int, f Format) (*Bitmap, error) {
	b := &Bitmap{Pix: pix, Stride: stride, Width: width, Height: height, Format: f}
	if err := Check(b); err != nil {
		return nil, err
	}
	return b, nil
}

// View returns a Bitmap sharing the memory of src.
func View(src Source) *Bitmap {
	if b, ok := src.(*Bitmap); ok {
		return b
	}
	w, h := src.Size()
	pix, stride := src.Buffer()
	return &Bitmap{Pix: pix, Stride: stride, Width: w, Height: h, Format: src.PixelFormat()}
}

// Check verifies that src describes a usable buffer: a known format,
// positive dimensions, a stride that holds a full row and enough bytes for
// every row.
func Check(src Source) error {
	bpp, err := src.PixelFormat().BytesPerPixel()
	if err != nil {
		return err
	}
	w, h := src.Size()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %d x %d", ErrInvalidBounds, w, h)
	}
	pix, stride := src.Buffer()
	rowBytes := int64(w) * int64(bpp)
	if int64(stride) < rowBytes {
		return fmt.Errorf("%w: stride %d shorter than row (%d bytes)", ErrInvalidBounds, stride, rowBytes)
	}
	need := int64(stride)*int64(h-1) + rowBytes
	if int64(len(pix)) < need {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrShortBuffer, len(pix), need)
	}
	return nil
}

func (b *Bitmap) PixelFormat() Format     { return b.Format }
func (b *Bitmap) Size() (int, int)        { return b.Width, b.Height }
func (b *Bitmap) Buffer() ([]byte, int)   { return b.Pix, b.Stride }
func (b *Bitmap) Bounds() image.Rectangle { return image.Rect(0, 0, b.Width, b.Height) }

func (b *Bitmap) bytesPerPixel() int {
	n, _ := b.Format.BytesPerPixel()
	return n
}

func (b *Bitmap) pixOffset(x, y int) int {
	return y*b.Stride + x*b.bytesPerPixel()
}

func (b *Bitmap) inBounds(x, y int) bool {
	return image.Pt(x, y).In(b.Bounds())
}

// row returns the pixel bytes of row y without padding.
func (b *Bitmap) row(y int) []byte {
	o := y * b.Stride
	return b.Pix[o : o+b.Width*b.bytesPerPixel()]
}

// ColorModel returns the model matching the pixel format.
func (b *Bitmap) ColorModel() color.Model {
	switch b.Format {
	case Gray:
		return color.GrayModel
	case BGRA:
		return color.NRGBAModel
	}
	return color.RGBAModel
}

// At returns the colour of the pixel at (x, y).
func (b *Bitmap) At(x, y int) color.Color {
	if !b.inBounds(x, y) {
		return color.RGBA{}
	}
	i := b.pixOffset(x, y)
	switch b.Format {
	case Gray:
		return color.Gray{Y: b.Pix[i]}
	case BGRA:
		s := b.Pix[i : i+4 : i+4]
		return color.NRGBA{R: s[2], G: s[1], B: s[0], A: s[3]}
	}
	s := b.Pix[i : i+3 : i+3]
	return color.RGBA{R: s[2], G: s[1], B: s[0], A: 0xff}
}

// Set stores c at (x, y), converting it to the bitmap's format.
func (b *Bitmap) Set(x, y int, c color.Color) {
	if !b.inBounds(x, y) {
		return
	}
	i := b.pixOffset(x, y)
	b.put(b.Pix[i:i+b.bytesPerPixel()], c)
}

func (b *Bitmap) put(dst []byte, c color.Color) {
	if b.Format == Gray {
		dst[0] = color.GrayModel.Convert(c).(color.Gray).Y
		return
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	dst[0], dst[1], dst[2] = n.B, n.G, n.R
	switch b.Format {
	case BGRA:
		dst[3] = n.A
	case BGRx:
		dst[3] = 0xff
	}
}

// FillRect replaces the pixels of r (clipped to the bitmap) with c. Pixels
// are overwritten, not blended.
func (b *Bitmap) FillRect(r image.Rectangle, c color.Color) {
	r = r.Intersect(b.Bounds())
	if r.Empty() {
		return
	}
	bpp := b.bytesPerPixel()
	px := make([]byte, bpp)
	b.put(px, c)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := b.row(y)[r.Min.X*bpp : r.Max.X*bpp]
		for x := 0; x < len(row); x += bpp {
			copy(row[x:x+bpp], px)
		}
	}
}

// Fill replaces every pixel with c.
func (b *Bitmap) Fill(c color.Color) { b.FillRect(b.Bounds(), c) }

// FromImage converts img into a new bitmap of format f. Pixel (0, 0) of the
// result is img.Bounds().Min.
func FromImage(img image.Image, f Format) (*Bitmap, error) {
	r := img.Bounds()
	dst, err := New(r.Dx(), r.Dy(), f)
	if err != nil {
		return nil, err
	}
	if f == Gray {
		g := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
		draw.Copy(g, image.Point{}, img, r, draw.Src, nil)
		for y := 0; y < dst.Height; y++ {
			copy(dst.row(y), g.Pix[y*g.Stride:y*g.Stride+dst.Width])
		}
		return dst, nil
	}
	n := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Copy(n, image.Point{}, img, r, draw.Src, nil)
	dst.fromNRGBA(n)
	return dst, nil
}

func (b *Bitmap) fromNRGBA(n *image.NRGBA) {
	bpp := b.bytesPerPixel()
	for y := 0; y < b.Height; y++ {
		s := n.Pix[y*n.Stride : y*n.Stride+b.Width*4]
		d := b.row(y)
		for x := 0; x < b.Width; x++ {
			sp, dp := s[x*4:x*4+4], d[x*bpp:x*bpp+bpp]
			dp[0], dp[1], dp[2] = sp[2], sp[1], sp[0]
			switch b.Format {
			case BGRA:
				dp[3] = sp[3]
			case BGRx:
				dp[3] = 0xff
			}
		}
	}
}

// Scale resamples src to width x height using Catmull-Rom interpolation and
// returns a new bitmap in the same format.
func Scale(src Source, width, height int) (*Bitmap, error) {
	if err := Check(src); err != nil {
		return nil, err
	}
	if err := DefaultLimits().Check(width, height); err != nil {
		return nil, err
	}
	v := View(src)
	n := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(n, n.Bounds(), v, v.Bounds(), draw.Src, nil)
	return FromImage(n, v.Format)
}
