package bmp

import (
	"fmt"
	"io"

	"github.com/wudi/pdfraster/bitmap"
)

// Stream is a read-only, seekable view of a bitmap encoded as BMP. Bytes are
// computed on demand from the source pixels; the encoded file is never held
// in memory.
//
// A Stream is not safe for concurrent use. ReadAt does not move the read
// position.
type Stream struct {
	layout Layout
	header []byte
	pix    []byte
	stride int
	pos    int64
	closed bool
}

var (
	_ io.ReadSeekCloser = (*Stream)(nil)
	_ io.ReaderAt       = (*Stream)(nil)
)

// NewStream returns a stream over the BMP encoding of src. Unsupported
// formats and malformed sources are reported here, not on the first Read.
func NewStream(src bitmap.Source, opts ...Option) (*Stream, error) {
	l, header, err := prepare(src, newConfig(opts))
	if err != nil {
		return nil, err
	}
	pix, stride := src.Buffer()
	return &Stream{layout: l, header: header, pix: pix, stride: stride}, nil
}

func prepare(src bitmap.Source, cfg config) (Layout, []byte, error) {
	w, h := src.Size()
	l, err := NewLayout(w, h, src.PixelFormat())
	if err != nil {
		return Layout{}, nil, err
	}
	if err := bitmap.Check(src); err != nil {
		return Layout{}, nil, err
	}
	header, err := l.Header(cfg.dpiX, cfg.dpiY)
	if err != nil {
		return Layout{}, nil, err
	}
	return l, header, nil
}

// Layout returns the encoded layout.
func (s *Stream) Layout() Layout { return s.layout }

// Len returns the total length of the encoded file.
func (s *Stream) Len() int64 { return s.layout.Size }

// Position returns the current read position.
func (s *Stream) Position() int64 { return s.pos }

// SetPosition moves the read position to pos, which must lie in
// [0, Len()].
func (s *Stream) SetPosition(pos int64) error {
	if s.closed {
		return ErrClosed
	}
	if pos < 0 || pos > s.layout.Size {
		return fmt.Errorf("%w: position %d, length %d", ErrOutOfRange, pos, s.layout.Size)
	}
	s.pos = pos
	return nil
}

// Read reads up to len(p) bytes from the current position. It returns
// 0, io.EOF once the position has reached Len().
func (s *Stream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	if s.pos >= s.layout.Size {
		return 0, io.EOF
	}
	n := s.fill(p, s.pos)
	s.pos += int64(n)
	return n, nil
}

// ReadAt reads len(p) bytes starting at off without moving the read
// position.
func (s *Stream) ReadAt(p []byte, off int64) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, fmt.Errorf("%w: offset %d", ErrOutOfRange, off)
	}
	if off >= s.layout.Size {
		return 0, io.EOF
	}
	n := s.fill(p, off)
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// fill copies min(len(p), Size-off) encoded bytes starting at off into p.
func (s *Stream) fill(p []byte, off int64) int {
	n := int(min(int64(len(p)), s.layout.Size-off))
	p = p[:n]
	if off < s.layout.HeaderSize {
		c := copy(p, s.header[off:])
		p = p[c:]
		off += int64(c)
	}
	if len(p) > 0 {
		s.layout.readPixels(p, s.pix, s.stride, off-s.layout.HeaderSize)
	}
	return n
}

// Seek sets the read position. The resulting position must lie in
// [0, Len()]; otherwise ErrOutOfRange is returned and the position is not
// changed.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = s.pos + offset
	case io.SeekEnd:
		abs = s.layout.Size + offset
	default:
		return s.pos, fmt.Errorf("%w: %d", ErrInvalidWhence, whence)
	}
	if err := s.SetPosition(abs); err != nil {
		return s.pos, err
	}
	return abs, nil
}

// Write always fails: the stream is read-only.
func (s *Stream) Write(p []byte) (int, error) {
	return 0, ErrUnsupportedOperation
}

// Truncate always fails: the length of the stream is fixed.
func (s *Stream) Truncate(size int64) error {
	return ErrUnsupportedOperation
}

// Close releases the stream's reference to the source pixels. The source
// itself is not touched. Closing twice is a no-op.
func (s *Stream) Close() error {
	s.closed = true
	s.header = nil
	s.pix = nil
	return nil
}
