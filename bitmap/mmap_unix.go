//go:build unix

package bitmap

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Mapped is a read-only bitmap backed by a memory-mapped file, typically a
// raw pixel dump written by a renderer. It must be closed to release the
// mapping; its Pix slice is invalid afterwards.
type Mapped struct {
	Bitmap
	data []byte
}

// Map maps the raw pixel file at path. The file must hold at least
// stride*(height-1) + width*bytesPerPixel bytes; trailing bytes are ignored.
func Map(path string, width, height, stride int, f Format) (*Mapped, error) {
	bpp, err := f.BytesPerPixel()
	if err != nil {
		return nil, err
	}
	if err := DefaultLimits().Check(width, height); err != nil {
		return nil, err
	}
	if stride == 0 {
		stride = width * bpp
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	need := int64(stride)*int64(height-1) + int64(width*bpp)
	if info.Size() < need {
		return nil, fmt.Errorf("%w: %s has %d bytes, need %d", ErrShortBuffer, path, info.Size(), need)
	}

	data, err := unix.Mmap(int(file.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	m := &Mapped{
		Bitmap: Bitmap{Pix: data, Stride: stride, Width: width, Height: height, Format: f},
		data:   data,
	}
	if err := Check(m); err != nil {
		_ = unix.Munmap(data)
		return nil, err
	}
	return m, nil
}

// Close unmaps the file. Calling Close more than once is a no-op.
func (m *Mapped) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	m.Pix = nil
	return err
}
