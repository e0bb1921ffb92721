//go:build !unix

package bitmap

import "errors"

var errMapUnsupported = errors.New("bitmap: memory mapping not supported on this platform")

// Mapped is a memory-mapped bitmap. Mapping is unavailable on this platform.
type Mapped struct {
	Bitmap
}

// Map always fails on platforms without mmap.
func Map(path string, width, height, stride int, f Format) (*Mapped, error) {
	return nil, errMapUnsupported
}

func (m *Mapped) Close() error { return nil }
