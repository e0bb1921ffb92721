package bitmap

import (
	"fmt"
	"strings"
)

// Format identifies the byte layout of one pixel. The numeric values match
// the bitmap format constants of the native rendering library.
type Format int

const (
	// Gray is one byte per pixel, luminance only.
	Gray Format = 1
	// BGR is three bytes per pixel in blue, green, red order.
	BGR Format = 2
	// BGRx is four bytes per pixel in blue, green, red order; the fourth
	// byte is unused.
	BGRx Format = 3
	// BGRA is four bytes per pixel in blue, green, red, alpha order.
	BGRA Format = 4
)

// BytesPerPixel returns the number of bytes one pixel occupies.
func (f Format) BytesPerPixel() (int, error) {
	switch f {
	case Gray:
		return 1, nil
	case BGR:
		return 3, nil
	case BGRx, BGRA:
		return 4, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
}

// HasAlpha reports whether the format carries an alpha channel.
func (f Format) HasAlpha() bool { return f == BGRA }

func (f Format) String() string {
	switch f {
	case Gray:
		return "gray"
	case BGR:
		return "bgr"
	case BGRx:
		return "bgrx"
	case BGRA:
		return "bgra"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat maps a case-insensitive format name ("gray", "bgr", "bgrx",
// "bgra") to its Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gray", "grey", "gray8":
		return Gray, nil
	case "bgr", "bgr24":
		return BGR, nil
	case "bgrx", "bgrx32":
		return BGRx, nil
	case "bgra", "bgra32":
		return BGRA, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}
