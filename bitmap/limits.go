package bitmap

import "fmt"

const (
	// DefaultMaxDimension caps width/height of rendered or mapped bitmaps to
	// avoid excessive allocations when callers pass bogus sizes.
	DefaultMaxDimension = 32768
	// DefaultMaxPixels bounds the total pixel count (roughly 64MP) which keeps
	// BGRA buffers under 256 MB.
	DefaultMaxPixels int64 = 64 * 1024 * 1024
)

// Limits bounds the size of bitmaps created by this module.
type Limits struct {
	MaxDimension int
	MaxPixels    int64
}

// DefaultLimits returns the limits used when a caller does not supply any.
func DefaultLimits() Limits {
	return Limits{MaxDimension: DefaultMaxDimension, MaxPixels: DefaultMaxPixels}
}

// Check validates width and height against the limits. Zero fields disable
// the corresponding check.
func (l Limits) Check(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %d x %d", ErrInvalidBounds, width, height)
	}
	if l.MaxDimension > 0 && (width > l.MaxDimension || height > l.MaxDimension) {
		return fmt.Errorf("%w: dimension exceeds limit (%d x %d)", ErrTooLarge, width, height)
	}
	pixels := int64(width) * int64(height)
	if l.MaxPixels > 0 && pixels > l.MaxPixels {
		return fmt.Errorf("%w: pixel count %d exceeds limit %d", ErrTooLarge, pixels, l.MaxPixels)
	}
	return nil
}
