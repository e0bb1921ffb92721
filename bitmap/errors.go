package bitmap

import "errors"

var (
	ErrUnknownFormat = errors.New("bitmap: unknown pixel format")
	ErrInvalidBounds = errors.New("bitmap: invalid bounds")
	ErrShortBuffer   = errors.New("bitmap: pixel buffer too short")
	ErrTooLarge      = errors.New("bitmap: too large")
)
