package bmp

import "errors"

var (
	// ErrUnsupportedFormat is returned at construction time for pixel formats
	// without a BMP header mapping.
	ErrUnsupportedFormat = errors.New("bmp: unsupported pixel format")
	// ErrUnsupportedOperation is returned by the write side of a Stream.
	ErrUnsupportedOperation = errors.New("bmp: stream is read-only")
	// ErrOutOfRange is returned when a seek or position falls outside
	// [0, Len()]. The position is left unchanged.
	ErrOutOfRange = errors.New("bmp: position out of range")
	// ErrInvalidWhence is returned by Seek for an unknown whence value.
	ErrInvalidWhence = errors.New("bmp: invalid whence")
	// ErrClosed is returned by operations on a closed Stream.
	ErrClosed = errors.New("bmp: stream closed")
	// ErrTooLarge is returned when the encoded size does not fit the 32-bit
	// file size field.
	ErrTooLarge = errors.New("bmp: image too large")
	// ErrInvalidResolution is returned for non-positive or non-finite DPI.
	ErrInvalidResolution = errors.New("bmp: invalid resolution")
	// ErrInvalidLayout is returned by Layout.Header for a Layout whose
	// derived fields disagree with its dimensions and format.
	ErrInvalidLayout = errors.New("bmp: inconsistent layout")
)
