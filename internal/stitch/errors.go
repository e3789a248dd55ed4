package stitch

import "errors"

var (
	// ErrEmptyInput is returned when a stitch call receives no captures.
	ErrEmptyInput = errors.New("no captures to stitch")

	// ErrDecode is returned when a capture payload is not a valid image.
	ErrDecode = errors.New("failed to decode capture")

	// ErrSurfaceAllocation is returned when an output surface cannot be
	// allocated, including when no capture contributed any rows.
	ErrSurfaceAllocation = errors.New("failed to allocate output surface")

	// ErrEncoding is returned when the output cannot be encoded as PNG.
	ErrEncoding = errors.New("failed to encode output")
)
