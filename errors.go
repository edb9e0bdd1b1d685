package dstarprep

import "errors"

var (
	// ErrInvalidConfig is returned for malformed sizes, non-positive
	// dimensions or budgets, and unrecognized fit modes. It is always
	// surfaced before any file is touched.
	ErrInvalidConfig = errors.New("dstarprep: invalid configuration")

	// ErrUnsupportedInput is returned when a file's extension is not in
	// the supported set.
	ErrUnsupportedInput = errors.New("dstarprep: unsupported input type")

	// ErrInputNotFound is returned when the input path is neither a
	// regular file nor a directory.
	ErrInputNotFound = errors.New("dstarprep: input not found")

	// ErrEmptyBatch is returned when a directory contains no supported
	// image files.
	ErrEmptyBatch = errors.New("dstarprep: no supported image files")

	// ErrDecode is returned when source bytes cannot be parsed as an image.
	ErrDecode = errors.New("dstarprep: decode failure")
)
