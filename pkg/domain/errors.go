package domain

import "errors"

// Sentinel errors for tree construction.
var (
	// ErrMissingFilename is returned when a line number is given without a file.
	ErrMissingFilename = errors.New("missing filename")
	// ErrUnsupportedFileType is returned when a file is not a Python source.
	ErrUnsupportedFileType = errors.New("non-python files not supported")
)
