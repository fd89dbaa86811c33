package storage

import "errors"

var (
	// ErrCreateDir indicates the output layout could not be created.
	ErrCreateDir = errors.New("failed to create output directory")
	// ErrWrite indicates a result or report could not be written.
	ErrWrite = errors.New("failed to write file")
	// ErrRead indicates a persisted result could not be read back.
	ErrRead = errors.New("failed to read file")
	// ErrDecode indicates a persisted result is not valid JSON.
	ErrDecode = errors.New("failed to decode evaluation")
)
