package dataset

import "errors"

var (
	// ErrNotFound indicates the source file does not exist.
	ErrNotFound = errors.New("dataset file not found")
	// ErrRead indicates the source file could not be parsed at all.
	ErrRead = errors.New("failed to read dataset")
	// ErrUnsupportedFormat indicates an extension other than csv/xlsx.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	// ErrMissingColumns indicates the header lacks required columns.
	ErrMissingColumns = errors.New("dataset missing required columns")
)
