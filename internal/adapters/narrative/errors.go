package narrative

import "errors"

var (
	// ErrInitModel indicates the chat model could not be constructed.
	ErrInitModel = errors.New("failed to initialize chat model")
	// ErrAllSectionsFailed indicates no section produced any text.
	ErrAllSectionsFailed = errors.New("all narrative sections failed")
)
