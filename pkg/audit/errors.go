package audit

import "errors"

var (
	ErrInvalidEvent        = errors.New("audit: invalid event")
	ErrWriterClosed        = errors.New("audit: writer closed")
	ErrStorageNotAvailable = errors.New("audit: storage unavailable")
)
