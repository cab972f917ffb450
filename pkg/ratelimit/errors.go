package ratelimit

import "errors"

var (
	ErrInvalidConfig = errors.New("ratelimit: invalid configuration")
	ErrStoreFailed   = errors.New("ratelimit: store operation failed")
)
