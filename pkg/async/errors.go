package async

import "errors"

var (
	ErrNoFutures = errors.New("async: WaitAny called with empty futures slice")
	ErrNilFuture = errors.New("async: nil future")
)
