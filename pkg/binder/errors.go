package binder

import "errors"

var (
	ErrFailedToParseQuery = errors.New("failed to parse query parameters")

	// ErrBinderNotApplicable is returned by binders that do not apply to the
	// request at hand; callers skip to the next binder.
	ErrBinderNotApplicable = errors.New("binder not applicable")
)
