package handler

import (
	"errors"
	"net/http"
)

// ErrNilResponse indicates a handler returned nil instead of a Response.
var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError carries a status code and a machine readable key.
type HTTPError struct {
	Code int
	Key  string
}

// NewHTTPError creates an HTTPError.
func NewHTTPError(code int, key string) HTTPError {
	return HTTPError{Code: code, Key: key}
}

func (e HTTPError) Error() string {
	return e.Key
}

// StatusText returns the standard status text for the error's code.
func (e HTTPError) StatusText() string {
	return http.StatusText(e.Code)
}
