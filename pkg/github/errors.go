package github

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("github: access token rejected")
	ErrNotFound     = errors.New("github: resource not found")
	ErrRateLimited  = errors.New("github: rate limit exceeded")
)

// APIError is a non-successful response from the GitHub API.
type APIError struct {
	StatusCode int
	Method     string
	URL        string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("github: %s %s: status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("github: %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
}

// Unwrap maps well-known statuses to sentinel errors.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case 401:
		return ErrUnauthorized
	case 404:
		return ErrNotFound
	case 429:
		return ErrRateLimited
	default:
		return nil
	}
}
