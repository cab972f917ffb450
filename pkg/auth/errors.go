package auth

import "errors"

var (
	ErrInvalidState  = errors.New("invalid OAuth state")
	ErrStateNotFound = errors.New("OAuth state not found or expired")
	ErrInvalidCode   = errors.New("invalid OAuth code")
)
