package session

import "errors"

var (
	ErrInvalidEmail     = errors.New("enter a valid email address")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrNameRequired     = errors.New("name is required")
	ErrTokenRequired    = errors.New("token is required")
	ErrNotAuthenticated = errors.New("login required")
)
