package service

import "errors"

// Sentinel errors shared across services. Controllers map these onto HTTP
// responses: ErrNotFound to 404, ErrUnauthorized to a login redirect,
// ErrAlreadyCompleted to a results redirect.
var (
	ErrNotFound              = errors.New("record not found")
	ErrUnauthorized          = errors.New("caller is not allowed to access this resource")
	ErrUsernameTaken         = errors.New("username already exists")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrQuizInactive          = errors.New("quiz is not active")
	ErrQuizClosed            = errors.New("assignment due date has passed")
	ErrAttemptLimit          = errors.New("maximum attempts reached for this quiz")
	ErrAlreadyCompleted      = errors.New("attempt has already been completed")
	ErrGenerationUnavailable = errors.New("question drafting is not configured")
)
