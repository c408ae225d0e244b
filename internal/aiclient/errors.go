package aiclient

import "errors"

var ErrEmptyResponse = errors.New("empty response from model")

// PermanentError indicates a transport failure that will not resolve with
// retries (auth, bad request, model not found, ...).
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// RateLimitError indicates resource exhaustion on the provider side.
// Callers wrapped with ai.Retry back off and try again.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string { return e.Err.Error() }
func (e *RateLimitError) Unwrap() error { return e.Err }

func NewRateLimitError(err error) error {
	return &RateLimitError{Err: err}
}

// IsRetryable reports whether err is in the rate-limit class.
func IsRetryable(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}
