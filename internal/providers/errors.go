package providers

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable marks an upstream 503: the model is temporarily unable
	// to serve requests.
	ErrUnavailable = errors.New("model temporarily unavailable")

	// ErrStructuredOutput marks a response that is not valid JSON or does
	// not match the requested schema.
	ErrStructuredOutput = errors.New("structured output does not match schema")
)

// StatusError is a non-OK HTTP answer from a provider.
type StatusError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s error (status %d)", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// Unwrap lets errors.Is(err, ErrUnavailable) match 503 answers.
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusServiceUnavailable {
		return ErrUnavailable
	}
	return nil
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	switch e.StatusCode {
	case http.StatusRequestEntityTooLarge, http.StatusUnprocessableEntity, http.StatusTooManyRequests:
		return true
	default:
		return e.StatusCode >= 500
	}
}

// IsUnavailable reports whether err is, or wraps, an upstream 503.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
