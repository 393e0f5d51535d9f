package search

import (
	"fmt"

	"github.com/Laisky/errors/v2"
)

// ErrMissingCredentials is returned when the provider key or cx is absent or a placeholder.
var ErrMissingCredentials = errors.New("missing google credentials: set settings.search.google.api_key and settings.search.google.cx")

// InputError is a rejected request field.
type InputError struct {
	Field   string
	Message string
}

// Error returns the user facing message.
func (e *InputError) Error() string {
	if e == nil {
		return "invalid input"
	}
	return e.Message
}

// UpstreamError is a non-success response or a malformed body from the provider.
type UpstreamError struct {
	Status int
	Body   string
}

// Error returns the error message.
func (e *UpstreamError) Error() string {
	if e == nil {
		return "google api error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("google api error: %s", e.Body)
	}
	return fmt.Sprintf("google api error %d: %s", e.Status, e.Body)
}

// IsInputError reports whether err carries an *InputError.
func IsInputError(err error) bool {
	var typed *InputError
	return errors.As(err, &typed)
}

// AsUpstreamError extracts an *UpstreamError from the error chain.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var typed *UpstreamError
	if errors.As(err, &typed) {
		return typed, true
	}
	return nil, false
}
