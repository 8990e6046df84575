package kiwoom

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingField is returned when a field the caller depends on is absent or empty.
	ErrMissingField = errors.New("missing field in response")
	// ErrMissingToken is returned by AccessToken when the response carries no token.
	ErrMissingToken = fmt.Errorf("access token not present in response: %w", ErrMissingField)
	// ErrMalformedResponse is returned when the body is not a JSON object of the expected shape.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrUnauthorized marks 401/403 answers from the broker.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx answer from the broker.
//
// ReturnCode and Message come from the upstream return_code/return_msg body fields
// when the body is JSON; otherwise Message holds the raw body.
type APIError struct {
	StatusCode int
	ReturnCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("kiwoom API error [%d] code=%d: %s", e.StatusCode, e.ReturnCode, e.Message)
	}
	return fmt.Sprintf("kiwoom API error [%d] code=%d", e.StatusCode, e.ReturnCode)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) match auth failures.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// IsUnauthorized reports whether err is an authentication failure from the broker.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// AsAPIError unwraps err into an *APIError when it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
