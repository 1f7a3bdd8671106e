package apiclient

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means no access token is stored; no network call
	// was made.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrSessionExpired means the single refresh attempt failed; the token
	// store has been cleared.
	ErrSessionExpired = errors.New("session expired")

	// ErrNetworkUnavailable means no response was received (includes
	// timeouts).
	ErrNetworkUnavailable = errors.New("network unavailable")
)

// RequestError is a server-side rejection with the message taken from the
// response body's "error" or "message" field.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
}
