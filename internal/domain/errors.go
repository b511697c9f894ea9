package domain

import (
	"errors"
	"fmt"
)

// ErrTransport marks failures to reach the census API or to read its
// response: network errors, non-2xx statuses, undecodable bodies.
var ErrTransport = errors.New("census api transport failure")

// APIError is an application-level failure reported by the census API in an
// otherwise successful HTTP response.
type APIError struct {
	Action  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("census api %s: %s", e.Action, e.Message)
}
