package rewrite

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport wraps failures where the request never completed
	// (connection refused, DNS failure, cancelled context).
	ErrTransport = errors.New("rewrite: transport failure")
	// ErrMalformedResponse is returned when a successful response does not
	// carry a string rewritten_cv field.
	ErrMalformedResponse = errors.New("rewrite: malformed response")
)

// StatusError reports a non-2xx response. Message is plain text taken from
// the body's error field, the body itself, or a generic status message.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP error! Status: %d", e.StatusCode)
}

// Message returns the user-facing text of err, without the package prefix
// carried by wrapped sentinels.
func Message(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}
	var detailed *detailError
	if errors.As(err, &detailed) {
		return detailed.detail
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// detailError pairs a sentinel with the text shown to users.
type detailError struct {
	kind   error
	detail string
	cause  error
}

func (e *detailError) Error() string {
	return fmt.Sprintf("%v: %s", e.kind, e.detail)
}

func (e *detailError) Is(target error) bool {
	return target == e.kind
}

func (e *detailError) Unwrap() error {
	return e.cause
}

func transportError(cause error) error {
	return &detailError{kind: ErrTransport, detail: cause.Error(), cause: cause}
}

func malformedError(detail string, cause error) error {
	return &detailError{kind: ErrMalformedResponse, detail: detail, cause: cause}
}
