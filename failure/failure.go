// Package failure classifies the errors produced while fetching sources and
// uploading objects. Every failure is logged where it happens; the kind lets
// callers and tests tell them apart without matching on log text.
package failure

import (
	"errors"
	"fmt"
)

// Kind is the high-level bucket an error belongs to.
type Kind int

const (
	KindUnknown           Kind = iota
	KindSourceFetch            // file unreadable, or the GET failed
	KindSourceParse            // YAML content malformed
	KindUploadTransport        // POST timed out, failed to connect, or got a non-2xx
	KindUploadApplication      // POST succeeded but the API did not answer "ok"
)

func (k Kind) String() string {
	switch k {
	case KindSourceFetch:
		return "source fetch"
	case KindSourceParse:
		return "source parse"
	case KindUploadTransport:
		return "upload transport"
	case KindUploadApplication:
		return "upload application"
	default:
		return "unknown"
	}
}

// Error wraps an underlying error with its Kind.
type Error struct {
	kind Kind
	err  error
}

// New wraps err with the given kind. A nil err yields nil.
func New(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.kind, e.err)
}

// Kind returns the error's classification.
func (e *Error) Kind() Kind {
	return e.kind
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.err
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var ferr *Error
	if errors.As(err, &ferr) {
		return ferr.kind
	}
	return KindUnknown
}

// StatusError reports a response whose status code was outside 2xx.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	if e.Status != "" {
		return "unexpected HTTP status " + e.Status
	}
	return fmt.Sprintf("unexpected HTTP status %d", e.StatusCode)
}

// CheckStatus returns a *StatusError unless code is in the 2xx range.
func CheckStatus(code int, status string) error {
	if code >= 200 && code < 300 {
		return nil
	}
	return &StatusError{StatusCode: code, Status: status}
}
