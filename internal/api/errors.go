package api

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Sentinels matched by the typed errors below.
var (
	// ErrNetwork matches failures to reach the API or read its response.
	ErrNetwork = errors.New("network failure")
	// ErrMalformed matches responses that are not a valid envelope or lack
	// the expected payload.
	ErrMalformed = errors.New("malformed response")
	// ErrRejected matches application-level rejections (success: false).
	ErrRejected = errors.New("request rejected")
)

// NetworkError indicates the request never produced a readable response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network failure: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is reports whether target is ErrNetwork.
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// MalformedError indicates the response body could not be interpreted.
type MalformedError struct {
	Op     string
	Status int
	Err    error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: malformed response (status %d): %v", e.Op, e.Status, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// Is reports whether target is ErrMalformed.
func (e *MalformedError) Is(target error) bool { return target == ErrMalformed }

// RejectedError is a well-formed response with success set to false. Reason
// is the server's human-readable explanation and may be empty.
type RejectedError struct {
	Op     string
	Status int
	Reason string
}

func (e *RejectedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: request rejected (status %d)", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// Is reports whether target is ErrRejected.
func (e *RejectedError) Is(target error) bool { return target == ErrRejected }

// Reason extracts the server-provided rejection reason from err, if any.
func Reason(err error) (string, bool) {
	var rej *RejectedError
	if errors.As(err, &rej) && rej.Reason != "" {
		return rej.Reason, true
	}
	return "", false
}

// outcome classifies err for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrRejected):
		return "rejected"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	default:
		return "network"
	}
}
