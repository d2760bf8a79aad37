package reasoning

import (
	"errors"
	"fmt"
)

// Failure kinds of a delegated reasoning call. Match with errors.Is.
var (
	ErrMissingCredential = errors.New("no reasoning credential configured")
	ErrInvalidCredential = errors.New("reasoning credential rejected")
	ErrRateLimited       = errors.New("reasoning service rate limited")
	ErrNetworkFailure    = errors.New("reasoning service unreachable")
	ErrMalformedResponse = errors.New("malformed reasoning response")
	ErrRemoteFailure     = errors.New("reasoning service error")
)

// Error is a typed failure of the reasoning call.
type Error struct {
	Kind   error  // one of the Err* sentinels
	Status int    // HTTP status, 0 when no response was received
	Detail string // diagnostic from the response, or a status summary
	Err    error  // underlying cause, if any
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, status int, detail string, cause error) *Error {
	return &Error{Kind: kind, Status: status, Detail: detail, Err: cause}
}

// KindLabel returns a short stable label for err, used in logs and
// metrics. Unknown errors are "unknown".
func KindLabel(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, ErrInvalidCredential):
		return "invalid_credential"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrNetworkFailure):
		return "network_failure"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrRemoteFailure):
		return "remote_failure"
	default:
		return "unknown"
	}
}

// statusDetail is the fallback diagnostic when the body carries none.
func statusDetail(status int, statusText string) string {
	return fmt.Sprintf("%d - %s", status, statusText)
}
