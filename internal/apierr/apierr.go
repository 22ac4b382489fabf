// Package apierr holds the error taxonomy shared by the relay handlers and the
// client library, and the one function that turns a backend error body into a
// user-facing message.
package apierr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// Kind classifies a failure.
type Kind int

const (
	// KindUnexpected is anything that does not fit the other kinds.
	KindUnexpected Kind = iota
	// KindAuthenticationMissing means there was no valid session.
	KindAuthenticationMissing
	// KindTokenMintFailure means a session existed but no token could be signed.
	KindTokenMintFailure
	// KindBackendRejected means the backend answered with a non-2xx status.
	KindBackendRejected
	// KindBackendUnreachable means no response arrived at all.
	KindBackendUnreachable
	// KindValidation means the input was blocked before any network call.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindAuthenticationMissing:
		return "authentication_missing"
	case KindTokenMintFailure:
		return "token_mint_failure"
	case KindBackendRejected:
		return "backend_rejected"
	case KindBackendUnreachable:
		return "backend_unreachable"
	case KindValidation:
		return "validation"
	default:
		return "unexpected"
	}
}

// Messages for failures that never reach the backend.
const (
	MsgTimeout           = "The request timed out. The server may be busy, please try again."
	MsgConnectionRefused = "Cannot reach server. Please check if the backend is running."
	MsgNetwork           = "Network error. Please check your connection and try again."
	MsgUnexpected        = "An unexpected error occurred"
)

// Error is a classified failure with the HTTP status it maps to.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%d): %s: %v", e.Kind, e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind so callers can write
// errors.Is(err, &apierr.Error{Kind: apierr.KindValidation}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Validation returns a client-side validation failure.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: msg}
}

// Unauthenticated returns an AuthenticationMissing failure.
func Unauthenticated(msg string, err error) *Error {
	return &Error{Kind: KindAuthenticationMissing, Status: http.StatusUnauthorized, Message: msg, Err: err}
}

// MintFailure returns a TokenMintFailure.
func MintFailure(msg string, err error) *Error {
	return &Error{Kind: KindTokenMintFailure, Status: http.StatusInternalServerError, Message: msg, Err: err}
}

// Rejected builds a BackendRejected error from a backend status and body.
func Rejected(status int, body []byte, fallback string) *Error {
	return &Error{Kind: KindBackendRejected, Status: status, Message: Message(body, fallback)}
}

// Unexpected wraps err as a generic server error. The cause stays in Err for
// logging and never reaches the response body.
func Unexpected(err error) *Error {
	return &Error{Kind: KindUnexpected, Status: http.StatusInternalServerError, Message: MsgUnexpected, Err: err}
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf reports the kind of err, or KindUnexpected.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindUnexpected
}

// MessageOf returns the user-facing message for err, or fallback.
func MessageOf(err error, fallback string) string {
	if e, ok := As(err); ok && e.Message != "" {
		return e.Message
	}
	return fallback
}

// Message extracts a user-facing message from a backend error body. The field
// preference is detail, error, message, then fallback. A FastAPI validation
// detail (a list of {"msg": ...} objects) is joined with "; ".
func Message(body []byte, fallback string) string {
	if len(body) == 0 {
		return fallback
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback
	}
	for _, field := range []string{"detail", "error", "message"} {
		if msg := fieldMessage(payload[field]); msg != "" {
			return msg
		}
	}
	return fallback
}

func fieldMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// FromTransport classifies an error returned by an HTTP round trip, that is a
// call that produced no response. Context cancellation by the caller is not a
// backend failure and is reported as unexpected.
func FromTransport(err error) *Error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return &Error{Kind: KindUnexpected, Status: http.StatusInternalServerError, Message: MsgUnexpected, Err: err}
	}
	e := &Error{Kind: KindBackendUnreachable, Status: http.StatusServiceUnavailable, Err: err}
	switch {
	case isTimeout(err):
		e.Message = MsgTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		e.Message = MsgConnectionRefused
	default:
		e.Message = MsgNetwork
	}
	return e
}

// IsTimeout reports whether err is a BackendUnreachable caused by a timeout.
func IsTimeout(err error) bool {
	e, ok := As(err)
	return ok && e.Kind == KindBackendUnreachable && e.Message == MsgTimeout
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
