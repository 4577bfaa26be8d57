package upload

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Class categorizes an upload failure for retry decisions.
type Class int

const (
	// ClassUnknown is an unclassified failure; retried and logged with detail.
	ClassUnknown Class = iota
	// ClassNetwork covers no connectivity, DNS and dropped connections; retryable.
	ClassNetwork
	// ClassAuth covers invalid credentials or authorization; not retryable.
	ClassAuth
	// ClassServer covers remote 5xx-class failures; retryable.
	ClassServer
	// ClassTimeout means the attempt exceeded its deadline; retryable.
	ClassTimeout
)

func (c Class) String() string {
	switch c {
	case ClassNetwork:
		return "network"
	case ClassAuth:
		return "auth"
	case ClassServer:
		return "server"
	case ClassTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is a classified upload failure.
type Error struct {
	Class Class
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("upload failed (%s): %v", e.Class, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err with a class.
func NewError(class Class, err error) *Error {
	return &Error{Class: class, Err: err}
}

// ClassOf extracts the class from err. Context deadline and network errors
// are recognized even when the implementation did not classify them.
func ClassOf(err error) Class {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Class
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ClassTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) {
		if ne.Timeout() {
			return ClassTimeout
		}
		return ClassNetwork
	}
	return ClassUnknown
}

// Retryable reports whether another attempt may succeed for this class.
// Only authentication failures are terminal.
func Retryable(class Class) bool {
	return class != ClassAuth
}
