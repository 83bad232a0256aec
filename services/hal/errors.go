// services/hal/errors.go
package hal

import (
	"errors"
	"fmt"

	"frchal-go/errcode"
	"frchal-go/services/hal/internal/halerr"
)

// Sentinels for errors.Is outside this package.
var (
	ErrNotInitialized = halerr.ErrNotInitialized
	ErrClosed         = halerr.ErrClosed
	ErrInvalidPeriod  = halerr.ErrInvalidPeriod
	ErrInvalidChannel = halerr.ErrInvalidChannel
	ErrInvalidModule  = halerr.ErrInvalidModule
)

// Error is the single error type returned by this package. It extends
// errcode.E with the native status and the offending channel or module.
// C tags the variant:
//
//   - a native status code (errcode.IsStatus), with Status and the native
//     library's message in Msg;
//   - errcode.HALNotReady, raised before any native call;
//   - errcode.InvalidChannel / errcode.InvalidModule, raised by local
//     validation before any native call;
//   - errcode.Closed, for use of a released resource;
//   - errcode.Other, wrapping a higher-level cause in Err.
type Error struct {
	errcode.E
	Status  int32
	Channel int32
	Module  int32
}

func (e *Error) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if errcode.IsStatus(e.C) {
		s += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil && e.C == errcode.Other {
		s += ": " + e.Err.Error()
	}
	return s
}

// Is matches bare codes and the halerr sentinels.
func (e *Error) Is(target error) bool {
	if c, ok := target.(errcode.Code); ok {
		return e.C == c
	}
	switch target {
	case halerr.ErrNotInitialized:
		return e.C == errcode.HALNotReady
	case halerr.ErrInvalidChannel:
		return e.C == errcode.InvalidChannel
	case halerr.ErrInvalidModule:
		return e.C == errcode.InvalidModule
	case halerr.ErrClosed:
		return e.C == errcode.Closed
	}
	return false
}

// IsNative reports whether the error was translated from a native status.
func (e *Error) IsNative() bool { return errcode.IsStatus(e.C) }

// Other wraps an error raised above the native boundary.
func Other(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{E: errcode.E{C: errcode.Other, Op: op, Err: err}}
}

// StatusOf returns the native status carried by err, if any.
func StatusOf(err error) (int32, bool) {
	var e *Error
	if errors.As(err, &e) && e.IsNative() {
		return e.Status, true
	}
	return 0, false
}

func closedErr(op string) error {
	return &Error{E: errcode.E{C: errcode.Closed, Op: op, Err: halerr.ErrClosed}}
}
