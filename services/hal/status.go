// services/hal/status.go
package hal

import (
	"frchal-go/errcode"
	"frchal-go/services/hal/internal/halerr"
	"frchal-go/services/hal/native"
)

// notReady is returned, without touching the native library, by every call
// made before Initialize.
func notReady(op string) error {
	return &Error{E: errcode.E{C: errcode.HALNotReady, Op: op, Msg: "HAL not initialized", Err: halerr.ErrNotInitialized}}
}

// Call invokes a native function that returns a value and reports failure
// through a trailing status pointer. The status cell starts at zero; a
// nonzero value after the call is translated into an *Error and the
// returned value is discarded.
func Call[T any](op string, fn func(l native.Lib, status *int32) T) (T, error) {
	var zero T
	lib := current()
	if lib == nil {
		return zero, notReady(op)
	}
	var status int32
	v := fn(lib, &status)
	if status != 0 {
		return zero, fromStatus(lib, op, status)
	}
	return v, nil
}

// CallVoid is Call for native functions that only set a status.
func CallVoid(op string, fn func(l native.Lib, status *int32)) error {
	_, err := Call(op, func(l native.Lib, status *int32) struct{} {
		fn(l, status)
		return struct{}{}
	})
	return err
}

// CallReturn is for native functions that return their status code
// directly instead of writing it through a pointer.
func CallReturn(op string, fn func(l native.Lib) int32) error {
	lib := current()
	if lib == nil {
		return notReady(op)
	}
	if status := fn(lib); status != 0 {
		return fromStatus(lib, op, status)
	}
	return nil
}

// FromStatus translates a raw status into an error; 0 yields nil. The
// message is taken from the native library when one is initialized.
func FromStatus(op string, status int32) error {
	if status == 0 {
		return nil
	}
	return fromStatus(current(), op, status)
}

func fromStatus(lib native.Lib, op string, status int32) *Error {
	c, _ := errcode.LookupStatus(status)
	e := &Error{E: errcode.E{C: c, Op: op}, Status: status}
	if lib != nil {
		e.Msg = lib.GetErrorMessage(status)
	}
	return e
}
