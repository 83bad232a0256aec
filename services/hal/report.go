// services/hal/report.go
package hal

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"frchal-go/services/hal/native"
	"frchal-go/x/logx"
)

// panicCode is the driver-station error code used for panics.
const panicCode int32 = 1

// SendError forwards an error or warning to the driver station.
func SendError(isError bool, code int32, details, location, callStack string) error {
	return CallReturn("SendError", func(l native.Lib) int32 {
		return l.SendError(isError, code, false, details, location, callStack, true)
	})
}

// ReportError sends an error to the driver station, tagged with the
// caller's location.
func ReportError(code int32, details string) error {
	return SendError(true, code, details, callerLocation(2), "")
}

// ReportWarning is ReportError at warning severity.
func ReportWarning(code int32, details string) error {
	return SendError(false, code, details, callerLocation(2), "")
}

// ReportPanic reports a panic to the driver station and then re-panics.
// Use it deferred at the top of robot goroutines:
//
//	defer hal.ReportPanic()
func ReportPanic() {
	r := recover()
	if r == nil {
		return
	}
	reportRecovered(r, debug.Stack())
	panic(r)
}

// reportRecovered sends an already recovered panic to the driver station.
// Before Initialize the report only reaches the log.
func reportRecovered(r any, stack []byte) {
	msg := panicMessage(r)
	loc := panicLocation()
	logx.Error(logx.ComponentHAL, "panic", "msg", msg, "location", loc)
	if !IsReady() {
		return
	}
	if err := SendError(true, panicCode, msg, loc, string(stack)); err != nil {
		logx.Warn(logx.ComponentHAL, "panic report failed", "err", err)
	}
}

func panicMessage(r any) string {
	switch v := r.(type) {
	case error:
		return v.Error()
	case string:
		if v == "" {
			return "panic with empty message"
		}
		return v
	default:
		return fmt.Sprint(v)
	}
}

// panicLocation finds the first frame above the runtime's panic machinery.
func panicLocation() string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	inRuntime := false
	for {
		f, more := frames.Next()
		if strings.HasPrefix(f.Function, "runtime.") {
			inRuntime = true
		} else if inRuntime {
			return fmt.Sprintf("%s:%d", f.File, f.Line)
		}
		if !more {
			return "unknown"
		}
	}
}

func callerLocation(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", file, line)
}
