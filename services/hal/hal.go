// services/hal/hal.go
package hal

import (
	"sync"
	"sync/atomic"
	"time"

	"frchal-go/services/hal/native"
	"frchal-go/x/logx"
)

// Mode selects how the vendor library reacts to another robot program
// already holding the hardware.
type Mode int32

const (
	ModeKill   Mode = 0 // terminate the other program
	ModeWarn   Mode = 1 // warn and continue
	ModeSilent Mode = 2 // continue silently
)

func (m Mode) String() string {
	switch m {
	case ModeKill:
		return "kill"
	case ModeWarn:
		return "warn"
	case ModeSilent:
		return "silent"
	default:
		return "unknown"
	}
}

// ParseMode accepts the String forms; anything else is ModeKill.
func ParseMode(s string) Mode {
	switch s {
	case "warn":
		return ModeWarn
	case "silent":
		return ModeSilent
	default:
		return ModeKill
	}
}

// -----------------------------------------------------------------------------
// Readiness gate
// -----------------------------------------------------------------------------

type libRef struct{ native.Lib }

// gate is the process-wide record of whether the vendor library has booted.
// lib is published before ready is set, so any reader that observes ready
// also observes the library.
type gate struct {
	mu    sync.Mutex // serialises Initialize
	ready atomic.Bool
	lib   atomic.Pointer[libRef]
}

var g gate

// Initialize boots the build-selected native library (the simulation, or the
// cgo binding under -tags athena) and opens the gate. It is safe to call more
// than once; only the first successful call boots the library.
func Initialize(timeout time.Duration, mode Mode) bool {
	if g.ready.Load() {
		return true
	}
	return InitializeWith(defaultLib(), timeout, mode)
}

// InitializeWith is Initialize with an explicit native library.
func InitializeWith(lib native.Lib, timeout time.Duration, mode Mode) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ready.Load() {
		return true
	}
	ms := int32(timeout / time.Millisecond)
	if !lib.Initialize(ms, int32(mode)) {
		logx.Error(logx.ComponentHAL, "native initialize failed", "timeout_ms", ms, "mode", mode.String())
		return false
	}
	g.lib.Store(&libRef{lib})
	g.ready.Store(true)
	logx.Info(logx.ComponentHAL, "initialized", "runtime", lib.RuntimeType().String(), "mode", mode.String())
	return true
}

// IsReady reports whether Initialize has completed.
func IsReady() bool { return g.ready.Load() }

// current returns the active library, or nil before Initialize.
func current() native.Lib {
	if !g.ready.Load() {
		return nil
	}
	if r := g.lib.Load(); r != nil {
		return r.Lib
	}
	return nil
}

// -----------------------------------------------------------------------------
// Board-level queries
// -----------------------------------------------------------------------------

// FPGATime returns the hardware clock in microseconds.
func FPGATime() (uint64, error) {
	return Call("GetFPGATime", func(l native.Lib, status *int32) uint64 {
		return l.GetFPGATime(status)
	})
}

// RuntimeType reports whether the library drives real hardware or a mock.
func RuntimeType() (native.RuntimeType, error) {
	return Call("GetRuntimeType", func(l native.Lib, _ *int32) native.RuntimeType {
		return l.RuntimeType()
	})
}
