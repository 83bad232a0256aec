// services/hal/handle.go
package hal

import (
	"fmt"
	"sync/atomic"

	"frchal-go/errcode"
	"frchal-go/services/hal/native"
	"frchal-go/x/logx"
)

// Kind is the phantom domain of a Handle. Each hardware domain has its own
// marker type, so a Handle[AnalogInputKind] cannot be passed where a
// Handle[DigitalKind] is expected.
type Kind interface {
	kindName() string
}

type (
	AnalogInputKind   struct{}
	AnalogOutputKind  struct{}
	AnalogTriggerKind struct{}
	GyroKind          struct{}
	PortKind          struct{}
	CompressorKind    struct{}
	CounterKind       struct{}
	DigitalKind       struct{}
	DigitalPWMKind    struct{}
	RelayKind         struct{}
	SolenoidKind      struct{}
	InterruptKind     struct{}
	NotifierKind      struct{}
	SPIKind           struct{}
)

func (AnalogInputKind) kindName() string   { return "analog_input" }
func (AnalogOutputKind) kindName() string  { return "analog_output" }
func (AnalogTriggerKind) kindName() string { return "analog_trigger" }
func (GyroKind) kindName() string          { return "gyro" }
func (PortKind) kindName() string          { return "port" }
func (CompressorKind) kindName() string    { return "compressor" }
func (CounterKind) kindName() string       { return "counter" }
func (DigitalKind) kindName() string       { return "digital" }
func (DigitalPWMKind) kindName() string    { return "digital_pwm" }
func (RelayKind) kindName() string         { return "relay" }
func (SolenoidKind) kindName() string      { return "solenoid" }
func (InterruptKind) kindName() string     { return "interrupt" }
func (NotifierKind) kindName() string      { return "notifier" }
func (SPIKind) kindName() string           { return "spi" }

// Handle is a native resource handle tagged with its domain. Only this
// package mints handles; the zero value is invalid.
type Handle[K Kind] struct {
	raw int32
}

// Raw exposes the native value for passing back across the boundary.
func (h Handle[K]) Raw() int32 { return h.raw }

func (h Handle[K]) Valid() bool { return h.raw != native.InvalidHandle }

func (h Handle[K]) String() string {
	var k K
	return fmt.Sprintf("%s(%#x)", k.kindName(), uint32(h.raw))
}

// owned is the single owner of a live handle. release runs the native free
// exactly once, whatever the number of callers.
type owned[K Kind] struct {
	h     Handle[K]
	lib   native.Lib
	free  func(l native.Lib, raw int32)
	freed atomic.Bool
}

// allocate runs init through the status protocol. On failure nothing was
// allocated and there is nothing to free.
func allocate[K Kind](op string, init func(l native.Lib, status *int32) int32, free func(l native.Lib, raw int32)) (*owned[K], error) {
	raw, err := Call(op, init)
	if err != nil {
		return nil, err
	}
	if raw == native.InvalidHandle {
		return nil, &Error{E: errcode.E{C: errcode.HandleError, Op: op, Msg: "native returned an invalid handle"}}
	}
	return &owned[K]{h: Handle[K]{raw: raw}, lib: current(), free: free}, nil
}

func (o *owned[K]) handle() Handle[K] { return o.h }

func (o *owned[K]) closed() bool { return o.freed.Load() }

// release frees the handle. Native frees report no status, so there is no
// error to return; the first caller wins and later calls are no-ops.
func (o *owned[K]) release() bool {
	if !o.freed.CompareAndSwap(false, true) {
		return false
	}
	o.free(o.lib, o.h.raw)
	logx.Debug(logx.ComponentHAL, "handle released", "handle", o.h.String())
	return true
}
