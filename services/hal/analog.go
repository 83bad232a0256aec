// services/hal/analog.go
package hal

import (
	"runtime"

	"frchal-go/services/hal/native"
)

// AnalogReader is the read side of an analog input.
type AnalogReader interface {
	Voltage() (float64, error)
}

// AnalogInput is an allocated analog input channel.
type AnalogInput struct {
	res     *owned[AnalogInputKind]
	channel int32
}

var _ AnalogReader = (*AnalogInput)(nil)

// NewAnalogInput allocates an analog input. An out-of-range channel fails
// before any native call.
func NewAnalogInput(channel int32) (*AnalogInput, error) {
	if err := CheckChannel(DomainAnalogInput, channel); err != nil {
		return nil, err
	}
	port, err := GetPort(channel)
	if err != nil {
		return nil, err
	}
	res, err := allocate[AnalogInputKind]("InitializeAnalogInputPort",
		func(l native.Lib, status *int32) int32 { return l.InitializeAnalogInputPort(port.Raw(), status) },
		func(l native.Lib, raw int32) { l.FreeAnalogInputPort(raw) })
	if err != nil {
		return nil, err
	}
	a := &AnalogInput{res: res, channel: channel}
	runtime.AddCleanup(a, func(o *owned[AnalogInputKind]) { o.release() }, res)
	return a, nil
}

func (a *AnalogInput) Channel() int32 { return a.channel }

func (a *AnalogInput) Handle() Handle[AnalogInputKind] { return a.res.handle() }

// Value is the latest raw 12-bit sample.
func (a *AnalogInput) Value() (int32, error) {
	return analogCall(a, "GetAnalogValue", native.Lib.GetAnalogValue)
}

// AverageValue is the oversampled and averaged raw value.
func (a *AnalogInput) AverageValue() (int32, error) {
	return analogCall(a, "GetAnalogAverageValue", native.Lib.GetAnalogAverageValue)
}

func (a *AnalogInput) Voltage() (float64, error) {
	return analogCall(a, "GetAnalogVoltage", native.Lib.GetAnalogVoltage)
}

// AverageBits is log2 of the number of samples averaged.
func (a *AnalogInput) AverageBits() (int32, error) {
	return analogCall(a, "GetAnalogAverageBits", native.Lib.GetAnalogAverageBits)
}

func (a *AnalogInput) SetAverageBits(bits int32) error {
	const op = "SetAnalogAverageBits"
	if a.res.closed() {
		return closedErr(op)
	}
	h := a.res.handle().Raw()
	return CallVoid(op, func(l native.Lib, status *int32) {
		l.SetAnalogAverageBits(h, bits, status)
	})
}

// Close frees the channel. Later calls are no-ops.
func (a *AnalogInput) Close() error {
	a.res.release()
	return nil
}

func analogCall[T any](a *AnalogInput, op string, fn func(l native.Lib, h int32, status *int32) T) (T, error) {
	if a.res.closed() {
		var zero T
		return zero, closedErr(op)
	}
	h := a.res.handle().Raw()
	return Call(op, func(l native.Lib, status *int32) T { return fn(l, h, status) })
}
