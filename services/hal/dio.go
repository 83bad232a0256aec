// services/hal/dio.go
package hal

import (
	"runtime"

	"frchal-go/services/hal/native"
)

// DigitalIO is an allocated DIO channel configured as input or output.
type DigitalIO struct {
	res     *owned[DigitalKind]
	channel int32
	input   bool
}

func NewDigitalInput(channel int32) (*DigitalIO, error)  { return newDigital(channel, true) }
func NewDigitalOutput(channel int32) (*DigitalIO, error) { return newDigital(channel, false) }

func newDigital(channel int32, input bool) (*DigitalIO, error) {
	if err := CheckChannel(DomainDIO, channel); err != nil {
		return nil, err
	}
	port, err := GetPort(channel)
	if err != nil {
		return nil, err
	}
	res, err := allocate[DigitalKind]("InitializeDIOPort",
		func(l native.Lib, status *int32) int32 { return l.InitializeDIOPort(port.Raw(), input, status) },
		func(l native.Lib, raw int32) { l.FreeDIOPort(raw) })
	if err != nil {
		return nil, err
	}
	d := &DigitalIO{res: res, channel: channel, input: input}
	runtime.AddCleanup(d, func(o *owned[DigitalKind]) { o.release() }, res)
	return d, nil
}

func (d *DigitalIO) Channel() int32 { return d.channel }
func (d *DigitalIO) IsInput() bool  { return d.input }

func (d *DigitalIO) Handle() Handle[DigitalKind] { return d.res.handle() }

// Direction reads the configured direction back from the native library.
func (d *DigitalIO) Direction() (input bool, err error) {
	const op = "GetDIODirection"
	if d.res.closed() {
		return false, closedErr(op)
	}
	h := d.res.handle().Raw()
	return Call(op, func(l native.Lib, status *int32) bool { return l.GetDIODirection(h, status) })
}

func (d *DigitalIO) Get() (bool, error) {
	const op = "GetDIO"
	if d.res.closed() {
		return false, closedErr(op)
	}
	h := d.res.handle().Raw()
	return Call(op, func(l native.Lib, status *int32) bool { return l.GetDIO(h, status) })
}

// Set drives an output. Setting an input is rejected by the native library.
func (d *DigitalIO) Set(v bool) error {
	const op = "SetDIO"
	if d.res.closed() {
		return closedErr(op)
	}
	h := d.res.handle().Raw()
	return CallVoid(op, func(l native.Lib, status *int32) { l.SetDIO(h, v, status) })
}

func (d *DigitalIO) Close() error {
	d.res.release()
	return nil
}
