// services/hal/validate.go
package hal

import (
	"fmt"

	"frchal-go/errcode"
	"frchal-go/services/hal/internal/halerr"
	"frchal-go/services/hal/native"
	"frchal-go/x/mathx"
)

// Domain names a family of channels for local validation.
type Domain int

const (
	DomainAnalogInput Domain = iota
	DomainAnalogOutput
	DomainDIO
	DomainPWM
	DomainRelay
	DomainSolenoid
	DomainPDP
	DomainI2C
	DomainCounter
	DomainInterrupt
)

var domainNames = [...]string{
	DomainAnalogInput:  "analog_input",
	DomainAnalogOutput: "analog_output",
	DomainDIO:          "dio",
	DomainPWM:          "pwm",
	DomainRelay:        "relay",
	DomainSolenoid:     "solenoid",
	DomainPDP:          "pdp",
	DomainI2C:          "i2c",
	DomainCounter:      "counter",
	DomainInterrupt:    "interrupt",
}

func (d Domain) String() string {
	if int(d) < len(domainNames) {
		return domainNames[d]
	}
	return fmt.Sprintf("domain(%d)", int(d))
}

// Limit is the valid range for a domain: channels 0..Channels-1 and, for
// CAN-attached domains, modules 0..Modules-1. Modules == 0 means the domain
// lives on the controller itself and has no module number.
type Limit struct {
	Channels int32
	Modules  int32
}

// Limits holds the roboRIO values.
var Limits = map[Domain]Limit{
	DomainAnalogInput:  {Channels: 8},
	DomainAnalogOutput: {Channels: 2},
	DomainDIO:          {Channels: 31},
	DomainPWM:          {Channels: 20},
	DomainRelay:        {Channels: 4},
	DomainSolenoid:     {Channels: 8, Modules: 63},
	DomainPDP:          {Channels: 16, Modules: 63},
	DomainI2C:          {Channels: 2},
	DomainCounter:      {Channels: 8},
	DomainInterrupt:    {Channels: 8},
}

// CheckChannel validates a channel number without calling into the native
// library.
func CheckChannel(d Domain, channel int32) error {
	lim, ok := Limits[d]
	if !ok || !mathx.Between(channel, 0, lim.Channels-1) {
		return &Error{
			E: errcode.E{
				C:   errcode.InvalidChannel,
				Op:  d.String(),
				Msg: fmt.Sprintf("channel %d outside 0..%d", channel, lim.Channels-1),
				Err: halerr.ErrInvalidChannel,
			},
			Channel: channel,
		}
	}
	return nil
}

// CheckModule validates a module number without calling into the native
// library.
func CheckModule(d Domain, module int32) error {
	lim, ok := Limits[d]
	msg := ""
	switch {
	case !ok || lim.Modules == 0:
		msg = "domain has no modules"
	case !mathx.Between(module, 0, lim.Modules-1):
		msg = fmt.Sprintf("module %d outside 0..%d", module, lim.Modules-1)
	default:
		return nil
	}
	return moduleErr(d.String(), module, msg)
}

func moduleErr(op string, module int32, msg string) error {
	return &Error{E: errcode.E{C: errcode.InvalidModule, Op: op, Msg: msg, Err: halerr.ErrInvalidModule}, Module: module}
}

// GetPort returns the port handle for a controller channel. Ports are
// descriptors, not allocations, and are never freed.
func GetPort(channel int32) (Handle[PortKind], error) {
	return port("GetPort", func(l native.Lib) int32 { return l.GetPort(channel) }, 0, channel)
}

// GetPortWithModule is GetPort for CAN-attached modules. The module number
// is checked against the CAN id range before any native call.
func GetPortWithModule(module, channel int32) (Handle[PortKind], error) {
	const op = "GetPortWithModule"
	if n := Limits[DomainPDP].Modules; !mathx.Between(module, 0, n-1) {
		return Handle[PortKind]{}, moduleErr(op, module, fmt.Sprintf("module %d outside 0..%d", module, n-1))
	}
	return port(op, func(l native.Lib) int32 { return l.GetPortWithModule(module, channel) }, module, channel)
}

func port(op string, fn func(l native.Lib) int32, module, channel int32) (Handle[PortKind], error) {
	raw, err := Call(op, func(l native.Lib, _ *int32) int32 { return fn(l) })
	if err != nil {
		return Handle[PortKind]{}, err
	}
	if raw == native.InvalidHandle {
		return Handle[PortKind]{}, &Error{
			E:       errcode.E{C: errcode.InvalidChannel, Op: op, Msg: "no such port", Err: halerr.ErrInvalidChannel},
			Channel: channel,
			Module:  module,
		}
	}
	return Handle[PortKind]{raw: raw}, nil
}
