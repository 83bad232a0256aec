package errcode

// Code is a stable, caller-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical local codes (short, stable). These never originate in the
// native library.
const (
	OK             Code = "ok"
	HALNotReady    Code = "hal_not_ready"
	InvalidChannel Code = "invalid_channel"
	InvalidModule  Code = "invalid_module"
	InvalidParams  Code = "invalid_params"
	Closed         Code = "closed"
	Other          Code = "other"

	Error Code = "error" // generic fallback
)

// Native status codes. One per entry of the vendor's two status enumerations,
// plus UnknownStatus for anything neither table names.
const (
	SampleRateTooHigh  Code = "sample_rate_too_high"
	VoltageOutOfRange  Code = "voltage_out_of_range"
	LoopTimingError    Code = "loop_timing_error"
	SPIWriteNoMOSI     Code = "spi_write_no_mosi"
	SPIReadNoMISO      Code = "spi_read_no_miso"
	SPIReadNoData      Code = "spi_read_no_data"
	IncompatibleState  Code = "incompatible_state"
	NoAvailableRes     Code = "no_available_resources"
	NullParameter      Code = "null_parameter"
	TriggerLimitOrder  Code = "analog_trigger_limit_order_error"
	TriggerPulseOutput Code = "analog_trigger_pulse_output_error"
	ParamOutOfRange    Code = "parameter_out_of_range"
	ResourceAllocated  Code = "resource_is_allocated"
	ResourceOutOfRange Code = "resource_out_of_range"
	InvalidAccumChan   Code = "invalid_accumulator_channel"
	CounterUnsupported Code = "counter_not_supported"
	PWMScaleError      Code = "pwm_scale_error"
	HandleError        Code = "handle_error"
	SerialNotFound     Code = "serial_port_not_found"
	SerialOpenError    Code = "serial_port_open_error"
	SerialPortError    Code = "serial_port_error"
	ThreadPriority     Code = "thread_priority_error"
	ThreadPriorityRng  Code = "thread_priority_range_error"

	UnknownStatus Code = "unknown_status"
)

// E pairs a Code with its operation context and cause.
// Richer error types embed it.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}

// IsStatus reports whether c names a native status (including UnknownStatus)
// rather than a locally raised condition.
func IsStatus(c Code) bool {
	if c == UnknownStatus {
		return true
	}
	for _, v := range positive {
		if v == c {
			return true
		}
	}
	for _, v := range negative {
		if v == c {
			return true
		}
	}
	return false
}
