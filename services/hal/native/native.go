// Package native describes the vendor HAL's C calling convention as a Go
// interface. Implementations are the cgo binding (package athena, built with
// -tags athena) and a pure-Go simulation (package sim).
//
// Every method that can fail takes a trailing status pointer. Callers zero
// the pointee before the call; the callee writes 0 on success and a nonzero
// signed code on failure. Return values are only meaningful when the status
// reads 0. Handles are plain int32 values; nothing at this level tags them
// by domain.
package native

// RuntimeType mirrors HAL_RuntimeType.
type RuntimeType int32

const (
	RuntimeAthena RuntimeType = iota
	RuntimeMock
)

func (r RuntimeType) String() string {
	switch r {
	case RuntimeAthena:
		return "athena"
	case RuntimeMock:
		return "mock"
	default:
		return "unknown"
	}
}

// Lib is the subset of the vendor HAL this module binds.
type Lib interface {
	// Boot and introspection.
	Initialize(timeoutMs int32, mode int32) bool
	RuntimeType() RuntimeType
	GetErrorMessage(code int32) string
	GetFPGATime(status *int32) uint64
	SendError(isError bool, code int32, isLVCode bool, details, location, callStack string, printMsg bool) int32

	// Ports.
	GetPort(channel int32) int32
	GetPortWithModule(module, channel int32) int32

	// Notifier.
	InitializeNotifier(status *int32) int32
	UpdateNotifierAlarm(h int32, triggerTime uint64, status *int32)
	CancelNotifierAlarm(h int32, status *int32)
	StopNotifier(h int32, status *int32)
	WaitForNotifierAlarm(h int32, status *int32) uint64
	CleanNotifier(h int32, status *int32)

	// Analog input.
	InitializeAnalogInputPort(port int32, status *int32) int32
	FreeAnalogInputPort(h int32)
	GetAnalogValue(h int32, status *int32) int32
	GetAnalogAverageValue(h int32, status *int32) int32
	GetAnalogVoltage(h int32, status *int32) float64
	SetAnalogAverageBits(h int32, bits int32, status *int32)
	GetAnalogAverageBits(h int32, status *int32) int32

	// Digital I/O.
	InitializeDIOPort(port int32, input bool, status *int32) int32
	FreeDIOPort(h int32)
	SetDIO(h int32, value bool, status *int32)
	GetDIO(h int32, status *int32) bool
	GetDIODirection(h int32, status *int32) bool

	// I2C. TransactionI2C reports failure through its return value (-1),
	// not a status pointer.
	InitializeI2C(port int32, status *int32)
	TransactionI2C(port int32, addr int32, send []byte, recv []byte) int32
	CloseI2C(port int32)
}

// InvalidHandle is the value the vendor library uses for "no handle".
const InvalidHandle int32 = 0
