//go:build athena

// Package athena binds native.Lib to the vendor libwpiHal on the roboRIO.
// Every method is a direct call; status cells are passed through unchanged.
package athena

/*
#cgo LDFLAGS: -lwpiHal
#include <stdlib.h>
#include "hal/HAL.h"
*/
import "C"

import (
	"unsafe"

	"frchal-go/services/hal/native"
)

// Lib is stateless; the native library keeps its own.
type Lib struct{}

var _ native.Lib = Lib{}

func st(status *int32) *C.int32_t { return (*C.int32_t)(unsafe.Pointer(status)) }

func cbool(b bool) C.HAL_Bool {
	if b {
		return 1
	}
	return 0
}

// ---- boot ----

func (Lib) Initialize(timeoutMs, mode int32) bool {
	return C.HAL_Initialize(C.int32_t(timeoutMs), C.int32_t(mode)) != 0
}

func (Lib) RuntimeType() native.RuntimeType {
	if C.HAL_GetRuntimeType() == C.HAL_Athena {
		return native.RuntimeAthena
	}
	return native.RuntimeMock
}

func (Lib) GetErrorMessage(code int32) string {
	return C.GoString(C.HAL_GetErrorMessage(C.int32_t(code)))
}

func (Lib) GetFPGATime(status *int32) uint64 {
	return uint64(C.HAL_GetFPGATime(st(status)))
}

func (Lib) SendError(isError bool, code int32, isLVCode bool, details, location, callStack string, printMsg bool) int32 {
	cd, cl, cs := C.CString(details), C.CString(location), C.CString(callStack)
	defer C.free(unsafe.Pointer(cd))
	defer C.free(unsafe.Pointer(cl))
	defer C.free(unsafe.Pointer(cs))
	return int32(C.HAL_SendError(cbool(isError), C.int32_t(code), cbool(isLVCode), cd, cl, cs, cbool(printMsg)))
}

// ---- ports ----

func (Lib) GetPort(channel int32) int32 {
	return int32(C.HAL_GetPort(C.int32_t(channel)))
}

func (Lib) GetPortWithModule(module, channel int32) int32 {
	return int32(C.HAL_GetPortWithModule(C.int32_t(module), C.int32_t(channel)))
}

// ---- notifier ----

func (Lib) InitializeNotifier(status *int32) int32 {
	return int32(C.HAL_InitializeNotifier(st(status)))
}

func (Lib) UpdateNotifierAlarm(h int32, triggerTime uint64, status *int32) {
	C.HAL_UpdateNotifierAlarm(C.HAL_NotifierHandle(h), C.uint64_t(triggerTime), st(status))
}

func (Lib) CancelNotifierAlarm(h int32, status *int32) {
	C.HAL_CancelNotifierAlarm(C.HAL_NotifierHandle(h), st(status))
}

func (Lib) StopNotifier(h int32, status *int32) {
	C.HAL_StopNotifier(C.HAL_NotifierHandle(h), st(status))
}

func (Lib) WaitForNotifierAlarm(h int32, status *int32) uint64 {
	return uint64(C.HAL_WaitForNotifierAlarm(C.HAL_NotifierHandle(h), st(status)))
}

func (Lib) CleanNotifier(h int32, status *int32) {
	C.HAL_CleanNotifier(C.HAL_NotifierHandle(h), st(status))
}

// ---- analog input ----

func (Lib) InitializeAnalogInputPort(port int32, status *int32) int32 {
	return int32(C.HAL_InitializeAnalogInputPort(C.HAL_PortHandle(port), st(status)))
}

func (Lib) FreeAnalogInputPort(h int32) {
	C.HAL_FreeAnalogInputPort(C.HAL_AnalogInputHandle(h))
}

func (Lib) GetAnalogValue(h int32, status *int32) int32 {
	return int32(C.HAL_GetAnalogValue(C.HAL_AnalogInputHandle(h), st(status)))
}

func (Lib) GetAnalogAverageValue(h int32, status *int32) int32 {
	return int32(C.HAL_GetAnalogAverageValue(C.HAL_AnalogInputHandle(h), st(status)))
}

func (Lib) GetAnalogVoltage(h int32, status *int32) float64 {
	return float64(C.HAL_GetAnalogVoltage(C.HAL_AnalogInputHandle(h), st(status)))
}

func (Lib) SetAnalogAverageBits(h int32, bits int32, status *int32) {
	C.HAL_SetAnalogAverageBits(C.HAL_AnalogInputHandle(h), C.int32_t(bits), st(status))
}

func (Lib) GetAnalogAverageBits(h int32, status *int32) int32 {
	return int32(C.HAL_GetAnalogAverageBits(C.HAL_AnalogInputHandle(h), st(status)))
}

// ---- digital I/O ----

func (Lib) InitializeDIOPort(port int32, input bool, status *int32) int32 {
	return int32(C.HAL_InitializeDIOPort(C.HAL_PortHandle(port), cbool(input), st(status)))
}

func (Lib) FreeDIOPort(h int32) {
	C.HAL_FreeDIOPort(C.HAL_DigitalHandle(h))
}

func (Lib) SetDIO(h int32, value bool, status *int32) {
	C.HAL_SetDIO(C.HAL_DigitalHandle(h), cbool(value), st(status))
}

func (Lib) GetDIO(h int32, status *int32) bool {
	return C.HAL_GetDIO(C.HAL_DigitalHandle(h), st(status)) != 0
}

func (Lib) GetDIODirection(h int32, status *int32) bool {
	return C.HAL_GetDIODirection(C.HAL_DigitalHandle(h), st(status)) != 0
}

// ---- I2C ----

func (Lib) InitializeI2C(port int32, status *int32) {
	C.HAL_InitializeI2C(C.HAL_I2CPort(port), st(status))
}

func (Lib) TransactionI2C(port, addr int32, send, recv []byte) int32 {
	var sp, rp *C.uint8_t
	if len(send) > 0 {
		sp = (*C.uint8_t)(unsafe.Pointer(&send[0]))
	}
	if len(recv) > 0 {
		rp = (*C.uint8_t)(unsafe.Pointer(&recv[0]))
	}
	return int32(C.HAL_TransactionI2C(C.HAL_I2CPort(port), C.int32_t(addr),
		sp, C.int32_t(len(send)), rp, C.int32_t(len(recv))))
}

func (Lib) CloseI2C(port int32) {
	C.HAL_CloseI2C(C.HAL_I2CPort(port))
}
