package sim

import "frchal-go/errcode"

const unknownMessage = "HAL: Unknown error status"

// messages mirrors the vendor's *_MESSAGE strings.
var messages = map[int32]string{
	errcode.StatusSampleRateTooHigh:  "HAL: Analog module sample rate is too high",
	errcode.StatusVoltageOutOfRange:  "HAL: Voltage to convert to raw value is out of range [0; 5]",
	errcode.StatusLoopTimingError:    "HAL: Digital module loop timing is not the expected value",
	errcode.StatusSPIWriteNoMOSI:     "HAL: Cannot write to SPI port with no MOSI output",
	errcode.StatusSPIReadNoMISO:      "HAL: Cannot read from SPI port with no MISO input",
	errcode.StatusSPIReadNoData:      "HAL: No data available to read from SPI",
	errcode.StatusIncompatibleState:  "HAL: Incompatible State: The operation cannot be completed",
	errcode.StatusNoAvailableRes:     "HAL: No available resources to allocate",
	errcode.StatusNullParameter:      "HAL: A pointer parameter to a method is NULL",
	errcode.StatusTriggerLimitOrder:  "HAL: AnalogTrigger limits error.  Lower limit > Upper Limit",
	errcode.StatusTriggerPulseOutput: "HAL: Attempted to read AnalogTrigger pulse output.",
	errcode.StatusParamOutOfRange:    "HAL: A parameter is out of range.",
	errcode.StatusResourceAllocated:  "HAL: Resource already allocated",
	errcode.StatusResourceOutOfRange: "HAL: The requested resource is out of range.",
	errcode.StatusInvalidAccumChan:   "HAL: The requested input is not an accumulator channel",
	errcode.StatusCounterUnsupported: "HAL: Counter mode not supported for encoder method",
	errcode.StatusPWMScaleError:      "HAL: The PWM Scale Factors are out of range",
	errcode.StatusHandleError:        "HAL: A handle parameter was passed incorrectly",
	errcode.StatusSerialNotFound:     "HAL: The specified serial port device was not found",
	errcode.StatusSerialOpenError:    "HAL: The serial port could not be opened",
	errcode.StatusSerialPortError:    "HAL: There was an error on the serial port",
	errcode.StatusThreadPriority:     "HAL: Getting or setting the priority of a thread has failed",
	errcode.StatusThreadPriorityRng:  "HAL: The priority requested to be set is invalid",
}
