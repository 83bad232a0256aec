package errcode

// Raw status values as defined by the vendor headers. Warnings are
// non-negative, errors are negative; the two ranges come from separate
// enumerations and overlap in magnitude.
const (
	StatusSampleRateTooHigh  int32 = 1001
	StatusVoltageOutOfRange  int32 = 1002
	StatusLoopTimingError    int32 = 1004
	StatusSPIWriteNoMOSI     int32 = 1012
	StatusSPIReadNoMISO      int32 = 1013
	StatusSPIReadNoData      int32 = 1014
	StatusIncompatibleState  int32 = 1015
	StatusNoAvailableRes     int32 = -1004
	StatusNullParameter      int32 = -1005
	StatusTriggerLimitOrder  int32 = -1010
	StatusTriggerPulseOutput int32 = -1011
	StatusParamOutOfRange    int32 = -1028
	StatusResourceAllocated  int32 = -1029
	StatusResourceOutOfRange int32 = -1030
	StatusInvalidAccumChan   int32 = -1035
	StatusCounterUnsupported int32 = -1058
	StatusPWMScaleError      int32 = -1072
	StatusHandleError        int32 = -1098
	StatusSerialNotFound     int32 = -1123
	StatusSerialOpenError    int32 = -1124
	StatusSerialPortError    int32 = -1125
	StatusThreadPriority     int32 = -1152
	StatusThreadPriorityRng  int32 = -1153
)

var positive = map[uint32]Code{
	uint32(StatusSampleRateTooHigh): SampleRateTooHigh,
	uint32(StatusVoltageOutOfRange): VoltageOutOfRange,
	uint32(StatusLoopTimingError):   LoopTimingError,
	uint32(StatusSPIWriteNoMOSI):    SPIWriteNoMOSI,
	uint32(StatusSPIReadNoMISO):     SPIReadNoMISO,
	uint32(StatusSPIReadNoData):     SPIReadNoData,
	uint32(StatusIncompatibleState): IncompatibleState,
}

var negative = map[int32]Code{
	StatusNoAvailableRes:     NoAvailableRes,
	StatusNullParameter:      NullParameter,
	StatusTriggerLimitOrder:  TriggerLimitOrder,
	StatusTriggerPulseOutput: TriggerPulseOutput,
	StatusParamOutOfRange:    ParamOutOfRange,
	StatusResourceAllocated:  ResourceAllocated,
	StatusResourceOutOfRange: ResourceOutOfRange,
	StatusInvalidAccumChan:   InvalidAccumChan,
	StatusCounterUnsupported: CounterUnsupported,
	StatusPWMScaleError:      PWMScaleError,
	StatusHandleError:        HandleError,
	StatusSerialNotFound:     SerialNotFound,
	StatusSerialOpenError:    SerialOpenError,
	StatusSerialPortError:    SerialPortError,
	StatusThreadPriority:     ThreadPriority,
	StatusThreadPriorityRng:  ThreadPriorityRng,
}

// LookupStatus maps a nonzero native status to its Code. The sign selects
// the table before the value is matched. Codes neither table names, and 0,
// yield UnknownStatus with ok=false.
func LookupStatus(status int32) (c Code, ok bool) {
	if status >= 0 {
		c, ok = positive[uint32(status)]
	} else {
		c, ok = negative[status]
	}
	if !ok {
		return UnknownStatus, false
	}
	return c, true
}
