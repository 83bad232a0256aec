package timex

import "time"

// Micros converts d to whole FPGA microseconds. Positive durations below one
// microsecond round up to 1 so a period never collapses to zero.
func Micros(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	us := uint64(d / time.Microsecond)
	if us == 0 {
		us = 1
	}
	return us
}

// FromMicros converts FPGA microseconds back to a Duration.
func FromMicros(us uint64) time.Duration { return time.Duration(us) * time.Microsecond }

// PeriodFromHz returns the period for a requested frequency.
// freqHz==0 is coerced to 1 to avoid division by zero.
func PeriodFromHz(freqHz uint32) time.Duration {
	if freqHz == 0 {
		freqHz = 1
	}
	return time.Second / time.Duration(freqHz)
}
