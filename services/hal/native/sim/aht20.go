package sim

import (
	"sync"
	"time"

	"frchal-go/x/mathx"
)

// AHT20Address is the fixed bus address of the sensor.
const AHT20Address = 0x38

const (
	aht20CmdTrigger = 0xAC
	aht20CmdStatus  = 0x71

	aht20Busy       = 0x80
	aht20Calibrated = 0x08

	// 20-bit raw readings; full scale is 0xFFFFF.
	aht20FullScale = 1<<20 - 1

	aht20Conversion = 30 * time.Millisecond
)

// AHT20 simulates a temperature/humidity sensor that answers the vendor
// command set: status read, trigger, and a 7-byte data read that reports
// busy until the conversion time has elapsed.
type AHT20 struct {
	mu      sync.Mutex
	readyAt time.Time
	busy    bool
	hraw    uint32
	traw    uint32
}

// NewAHT20 returns a sensor reading tempC and rh (percent).
func NewAHT20(tempC, rh float64) *AHT20 {
	s := &AHT20{}
	s.Set(tempC, rh)
	return s
}

// Set changes the environment the sensor measures.
func (s *AHT20) Set(tempC, rh float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.traw = uint32((mathx.Clamp(tempC, -50, 150) + 50) / 200 * aht20FullScale)
	s.hraw = uint32(mathx.Clamp(rh, 0, 100) / 100 * aht20FullScale)
}

// Device adapts the sensor to AttachI2C.
func (s *AHT20) Device() I2CDevice { return s.tx }

func (s *AHT20) tx(w, r []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()

	status := func() byte {
		b := byte(aht20Calibrated)
		if s.busy && now.Before(s.readyAt) {
			b |= aht20Busy
		} else {
			s.busy = false
		}
		return b
	}

	switch {
	case len(w) == 1 && w[0] == aht20CmdStatus && len(r) == 1:
		r[0] = status()
	case len(w) >= 1 && w[0] == aht20CmdTrigger:
		s.busy = true
		s.readyAt = now.Add(aht20Conversion)
	case len(w) == 0 && len(r) == 7:
		r[0] = status()
		h, t := s.hraw, s.traw
		r[1] = byte(h >> 12)
		r[2] = byte(h >> 4)
		r[3] = byte((h&0xF)<<4 | (t>>16)&0x0F)
		r[4] = byte(t >> 8)
		r[5] = byte(t)
		r[6] = 0
	default:
		// initialize, soft reset: accepted.
	}
	return true
}
