// Package sim is a pure-Go stand-in for the vendor HAL. It follows the
// native calling convention exactly (status out-parameters, int32 handles,
// microsecond FPGA time) so the wrappers above it cannot tell the
// difference, and it keeps enough accounting for tests to assert on call
// counts, frees and driver-station reports.
package sim

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"frchal-go/bus"
	"frchal-go/errcode"
	"frchal-go/services/hal/native"
	"frchal-go/x/logx"
	"frchal-go/x/mathx"
)

// Channel counts match the roboRIO.
const (
	NumAnalogInputs = 8
	NumDIO          = 31
	NumI2CPorts     = 2
	maxPortIndex    = 255
)

// Topics the simulated driver station publishes reports on.
var (
	TopicDSError   = bus.T("ds", "error")
	TopicDSWarning = bus.T("ds", "warning")
)

// Options tune the simulation.
type Options struct {
	// Strict panics on misuse the real library treats as undefined
	// behaviour: freeing a notifier while a wait is in progress, and
	// freeing a handle twice.
	Strict bool
	// Bus, when set, receives driver-station reports.
	Bus *bus.Bus
	// FailInit makes Initialize report failure.
	FailInit bool
	// AnalogVolts seeds the voltage seen on each analog input channel.
	AnalogVolts map[int32]float64
}

// Report is one driver-station error or warning.
type Report struct {
	IsError   bool
	Code      int32
	Details   string
	Location  string
	CallStack string
}

// I2CDevice answers one transaction on a simulated bus. Returning false
// NACKs the transfer.
type I2CDevice func(w, r []byte) bool

type kind int32

const (
	kindPort kind = iota + 1
	kindAnalogInput
	kindDIO
	kindNotifier
)

func encode(k kind, idx int32) int32 { return int32(k)<<24 | (idx & 0xffffff) }

func decode(h int32, k kind) (int32, bool) {
	if h>>24 != int32(k) {
		return -1, false
	}
	return h & 0xffffff, true
}

type dioState struct {
	input bool
	value bool
}

type i2cKey struct{ port, addr int32 }

// Lib implements native.Lib.
type Lib struct {
	opts  Options
	start time.Time
	conn  *bus.Connection
	calls atomic.Int64

	mu           sync.Mutex
	initialized  bool
	analog       map[int32]bool // channel -> allocated
	avgBits      map[int32]int32
	volts        map[int32]float64
	dio          map[int32]*dioState
	notifiers    map[int32]*notifier
	nextNotifier int32
	i2cOpen      map[int32]bool
	i2cDevs      map[i2cKey]I2CDevice
	frees        map[int32]int
	reports      []Report
}

var _ native.Lib = (*Lib)(nil)

// New returns a fresh simulated library.
func New(opts Options) *Lib {
	l := &Lib{
		opts:      opts,
		start:     time.Now(),
		analog:    map[int32]bool{},
		avgBits:   map[int32]int32{},
		volts:     map[int32]float64{},
		dio:       map[int32]*dioState{},
		notifiers: map[int32]*notifier{},
		i2cOpen:   map[int32]bool{},
		i2cDevs:   map[i2cKey]I2CDevice{},
		frees:     map[int32]int{},
	}
	for ch, v := range opts.AnalogVolts {
		l.volts[ch] = v
	}
	if opts.Bus != nil {
		l.conn = opts.Bus.NewConnection("sim")
	}
	return l
}

// ---- accounting ----

// Calls returns the number of native entry points invoked so far.
func (l *Lib) Calls() int64 { return l.calls.Load() }

// Frees returns how many times handle h has been released.
func (l *Lib) Frees(h int32) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frees[h]
}

// Live returns the number of allocated analog, DIO and notifier handles.
func (l *Lib) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.dio) + len(l.notifiers)
	for _, on := range l.analog {
		if on {
			n++
		}
	}
	return n
}

// Reports returns a copy of every driver-station report received.
func (l *Lib) Reports() []Report {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Report(nil), l.reports...)
}

// SetAnalogVoltage changes the voltage seen on an analog input channel.
func (l *Lib) SetAnalogVoltage(channel int32, v float64) {
	l.mu.Lock()
	l.volts[channel] = v
	l.mu.Unlock()
}

// SetDIOInput drives the level seen on an input DIO channel.
func (l *Lib) SetDIOInput(channel int32, v bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if st, ok := l.dio[channel]; ok && st.input {
		st.value = v
	}
}

// AttachI2C connects a simulated device at addr on port.
func (l *Lib) AttachI2C(port, addr int32, dev I2CDevice) {
	l.mu.Lock()
	l.i2cDevs[i2cKey{port, addr}] = dev
	l.mu.Unlock()
}

func (l *Lib) enter() { l.calls.Add(1) }

func (l *Lib) recordFree(h int32) int {
	l.frees[h]++
	return l.frees[h]
}

func (l *Lib) misuse(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logx.Error(logx.ComponentSim, "native misuse", "detail", msg)
	if l.opts.Strict {
		panic("sim: " + msg)
	}
}

// ---- boot and introspection ----

func (l *Lib) Initialize(timeoutMs int32, mode int32) bool {
	l.enter()
	if l.opts.FailInit {
		return false
	}
	l.mu.Lock()
	l.initialized = true
	l.mu.Unlock()
	logx.Debug(logx.ComponentSim, "initialized", "timeout_ms", timeoutMs, "mode", mode)
	return true
}

func (l *Lib) RuntimeType() native.RuntimeType {
	l.enter()
	return native.RuntimeMock
}

func (l *Lib) GetErrorMessage(code int32) string {
	l.enter()
	if m, ok := messages[code]; ok {
		return m
	}
	return unknownMessage
}

func (l *Lib) now() uint64 {
	return uint64(time.Since(l.start) / time.Microsecond)
}

func (l *Lib) GetFPGATime(status *int32) uint64 {
	l.enter()
	return l.now()
}

func (l *Lib) SendError(isError bool, code int32, isLVCode bool, details, location, callStack string, printMsg bool) int32 {
	l.enter()
	r := Report{IsError: isError, Code: code, Details: details, Location: location, CallStack: callStack}
	l.mu.Lock()
	l.reports = append(l.reports, r)
	l.mu.Unlock()
	if printMsg {
		if isError {
			logx.Error(logx.ComponentDS, details, "code", code, "location", location)
		} else {
			logx.Warn(logx.ComponentDS, details, "code", code, "location", location)
		}
	}
	if l.conn != nil {
		topic := TopicDSWarning
		if isError {
			topic = TopicDSError
		}
		l.conn.Publish(l.conn.NewMessage(topic, r, false))
	}
	return 0
}

// ---- ports ----

func (l *Lib) GetPort(channel int32) int32 {
	l.enter()
	return portHandle(0, channel)
}

func (l *Lib) GetPortWithModule(module, channel int32) int32 {
	l.enter()
	return portHandle(module, channel)
}

func portHandle(module, channel int32) int32 {
	if !mathx.Between(channel, 0, maxPortIndex) || !mathx.Between(module, 0, maxPortIndex) {
		return native.InvalidHandle
	}
	return encode(kindPort, module<<8|channel)
}

func portChannel(h int32) (module, channel int32, ok bool) {
	idx, ok := decode(h, kindPort)
	if !ok {
		return 0, 0, false
	}
	return idx >> 8, idx & 0xff, true
}

// ---- analog input ----

func (l *Lib) InitializeAnalogInputPort(port int32, status *int32) int32 {
	l.enter()
	_, ch, ok := portChannel(port)
	if !ok {
		*status = errcode.StatusHandleError
		return native.InvalidHandle
	}
	if ch >= NumAnalogInputs {
		*status = errcode.StatusResourceOutOfRange
		return native.InvalidHandle
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.analog[ch] {
		*status = errcode.StatusResourceAllocated
		return native.InvalidHandle
	}
	l.analog[ch] = true
	return encode(kindAnalogInput, ch)
}

func (l *Lib) FreeAnalogInputPort(h int32) {
	l.enter()
	ch, ok := decode(h, kindAnalogInput)
	if !ok {
		return
	}
	l.mu.Lock()
	allocated := l.analog[ch]
	l.analog[ch] = false
	n := l.recordFree(h)
	l.mu.Unlock()
	if !allocated {
		l.misuse("analog input %#x freed %d times", h, n)
	}
}

func (l *Lib) analogChannel(h int32, status *int32) (int32, bool) {
	ch, ok := decode(h, kindAnalogInput)
	if !ok || !l.analog[ch] {
		*status = errcode.StatusHandleError
		return 0, false
	}
	return ch, true
}

func (l *Lib) GetAnalogValue(h int32, status *int32) int32 {
	l.enter()
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.analogChannel(h, status)
	if !ok {
		return 0
	}
	return voltsToRaw(l.volts[ch])
}

func (l *Lib) GetAnalogAverageValue(h int32, status *int32) int32 {
	l.enter()
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.analogChannel(h, status)
	if !ok {
		return 0
	}
	return voltsToRaw(l.volts[ch]) << l.avgBits[ch]
}

func (l *Lib) GetAnalogVoltage(h int32, status *int32) float64 {
	l.enter()
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.analogChannel(h, status)
	if !ok {
		return 0
	}
	return mathx.Clamp(l.volts[ch], 0, 5)
}

func (l *Lib) SetAnalogAverageBits(h int32, bits int32, status *int32) {
	l.enter()
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.analogChannel(h, status)
	if !ok {
		return
	}
	if !mathx.Between(bits, 0, 7) {
		*status = errcode.StatusParamOutOfRange
		return
	}
	l.avgBits[ch] = bits
}

func (l *Lib) GetAnalogAverageBits(h int32, status *int32) int32 {
	l.enter()
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.analogChannel(h, status)
	if !ok {
		return 0
	}
	return l.avgBits[ch]
}

// voltsToRaw models the 12-bit converter over a 0–5 V span.
func voltsToRaw(v float64) int32 {
	return int32(mathx.Clamp(v, 0, 5) / 5 * 4095)
}

// ---- digital I/O ----

func (l *Lib) InitializeDIOPort(port int32, input bool, status *int32) int32 {
	l.enter()
	_, ch, ok := portChannel(port)
	if !ok {
		*status = errcode.StatusHandleError
		return native.InvalidHandle
	}
	if ch >= NumDIO {
		*status = errcode.StatusResourceOutOfRange
		return native.InvalidHandle
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, taken := l.dio[ch]; taken {
		*status = errcode.StatusResourceAllocated
		return native.InvalidHandle
	}
	l.dio[ch] = &dioState{input: input}
	return encode(kindDIO, ch)
}

func (l *Lib) FreeDIOPort(h int32) {
	l.enter()
	ch, ok := decode(h, kindDIO)
	if !ok {
		return
	}
	l.mu.Lock()
	_, allocated := l.dio[ch]
	delete(l.dio, ch)
	n := l.recordFree(h)
	l.mu.Unlock()
	if !allocated {
		l.misuse("dio %#x freed %d times", h, n)
	}
}

func (l *Lib) dioState(h int32, status *int32) *dioState {
	ch, ok := decode(h, kindDIO)
	if !ok {
		*status = errcode.StatusHandleError
		return nil
	}
	st, ok := l.dio[ch]
	if !ok {
		*status = errcode.StatusHandleError
		return nil
	}
	return st
}

func (l *Lib) SetDIO(h int32, value bool, status *int32) {
	l.enter()
	l.mu.Lock()
	defer l.mu.Unlock()
	st := l.dioState(h, status)
	if st == nil {
		return
	}
	if st.input {
		*status = errcode.StatusParamOutOfRange
		return
	}
	st.value = value
}

func (l *Lib) GetDIO(h int32, status *int32) bool {
	l.enter()
	l.mu.Lock()
	defer l.mu.Unlock()
	st := l.dioState(h, status)
	if st == nil {
		return false
	}
	return st.value
}

func (l *Lib) GetDIODirection(h int32, status *int32) bool {
	l.enter()
	l.mu.Lock()
	defer l.mu.Unlock()
	st := l.dioState(h, status)
	if st == nil {
		return false
	}
	return st.input
}

// ---- I2C ----

func (l *Lib) InitializeI2C(port int32, status *int32) {
	l.enter()
	if !mathx.Between(port, 0, NumI2CPorts-1) {
		*status = errcode.StatusResourceOutOfRange
		return
	}
	l.mu.Lock()
	l.i2cOpen[port] = true
	l.mu.Unlock()
}

func (l *Lib) TransactionI2C(port int32, addr int32, send []byte, recv []byte) int32 {
	l.enter()
	l.mu.Lock()
	open := l.i2cOpen[port]
	dev := l.i2cDevs[i2cKey{port, addr}]
	l.mu.Unlock()
	if !open || dev == nil {
		return -1
	}
	if !dev(send, recv) {
		return -1
	}
	return int32(len(recv))
}

func (l *Lib) CloseI2C(port int32) {
	l.enter()
	l.mu.Lock()
	delete(l.i2cOpen, port)
	l.mu.Unlock()
}
