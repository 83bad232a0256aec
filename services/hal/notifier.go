// services/hal/notifier.go
package hal

import (
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"frchal-go/errcode"
	"frchal-go/services/hal/internal/halerr"
	"frchal-go/services/hal/native"
	"frchal-go/x/logx"
	"frchal-go/x/timex"
)

// NotifierState is the lifecycle stage of a Notifier. Created covers the
// window between allocation and the loop starting. Stopping is entered by
// Close, or by the loop itself when it exits on an error or a panic; only
// Close moves on to Closed.
type NotifierState int32

const (
	NotifierCreated NotifierState = iota
	NotifierRunning
	NotifierStopping
	NotifierClosed
)

func (s NotifierState) String() string {
	switch s {
	case NotifierCreated:
		return "created"
	case NotifierRunning:
		return "running"
	case NotifierStopping:
		return "stopping"
	case NotifierClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Notifier calls a function periodically off the hardware clock.
//
// Deadlines are absolute: each one is the previous deadline plus the period,
// so callback latency does not accumulate. Ticks never overlap. When a tick
// runs so late that whole periods were missed, those periods are skipped
// and counted as overruns.
//
// Close must not be called from inside the callback.
type Notifier struct {
	res      *owned[NotifierKind]
	callback func(now uint64)

	periodUs atomic.Uint64
	running  atomic.Bool
	state    atomic.Int32
	ticks    atomic.Uint64
	overruns atomic.Uint64

	// mu orders CancelAlarm's native calls against Close freeing the handle.
	mu        sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
}

// NewNotifier allocates a native notifier and starts calling callback every
// period. callback receives the FPGA time, in microseconds, of the wake-up.
func NewNotifier(callback func(now uint64), period time.Duration) (*Notifier, error) {
	const op = "NewNotifier"
	if callback == nil {
		return nil, &Error{E: errcode.E{C: errcode.InvalidParams, Op: op, Msg: "nil callback"}}
	}
	if period <= 0 {
		return nil, &Error{E: errcode.E{C: errcode.InvalidParams, Op: op, Msg: "period must be positive", Err: halerr.ErrInvalidPeriod}}
	}

	res, err := allocate[NotifierKind]("InitializeNotifier",
		func(l native.Lib, status *int32) int32 { return l.InitializeNotifier(status) },
		func(l native.Lib, raw int32) {
			var status int32
			l.CleanNotifier(raw, &status)
		})
	if err != nil {
		return nil, err
	}
	start, err := FPGATime()
	if err != nil {
		res.release()
		return nil, err
	}

	n := &Notifier{res: res, callback: callback, done: make(chan struct{})}
	n.state.Store(int32(NotifierCreated))
	n.periodUs.Store(timex.Micros(period))
	n.running.Store(true)
	go n.run(start)

	logx.Info(logx.ComponentNotifier, "started", "handle", res.handle().String(), "period", period)
	return n, nil
}

func (n *Notifier) run(start uint64) {
	defer close(n.done)
	// The native wait blocks inside C; keep it on one OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	n.state.CompareAndSwap(int32(NotifierCreated), int32(NotifierRunning))
	defer func() {
		if r := recover(); r != nil {
			n.halt()
			reportRecovered(r, debug.Stack())
		}
	}()

	h := n.res.handle().Raw()
	deadline := start
	for n.running.Load() {
		period := n.periodUs.Load()
		deadline += period

		if err := CallVoid("UpdateNotifierAlarm", func(l native.Lib, status *int32) {
			l.UpdateNotifierAlarm(h, deadline, status)
		}); err != nil {
			logx.Error(logx.ComponentNotifier, "arm failed", "err", err)
			n.halt()
			return
		}
		now, err := Call("WaitForNotifierAlarm", func(l native.Lib, status *int32) uint64 {
			return l.WaitForNotifierAlarm(h, status)
		})
		if err != nil {
			logx.Error(logx.ComponentNotifier, "wait failed", "err", err)
			n.halt()
			return
		}
		if now == 0 || !n.running.Load() {
			return
		}
		if now < deadline {
			// Alarm cancelled; this tick is dropped.
			logx.Debug(logx.ComponentNotifier, "tick cancelled", "deadline", deadline, "now", now)
			continue
		}
		if missed := (now - deadline) / period; missed > 0 {
			deadline += missed * period
			n.overruns.Add(missed)
			logx.Warn(logx.ComponentNotifier, "overrun", "missed", missed, "period_us", period)
		}
		n.ticks.Add(1)
		n.callback(now)
	}
}

// halt records that the loop has exited on its own. The handle stays
// allocated until Close.
func (n *Notifier) halt() {
	n.running.Store(false)
	n.state.CompareAndSwap(int32(NotifierRunning), int32(NotifierStopping))
}

// live reports whether the loop is starting or running.
func (n *Notifier) live() bool {
	if NotifierState(n.state.Load()) >= NotifierStopping {
		return false
	}
	select {
	case <-n.done:
		return false
	default:
		return true
	}
}

// SetPeriod changes the period from the next arming on.
func (n *Notifier) SetPeriod(d time.Duration) error {
	if d <= 0 {
		return &Error{E: errcode.E{C: errcode.InvalidParams, Op: "SetPeriod", Msg: "period must be positive", Err: halerr.ErrInvalidPeriod}}
	}
	if !n.live() {
		return closedErr("SetPeriod")
	}
	n.periodUs.Store(timex.Micros(d))
	return nil
}

// CancelAlarm drops the pending tick. The notifier keeps running and the
// next tick falls one period after the dropped one.
func (n *Notifier) CancelAlarm() error {
	const op = "CancelAlarm"
	n.mu.RLock()
	defer n.mu.RUnlock()
	if !n.live() {
		return closedErr(op)
	}
	h := n.res.handle().Raw()
	if err := CallVoid(op, func(l native.Lib, status *int32) {
		l.CancelNotifierAlarm(h, status)
	}); err != nil {
		return err
	}
	// The native cancel only disarms; rearming at the current time releases
	// the waiter so the loop can observe the early wake.
	return CallVoid(op, func(l native.Lib, status *int32) {
		now := l.GetFPGATime(status)
		if *status == 0 {
			l.UpdateNotifierAlarm(h, now, status)
		}
	})
}

// Close stops the goroutine, waits for it to exit and frees the native
// notifier, in that order. It is idempotent and always returns nil.
func (n *Notifier) Close() error {
	n.closeOnce.Do(func() {
		// Waits out any CancelAlarm in flight; later ones see Stopping.
		n.mu.Lock()
		n.state.Store(int32(NotifierStopping))
		n.running.Store(false)
		n.mu.Unlock()

		var status int32
		n.res.lib.StopNotifier(n.res.handle().Raw(), &status)
		if status != 0 {
			logx.Debug(logx.ComponentNotifier, "stop reported status", "status", status)
		}
		<-n.done
		n.res.release()

		n.state.Store(int32(NotifierClosed))
		logx.Info(logx.ComponentNotifier, "closed", "ticks", n.ticks.Load(), "overruns", n.overruns.Load())
	})
	return nil
}

func (n *Notifier) State() NotifierState { return NotifierState(n.state.Load()) }

// Ticks is the number of callbacks started so far.
func (n *Notifier) Ticks() uint64 { return n.ticks.Load() }

// Overruns is the number of periods skipped because a tick ran late.
func (n *Notifier) Overruns() uint64 { return n.overruns.Load() }

func (n *Notifier) Period() time.Duration { return timex.FromMicros(n.periodUs.Load()) }

// Done is closed once the notifier goroutine has exited, whether through
// Close, a native error or a callback panic.
func (n *Notifier) Done() <-chan struct{} { return n.done }
