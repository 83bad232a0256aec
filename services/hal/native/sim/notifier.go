package sim

import (
	"sync"
	"time"

	"frchal-go/errcode"
)

// notifier models one HAL notifier: a single alarm that a waiter blocks on.
// Cancel disarms the alarm without waking the waiter; Stop wakes it for
// good and makes every later wait return 0.
type notifier struct {
	mu      sync.Mutex
	alarm   uint64
	armed   bool
	active  bool
	waiting int
	wake    chan struct{}
}

func (n *notifier) signal() {
	select {
	case n.wake <- struct{}{}:
	default:
	}
}

func (l *Lib) notifier(h int32, status *int32) *notifier {
	if _, ok := decode(h, kindNotifier); !ok {
		*status = errcode.StatusHandleError
		return nil
	}
	l.mu.Lock()
	n := l.notifiers[h]
	l.mu.Unlock()
	if n == nil {
		*status = errcode.StatusHandleError
	}
	return n
}

func (l *Lib) InitializeNotifier(status *int32) int32 {
	l.enter()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextNotifier++
	h := encode(kindNotifier, l.nextNotifier)
	l.notifiers[h] = &notifier{active: true, wake: make(chan struct{}, 1)}
	return h
}

func (l *Lib) UpdateNotifierAlarm(h int32, triggerTime uint64, status *int32) {
	l.enter()
	n := l.notifier(h, status)
	if n == nil {
		return
	}
	n.mu.Lock()
	n.alarm = triggerTime
	n.armed = true
	n.mu.Unlock()
	n.signal()
}

func (l *Lib) CancelNotifierAlarm(h int32, status *int32) {
	l.enter()
	n := l.notifier(h, status)
	if n == nil {
		return
	}
	n.mu.Lock()
	n.armed = false
	n.mu.Unlock()
	n.signal()
}

func (l *Lib) StopNotifier(h int32, status *int32) {
	l.enter()
	n := l.notifier(h, status)
	if n == nil {
		return
	}
	n.mu.Lock()
	n.active = false
	n.armed = false
	n.mu.Unlock()
	n.signal()
}

// WaitForNotifierAlarm blocks until the armed alarm time passes, returning
// the FPGA time at wake-up, or until the notifier is stopped, returning 0.
func (l *Lib) WaitForNotifierAlarm(h int32, status *int32) uint64 {
	l.enter()
	n := l.notifier(h, status)
	if n == nil {
		return 0
	}
	n.mu.Lock()
	n.waiting++
	n.mu.Unlock()
	defer func() {
		n.mu.Lock()
		n.waiting--
		n.mu.Unlock()
	}()

	timer := time.NewTimer(time.Hour)
	defer timer.Stop()
	for {
		n.mu.Lock()
		if !n.active {
			n.mu.Unlock()
			return 0
		}
		if !n.armed {
			n.mu.Unlock()
			<-n.wake
			continue
		}
		now := l.now()
		if now >= n.alarm {
			n.armed = false
			n.mu.Unlock()
			return now
		}
		d := time.Duration(n.alarm-now) * time.Microsecond
		n.mu.Unlock()

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(d)
		select {
		case <-timer.C:
		case <-n.wake:
		}
	}
}

func (l *Lib) CleanNotifier(h int32, status *int32) {
	l.enter()
	if _, ok := decode(h, kindNotifier); !ok {
		*status = errcode.StatusHandleError
		return
	}
	l.mu.Lock()
	n := l.notifiers[h]
	delete(l.notifiers, h)
	count := l.recordFree(h)
	l.mu.Unlock()

	if n == nil {
		*status = errcode.StatusHandleError
		l.misuse("notifier %#x freed %d times", h, count)
		return
	}
	n.mu.Lock()
	busy := n.waiting > 0
	n.active = false
	n.mu.Unlock()
	n.signal()
	if busy {
		l.misuse("notifier %#x freed while a wait is in progress", h)
	}
}
