package mainloop

import (
	"fmt"
	"sync"
	"time"

	"github.com/cuemby/flowrt/pkg/flowerrors"
)

// FDFlags is a bitset of the file-descriptor readiness conditions a node
// can watch for.
type FDFlags uint8

const (
	FDReadable FDFlags = 1 << iota
	FDWritable
	FDError
)

// Timeout, Idle, FDWatch, and ChildWatch are handles returned by Loop's
// Add* methods. Delete guarantees no further callback for that handle
// fires after it returns.
type (
	Timeout    interface{ Delete() }
	Idle       interface{ Delete() }
	FDWatch    interface{ Delete() }
	ChildWatch interface{ Delete() }
)

// Loop is the abstract mainloop contract a node's Open may use to
// schedule future work. Every callback registered through
// a Loop runs on the single mainloop thread; none of them
// may block.
//
// A callback returning true asks to be rescheduled (for AddTimeout and
// AddIdle); returning false removes it, equivalent to calling Delete.
type Loop interface {
	AddTimeout(d time.Duration, cb func() bool) (Timeout, error)
	AddIdle(cb func() bool) (Idle, error)
	AddFD(fd int, events FDFlags, cb func(FDFlags) bool) (FDWatch, error)
	AddChild(pid int, cb func(exitStatus int)) (ChildWatch, error)
}

// TimerLoop is a time.Timer-backed Loop implementation. It is the only
// mainloop this module ships: it supports timeouts and idle callbacks,
// sufficient to drive builtin.WallclockMinute, but has no real descriptor
// or child-process polling to offer, so AddFD and AddChild report
// ErrNotSupported rather than silently doing nothing.
//
// time.AfterFunc alone would run every timer's callback on its own
// goroutine, so two live timeouts could call into a container's Send at
// once — exactly what the single mainloop thread is meant to rule out.
// TimerLoop instead runs one dispatch goroutine per Loop and routes every
// timer firing through it, so callbacks registered on the same TimerLoop
// never run concurrently with one another. Nodes sharing a container
// must share one TimerLoop for this guarantee to hold across them.
type TimerLoop struct {
	work chan func()
}

// NewTimerLoop constructs a TimerLoop and starts its dispatch goroutine.
func NewTimerLoop() *TimerLoop {
	l := &TimerLoop{work: make(chan func())}
	go l.run()
	return l
}

func (l *TimerLoop) run() {
	for fn := range l.work {
		fn()
	}
}

// dispatch hands fn to the loop's single dispatch goroutine and blocks
// until it has run.
func (l *TimerLoop) dispatch(fn func()) {
	done := make(chan struct{})
	l.work <- func() {
		fn()
		close(done)
	}
	<-done
}

type timeoutHandle struct {
	mu      sync.Mutex
	timer   *time.Timer
	deleted bool
}

func (h *timeoutHandle) Delete() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deleted = true
	if h.timer != nil {
		h.timer.Stop()
	}
}

func (l *TimerLoop) AddTimeout(d time.Duration, cb func() bool) (Timeout, error) {
	if d <= 0 {
		return nil, fmt.Errorf("mainloop: %w: timeout duration must be positive", flowerrors.ErrInvalidArgument)
	}
	h := &timeoutHandle{}
	var reschedule func()
	fire := func() {
		h.mu.Lock()
		if h.deleted {
			h.mu.Unlock()
			return
		}
		h.mu.Unlock()

		cont := cb()

		h.mu.Lock()
		defer h.mu.Unlock()
		if cont && !h.deleted {
			reschedule()
		}
	}
	reschedule = func() {
		h.timer = time.AfterFunc(d, func() { l.dispatch(fire) })
	}
	h.mu.Lock()
	reschedule()
	h.mu.Unlock()
	return h, nil
}

type idleHandle struct {
	mu      sync.Mutex
	timer   *time.Timer
	deleted bool
}

func (h *idleHandle) Delete() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deleted = true
	if h.timer != nil {
		h.timer.Stop()
	}
}

// AddIdle schedules cb to run as soon as the caller yields control. There
// is no real "otherwise idle" detection without an owning event loop, so
// this fires on the next scheduler tick; good enough for deferred
// open-time work.
func (l *TimerLoop) AddIdle(cb func() bool) (Idle, error) {
	h := &idleHandle{}
	var reschedule func()
	fire := func() {
		h.mu.Lock()
		if h.deleted {
			h.mu.Unlock()
			return
		}
		h.mu.Unlock()

		cont := cb()

		h.mu.Lock()
		defer h.mu.Unlock()
		if cont && !h.deleted {
			reschedule()
		}
	}
	reschedule = func() {
		h.timer = time.AfterFunc(0, func() { l.dispatch(fire) })
	}
	h.mu.Lock()
	reschedule()
	h.mu.Unlock()
	return h, nil
}

func (l *TimerLoop) AddFD(fd int, events FDFlags, cb func(FDFlags) bool) (FDWatch, error) {
	return nil, fmt.Errorf("mainloop: TimerLoop: %w: fd watching requires an OS-integrated loop", flowerrors.ErrNotSupported)
}

func (l *TimerLoop) AddChild(pid int, cb func(exitStatus int)) (ChildWatch, error) {
	return nil, fmt.Errorf("mainloop: TimerLoop: %w: child watching requires an OS-integrated loop", flowerrors.ErrNotSupported)
}
