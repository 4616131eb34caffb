package runtime

import (
	"context"
	"errors"
	"sort"
	"time"
)

// TimerMode says whether a timer fires once or repeatedly
type TimerMode int

const (
	TimerSingleShot TimerMode = iota
	TimerRepeated
)

// EventLoop drives timers. Time is measured from the creation of the loop.
type EventLoop interface {
	Now() time.Duration
	schedule(t *Timer)
	unschedule(t *Timer)
}

// Timer calls its callback after an interval, once or repeatedly
type Timer struct {
	loop     EventLoop
	mode     TimerMode
	interval time.Duration
	callback func()
	deadline time.Duration
	running  bool
}

// NewTimer creates a stopped timer on loop
func NewTimer(loop EventLoop) *Timer {
	return &Timer{loop: loop}
}

// Start (re)starts the timer. Starting a running timer restarts its interval.
func (t *Timer) Start(mode TimerMode, interval time.Duration, callback func()) {
	if t.running {
		t.loop.unschedule(t)
	}
	t.mode = mode
	t.interval = interval
	t.callback = callback
	t.deadline = t.loop.Now() + interval
	t.running = true
	t.loop.schedule(t)
}

// Stop stops the timer. Stopping a stopped timer does nothing.
func (t *Timer) Stop() {
	if !t.running {
		return
	}
	t.running = false
	t.loop.unschedule(t)
}

// Running reports whether the timer is started
func (t *Timer) Running() bool {
	return t.running
}

// Interval returns the interval of the last Start
func (t *Timer) Interval() time.Duration {
	return t.interval
}

// ManualEventLoop is an event loop whose time only moves with Advance
type ManualEventLoop struct {
	now    time.Duration
	timers []*Timer
	tasks  []func()
	onTick []func()
}

// NewManualEventLoop creates a loop at time 0
func NewManualEventLoop() *ManualEventLoop {
	return &ManualEventLoop{}
}

// Now implements EventLoop
func (l *ManualEventLoop) Now() time.Duration {
	return l.now
}

func (l *ManualEventLoop) schedule(t *Timer) {
	l.timers = append(l.timers, t)
}

func (l *ManualEventLoop) unschedule(t *Timer) {
	for i, o := range l.timers {
		if o == t {
			l.timers = append(l.timers[:i], l.timers[i+1:]...)
			return
		}
	}
}

// OnTick registers a function called after every Advance
func (l *ManualEventLoop) OnTick(f func()) {
	l.onTick = append(l.onTick, f)
}

// Post queues f to run on the next Advance
func (l *ManualEventLoop) Post(f func()) {
	l.tasks = append(l.tasks, f)
}

// next returns the running timer with the earliest deadline not after limit
func (l *ManualEventLoop) next(limit time.Duration) *Timer {
	sort.SliceStable(l.timers, func(i, j int) bool { return l.timers[i].deadline < l.timers[j].deadline })
	if len(l.timers) == 0 || l.timers[0].deadline > limit {
		return nil
	}
	return l.timers[0]
}

// Advance runs the posted tasks, then fires the timers due within d in deadline order
func (l *ManualEventLoop) Advance(d time.Duration) {
	tasks := l.tasks
	l.tasks = nil
	for _, f := range tasks {
		f()
	}
	target := l.now + d
	for t := l.next(target); t != nil; t = l.next(target) {
		l.now = t.deadline
		if t.mode == TimerRepeated && t.interval > 0 {
			t.deadline += t.interval
		} else {
			t.Stop()
		}
		t.callback()
	}
	l.now = target
	for _, f := range l.onTick {
		f()
	}
}

// ErrLoopQuit is returned by Run after Quit
var ErrLoopQuit = errors.New("event loop quit")

// Loop is a real-time event loop ticking a ManualEventLoop
type Loop struct {
	*ManualEventLoop
	tick   time.Duration
	posted chan func()
	quit   chan struct{}
}

// NewLoop creates a loop advancing every tick
func NewLoop(tick time.Duration) *Loop {
	return &Loop{
		ManualEventLoop: NewManualEventLoop(),
		tick:            tick,
		posted:          make(chan func(), 64),
		quit:            make(chan struct{}),
	}
}

// InvokeFromEventLoop runs f on the goroutine running the loop. It may be called from
// any goroutine.
func (l *Loop) InvokeFromEventLoop(f func()) {
	l.posted <- f
}

// Quit stops Run. It may be called from any goroutine, once.
func (l *Loop) Quit() {
	close(l.quit)
}

// Run processes timers and posted functions until ctx is done or Quit is called
func (l *Loop) Run(ctx context.Context) error {
	start := time.Now()
	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.quit:
			return ErrLoopQuit
		case f := <-l.posted:
			f()
		case <-ticker.C:
			l.Advance(time.Since(start) - l.Now())
		}
	}
}
