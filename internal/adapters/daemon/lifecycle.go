package daemon

import (
	"sync"
	"time"
)

// Stats is a point-in-time view of daemon activity.
type Stats struct {
	Uptime        time.Duration
	LastActivity  time.Time
	IdleRemaining time.Duration
	Calls         int
	InFlight      int
	LastTool      string
}

// Lifecycle shuts the daemon down once no tool call has run for the idle
// timeout. The timer is held while any call is in flight, so a slow model
// load never counts as idle time.
type Lifecycle struct {
	mu       sync.Mutex
	timer    *time.Timer
	started  time.Time
	lastSeen time.Time
	timeout  time.Duration
	inFlight int
	calls    int
	lastTool string
	done     chan struct{}
	once     sync.Once
}

// NewLifecycle starts the idle timer.
func NewLifecycle(timeout time.Duration) *Lifecycle {
	now := time.Now()
	l := &Lifecycle{
		started:  now,
		lastSeen: now,
		timeout:  timeout,
		done:     make(chan struct{}),
	}
	l.timer = time.AfterFunc(timeout, l.expire)
	return l
}

// Touch records activity that is not a tool call, such as a ping.
func (l *Lifecycle) Touch() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastSeen = time.Now()
	if l.inFlight == 0 {
		l.timer.Reset(l.timeout)
	}
}

// Begin records the start of a call to tool and holds the idle timer until
// the returned function is called. Calling it more than once has no effect.
func (l *Lifecycle) Begin(tool string) (end func()) {
	l.mu.Lock()
	l.inFlight++
	l.calls++
	l.lastTool = tool
	l.lastSeen = time.Now()
	l.timer.Stop()
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			l.inFlight--
			l.lastSeen = time.Now()
			if l.inFlight == 0 {
				l.timer.Reset(l.timeout)
			}
		})
	}
}

// Stats reports the current activity counters.
func (l *Lifecycle) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	idle := l.timeout
	if l.inFlight == 0 {
		idle = max(l.timeout-time.Since(l.lastSeen), 0)
	}
	return Stats{
		Uptime:        time.Since(l.started),
		LastActivity:  l.lastSeen,
		IdleRemaining: idle,
		Calls:         l.calls,
		InFlight:      l.inFlight,
		LastTool:      l.lastTool,
	}
}

// Done is closed once shutdown has been triggered.
func (l *Lifecycle) Done() <-chan struct{} {
	return l.done
}

// Shutdown stops the timer and triggers shutdown regardless of calls in
// flight. It is idempotent.
func (l *Lifecycle) Shutdown() {
	l.timer.Stop()
	l.trigger()
}

// expire runs on the timer goroutine. A call that began after the timer fired
// wins; its end restarts the timer.
func (l *Lifecycle) expire() {
	l.mu.Lock()
	busy := l.inFlight > 0
	l.mu.Unlock()
	if !busy {
		l.trigger()
	}
}

func (l *Lifecycle) trigger() {
	l.once.Do(func() {
		close(l.done)
	})
}
