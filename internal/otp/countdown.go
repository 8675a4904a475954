package otp

import (
	"sync"
	"time"
)

// Countdown is a repeating once-per-interval timer counting down to zero.
// It must be stopped explicitly (verification success, flow reset, teardown);
// an uncancelled countdown leaks its goroutine.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	stopped   bool
	stop      chan struct{}
}

// StartCountdown begins counting down from seconds, invoking onTick with the
// remaining count after every interval and onDone once it reaches zero.
// Either callback may be nil. Callbacks run on the countdown's goroutine.
func StartCountdown(seconds int, interval time.Duration, onTick func(remaining int), onDone func()) *Countdown {
	c := &Countdown{
		remaining: seconds,
		stop:      make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.mu.Lock()
				c.remaining--
				rem := c.remaining
				done := rem <= 0
				if done {
					c.stopped = true
				}
				c.mu.Unlock()

				if done {
					if onDone != nil {
						onDone()
					}
					return
				}
				if onTick != nil {
					onTick(rem)
				}
			case <-c.stop:
				return
			}
		}
	}()

	return c
}

// Remaining returns the seconds left, zero once finished or stopped.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return 0
	}
	return c.remaining
}

// Active reports whether the countdown is still running.
func (c *Countdown) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.stopped && c.remaining > 0
}

// Stop cancels the countdown. Safe to call more than once.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true
	close(c.stop)
}
