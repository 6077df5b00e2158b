// Package heartbeat reports liveness of the poll loop to an external prober.
//
// The collector touches a channel once per completed cycle; a probe reads the
// instant of the last touch back out and decides whether the loop is still
// alive. Two transports exist: a unix socket served from inside the process
// (the default) and a marker file whose mtime carries the signal.
package heartbeat

import (
	"sync"
	"time"
)

// Clock is the guarded cell holding the instant of the last completed poll
// cycle. It starts at the unix epoch so a freshly started process reports
// unhealthy until the first cycle finishes.
type Clock struct {
	mu   sync.Mutex
	last time.Time
}

func NewClock() *Clock {
	return &Clock{last: time.Unix(0, 0)}
}

// Update moves the cell to the current wall-clock time.
func (c *Clock) Update() {
	c.mu.Lock()
	c.last = time.Now()
	c.mu.Unlock()
}

// Snapshot returns the instant of the last Update, or the epoch before any.
func (c *Clock) Snapshot() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}
