package link

import "sync/atomic"

// AttemptCounter tracks alarm expirations for one establishment run.
//
// The count is incremented, and the armed flag cleared, only by the alarm
// expiry path. The armed flag is set only by the controller after it
// schedules a new alarm.
type AttemptCounter struct {
	count atomic.Int32
	armed atomic.Bool
}

// NewAttemptCounter returns a counter with zero attempts and no alarm armed.
func NewAttemptCounter() *AttemptCounter {
	return &AttemptCounter{}
}

// Count returns the number of expired alarms.
func (c *AttemptCounter) Count() int { return int(c.count.Load()) }

// Armed reports whether an alarm is currently scheduled.
func (c *AttemptCounter) Armed() bool { return c.armed.Load() }

func (c *AttemptCounter) arm() { c.armed.Store(true) }

// expire records one alarm expiry and returns the new attempt number.
func (c *AttemptCounter) expire() int {
	c.armed.Store(false)
	return int(c.count.Add(1))
}

func (c *AttemptCounter) reset() {
	c.count.Store(0)
	c.armed.Store(false)
}
