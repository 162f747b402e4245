// Package pool recycles *time.Timer values for short-lived alarms.
package pool

import (
	"sync"
	"time"
)

var timerPool = sync.Pool{
	New: func() any {
		t := time.NewTimer(time.Hour)
		t.Stop()

		return t
	},
}

// GetTimer returns a stopped timer from the pool, reset to fire after d.
//
// Return the timer with PutTimer once it has fired or is no longer needed.
func GetTimer(d time.Duration) *time.Timer {
	t, _ := timerPool.Get().(*time.Timer) // only *time.Timer values are pooled
	stopTimer(t)
	t.Reset(d)

	return t
}

// PutTimer stops t and returns it to the pool.
//
// t cannot be accessed after returning to the pool.
func PutTimer(t *time.Timer) {
	stopTimer(t)
	timerPool.Put(t)
}

// stopTimer stops t and drains a pending tick the caller never received.
func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
