package link

import (
	"sync"
	"time"

	"github.com/arloliu/go-seriallink/internal/pool"
)

// Alarm schedules a one-shot expiry callback.
//
// Arm replaces any alarm that is still pending. After Disarm returns, a
// pending callback will not start; a callback that has already started may
// still be running.
type Alarm interface {
	Arm(d time.Duration, onExpire func())
	Disarm()
}

// timerAlarm is an Alarm backed by pooled timers.
// Each Arm starts one goroutine that waits for either the timer or a disarm.
type timerAlarm struct {
	mu   sync.Mutex
	stop chan struct{}
}

var _ Alarm = (*timerAlarm)(nil)

// NewTimerAlarm returns an Alarm that runs onExpire on its own goroutine.
func NewTimerAlarm() Alarm {
	return &timerAlarm{}
}

func (a *timerAlarm) Arm(d time.Duration, onExpire func()) {
	stop := make(chan struct{})

	a.mu.Lock()
	a.disarmLocked()
	a.stop = stop
	a.mu.Unlock()

	timer := pool.GetTimer(d)
	go func() {
		defer pool.PutTimer(timer)

		select {
		case <-timer.C:
		case <-stop:
			return
		}

		a.mu.Lock()
		current := a.stop == stop
		if current {
			a.stop = nil
		}
		a.mu.Unlock()

		if current {
			onExpire()
		}
	}()
}

func (a *timerAlarm) Disarm() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.disarmLocked()
}

func (a *timerAlarm) disarmLocked() {
	if a.stop != nil {
		close(a.stop)
		a.stop = nil
	}
}
