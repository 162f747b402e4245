package link

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/arloliu/go-seriallink/logger"
)

// manualAlarm is an Alarm that only expires when the test calls fire.
type manualAlarm struct {
	mu       sync.Mutex
	onExpire func()
	armed    bool
	arms     int
	disarms  int
	lastDur  time.Duration
}

var _ Alarm = (*manualAlarm)(nil)

func (a *manualAlarm) Arm(d time.Duration, onExpire func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.onExpire = onExpire
	a.armed = true
	a.arms++
	a.lastDur = d
}

func (a *manualAlarm) Disarm() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.onExpire = nil
	a.armed = false
	a.disarms++
}

// fire runs the pending callback synchronously. It returns false if no alarm is armed.
func (a *manualAlarm) fire() bool {
	a.mu.Lock()
	f := a.onExpire
	a.onExpire = nil
	a.armed = false
	a.mu.Unlock()

	if f == nil {
		return false
	}
	f()

	return true
}

// readStep scripts one transport read.
type readStep func(p []byte) (int, error)

// scriptedTransport plays back steps, one per Read. Once the script is
// exhausted every Read fires the alarm and returns no bytes, which models
// a silent line whose read timer keeps expiring.
type scriptedTransport struct {
	alarm *manualAlarm
	steps []readStep
	calls int

	// onRead runs after each read with the 1-based call number.
	onRead func(call int)

	written [][]byte
}

func (tr *scriptedTransport) Read(p []byte) (int, error) {
	tr.calls++
	defer func() {
		if tr.onRead != nil {
			tr.onRead(tr.calls)
		}
	}()

	if tr.calls <= len(tr.steps) && tr.steps[tr.calls-1] != nil {
		return tr.steps[tr.calls-1](p)
	}

	tr.alarm.fire()

	return 0, nil
}

func (tr *scriptedTransport) Write(p []byte) (int, error) {
	tr.written = append(tr.written, append([]byte(nil), p...))
	return len(p), nil
}

// silentThenFire returns a step that expires the alarm and returns no bytes.
func silentThenFire(a *manualAlarm) readStep {
	return func(_ []byte) (int, error) {
		a.fire()
		return 0, nil
	}
}

// bytesStep returns a step delivering data without expiring the alarm.
func bytesStep(data ...byte) readStep {
	return func(p []byte) (int, error) {
		return copy(p, data), nil
	}
}

func errorStep(err error) readStep {
	return func(_ []byte) (int, error) {
		return 0, err
	}
}

var errBrokenLine = errors.New("broken line")

// newTestConfig creates a Config with a quiet mock logger.
func newTestConfig(t *testing.T, opts ...Option) *Config {
	t.Helper()

	defaults := []Option{
		WithLogger(logger.NewMockLogger().AllowAll()),
	}

	cfg, err := NewConfig(append(defaults, opts...)...)
	if err != nil {
		t.Fatalf("newTestConfig: %v", err)
	}

	return cfg
}

// eventRecorder collects events delivered by the dispatcher.
type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) handle(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, ev)
}

func (r *eventRecorder) kinds(kind EventKind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Event
	for _, ev := range r.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}

	return out
}

// fakeLine records the lifecycle calls made by RunLine.
type fakeLine struct {
	scriptedTransport

	captureErr error
	rawErr     error
	restoreErr error
	closeErr   error

	calls []string
}

var _ Line = (*fakeLine)(nil)

func (l *fakeLine) Capture() error {
	l.calls = append(l.calls, "capture")
	return l.captureErr
}

func (l *fakeLine) ApplyRawMode() error {
	l.calls = append(l.calls, "raw")
	return l.rawErr
}

func (l *fakeLine) Restore() error {
	l.calls = append(l.calls, "restore")
	return l.restoreErr
}

func (l *fakeLine) Close() error {
	l.calls = append(l.calls, "close")
	return l.closeErr
}

func (l *fakeLine) count(call string) int {
	n := 0
	for _, c := range l.calls {
		if c == call {
			n++
		}
	}

	return n
}
