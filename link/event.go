package link

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/arloliu/go-seriallink/internal/queue"
)

// EventKind identifies what an Event reports.
type EventKind uint8

const (
	// EventAttemptExpired is emitted each time the alarm expires.
	EventAttemptExpired EventKind = iota + 1
	// EventFrameValid is emitted when a read holds a valid frame.
	EventFrameValid
	// EventFrameInvalid is emitted when a read does not hold a valid frame.
	EventFrameInvalid
)

// String returns string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventAttemptExpired:
		return "attempt-expired"
	case EventFrameValid:
		return "frame-valid"
	case EventFrameInvalid:
		return "frame-invalid"
	default:
		return "unknown"
	}
}

// Event is an observation made by the controller.
type Event struct {
	Kind EventKind
	Time time.Time
	// Attempt is the attempt number for EventAttemptExpired, and the number
	// of attempts expired so far for frame events.
	Attempt int
	// Bytes holds a copy of the bytes returned by the read, for frame events.
	Bytes []byte
	// Short is true for EventFrameInvalid when the read returned fewer bytes than a frame.
	Short bool
}

// EventHandler observes controller events.
//
// Handlers run on a dispatcher goroutine, one event at a time and in
// emission order, so a slow handler delays later events but never the
// controller.
type EventHandler func(Event)

// eventDispatcher delivers events to handlers without blocking the emitter.
type eventDispatcher struct {
	handlers *xsync.MapOf[uint64, EventHandler]
	nextID   atomic.Uint64
	pending  *queue.LockFreeQueue[Event]
	notify   chan struct{}

	mu      sync.Mutex
	done    chan struct{}
	stopped chan struct{}
}

func newEventDispatcher() *eventDispatcher {
	return &eventDispatcher{
		handlers: xsync.NewMapOf[uint64, EventHandler](),
		pending:  queue.NewLockFreeQueue[Event](),
		notify:   make(chan struct{}, 1),
	}
}

func (d *eventDispatcher) add(h EventHandler) uint64 {
	id := d.nextID.Add(1)
	d.handlers.Store(id, h)

	return id
}

func (d *eventDispatcher) remove(id uint64) {
	d.handlers.Delete(id)
}

// emit queues ev for delivery. It never blocks.
func (d *eventDispatcher) emit(ev Event) {
	if d.handlers.Size() == 0 {
		return
	}

	d.pending.Enqueue(ev)
	select {
	case d.notify <- struct{}{}:
	default:
	}
}

// start launches the delivery goroutine. It is a no-op if already started.
func (d *eventDispatcher) start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.done != nil {
		return
	}
	d.done = make(chan struct{})
	d.stopped = make(chan struct{})

	go d.run(d.done, d.stopped)
}

// stop delivers the queued events, then ends the delivery goroutine.
func (d *eventDispatcher) stop() {
	d.mu.Lock()
	done, stopped := d.done, d.stopped
	d.done, d.stopped = nil, nil
	d.mu.Unlock()

	if done == nil {
		return
	}
	close(done)
	<-stopped
}

func (d *eventDispatcher) run(done <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	for {
		select {
		case <-d.notify:
			d.drain()
		case <-done:
			d.drain()
			return
		}
	}
}

func (d *eventDispatcher) drain() {
	for {
		ev, ok := d.pending.Dequeue()
		if !ok {
			return
		}

		d.handlers.Range(func(_ uint64, h EventHandler) bool {
			h(ev)
			return true
		})
	}
}
