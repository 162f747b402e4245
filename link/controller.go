package link

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/arloliu/go-seriallink/frame"
	"github.com/arloliu/go-seriallink/internal/util"
	"github.com/arloliu/go-seriallink/logger"
)

// Transport is the byte source read by the controller.
//
// Read performs one bounded read: it returns when bytes are available or
// when the transport's own read timer expires, in which case it returns
// (0, nil). Any non-nil error aborts the run.
type Transport interface {
	Read(p []byte) (int, error)
}

// TransportFunc adapts a read function to Transport.
type TransportFunc func(p []byte) (int, error)

// Read calls f(p).
func (f TransportFunc) Read(p []byte) (int, error) { return f(p) }

// SuccessHandler is called on the controller goroutine when a valid frame is
// received, before the frame buffer is cleared. A returned error is logged
// and does not change the outcome.
type SuccessHandler func(f frame.Frame) error

// Controller drives link establishment over a Transport.
//
// This type is NOT goroutine-safe apart from its read-only accessors
// (State, Counter, Metrics) and the event handler registry.
type Controller struct {
	transport Transport
	alarm     Alarm
	cfg       *Config
	logger    logger.Logger

	counter   *AttemptCounter
	metrics   LinkMetrics
	events    *eventDispatcher
	onSuccess SuccessHandler

	state   atomic.Uint32
	running atomic.Bool

	// buf holds the candidate frame of the current read. Only the loop
	// goroutine touches it.
	buf [frame.Size]byte
}

// NewController creates a controller reading from transport.
//
// A nil alarm selects NewTimerAlarm. A nil cfg selects the defaults of NewConfig.
func NewController(transport Transport, alarm Alarm, cfg *Config) *Controller {
	if alarm == nil {
		alarm = NewTimerAlarm()
	}
	if cfg == nil {
		cfg, _ = NewConfig()
	}

	c := &Controller{
		transport: transport,
		alarm:     alarm,
		cfg:       cfg,
		logger:    cfg.GetLogger(),
		counter:   NewAttemptCounter(),
		events:    newEventDispatcher(),
	}
	c.state.Store(uint32(StateIdle))

	if cfg.ReplyUA() {
		if w, ok := transport.(io.Writer); ok {
			c.onSuccess = replyUA(w)
		} else {
			c.logger.Warn("link: UA reply enabled but transport is not writable")
		}
	}

	return c
}

// State returns the current state.
func (c *Controller) State() State { return State(c.state.Load()) }

// Counter returns the attempt counter of the current or last run.
func (c *Controller) Counter() *AttemptCounter { return c.counter }

// Metrics returns the controller metrics.
func (c *Controller) Metrics() *LinkMetrics { return &c.metrics }

// OnSuccess sets the handler invoked when a valid frame is received,
// replacing the UA reply installed by WithReplyUA.
func (c *Controller) OnSuccess(h SuccessHandler) { c.onSuccess = h }

// AddEventHandler registers h and returns an id for RemoveEventHandler.
func (c *Controller) AddEventHandler(h EventHandler) uint64 { return c.events.add(h) }

// RemoveEventHandler unregisters the handler with the given id.
func (c *Controller) RemoveEventHandler(id uint64) { c.events.remove(id) }

// Run executes the establishment loop until a valid frame is received or
// the attempt budget is exhausted.
//
// It returns (OutcomeSuccess, nil) on success and (OutcomeExhausted, err)
// with err wrapping ErrTimeoutExhausted on exhaustion. A transport error
// returns OutcomeAborted with an error wrapping ErrTransport; a cancelled
// ctx returns OutcomeAborted with ctx.Err().
func (c *Controller) Run(ctx context.Context) (Outcome, error) {
	if !c.running.CompareAndSwap(false, true) {
		return OutcomeAborted, ErrAlreadyRunning
	}
	defer c.running.Store(false)

	c.events.start()
	defer c.events.stop()

	c.counter.reset()
	clear(c.buf[:])
	c.setState(StateIdle)

	// Any alarm still pending when the loop ends must not count.
	defer c.alarm.Disarm()

	maxAttempts := c.cfg.MaxAttempts()
	for c.counter.Count() < maxAttempts {
		select {
		case <-ctx.Done():
			return OutcomeAborted, ctx.Err()
		default:
		}

		if !c.counter.Armed() {
			c.counter.arm()
			c.alarm.Arm(c.cfg.ReadTimeout(), c.onAlarm)
		}
		c.setState(StateWaiting)

		clear(c.buf[:])
		n, err := c.transport.Read(c.buf[:])
		c.metrics.incReadCount()
		if err != nil {
			return OutcomeAborted, fmt.Errorf("%w: %w", ErrTransport, err)
		}

		c.setState(StateValidating)
		if c.validate(n) {
			c.succeed()
			return OutcomeSuccess, nil
		}
		c.setState(StateWaiting)
	}

	c.setState(StateExhausted)
	c.logger.Warn("link: no valid frame received", "attempts", c.counter.Count())

	return OutcomeExhausted, fmt.Errorf("%w: %d attempts", ErrTimeoutExhausted, maxAttempts)
}

// validate reports whether the first n bytes of the buffer hold a valid frame.
// A short read is invalid outright, whatever the rest of the buffer holds.
func (c *Controller) validate(n int) bool {
	if n < frame.Size {
		c.metrics.incShortReadCount()
		c.emitFrame(EventFrameInvalid, n, true)

		return false
	}

	if frame.Validate(c.buf[:]) != frame.Valid {
		c.metrics.incInvalidFrameCount()
		c.emitFrame(EventFrameInvalid, n, false)
		c.logger.Debug("link: invalid frame", "bytes", fmt.Sprintf("% X", c.buf[:]))

		return false
	}

	return true
}

// succeed finishes a run on a valid frame: notify, then clear the buffer.
func (c *Controller) succeed() {
	c.setState(StateSuccess)
	c.alarm.Disarm()
	c.metrics.incValidFrameCount()

	f := frame.New(c.buf[1], c.buf[2])
	c.logger.Info("link: valid frame received",
		"frame", f.String(),
		"attempts", c.counter.Count(),
	)
	c.emitFrame(EventFrameValid, frame.Size, false)

	if c.onSuccess != nil {
		if err := c.onSuccess(f); err != nil {
			c.logger.Warn("link: success handler failed", "error", err)
		}
	}

	clear(c.buf[:])
}

// onAlarm is the alarm expiry path. It must stay minimal: it runs
// concurrently with the loop and never touches the frame buffer.
func (c *Controller) onAlarm() {
	attempt := c.counter.expire()
	c.metrics.incAttemptCount()
	c.logger.Info("link: alarm expired", "attempt", attempt)
	c.events.emit(Event{Kind: EventAttemptExpired, Time: time.Now(), Attempt: attempt})
}

func (c *Controller) emitFrame(kind EventKind, n int, short bool) {
	n = max(0, min(n, frame.Size))
	c.events.emit(Event{
		Kind:    kind,
		Time:    time.Now(),
		Attempt: c.counter.Count(),
		Bytes:   util.CloneSlice(c.buf[:n], n),
		Short:   short,
	})
}

func (c *Controller) setState(s State) {
	c.state.Store(uint32(s))
}

// replyUA returns a SuccessHandler writing the UA frame to w.
func replyUA(w io.Writer) SuccessHandler {
	return func(_ frame.Frame) error {
		ua := frame.UA.Bytes()
		if _, err := w.Write(ua[:]); err != nil {
			return fmt.Errorf("link: write UA: %w", err)
		}

		return nil
	}
}
