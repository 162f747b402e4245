// Package link implements link establishment over a raw serial line.
//
// A Controller repeatedly reads up to one frame's worth of bytes from a
// Transport and validates each read with frame.Validate. An Alarm bounds
// each attempt: when it expires the AttemptCounter is incremented and the
// controller re-arms it on its next iteration. The loop ends in Success as
// soon as a valid frame is read, or in Exhausted once MaxAttempts alarms
// have expired.
//
// # State machine
//
//	Idle -> Waiting -> Validating -> Success
//	           ^           |
//	           +-----------+ (invalid frame)
//	Waiting/Validating -> Exhausted (attemptCount == MaxAttempts)
//
// The attempt counter is checked once per iteration at the top of the loop,
// so an alarm that expires during a read is acted on at the next iteration
// boundary rather than interrupting the read.
//
// # Concurrency
//
// The loop runs on the caller's goroutine. Alarm expiry runs on a timer
// goroutine and only touches the atomic AttemptCounter, the metrics and the
// event queue. The frame buffer is owned by the loop goroutine. Event
// handlers run on a dispatcher goroutine and never block the loop.
//
// # Teardown
//
// RunLine and Establish wrap the controller with the line lifecycle:
// capture the original settings, apply raw mode, run, restore, close.
// Restore and Close run exactly once on every path that reached them.
package link
