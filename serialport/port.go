//go:build linux || darwin

package serialport

import (
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/arloliu/go-seriallink/logger"
)

var (
	// ErrOpen indicates that the device could not be opened for read/write.
	ErrOpen = errors.New("serialport: open failed")
	// ErrNotTerminal indicates that the opened file is not a terminal device.
	ErrNotTerminal = errors.New("serialport: not a terminal")
	// ErrAttribute indicates that terminal attributes could not be read, applied or restored.
	ErrAttribute = errors.New("serialport: terminal attribute failure")
	// ErrClosed indicates an operation on a closed port.
	ErrClosed = errors.New("serialport: port closed")
)

// Port is an open serial device.
//
// Port is NOT goroutine-safe. It is owned by one caller at a time: the
// setup code, then the link controller, then the teardown code.
type Port struct {
	path   string
	fd     int
	cfg    *portConfig
	logger logger.Logger

	orig     *unix.Termios
	restored bool
	closed   atomic.Bool
}

// Open opens the device at path for reading and writing, without making it
// the controlling terminal of the process.
//
// The returned error wraps ErrOpen when the device cannot be opened and
// ErrNotTerminal when it is not a terminal.
func Open(path string, opts ...Option) (*Port, error) {
	cfg := newPortConfig()
	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpen, path, err)
	}

	if !term.IsTerminal(fd) {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("%w: %s", ErrNotTerminal, path)
	}

	p := &Port{
		path:   path,
		fd:     fd,
		cfg:    cfg,
		logger: cfg.logger.With("device", path),
	}
	p.logger.Debug("serial port opened", "fd", fd)

	return p, nil
}

// Path returns the device path.
func (p *Port) Path() string { return p.path }

// BaudRate returns the baud rate applied by ApplyRawMode.
func (p *Port) BaudRate() int { return p.cfg.baudRate }

// ReadTimer returns the VTIME value applied by ApplyRawMode, in deciseconds.
func (p *Port) ReadTimer() uint8 { return p.cfg.vtime }

// Captured reports whether the original settings have been captured.
func (p *Port) Captured() bool { return p.orig != nil }

// Capture snapshots the current terminal settings so Restore can reapply them.
// Calling Capture again after a successful capture is a no-op.
func (p *Port) Capture() error {
	if p.closed.Load() {
		return ErrClosed
	}
	if p.orig != nil {
		return nil
	}

	t, err := unix.IoctlGetTermios(p.fd, ioctlGetTermios)
	if err != nil {
		return fmt.Errorf("%w: get attributes of %s: %w", ErrAttribute, p.path, err)
	}
	p.orig = t

	return nil
}

// ApplyRawMode discards any pending input and output, then switches the line
// to raw mode: configured baud rate, 8 data bits, parity errors ignored,
// modem control lines ignored, receiver enabled, no canonical processing,
// no echo, no signal characters, VMIN 0 and VTIME set to the read timer.
func (p *Port) ApplyRawMode() error {
	if p.closed.Load() {
		return ErrClosed
	}

	t := &unix.Termios{}
	t.Cflag = unix.CS8 | unix.CLOCAL | unix.CREAD
	t.Iflag = unix.IGNPAR
	t.Oflag = 0
	t.Lflag = 0
	t.Cc[unix.VTIME] = p.cfg.vtime
	t.Cc[unix.VMIN] = 0
	if err := setSpeed(t, p.cfg.baudRate); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrAttribute, p.path, err)
	}

	if err := flush(p.fd); err != nil {
		return fmt.Errorf("%w: flush %s: %w", ErrAttribute, p.path, err)
	}

	if err := unix.IoctlSetTermios(p.fd, ioctlSetTermios, t); err != nil {
		return fmt.Errorf("%w: set attributes of %s: %w", ErrAttribute, p.path, err)
	}

	p.logger.Info("raw mode applied",
		"baudRate", p.cfg.baudRate,
		"vtime", p.cfg.vtime,
	)

	return nil
}

// Restore reapplies the settings captured by Capture.
//
// Only the first call touches the device; later calls return nil. Restore
// without a prior Capture is a no-op.
func (p *Port) Restore() error {
	if p.orig == nil || p.restored {
		return nil
	}
	if p.closed.Load() {
		return ErrClosed
	}
	p.restored = true

	if err := unix.IoctlSetTermios(p.fd, ioctlSetTermios, p.orig); err != nil {
		return fmt.Errorf("%w: restore attributes of %s: %w", ErrAttribute, p.path, err)
	}
	p.logger.Debug("original settings restored")

	return nil
}

// Read performs one read of up to len(b) bytes.
//
// In raw mode the call returns when at least one byte is available, or with
// (0, nil) once the read timer expires.
func (p *Port) Read(b []byte) (int, error) {
	if p.closed.Load() {
		return 0, ErrClosed
	}

	for {
		n, err := unix.Read(p.fd, b)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("serialport: read %s: %w", p.path, err)
		}

		return n, nil
	}
}

// Write writes all of b to the device.
func (p *Port) Write(b []byte) (int, error) {
	if p.closed.Load() {
		return 0, ErrClosed
	}

	written := 0
	for written < len(b) {
		n, err := unix.Write(p.fd, b[written:])
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return written, fmt.Errorf("serialport: write %s: %w", p.path, err)
		}
		written += n
	}

	return written, nil
}

// Close releases the descriptor. It is safe to call more than once.
func (p *Port) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}

	if err := unix.Close(p.fd); err != nil {
		return fmt.Errorf("serialport: close %s: %w", p.path, err)
	}
	p.logger.Debug("serial port closed")

	return nil
}
