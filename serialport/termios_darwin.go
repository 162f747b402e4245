package serialport

import (
	"fmt"

	"golang.org/x/sys/unix"
)

const (
	ioctlGetTermios = unix.TIOCGETA
	ioctlSetTermios = unix.TIOCSETA
)

var baudRates = map[int]uint64{
	1200:   1200,
	2400:   2400,
	4800:   4800,
	9600:   9600,
	19200:  19200,
	38400:  38400,
	57600:  57600,
	115200: 115200,
	230400: 230400,
}

func setSpeed(t *unix.Termios, rate int) error {
	speed, ok := baudRates[rate]
	if !ok {
		return fmt.Errorf("unsupported baud rate %d", rate)
	}
	t.Ispeed = speed
	t.Ospeed = speed

	return nil
}

// A zero argument to TIOCFLUSH flushes both queues.
func flush(fd int) error {
	return unix.IoctlSetPointerInt(fd, unix.TIOCFLUSH, 0)
}
