//go:build linux || darwin

package serialport

import (
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/go-seriallink/logger"
)

// Default line settings.
const (
	DefaultBaudRate  = 38400
	DefaultReadTimer = 1200 * time.Millisecond // VTIME = 12
)

// Read timer range. VTIME is an unsigned byte counted in deciseconds.
const (
	MinReadTimer = 100 * time.Millisecond
	MaxReadTimer = 25500 * time.Millisecond

	readTimerUnit = 100 * time.Millisecond
)

type portConfig struct {
	baudRate int
	vtime    uint8
	logger   logger.Logger
}

func newPortConfig() *portConfig {
	return &portConfig{
		baudRate: DefaultBaudRate,
		vtime:    toVTime(DefaultReadTimer),
		logger:   logger.GetLogger(),
	}
}

func toVTime(d time.Duration) uint8 {
	return uint8((d + readTimerUnit/2) / readTimerUnit) //nolint:gosec // range checked by WithReadTimer
}

// Option is a functional option for Open.
type Option interface {
	apply(*portConfig) error
}

type optFunc func(*portConfig) error

func (f optFunc) apply(cfg *portConfig) error { return f(cfg) }

// WithBaudRate sets the line speed applied by ApplyRawMode.
// Supported rates are 1200 to 230400 baud.
func WithBaudRate(rate int) Option {
	return optFunc(func(cfg *portConfig) error {
		if _, ok := baudRates[rate]; !ok {
			return fmt.Errorf("serialport: unsupported baud rate %d", rate)
		}
		cfg.baudRate = rate

		return nil
	})
}

// WithReadTimer sets the VTIME read timer, rounded to the nearest 100ms.
// Range: 100ms–25.5s.
func WithReadTimer(d time.Duration) Option {
	return optFunc(func(cfg *portConfig) error {
		if d < MinReadTimer || d > MaxReadTimer {
			return fmt.Errorf("serialport: read timer %v out of range [%v, %v]", d, MinReadTimer, MaxReadTimer)
		}
		cfg.vtime = toVTime(d)

		return nil
	})
}

// WithLogger sets the logger for the port.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *portConfig) error {
		if l == nil {
			return errors.New("serialport: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
