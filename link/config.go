package link

import (
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/go-seriallink/logger"
)

// Default establishment parameters.
const (
	DefaultMaxAttempts = 12
	DefaultReadTimeout = 12 * time.Second // alarm period per attempt
)

// Parameter range limits.
const (
	MinMaxAttempts = 1
	MaxMaxAttempts = 255

	MinReadTimeout = 10 * time.Millisecond
	MaxReadTimeout = 5 * time.Minute
)

var (
	// ErrTimeoutExhausted indicates that no valid frame was received within the attempt budget.
	ErrTimeoutExhausted = errors.New("link: attempts exhausted without a valid frame")
	// ErrTransport indicates that the transport failed while reading.
	ErrTransport = errors.New("link: transport failure")
	// ErrAlreadyRunning indicates that Run was called on a controller that is already running.
	ErrAlreadyRunning = errors.New("link: controller already running")
)

// Config holds link establishment parameters.
type Config struct {
	// maxAttempts is the number of alarm expirations after which the run is Exhausted.
	maxAttempts int

	// readTimeout is the alarm period of one attempt.
	readTimeout time.Duration

	// replyUA enables writing the UA frame after a valid frame is received.
	replyUA bool

	logger logger.Logger
}

// NewConfig creates a link configuration.
//
// opts are functional options applied in order; see With* functions.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		maxAttempts: DefaultMaxAttempts,
		readTimeout: DefaultReadTimeout,
		logger:      logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// MaxAttempts returns the attempt budget.
func (cfg *Config) MaxAttempts() int { return cfg.maxAttempts }

// ReadTimeout returns the alarm period of one attempt.
func (cfg *Config) ReadTimeout() time.Duration { return cfg.readTimeout }

// ReplyUA returns whether the UA frame is written after a valid frame.
func (cfg *Config) ReplyUA() bool { return cfg.replyUA }

// GetLogger returns the configured logger.
func (cfg *Config) GetLogger() logger.Logger { return cfg.logger }

// Option is a functional option for configuring a Config.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithMaxAttempts sets the number of alarm expirations allowed. Range: 1–255.
func WithMaxAttempts(n int) Option {
	return optFunc(func(cfg *Config) error {
		if n < MinMaxAttempts || n > MaxMaxAttempts {
			return fmt.Errorf("link: max attempts %d out of range [%d, %d]", n, MinMaxAttempts, MaxMaxAttempts)
		}
		cfg.maxAttempts = n

		return nil
	})
}

// WithReadTimeout sets the alarm period of one attempt. Range: 10ms–5m.
func WithReadTimeout(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < MinReadTimeout || d > MaxReadTimeout {
			return fmt.Errorf("link: read timeout %v out of range [%v, %v]", d, MinReadTimeout, MaxReadTimeout)
		}
		cfg.readTimeout = d

		return nil
	})
}

// WithReplyUA enables or disables writing the UA frame on success.
// The transport must implement io.Writer for the reply to be sent.
// Disabled by default.
func WithReplyUA(enabled bool) Option {
	return optFunc(func(cfg *Config) error {
		cfg.replyUA = enabled

		return nil
	})
}

// WithLogger sets the logger for the controller.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return errors.New("link: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
