//go:build linux || darwin

package link

import (
	"context"

	"github.com/arloliu/go-seriallink/serialport"
)

// Establish opens the serial device at path and waits for a valid frame on it.
//
// The port logger defaults to the logger of cfg; portOpts are applied after
// it. See RunLine for the teardown guarantees.
func Establish(ctx context.Context, path string, cfg *Config, portOpts ...serialport.Option) (Outcome, error) {
	if cfg == nil {
		cfg, _ = NewConfig()
	}

	opts := append([]serialport.Option{serialport.WithLogger(cfg.GetLogger())}, portOpts...)
	port, err := serialport.Open(path, opts...)
	if err != nil {
		return OutcomeAborted, err
	}

	return RunLine(ctx, port, NewTimerAlarm(), cfg)
}
