package link

import (
	"context"
	"errors"
)

// Line is a transport whose settings can be captured, switched to raw mode
// and restored. *serialport.Port implements it.
type Line interface {
	Transport
	Capture() error
	ApplyRawMode() error
	Restore() error
	Close() error
}

// RunLine prepares line, runs a controller over it and tears it down.
//
// Teardown is ordered and runs once per step: Restore runs on every path
// after a successful Capture, and Close runs on every path. Teardown errors
// are logged and joined into the returned error; they never change the
// outcome.
func RunLine(ctx context.Context, line Line, alarm Alarm, cfg *Config, handlers ...EventHandler) (outcome Outcome, err error) {
	if cfg == nil {
		cfg, _ = NewConfig()
	}
	l := cfg.GetLogger()

	defer func() {
		if cerr := line.Close(); cerr != nil {
			l.Error("link: close line", "error", cerr)
			err = errors.Join(err, cerr)
		}
	}()

	if err := line.Capture(); err != nil {
		return OutcomeAborted, err
	}

	defer func() {
		if rerr := line.Restore(); rerr != nil {
			l.Error("link: restore line settings", "error", rerr)
			err = errors.Join(err, rerr)
		}
	}()

	if err := line.ApplyRawMode(); err != nil {
		return OutcomeAborted, err
	}

	ctrl := NewController(line, alarm, cfg)
	for _, h := range handlers {
		ctrl.AddEventHandler(h)
	}

	return ctrl.Run(ctx)
}
