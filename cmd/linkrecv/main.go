//go:build linux || darwin

// Command linkrecv configures a serial line for raw I/O and waits for a
// link establishment frame.
//
// Usage:
//
//	linkrecv <SerialPort>
//
// Exit status is 0 when a valid frame is received, 1 on incorrect usage,
// 2 when all attempts expire, 3 when the run is interrupted or the line
// fails while reading, and 255 when the device cannot be opened or
// configured.
//
// Environment variables:
//
//	LINKRECV_CONFIG - optional TOML file with baud_rate, read_timer,
//	                  read_timeout, max_attempts, reply_ua and log_level
//	ENV             - "development" selects human-readable log output
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/arloliu/go-seriallink/link"
	"github.com/arloliu/go-seriallink/logger"
	"github.com/arloliu/go-seriallink/serialport"
)

const (
	exitOK           = 0
	exitUsage        = 1
	exitExhausted    = 2
	exitAborted      = 3
	exitSetupFailure = 255
)

var errUsage = errors.New("incorrect program usage")

const usage = `Incorrect program usage
Usage: %s <SerialPort>
Example: %s /dev/ttyS1
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Getenv(configEnv), os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command and returns its exit status. Progress logs go to
// stdout, diagnostics to stderr.
func run(ctx context.Context, args []string, configPath string, stdout, stderr io.Writer) int {
	path, err := devicePath(args)
	if errors.Is(err, errUsage) {
		name := "linkrecv"
		if len(args) > 0 {
			name = args[0]
		}
		fmt.Fprintf(stdout, usage, name, name)

		return exitUsage
	}

	s, err := loadSettings(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", configPath, err)
		return exitSetupFailure
	}

	log := logger.NewSlog(s.level, false, logger.WithOutput(stdout))

	cfg, err := link.NewConfig(append([]link.Option{link.WithLogger(log)}, s.linkOpts...)...)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitSetupFailure
	}

	outcome, err := link.Establish(ctx, path, cfg, s.portOpts...)
	code := exitCode(outcome, err)
	if err != nil && code != exitExhausted {
		fmt.Fprintf(stderr, "%s: %v\n", path, err)
	}
	log.Info("link establishment finished", "device", path, "outcome", outcome.String(), "exitCode", code)

	return code
}

// devicePath returns the serial device named on the command line.
func devicePath(args []string) (string, error) {
	if len(args) < 2 || args[1] == "" {
		return "", errUsage
	}

	return args[1], nil
}

// exitCode maps a run result to the process exit status. Setup and
// attribute failures take precedence over the outcome, including a restore
// failure after a successful run.
func exitCode(outcome link.Outcome, err error) int {
	switch {
	case errors.Is(err, serialport.ErrOpen),
		errors.Is(err, serialport.ErrNotTerminal),
		errors.Is(err, serialport.ErrAttribute):
		return exitSetupFailure
	case outcome == link.OutcomeSuccess:
		return exitOK
	case outcome == link.OutcomeExhausted:
		return exitExhausted
	default:
		return exitAborted
	}
}
