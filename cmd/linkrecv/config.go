//go:build linux || darwin

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/arloliu/go-seriallink/link"
	"github.com/arloliu/go-seriallink/logger"
	"github.com/arloliu/go-seriallink/serialport"
)

// configEnv names the environment variable holding an optional TOML config path.
const configEnv = "LINKRECV_CONFIG"

type fileConfig struct {
	BaudRate    int    `toml:"baud_rate"`
	ReadTimer   string `toml:"read_timer"`
	ReadTimeout string `toml:"read_timeout"`
	MaxAttempts int    `toml:"max_attempts"`
	ReplyUA     bool   `toml:"reply_ua"`
	LogLevel    string `toml:"log_level"`
}

type settings struct {
	level    logger.Level
	linkOpts []link.Option
	portOpts []serialport.Option
}

// loadSettings reads the TOML file at path. Keys absent from the file keep
// the package defaults. An empty path yields the defaults.
func loadSettings(path string) (settings, error) {
	s := settings{level: logger.InfoLevel}
	if path == "" {
		return s, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return settings{}, fmt.Errorf("load config: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return settings{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("log_level") {
		lv, err := logger.ParseLevel(raw.LogLevel)
		if err != nil {
			return settings{}, err
		}
		s.level = lv
	}

	if meta.IsDefined("baud_rate") {
		s.portOpts = append(s.portOpts, serialport.WithBaudRate(raw.BaudRate))
	}

	if meta.IsDefined("read_timer") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ReadTimer))
		if err != nil {
			return settings{}, fmt.Errorf("parse read_timer: %w", err)
		}
		s.portOpts = append(s.portOpts, serialport.WithReadTimer(d))
	}

	if meta.IsDefined("read_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ReadTimeout))
		if err != nil {
			return settings{}, fmt.Errorf("parse read_timeout: %w", err)
		}
		s.linkOpts = append(s.linkOpts, link.WithReadTimeout(d))
	}

	if meta.IsDefined("max_attempts") {
		s.linkOpts = append(s.linkOpts, link.WithMaxAttempts(raw.MaxAttempts))
	}

	if meta.IsDefined("reply_ua") {
		s.linkOpts = append(s.linkOpts, link.WithReplyUA(raw.ReplyUA))
	}

	return s, nil
}
