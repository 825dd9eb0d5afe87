package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/vango-dev/kite/internal/config"
	kerrors "github.com/vango-dev/kite/internal/errors"
)

// globalOptions are the persistent flags.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// loadConfig loads the config named by --config, else the nearest project
// config, else the defaults. Flags override file values.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case o.configPath != "":
		cfg, err = config.LoadFile(o.configPath)
		if err != nil {
			return nil, err
		}
	default:
		cfg, err = config.LoadFromWorkingDir()
		if err != nil {
			cfg = config.New()
		}
	}

	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	return cfg, nil
}

// newLogger builds the process logger.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "", "info":
		lvl = slog.LevelInfo
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, kerrors.New("K200").
			WithDetailf("--log-level: unknown level %q", level).
			WithSuggestion("Use debug, info, warn or error")
	}

	hopts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, hopts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	default:
		return nil, kerrors.New("K200").
			WithDetailf("--log-format: unknown format %q", format).
			WithSuggestion("Use text or json")
	}
}

// setup loads the config and installs the logger.
func (o *globalOptions) setup(w io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if w == nil {
		w = os.Stderr
	}
	logger, err := newLogger(w, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}
