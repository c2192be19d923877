// Package logging builds the zap logger shared by the daemon and the plugin
// host adapter. Output never goes to stdout, which belongs to the host
// protocol.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger writing JSON lines to file at the given level. With
// debug set it also writes human-readable lines to stderr at debug level.
// The returned function flushes and closes the log file.
func New(level, file string, debug bool) (*zap.SugaredLogger, func() error, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cores []zapcore.Core
	closeFile := func() error { return nil }

	if file != "" {
		if dir := filepath.Dir(file); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		closeFile = f.Close
		cores = append(cores, newCore(f, lvl, false))
	}

	if debug {
		cores = append(cores, newCore(os.Stderr, zapcore.DebugLevel, true))
	}

	logger := zap.New(zapcore.NewTee(cores...)).Sugar()
	return logger, func() error {
		_ = logger.Sync()
		return closeFile()
	}, nil
}

func newCore(w io.Writer, lvl zapcore.LevelEnabler, console bool) zapcore.Core {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if console {
		enc = zapcore.NewConsoleEncoder(cfg)
	} else {
		enc = zapcore.NewJSONEncoder(cfg)
	}
	return zapcore.NewCore(enc, zapcore.AddSync(w), lvl)
}
