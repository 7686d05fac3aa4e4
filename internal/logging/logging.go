// Package logging provides the zap file logger for the Meal Selector client.
// The interactive UI owns stdout/stderr, so everything is written to a log
// file under the config dir. Before Init the package hands out a no-op
// logger, which keeps tests and early startup quiet.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mealselector/internal/config"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// Init builds the file logger from config and installs it as the package
// logger. verbose forces debug level regardless of the configured one.
func Init(cfg config.Config, verbose bool) (*zap.Logger, error) {
	path := cfg.Logging.File
	if path == "" {
		dir, err := config.Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "logs", "client.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}
	zcfg.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Logging.Level))
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	l, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	mu.Lock()
	logger = l
	mu.Unlock()
	return l, nil
}

// L returns the package logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Named returns a child logger for a component.
func Named(component string) *zap.Logger {
	return L().Named(component)
}

// Sync flushes buffered log entries. Safe to call on shutdown even if Init
// never ran.
func Sync() {
	_ = L().Sync()
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
