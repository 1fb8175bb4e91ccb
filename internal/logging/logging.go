// Package logging builds the zap loggers used by the CLI and engine.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a supported log level name.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format is a supported log encoding.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

var levels = map[Level]zapcore.Level{
	LevelDebug: zapcore.DebugLevel,
	LevelInfo:  zapcore.InfoLevel,
	LevelWarn:  zapcore.WarnLevel,
	LevelError: zapcore.ErrorLevel,
}

var formats = map[Format]string{
	FormatConsole: "console",
	FormatJSON:    "json",
}

// ParseLevel normalizes a user-supplied level. Empty means info.
func ParseLevel(raw string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(raw)))
	if l == "" {
		return LevelInfo, nil
	}
	if _, ok := levels[l]; !ok {
		return "", fmt.Errorf("unsupported log level: %s (must be one of: debug, info, warn, error)", raw)
	}
	return l, nil
}

// ParseFormat normalizes a user-supplied format. Empty means console.
func ParseFormat(raw string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(raw)))
	if f == "" {
		return FormatConsole, nil
	}
	if _, ok := formats[f]; !ok {
		return "", fmt.Errorf("unsupported log format: %s (must be one of: console, json)", raw)
	}
	return f, nil
}

// Factory builds zap loggers with consistent configuration.
type Factory struct {
	// OutputPaths overrides where log entries are written. Defaults to stderr
	// so stdout stays reserved for reports.
	OutputPaths []string
}

func NewFactory() *Factory {
	return &Factory{}
}

// CreateLogger returns a production-configured logger at the given level and format.
func (f *Factory) CreateLogger(level Level, format Format) (*zap.Logger, error) {
	zl, ok := levels[level]
	if !ok {
		return nil, fmt.Errorf("unsupported log level: %s", level)
	}
	encoding, ok := formats[format]
	if !ok {
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zl)
	cfg.Encoding = encoding
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if f != nil && len(f.OutputPaths) > 0 {
		cfg.OutputPaths = append([]string(nil), f.OutputPaths...)
	}
	if encoding == "console" {
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	return cfg.Build()
}
