package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format is the encoding of log output.
type Format string

const (
	// FormatJSON writes one JSON object per line, for log shippers.
	FormatJSON Format = "json"

	// FormatConsole writes colored, human readable lines.
	FormatConsole Format = "console"
)

// Config holds the configuration for the logger.
type Config struct {
	// Level is the minimum enabled logging level (debug, info, warn, error).
	Level string

	// Format selects JSON or console output.
	Format Format

	// OutputPaths is a list of URLs or file paths to write logging output to.
	OutputPaths []string

	// DisableCaller disables automatic caller information.
	DisableCaller bool
}

// DefaultConfig returns the server default: info level console logs on stdout.
func DefaultConfig() Config {
	return Config{
		Level:       "info",
		Format:      FormatConsole,
		OutputPaths: []string{"stdout"},
	}
}

// CLIConfig returns the configuration of the gridcfg CLI. Logs go to stderr
// so that they never mix with command output.
func CLIConfig(verbose bool) Config {
	cfg := Config{
		Level:         "warn",
		Format:        FormatConsole,
		OutputPaths:   []string{"stderr"},
		DisableCaller: true,
	}
	if verbose {
		cfg.Level = "debug"
	}
	return cfg
}

// NewLogger creates a new zap logger based on the provided configuration.
func NewLogger(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var zapConfig zap.Config
	switch cfg.Format {
	case FormatJSON:
		zapConfig = zap.NewProductionConfig()
	case FormatConsole, "":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("invalid log format %q (want json or console)", cfg.Format)
	}

	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.DisableCaller = cfg.DisableCaller
	if len(cfg.OutputPaths) > 0 {
		zapConfig.OutputPaths = cfg.OutputPaths
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger, nil
}

// ParseLevel converts a string level to zapcore.Level.
func ParseLevel(level string) (zapcore.Level, error) {
	l, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return l, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}

// MustNewLogger creates a new logger and panics if there's an error.
// This should only be used during application startup.
func MustNewLogger(cfg Config) *zap.Logger {
	logger, err := NewLogger(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}
	return logger
}
