package config

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. Output goes to stderr so command
// output on stdout stays machine readable.
func NewLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logerConfig := zap.NewProductionConfig()
	logerConfig.Level = zap.NewAtomicLevelAt(lvl)
	logerConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logerConfig.OutputPaths = []string{"stderr"}
	logerConfig.Sampling = nil
	if format != "json" {
		logerConfig.Encoding = "console"
		logerConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return logerConfig.Build()
}
