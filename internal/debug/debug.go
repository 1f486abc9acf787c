// Package debug provides debug logging utilities.
package debug

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	if os.Getenv("WAYFINDER_DEBUG") == "1" {
		Enable()
		return
	}
	logger.Store(zap.NewNop())
}

// Enable switches debug logging on for the rest of the process.
// Output goes to stderr with a development encoder.
func Enable() {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	l, err := cfg.Build()
	if err != nil {
		l = zap.NewExample()
	}
	logger.Store(l)
}

// L returns the structured debug logger. It is a no-op logger unless
// WAYFINDER_DEBUG=1 or Enable was called.
func L() *zap.Logger {
	return logger.Load()
}

// Logf writes a debug message to stderr if debug logging is enabled.
func Logf(format string, args ...any) {
	L().Sugar().Debugf(format, args...)
}

// Enabled returns true if debug logging is enabled
func Enabled() bool {
	return L().Core().Enabled(zapcore.DebugLevel)
}
