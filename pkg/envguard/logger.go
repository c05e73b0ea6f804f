package envguard

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newDebugLogger builds the diagnostic logger. When diagnostics are disabled
// every log call is a no-op; the guard never pays for logging it is not
// doing.
func newDebugLogger(enabled bool) *zap.Logger {
	if !enabled {
		return zap.NewNop()
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		zapcore.DebugLevel,
	)
	return zap.New(core).Named("undertow")
}

// maskValue obscures a secret for logging: at most the first four characters
// followed by an ellipsis, or "(empty)" for a zero-length value. Slicing is
// by rune so a multibyte value never logs as invalid UTF-8.
func maskValue(value string) string {
	if value == "" {
		return "(empty)"
	}
	runes := []rune(value)
	if len(runes) <= 4 {
		return value + "..."
	}
	return string(runes[:4]) + "..."
}
