// Package log holds the process-wide zap logger. Every package names its own
// child logger from [S].
package log

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger *zap.Logger
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func init() {
	if val, ok := os.LookupEnv("DEBUG"); ok && strings.EqualFold(val, "true") {
		level.SetLevel(zapcore.DebugLevel)
	}

	l, err := newConsoleLogger()
	if err != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", err))
	}

	logger = l
}

func newConsoleLogger() (*zap.Logger, error) {
	encConfig := zap.NewDevelopmentEncoderConfig()
	encConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encConfig.EncodeCaller = nil
	encConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format(time.StampMicro))
	}

	stdout, closeStdout, err := openSink("stdout")
	if err != nil {
		return nil, err
	}

	stderr, _, err := openSink("stderr", closeStdout)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encConfig), stdout, level)
	return zap.New(core, zap.ErrorOutput(stderr)), nil
}

// openSink opens path, running the closers of the sinks opened before it
// when that fails. [zap.Open] cleans up after itself and returns no closer on
// error.
func openSink(path string, opened ...func()) (zapcore.WriteSyncer, func(), error) {
	ws, closer, err := zap.Open(path)
	if err != nil {
		for _, fn := range opened {
			fn()
		}
		return nil, nil, err
	}

	return ws, closer, nil
}

// SetDebug enables or disables debug logging at runtime.
func SetDebug(debug bool) {
	if debug {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.InfoLevel)
	}
}

// Replace swaps the global logger for l and returns a function that puts the
// previous one back.
func Replace(l *zap.Logger) func() {
	mu.Lock()
	prev := logger
	logger = l
	mu.Unlock()

	return func() {
		Replace(prev)
	}
}

// S returns a *[zap.SugaredLogger].
func S() *zap.SugaredLogger {
	return L().Sugar()
}

// L returns a *[zap.Logger].
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
