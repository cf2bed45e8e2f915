// Package observability owns the process-wide zap logger.
package observability

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"wbrowse/internal/config"
)

var (
	globalLogger atomic.Pointer[zap.Logger]
	once         sync.Once
)

const ansiReset = "\x1b[0m"

// ansi maps the color names accepted in logger.colors to escape codes.
var ansi = map[string]string{
	"red":     "\x1b[31m",
	"green":   "\x1b[32m",
	"yellow":  "\x1b[33m",
	"blue":    "\x1b[34m",
	"magenta": "\x1b[35m",
	"cyan":    "\x1b[36m",
	"white":   "\x1b[37m",
}

// Initialize installs the global logger. Console output goes to w. When
// cfg.LogFile is set, entries are also written as JSON to a rotated file.
// Calls after the first are ignored.
func Initialize(cfg config.LoggerConfig, w zapcore.WriteSyncer) {
	once.Do(func() {
		level := zap.NewAtomicLevelAt(zap.InfoLevel)
		// Unknown level names keep info.
		_ = level.UnmarshalText([]byte(cfg.Level))

		cores := []zapcore.Core{zapcore.NewCore(encoderFor(cfg), w, level)}
		if cfg.LogFile != "" {
			cores = append(cores, fileCore(cfg, level))
		}

		opts := []zap.Option{zap.AddStacktrace(zap.ErrorLevel)}
		if cfg.AddSource {
			opts = append(opts, zap.AddCaller())
		}
		logger := zap.New(zapcore.NewTee(cores...), opts...).Named(cfg.ServiceName)
		globalLogger.Store(logger)
		zap.ReplaceGlobals(logger)
	})
}

// InitializeLogger logs to stderr so stdout stays clean for command output.
func InitializeLogger(cfg config.LoggerConfig) {
	Initialize(cfg, zapcore.Lock(os.Stderr))
}

func ResetForTest() {
	globalLogger.Store(nil)
	once = sync.Once{}
}

func fileCore(cfg config.LoggerConfig, level zapcore.LevelEnabler) zapcore.Core {
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	})
	return zapcore.NewCore(jsonEncoder(), sink, level)
}

func baseEncoderConfig() zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	return ec
}

// encoderFor picks the console encoder for format "console" and JSON for
// everything else.
func encoderFor(cfg config.LoggerConfig) zapcore.Encoder {
	if cfg.Format != "console" {
		return jsonEncoder()
	}
	ec := baseEncoderConfig()
	ec.EncodeLevel = levelEncoder(levelColors(cfg.Colors))
	ec.EncodeName = func(name string, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(name + ".")
	}
	return zapcore.NewConsoleEncoder(ec)
}

func jsonEncoder() zapcore.Encoder {
	ec := baseEncoderConfig()
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(ec)
}

// levelColors resolves the configured color names once. Levels with an
// unknown or empty name are left out and print uncolored.
func levelColors(c config.ColorConfig) map[zapcore.Level]string {
	names := map[zapcore.Level]string{
		zapcore.DebugLevel:  c.Debug,
		zapcore.InfoLevel:   c.Info,
		zapcore.WarnLevel:   c.Warn,
		zapcore.ErrorLevel:  c.Error,
		zapcore.DPanicLevel: c.DPanic,
		zapcore.PanicLevel:  c.Panic,
		zapcore.FatalLevel:  c.Fatal,
	}
	out := make(map[zapcore.Level]string, len(names))
	for lvl, name := range names {
		if code, ok := ansi[name]; ok {
			out[lvl] = code
		}
	}
	return out
}

func levelEncoder(colors map[zapcore.Level]string) zapcore.LevelEncoder {
	return func(lvl zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		label := lvl.CapitalString()
		if code, ok := colors[lvl]; ok {
			label = code + label + ansiReset
		}
		enc.AppendString(label)
	}
}

// GetLogger returns the global logger. Before Initialize it hands out a
// development logger named "fallback".
func GetLogger() *zap.Logger {
	if logger := globalLogger.Load(); logger != nil {
		return logger
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l.Named("fallback")
}

// Sync flushes the global logger.
func Sync() {
	logger := globalLogger.Load()
	if logger == nil {
		return
	}
	if err := logger.Sync(); err != nil && !isTerminalSyncError(err) {
		fmt.Fprintln(os.Stderr, "Error: failed to sync logger:", err)
	}
}

// terminalSyncErrors are what fsync on a tty or pipe reports on the
// platforms we run on.
var terminalSyncErrors = []string{
	"sync /dev/std",
	"invalid argument",
	"inappropriate ioctl",
	"operation not supported",
}

func isTerminalSyncError(err error) bool {
	if errors.Is(err, os.ErrInvalid) {
		return true
	}
	msg := err.Error()
	for _, s := range terminalSyncErrors {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
