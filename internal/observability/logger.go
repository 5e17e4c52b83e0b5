package observability

import (
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	globalLogger atomic.Pointer[zap.Logger]
	once         sync.Once
)

// Options configures the process-wide logger.
type Options struct {
	// Level is a zap level string ("debug", "info", "warn", "error").
	Level string
	// File, when set, adds a JSON core writing through lumberjack rotation.
	// Run failures end up here so scheduled jobs leave a trail.
	File        string
	ServiceName string
}

// Initialize sets up the global zap logger. Safe to call more than once;
// only the first call wins.
func Initialize(opts Options) {
	once.Do(func() {
		level := zap.NewAtomicLevel()
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			level.SetLevel(zap.InfoLevel)
		}

		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

		consoleCore := zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stdout),
			level,
		)
		cores := []zapcore.Core{consoleCore}

		if opts.File != "" {
			fileWriter := zapcore.AddSync(&lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    10, // MB
				MaxBackups: 3,
				MaxAge:     14, // days
			})
			cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), fileWriter, level))
		}

		logger := zap.New(
			zapcore.NewTee(cores...),
			zap.AddStacktrace(zap.ErrorLevel),
		).Named(opts.ServiceName)

		globalLogger.Store(logger)
		zap.ReplaceGlobals(logger)
		zap.RedirectStdLog(logger)
	})
}

// GetLogger returns the initialized global logger, or a development
// fallback if Initialize was never called.
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

// Sync flushes buffered entries; call before exiting.
func Sync() {
	if logger := globalLogger.Load(); logger != nil {
		_ = logger.Sync()
	}
}
