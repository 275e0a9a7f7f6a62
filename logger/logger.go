// Package logger configures the process-wide zap logger with optional
// file rotation.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var level = zap.NewAtomicLevelAt(zap.InfoLevel)

// Init builds the global logger. When file is non-empty, JSON logs are
// additionally written there with rotation. The returned function flushes
// buffered entries.
func Init(levelStr, file string) func() {
	SetLevel(levelStr)

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stdout), level),
	}
	if file != "" {
		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), sink, level))
	}

	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	zap.ReplaceGlobals(log)
	return func() { _ = log.Sync() }
}

// SetLevel adjusts the logging level at runtime. Unknown names keep the
// current level.
func SetLevel(levelStr string) {
	parsed, err := zapcore.ParseLevel(levelStr)
	if err != nil {
		return
	}
	level.SetLevel(parsed)
}
