// Package logging wires the process-wide zap logger. The console core is
// human oriented; an optional file core writes JSON through lumberjack so
// long batch renders can rotate their own logs.
package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	global atomic.Pointer[zap.Logger]
	once   sync.Once
)

// Options controls logger construction. The zero value logs Info and above
// to the console only.
type Options struct {
	Level      string // debug, info, warn, error
	File       string // empty disables the file core
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Init builds the global logger once. Later calls are no-ops, so commands
// can call it unconditionally.
func Init(opts Options, console zapcore.WriteSyncer) {
	once.Do(func() {
		level := zap.NewAtomicLevel()
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			level.SetLevel(zap.InfoLevel)
		}

		consoleCfg := zap.NewDevelopmentEncoderConfig()
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		cores := []zapcore.Core{
			zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), console, level),
		}

		if opts.File != "" {
			fileCfg := zap.NewProductionEncoderConfig()
			fileCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
			fileWriter := zapcore.AddSync(&lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    opts.MaxSizeMB,
				MaxBackups: opts.MaxBackups,
				MaxAge:     opts.MaxAgeDays,
				Compress:   opts.Compress,
			})
			cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), fileWriter, level))
		}

		logger := zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel)).Named("throwsim")
		global.Store(logger)
		zap.ReplaceGlobals(logger)
	})
}

// Setup is the production entry point: console output goes to stderr so
// plot data and CSV exports on stdout stay clean.
func Setup(opts Options) {
	Init(opts, zapcore.Lock(os.Stderr))
}

// L returns the global logger, or a development logger when called before
// Init. Tests that never set up logging still get readable output.
func L() *zap.Logger {
	if logger := global.Load(); logger != nil {
		return logger
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// Sync flushes buffered entries. Sync errors on terminal streams are
// expected on some platforms and are swallowed.
func Sync() {
	logger := global.Load()
	if logger == nil {
		return
	}
	if err := logger.Sync(); err != nil {
		msg := err.Error()
		if !strings.Contains(msg, "invalid argument") &&
			!strings.Contains(msg, "inappropriate ioctl") &&
			!strings.Contains(msg, "operation not supported") {
			fmt.Fprintln(os.Stderr, "logging: sync failed:", err)
		}
	}
}

// ResetForTest clears the singleton so each test can install its own
// logger. Never call it outside tests.
func ResetForTest() {
	global.Store(nil)
	once = sync.Once{}
}
