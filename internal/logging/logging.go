// Package logging builds the zap logger used by the CLI.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	File    string // rotating JSON log; empty disables it
	Level   string // debug, info, warn, error; default info
	Verbose bool   // also write human-readable debug output to Console
	Console io.Writer
}

// New returns a logger teeing to a rotating file and, when verbose, the
// console. With neither sink enabled it returns a no-op logger.
func New(o Options) (*zap.Logger, error) {
	level := zap.InfoLevel
	if o.Level != "" {
		l, err := zapcore.ParseLevel(o.Level)
		if err != nil {
			return nil, err
		}
		level = l
	}

	var cores []zapcore.Core
	if o.File != "" {
		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), sink, level))
	}
	if o.Verbose {
		out := o.Console
		if out == nil {
			out = os.Stderr
		}
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(out), zap.DebugLevel))
	}
	if len(cores) == 0 {
		return zap.NewNop(), nil
	}
	return zap.New(zapcore.NewTee(cores...)), nil
}
