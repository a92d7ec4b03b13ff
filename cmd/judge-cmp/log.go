package main

import (
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger 构造写到 w 的 zap 开发模式 logger，verbosity 对应 logr 的 V 级别
func newLogger(verbosity int, w io.Writer) logr.Logger {
	if verbosity < 0 {
		verbosity = 0
	}
	level := zap.NewAtomicLevelAt(zapcore.Level(int8(-verbosity)))
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		level,
	)
	return zapr.NewLogger(zap.New(core, zap.AddCaller()))
}
