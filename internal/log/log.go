// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

// Package log is the application logger. Library packages use hclog, the
// application glue (main, REST) logs through this package.
package log

import (
	"context"
	"os"
	"strings"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger atomic.Pointer[zap.SugaredLogger]

func init() {
	logger.Store(zap.NewNop().Sugar())
}

// Init configures the global logger. The level is taken from LOG_LEVEL (debug, info, warn, error).
func Init() {
	level := zapcore.InfoLevel
	if lvl, ok := os.LookupEnv("LOG_LEVEL"); ok {
		if parsed, err := zapcore.ParseLevel(strings.ToLower(lvl)); err == nil {
			level = parsed
		}
	}
	conf := zap.NewProductionConfig()
	conf.Level = zap.NewAtomicLevelAt(level)
	conf.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	conf.EncoderConfig.TimeKey = "time"
	built, err := conf.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	SetLogger(built)
}

// SetLogger replaces the global logger.
func SetLogger(l *zap.Logger) {
	logger.Store(l.Sugar())
}

func Sync() {
	_ = logger.Load().Sync()
}

func Info(format string, args ...any) {
	logger.Load().Infof(format, args...)
}

func Error(format string, args ...any) {
	logger.Load().Errorf(format, args...)
}

func Infof(ctx context.Context, format string, args ...any) {
	withContext(ctx).Infof(format, args...)
}

func Errorf(ctx context.Context, format string, args ...any) {
	withContext(ctx).Errorf(format, args...)
}

func Debugf(ctx context.Context, format string, args ...any) {
	withContext(ctx).Debugf(format, args...)
}

// withContext adds the ids of the active span, if any.
func withContext(ctx context.Context) *zap.SugaredLogger {
	l := logger.Load()
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return l
	}
	return l.With(
		zap.String("traceId", spanCtx.TraceID().String()),
		zap.String("spanId", spanCtx.SpanID().String()),
	)
}
