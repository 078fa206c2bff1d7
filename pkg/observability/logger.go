// Copyright 2026 Modkit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package observability provides structured logging for modkit.
package observability

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger interface.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Field represents a log field.
type Field struct {
	Key   string
	Value any
}

// logger is the default zap-backed implementation.
type logger struct {
	zl *zap.Logger
}

// NewLogger creates a new logger writing at the given level.
// Format is "console" or "json"; anything else falls back to console.
func NewLogger(level, format string) Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	if format == "json" {
		cfg.Encoding = "json"
	} else {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	cfg.DisableStacktrace = true

	zl, err := cfg.Build()
	if err != nil {
		// Build only fails on invalid config; fall back to a no-op logger
		// rather than aborting the pipeline over logging.
		zl = zap.NewNop()
	}
	return &logger{zl: zl}
}

// NewNop returns a logger that discards everything. Useful in tests.
func NewNop() Logger {
	return &logger{zl: zap.NewNop()}
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *logger) Debug(msg string, fields ...Field) {
	l.zl.Debug(msg, zapFields(fields)...)
}

func (l *logger) Info(msg string, fields ...Field) {
	l.zl.Info(msg, zapFields(fields)...)
}

func (l *logger) Warn(msg string, fields ...Field) {
	l.zl.Warn(msg, zapFields(fields)...)
}

func (l *logger) Error(msg string, fields ...Field) {
	l.zl.Error(msg, zapFields(fields)...)
}

func (l *logger) With(fields ...Field) Logger {
	return &logger{zl: l.zl.With(zapFields(fields)...)}
}

func zapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field.
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// Duration creates a duration field.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}
