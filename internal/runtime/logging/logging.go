// Package logging defines the ServiceLogger used across the bridge and the
// adapters that plug slog, watermill, zap or entry-style loggers into it.
package logging

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
)

// LogFields are structured key/value pairs attached to a log line.
type LogFields map[string]any

// ServiceLogger is the logging contract every bridge component depends on.
// It mirrors watermill.LoggerAdapter so the router and transports can share
// it through NewWatermillAdapter.
type ServiceLogger interface {
	With(fields LogFields) ServiceLogger
	Debug(msg string, fields LogFields)
	Info(msg string, fields LogFields)
	Error(msg string, err error, fields LogFields)
	Trace(msg string, fields LogFields)
}

var slogLevels = map[slog.Level]slog.Level{
	slog.LevelDebug: slog.LevelDebug,
	slog.LevelInfo:  slog.LevelInfo,
	slog.LevelWarn:  slog.LevelWarn,
	slog.LevelError: slog.LevelError,
}

// NewSlogServiceLogger routes log lines to log through watermill's slog
// adapter.
func NewSlogServiceLogger(log *slog.Logger) ServiceLogger {
	if log == nil {
		panic("adbridge: slog logger cannot be nil")
	}
	return NewWatermillServiceLogger(watermill.NewSlogLoggerWithLevelMapping(log, slogLevels))
}

// NewWatermillServiceLogger wraps a watermill.LoggerAdapter.
func NewWatermillServiceLogger(logger watermill.LoggerAdapter) ServiceLogger {
	if logger == nil {
		panic("adbridge: watermill logger cannot be nil")
	}
	return &watermillLogger{inner: logger}
}

type watermillLogger struct {
	inner watermill.LoggerAdapter
}

func (w *watermillLogger) With(fields LogFields) ServiceLogger {
	return &watermillLogger{inner: w.inner.With(watermill.LogFields(fields))}
}

func (w *watermillLogger) Debug(msg string, fields LogFields) {
	w.inner.Debug(msg, watermill.LogFields(fields))
}

func (w *watermillLogger) Info(msg string, fields LogFields) {
	w.inner.Info(msg, watermill.LogFields(fields))
}

func (w *watermillLogger) Error(msg string, err error, fields LogFields) {
	w.inner.Error(msg, err, watermill.LogFields(fields))
}

func (w *watermillLogger) Trace(msg string, fields LogFields) {
	w.inner.Trace(msg, watermill.LogFields(fields))
}

// NewWatermillAdapter turns a ServiceLogger back into a
// watermill.LoggerAdapter for routers, publishers and subscribers.
func NewWatermillAdapter(log ServiceLogger) watermill.LoggerAdapter {
	if log == nil {
		panic("adbridge: service logger cannot be nil")
	}
	if w, ok := log.(*watermillLogger); ok {
		return w.inner
	}
	return &routerLogger{base: log}
}

type routerLogger struct {
	base ServiceLogger
}

func (r *routerLogger) Error(msg string, err error, fields watermill.LogFields) {
	r.base.Error(msg, err, LogFields(fields))
}

func (r *routerLogger) Info(msg string, fields watermill.LogFields) {
	r.base.Info(msg, LogFields(fields))
}

func (r *routerLogger) Debug(msg string, fields watermill.LogFields) {
	r.base.Debug(msg, LogFields(fields))
}

func (r *routerLogger) Trace(msg string, fields watermill.LogFields) {
	r.base.Trace(msg, LogFields(fields))
}

func (r *routerLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &routerLogger{base: r.base.With(LogFields(fields))}
}
