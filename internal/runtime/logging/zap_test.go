package logging

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapServiceLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapServiceLogger(zap.New(core))

	logger.Info("loaded", LogFields{"placementId": "P1", "adId": 3})
	logger.With(LogFields{"channel": "flutter_vungle"}).Debug("dispatched", nil)
	logger.Error("failed", errors.New("boom"), nil)
	logger.Trace("queued", nil)

	entries := logs.AllUntimed()
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	if entries[0].ContextMap()["placementId"] != "P1" {
		t.Fatalf("expected placementId field, got %v", entries[0].ContextMap())
	}
	if entries[1].ContextMap()["channel"] != "flutter_vungle" {
		t.Fatalf("expected With field, got %v", entries[1].ContextMap())
	}
	if entries[2].Level != zapcore.ErrorLevel || entries[2].ContextMap()["error"] != "boom" {
		t.Fatalf("unexpected error entry: %#v", entries[2])
	}
	if entries[3].Level != zapcore.DebugLevel || entries[3].ContextMap()["trace"] != true {
		t.Fatalf("expected trace at debug level, got %#v", entries[3])
	}
}

func TestZapTraceSkippedAboveDebug(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	NewZapServiceLogger(zap.New(core)).Trace("queued", nil)
	if logs.Len() != 0 {
		t.Fatalf("expected trace to be filtered, got %d entries", logs.Len())
	}
}

func TestNopServiceLogger(t *testing.T) {
	logger := NewNopServiceLogger()
	logger.With(LogFields{"a": 1}).Info("ignored", nil)
	logger.Error("ignored", errors.New("boom"), nil)
}
