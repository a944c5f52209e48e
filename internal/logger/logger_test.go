package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStep_SkipsEmpty(t *testing.T) {
	fields := Step("matching", "", "ok")
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Key != FieldPipeline || fields[0].String != "matching" {
		t.Fatalf("unexpected pipeline field: %+v", fields[0])
	}
	if fields[1].Key != FieldStatus || fields[1].String != "ok" {
		t.Fatalf("unexpected status field: %+v", fields[1])
	}
}

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithFields(zap.New(core), zap.String(FieldJobID, "j-1")).Info("scored")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()[FieldJobID]; got != "j-1" {
		t.Fatalf("expected job_id j-1, got %v", got)
	}

	if WithFields(nil, zap.String("k", "v")) == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}
}

func TestNew(t *testing.T) {
	l, err := New(true, true)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug level enabled")
	}
}
