package cache

import (
	"context"
	"testing"
	"time"

	"talent-match/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedis_DisabledBypassesCache(t *testing.T) {
	r := NewRedis(context.Background(), config.RedisConfig{Enabled: false}, nil)
	ctx := context.Background()

	if err := r.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute); err != nil {
		t.Fatalf("expected no-op set, got %v", err)
	}
	var out map[string]int
	hit, err := r.GetJSON(ctx, "k", &out)
	if err != nil || hit {
		t.Fatalf("expected miss, got hit=%v err=%v", hit, err)
	}
	if ok, err := r.SetIfNotExists(ctx, "lock", "1", 0); ok || err != nil {
		t.Fatalf("expected lock bypass, got ok=%v err=%v", ok, err)
	}
	if err := r.DeleteByPattern(ctx, "matches:*"); err != nil {
		t.Fatalf("expected no-op delete, got %v", err)
	}
	if err := r.Ping(ctx); err == nil {
		t.Fatalf("expected ping error when disabled")
	}
}

func TestRedis_UnreachableServerLogsAndDegrades(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	cfg := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: "1"}

	r := NewRedis(context.Background(), cfg, zap.New(core))
	if !r.isUnavailable() {
		t.Fatalf("expected unavailable client")
	}
	if logs.FilterMessage("redis unavailable, bypassing cache").Len() != 1 {
		t.Fatalf("expected one warning, got %v", logs.All())
	}

	var out []string
	if hit, err := r.GetJSON(context.Background(), "k", &out); hit || err != nil {
		t.Fatalf("expected silent miss, got hit=%v err=%v", hit, err)
	}
}

func TestNilRedisIsSafe(t *testing.T) {
	var r *Redis
	if err := r.Delete(context.Background(), "k"); err != nil {
		t.Fatalf("expected nil-safe delete, got %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("expected nil-safe close, got %v", err)
	}
}
