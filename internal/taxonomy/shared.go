package taxonomy

import (
	"context"
	"time"

	"talent-match/internal/domain/skill"

	"go.uber.org/zap"
)

const SharedKey = "taxonomy:skills"

// JSONStore is the subset of the Redis cache used to share a loaded taxonomy
// between processes.
type JSONStore interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SharedFetcher reads through a shared cache before hitting the backing fetcher.
// Cache errors are logged and bypassed.
type SharedFetcher struct {
	next  Fetcher
	store JSONStore
	ttl   time.Duration
	log   *zap.Logger
}

func NewSharedFetcher(next Fetcher, store JSONStore, ttl time.Duration, log *zap.Logger) *SharedFetcher {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SharedFetcher{next: next, store: store, ttl: ttl, log: log}
}

func (f *SharedFetcher) FetchAll(ctx context.Context) ([]skill.Entry, error) {
	if f.store != nil {
		var cached []skill.Entry
		ok, err := f.store.GetJSON(ctx, SharedKey, &cached)
		if err != nil {
			f.log.Warn("shared taxonomy read failed", zap.Error(err))
		}
		if ok && len(cached) > 0 {
			return cached, nil
		}
	}

	entries, err := f.next.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	if f.store != nil && len(entries) > 0 {
		if err := f.store.SetJSON(ctx, SharedKey, entries, f.ttl); err != nil {
			f.log.Warn("shared taxonomy write failed", zap.Error(err))
		}
	}
	return entries, nil
}

// Invalidate drops the shared copy so every process refetches from the store.
func (f *SharedFetcher) Invalidate(ctx context.Context) error {
	if f == nil || f.store == nil {
		return nil
	}
	return f.store.Delete(ctx, SharedKey)
}
