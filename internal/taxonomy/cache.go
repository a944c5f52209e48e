package taxonomy

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"talent-match/internal/domain/skill"

	"go.uber.org/zap"
)

const (
	DefaultTTL = time.Hour
	// DefaultRetryAfter is how long a failed fetch serves the built-in skills before
	// the store is tried again.
	DefaultRetryAfter = 5 * time.Second
)

var ErrTaxonomyUnavailable = errors.New("skill taxonomy unavailable")

type Fetcher interface {
	FetchAll(ctx context.Context) ([]skill.Entry, error)
}

type FetcherFunc func(ctx context.Context) ([]skill.Entry, error)

func (f FetcherFunc) FetchAll(ctx context.Context) ([]skill.Entry, error) {
	return f(ctx)
}

type snapshot struct {
	entries  []skill.Entry
	loadedAt time.Time
}

// Cache keeps the whole taxonomy in memory for a TTL window. Readers see an
// immutable snapshot; a refresh builds a new one and swaps it in.
type Cache struct {
	fetcher    Fetcher
	ttl        time.Duration
	retryAfter time.Duration
	now        func() time.Time
	log        *zap.Logger

	refreshMu sync.Mutex
	current   atomic.Pointer[snapshot]
	failedAt  atomic.Pointer[time.Time]
}

type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithRetryAfter(d time.Duration) Option {
	return func(c *Cache) {
		if d >= 0 {
			c.retryAfter = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}

func New(fetcher Fetcher, opts ...Option) *Cache {
	c := &Cache{
		fetcher:    fetcher,
		ttl:        DefaultTTL,
		retryAfter: DefaultRetryAfter,
		now:        time.Now,
		log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Skills returns the cached taxonomy, refetching it when the TTL has elapsed.
// A failed fetch degrades to DefaultSkills, which are served without retrying until
// the retry window has passed. The returned slice is shared and must not be modified.
func (c *Cache) Skills(ctx context.Context) []skill.Entry {
	if c == nil {
		return DefaultSkills()
	}
	if s := c.fresh(); s != nil {
		return s.entries
	}
	if c.backingOff() {
		return DefaultSkills()
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if s := c.fresh(); s != nil {
		return s.entries
	}
	if c.backingOff() {
		return DefaultSkills()
	}

	entries, err := c.fetch(ctx)
	if err != nil {
		failed := c.now()
		c.failedAt.Store(&failed)
		c.log.Warn("taxonomy fetch failed, using built-in skills",
			zap.String("pipeline", "taxonomy"),
			zap.String("status", "fallback"),
			zap.Error(err),
		)
		return DefaultSkills()
	}

	c.failedAt.Store(nil)
	c.current.Store(&snapshot{entries: entries, loadedAt: c.now()})
	c.log.Debug("taxonomy loaded", zap.Int("skills", len(entries)))
	return entries
}

// Invalidate forces the next Skills call to refetch.
func (c *Cache) Invalidate() {
	if c == nil {
		return
	}
	c.current.Store(nil)
	c.failedAt.Store(nil)
}

func (c *Cache) backingOff() bool {
	t := c.failedAt.Load()
	return t != nil && c.now().Sub(*t) < c.retryAfter
}

func (c *Cache) fresh() *snapshot {
	s := c.current.Load()
	if s == nil {
		return nil
	}
	if c.now().Sub(s.loadedAt) >= c.ttl {
		return nil
	}
	return s
}

func (c *Cache) fetch(ctx context.Context) ([]skill.Entry, error) {
	if c.fetcher == nil {
		return nil, ErrTaxonomyUnavailable
	}
	entries, err := c.fetcher.FetchAll(ctx)
	if err != nil {
		return nil, errors.Join(ErrTaxonomyUnavailable, err)
	}
	out := make([]skill.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Slug == "" {
			e.Slug = skill.Slugify(e.Name)
		}
		if e.Slug == "" {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
