// Copyright 2026 Latforge Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/latforge/sondeo/core"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a cached analysis result stays valid.
const DefaultTTL = 3600 * time.Second

// entry is one cached analysis result with its expiry deadline.
type entry struct {
	result    *core.AnalysisResult
	expiresAt time.Time
}

// Cache is an in-memory TTL cache of analysis results keyed by text
// fingerprint. Concurrent lookups for the same missing fingerprint are
// coalesced so the expensive analysis runs once.
// Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[core.Fingerprint]entry
	ttl     time.Duration
	group   singleflight.Group
	now     func() time.Time
	logger  *slog.Logger
}

// Option is a functional option for configuring a Cache.
type Option func(*Cache)

// WithTTL sets the entry time-to-live. Non-positive values fall back to
// DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock overrides the time source. Used by tests to control expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates an empty cache with DefaultTTL and applies the provided
// options.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[core.Fingerprint]entry),
		ttl:     DefaultTTL,
		now:     time.Now,
		logger:  slog.Default().With("component", "fingerprint-cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached result for a fingerprint. An expired entry is a
// miss and is removed.
func (c *Cache) Get(fp core.Fingerprint) (*core.AnalysisResult, bool) {
	c.mu.RLock()
	e, ok := c.entries[fp]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Recheck under the write lock; another goroutine may have
		// refreshed the entry in between.
		if cur, ok := c.entries[fp]; ok && c.now().After(cur.expiresAt) {
			delete(c.entries, fp)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.result, true
}

// Set stores a result for a fingerprint, resetting its TTL.
func (c *Cache) Set(fp core.Fingerprint, result *core.AnalysisResult) {
	c.mu.Lock()
	c.entries[fp] = entry{result: result, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate removes a fingerprint from the cache.
func (c *Cache) Invalidate(fp core.Fingerprint) {
	c.mu.Lock()
	delete(c.entries, fp)
	c.mu.Unlock()
}

// Purge sweeps all expired entries and returns how many were removed.
func (c *Cache) Purge() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for fp, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, fp)
			removed++
		}
	}
	if removed > 0 {
		c.logger.Debug("purged expired cache entries", "removed", removed)
	}
	return removed
}

// Len returns the number of entries currently held, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetOrCompute returns the cached result for a fingerprint, computing and
// storing it on a miss. Concurrent callers for the same fingerprint share
// one execution of compute; every caller receives the same result.
// Errors are returned to all waiting callers and are not cached.
func (c *Cache) GetOrCompute(ctx context.Context, fp core.Fingerprint, compute func(ctx context.Context) (*core.AnalysisResult, error)) (*core.AnalysisResult, error) {
	if result, ok := c.Get(fp); ok {
		return result, nil
	}

	v, err, shared := c.group.Do(string(fp), func() (any, error) {
		// Recheck after winning the flight; a racing caller may have
		// populated the entry already.
		if result, ok := c.Get(fp); ok {
			return result, nil
		}

		result, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(fp, result)
		return result, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		c.logger.Debug("coalesced concurrent analysis", "fingerprint", fp)
	}
	return v.(*core.AnalysisResult), nil
}
