package weather

import (
	"fmt"
	"sync"

	"offgrid-lcoe/internal/types"
)

// MemoCache wraps a Provider with a process-scoped, exact-key (lat, lon)
// cache. Unlike the teacher's ResponseCache (internal/data/cache.go),
// there is no TTL: a site's weather is assumed static for the life of the
// process, so entries never expire once inserted. Discipline is the same
// single-writer/many-reader pattern (spec §5): readers take the read lock
// on the hot path; a miss promotes to the write lock to insert.
type MemoCache struct {
	inner Provider

	mu    sync.RWMutex
	store map[string]types.HourlyNormalizedPV
}

func NewMemoCache(inner Provider) *MemoCache {
	return &MemoCache{inner: inner, store: make(map[string]types.HourlyNormalizedPV)}
}

func (c *MemoCache) FetchNormalizedPV(site types.Site) (types.HourlyNormalizedPV, error) {
	key := cacheKey(site)

	c.mu.RLock()
	if v, ok := c.store[key]; ok {
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	v, err := c.inner.FetchNormalizedPV(site)
	if err != nil {
		return types.HourlyNormalizedPV{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.store[key]; ok {
		// Another goroutine won the race to populate this key; keep its
		// result so concurrent callers observe byte-identical output.
		return existing, nil
	}
	c.store[key] = v
	return v, nil
}

// cacheKey formats the (lat, lon) pair with full float precision so it
// never collides two distinct sites through lossy rounding (spec §5).
func cacheKey(site types.Site) string {
	return fmt.Sprintf("%v,%v", site.Latitude, site.Longitude)
}
