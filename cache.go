package fetch

// Cache is the pure, content-addressed store the executor reads from and
// writes to between rounds. Implementations must treat Update and
// CacheResults as pure: they return a new Cache reflecting the change and
// never mutate the receiver. This is what lets the executor hand the
// pre-round cache to diagnostics (Round.PrevCache) without it being
// invalidated by the very round it describes.
//
// A data source is never given a Cache and can never write to one directly
// — all writes happen in the executor, after a round's fetch completes.
type Cache interface {
	// Get reports whether id is present and, if so, its value.
	Get(id Identity) (any, bool)

	// Update returns a new Cache with id set to val, leaving the receiver
	// unchanged.
	Update(id Identity, val any) Cache

	// CacheResults returns a new Cache with every entry in results merged
	// in, leaving the receiver unchanged. This is the bulk form Update is
	// built from conceptually; the executor uses it once per round so a
	// batch of fetched values commits atomically rather than value by
	// value.
	CacheResults(results map[Identity]any) Cache
}

// InMemoryCache is a persistent (copy-on-write) map-backed Cache. Each call
// to Update or CacheResults allocates a new backing map and copies the
// receiver's entries into it; this keeps the purity contract honest without
// a tree-structured persistent map, at the cost of an O(n) copy per round
// rather than per key. For the batch sizes this engine is built around (one
// copy per round, not per request), that tradeoff is the right one.
type InMemoryCache struct {
	entries map[Identity]any
}

// EmptyCache returns a Cache with no entries.
func EmptyCache() *InMemoryCache {
	return &InMemoryCache{entries: map[Identity]any{}}
}

// CacheFrom seeds a Cache with a pre-populated set of entries, useful for
// priming known values before a run (RunWithCache) or for tests that assert
// on cache-hit behavior without exercising a real data source.
func CacheFrom(seed map[Identity]any) *InMemoryCache {
	entries := make(map[Identity]any, len(seed))
	for k, v := range seed {
		entries[k] = v
	}
	return &InMemoryCache{entries: entries}
}

func (c *InMemoryCache) Get(id Identity) (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.entries[id]
	return v, ok
}

func (c *InMemoryCache) Update(id Identity, val any) Cache {
	next := make(map[Identity]any, len(c.entries)+1)
	for k, v := range c.entries {
		next[k] = v
	}
	next[id] = val
	return &InMemoryCache{entries: next}
}

func (c *InMemoryCache) CacheResults(results map[Identity]any) Cache {
	if len(results) == 0 {
		return c
	}
	next := make(map[Identity]any, len(c.entries)+len(results))
	for k, v := range c.entries {
		next[k] = v
	}
	for k, v := range results {
		next[k] = v
	}
	return &InMemoryCache{entries: next}
}

// Len reports the number of entries currently cached. Test-only helper.
func (c *InMemoryCache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
