package prompt

// SummaryCache is a bounded cache for generated summaries keyed by
// transcript identity. When full, the oldest entry is evicted. Access is
// single-writer; concurrent pipelines need external locking.
type SummaryCache struct {
	capacity int
	entries  map[string]string
	order    []string
}

// NewSummaryCache creates a cache holding at most capacity entries.
// A capacity of zero or less disables caching entirely.
func NewSummaryCache(capacity int) *SummaryCache {
	return &SummaryCache{
		capacity: capacity,
		entries:  make(map[string]string),
	}
}

// Get returns the cached summary for key, if present.
func (c *SummaryCache) Get(key string) (string, bool) {
	v, ok := c.entries[key]
	return v, ok
}

// Put stores a summary, evicting the oldest entry when at capacity.
// Re-putting an existing key updates the value without changing its age.
func (c *SummaryCache) Put(key, summary string) {
	if c.capacity <= 0 {
		return
	}
	if _, exists := c.entries[key]; exists {
		c.entries[key] = summary
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = summary
	c.order = append(c.order, key)
}

// Len returns the number of cached entries.
func (c *SummaryCache) Len() int {
	return len(c.entries)
}
