package recurrence

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/cyp0633/libcalrepeat/event"
)

// CacheConfig holds configuration for the recurrence cache
type CacheConfig struct {
	TTL             time.Duration // How long entries stay valid
	MaxEntries      int           // Entries kept before least recently used ones are evicted
	CleanupInterval time.Duration // How often expired entries are swept
}

// DefaultCacheConfig keeps a few hundred expansions for a quarter of an hour.
var DefaultCacheConfig = CacheConfig{
	TTL:             15 * time.Minute,
	MaxEntries:      256,
	CleanupInterval: 5 * time.Minute,
}

// CacheStats describes the cache contents and how often it was useful.
type CacheStats struct {
	TotalEntries   int
	ExpiredEntries int
	ActiveEntries  int
	Hits           uint64
	Misses         uint64
}

type cachedExpansion struct {
	instances []event.EventForm
	expires   time.Time
	lastUsed  time.Time
}

// RecurrenceCache remembers expansion results keyed by template, series id
// and occurrence cap. Callers always receive their own copy of the slice.
type RecurrenceCache struct {
	mu     sync.Mutex
	items  map[string]*cachedExpansion
	hits   uint64
	misses uint64

	config CacheConfig
	now    func() time.Time
	stop   chan struct{}
	once   sync.Once
}

// NewRecurrenceCache creates a cache and starts its sweeper. Zero config
// fields take their DefaultCacheConfig value. Call Close to stop the sweeper.
func NewRecurrenceCache(config CacheConfig) *RecurrenceCache {
	if config.TTL <= 0 {
		config.TTL = DefaultCacheConfig.TTL
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultCacheConfig.MaxEntries
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultCacheConfig.CleanupInterval
	}

	c := &RecurrenceCache{
		items:  make(map[string]*cachedExpansion),
		config: config,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	go c.sweepEvery(config.CleanupInterval)
	return c
}

func cacheKey(tmpl event.EventForm, repeatID string, limit int) string {
	h := sha256.New()
	data, _ := json.Marshal(tmpl)
	h.Write(data)
	h.Write([]byte{0})
	h.Write([]byte(repeatID))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(limit)))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached expansion, if present and fresh.
func (c *RecurrenceCache) Get(tmpl event.EventForm, repeatID string, limit int) ([]event.EventForm, bool) {
	key := cacheKey(tmpl, repeatID, limit)

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	item, ok := c.items[key]
	if ok && now.After(item.expires) {
		delete(c.items, key)
		ok = false
	}
	if !ok {
		c.misses++
		return nil, false
	}

	c.hits++
	item.lastUsed = now
	return slices.Clone(item.instances), true
}

// Set caches instances, evicting the least recently used entries when full.
func (c *RecurrenceCache) Set(tmpl event.EventForm, repeatID string, limit int, instances []event.EventForm) {
	key := cacheKey(tmpl, repeatID, limit)

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.items[key] = &cachedExpansion{
		instances: slices.Clone(instances),
		expires:   now.Add(c.config.TTL),
		lastUsed:  now,
	}
	if len(c.items) > c.config.MaxEntries {
		c.sweep(now)
		c.evict()
	}
}

// sweep drops expired entries. Caller holds mu.
func (c *RecurrenceCache) sweep(now time.Time) {
	for key, item := range c.items {
		if now.After(item.expires) {
			delete(c.items, key)
		}
	}
}

// evict drops least recently used entries until the cache fits. Caller
// holds mu.
func (c *RecurrenceCache) evict() {
	excess := len(c.items) - c.config.MaxEntries
	if excess <= 0 {
		return
	}

	keys := make([]string, 0, len(c.items))
	for key := range c.items {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b string) int {
		return c.items[a].lastUsed.Compare(c.items[b].lastUsed)
	})
	for _, key := range keys[:excess] {
		delete(c.items, key)
	}
}

func (c *RecurrenceCache) sweepEvery(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			c.sweep(c.now())
			c.mu.Unlock()
		}
	}
}

// Close stops the sweeper and empties the cache. Calling it again is a no-op.
func (c *RecurrenceCache) Close() {
	c.once.Do(func() { close(c.stop) })

	c.mu.Lock()
	clear(c.items)
	c.mu.Unlock()
}

// Stats returns a snapshot of the cache counters.
func (c *RecurrenceCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := CacheStats{
		TotalEntries: len(c.items),
		Hits:         c.hits,
		Misses:       c.misses,
	}
	now := c.now()
	for _, item := range c.items {
		if now.After(item.expires) {
			stats.ExpiredEntries++
		}
	}
	stats.ActiveEntries = stats.TotalEntries - stats.ExpiredEntries
	return stats
}
