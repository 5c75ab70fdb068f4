package recurrence

import (
	"time"
)

// EngineConfig holds configuration options for the recurrence engine
type EngineConfig struct {
	// MaxOccurrences caps one expansion. Values outside 1..MaxOccurrences
	// fall back to MaxOccurrences.
	MaxOccurrences int

	CacheEnabled bool
	CacheConfig  CacheConfig
}

// DefaultEngineConfig caches expansions for the lifetime of a save dialog.
var DefaultEngineConfig = EngineConfig{
	MaxOccurrences: MaxOccurrences,
	CacheEnabled:   true,
	CacheConfig:    DefaultCacheConfig,
}

// DisabledCacheConfig turns off caching entirely
var DisabledCacheConfig = EngineConfig{
	MaxOccurrences: MaxOccurrences,
	CacheEnabled:   false,
}

// LowMemoryConfig keeps only a handful of recent expansions
var LowMemoryConfig = EngineConfig{
	MaxOccurrences: MaxOccurrences,
	CacheEnabled:   true,
	CacheConfig: CacheConfig{
		TTL:             time.Minute,
		MaxEntries:      16,
		CleanupInterval: 30 * time.Second,
	},
}
