// Package recurrence validates calendar dates and expands repeating event
// templates into concrete instances.
package recurrence

import (
	"io"
	"log/slog"

	"github.com/cyp0633/libcalrepeat/event"
)

// Engine expands templates, optionally caching the results.
type Engine struct {
	cache  *RecurrenceCache
	config EngineConfig
	logger *slog.Logger
}

// NewEngine creates a new recurrence engine with DefaultEngineConfig
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultEngineConfig)
}

// NewEngineWithConfig creates a new recurrence engine with custom configuration
func NewEngineWithConfig(config EngineConfig) *Engine {
	if config.MaxOccurrences < 1 || config.MaxOccurrences > MaxOccurrences {
		config.MaxOccurrences = MaxOccurrences
	}

	var cache *RecurrenceCache
	if config.CacheEnabled {
		cache = NewRecurrenceCache(config.CacheConfig)
	}

	return &Engine{
		cache:  cache,
		config: config,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger replaces the engine's logger.
func (e *Engine) SetLogger(logger *slog.Logger) {
	if logger != nil {
		e.logger = logger
	}
}

// Expand behaves like the package-level Expand, using the engine's cap and cache.
func (e *Engine) Expand(tmpl event.EventForm, repeatID string) []event.EventForm {
	limit := e.config.MaxOccurrences

	if e.cache != nil {
		if cached, ok := e.cache.Get(tmpl, repeatID, limit); ok {
			e.logger.Debug("expansion cache hit", "repeat_id", repeatID, "count", len(cached))
			return cached
		}
	}

	instances, truncated := expand(tmpl, repeatID, limit)
	if truncated {
		end, _ := tmpl.Repeat.EndDate.Get()
		e.logger.Warn("recurrence expansion truncated",
			"repeat_id", repeatID,
			"type", tmpl.Repeat.Type,
			"start", tmpl.Date,
			"until", end,
			"limit", limit,
			"last", instances[len(instances)-1].Date)
	}
	e.logger.Debug("expanded template",
		"title", tmpl.Title,
		"type", tmpl.Repeat.Type,
		"interval", tmpl.Repeat.Interval,
		"count", len(instances))

	if e.cache != nil {
		e.cache.Set(tmpl, repeatID, limit, instances)
	}
	return instances
}

// CacheStats returns statistics of the engine's cache, zero when disabled.
func (e *Engine) CacheStats() CacheStats {
	if e.cache == nil {
		return CacheStats{}
	}
	return e.cache.Stats()
}

// Close releases the cache's background goroutine.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}
