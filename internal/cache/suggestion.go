package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blackwell-systems/pkghub/internal/winget"
)

const (
	// SuggestionTTL is how long a suggestion list stays valid.
	SuggestionTTL = time.Hour
	// DefaultSuggestionCap bounds the number of cached queries.
	DefaultSuggestionCap = 100
	// evictFraction of the cap is dropped at once when the cap is exceeded.
	evictFraction = 0.2
)

// SuggestionBacking is the persisted suggestion table. The cache never reads
// from it; Clear empties it.
type SuggestionBacking interface {
	ClearSuggestions(ctx context.Context) error
}

// SuggestionCache holds suggestion lists keyed by lowercase query.
type SuggestionCache struct {
	mem     *TTL[string, []winget.Package]
	cap     int
	backing SuggestionBacking
}

// NewSuggestionCache creates a SuggestionCache holding at most capacity
// queries. A capacity of zero or less uses DefaultSuggestionCap.
func NewSuggestionCache(capacity int, backing SuggestionBacking) *SuggestionCache {
	if capacity <= 0 {
		capacity = DefaultSuggestionCap
	}
	return &SuggestionCache{
		mem:     NewTTL[string, []winget.Package](SuggestionTTL, nil),
		cap:     capacity,
		backing: backing,
	}
}

// SetClock replaces the cache's clock.
func (c *SuggestionCache) SetClock(now Clock) {
	c.mem.SetClock(now)
}

// Cap returns the configured capacity.
func (c *SuggestionCache) Cap() int {
	return c.cap
}

func suggestionKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Get returns the suggestions cached for query.
func (c *SuggestionCache) Get(query string) ([]winget.Package, bool) {
	pkgs, ok := c.mem.Get(suggestionKey(query))
	if !ok {
		return nil, false
	}
	return clonePackages(pkgs), true
}

// Set stores suggestions for query. When the cache grows past its cap the
// oldest fifth of the cap is evicted in one pass, so Len never exceeds Cap
// after Set returns.
func (c *SuggestionCache) Set(query string, pkgs []winget.Package) {
	c.mem.Set(suggestionKey(query), clonePackages(pkgs))
	if over := c.mem.Len() - c.cap; over > 0 {
		n := int(float64(c.cap) * evictFraction)
		if n < over {
			n = over
		}
		c.mem.EvictOldest(n)
	}
}

// Len returns the number of cached queries.
func (c *SuggestionCache) Len() int {
	return c.mem.Len()
}

// Clear empties the cache and the persisted suggestion table.
func (c *SuggestionCache) Clear(ctx context.Context) error {
	c.mem.Clear()
	if c.backing == nil {
		return nil
	}
	if err := c.backing.ClearSuggestions(ctx); err != nil {
		return fmt.Errorf("failed to clear suggestions: %w", err)
	}
	return nil
}
