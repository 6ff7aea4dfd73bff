package cache

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/blackwell-systems/pkghub/internal/winget"
)

// CategoryTTL is how long a category listing is served from memory.
const CategoryTTL = 10 * time.Minute

// CategoryBacking is the persistent tier for category listings. Entries read
// from it are served regardless of age.
type CategoryBacking interface {
	LoadCategory(ctx context.Context, category string) ([]winget.Package, bool, error)
	SaveCategory(ctx context.Context, category string, pkgs []winget.Package) error
	ClearCategories(ctx context.Context) error
}

// CategoryCache is the two-tier cache of category listings.
type CategoryCache struct {
	mem     *TTL[string, []winget.Package]
	backing CategoryBacking
	logger  *log.Logger
}

// NewCategoryCache creates a CategoryCache. backing may be nil, in which case
// only the memory tier is used.
func NewCategoryCache(backing CategoryBacking, logger *log.Logger) *CategoryCache {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &CategoryCache{
		mem:     NewTTL[string, []winget.Package](CategoryTTL, nil),
		backing: backing,
		logger:  logger,
	}
}

// SetClock replaces the memory tier's clock.
func (c *CategoryCache) SetClock(now Clock) {
	c.mem.SetClock(now)
}

// Get returns the listing for category, checking memory first and then the
// persistent tier. A persistent hit repopulates memory.
func (c *CategoryCache) Get(ctx context.Context, category string) ([]winget.Package, bool) {
	if pkgs, ok := c.mem.Get(category); ok {
		return clonePackages(pkgs), true
	}
	if c.backing == nil {
		return nil, false
	}

	pkgs, ok, err := c.backing.LoadCategory(ctx, category)
	if err != nil {
		c.logger.Printf("cache: load category %q: %v", category, fmt.Errorf("%w: %v", ErrUnavailable, err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	c.mem.Set(category, clonePackages(pkgs))
	return clonePackages(pkgs), true
}

// Set stores the listing in both tiers. A backing failure is logged and the
// memory tier still holds the value.
func (c *CategoryCache) Set(ctx context.Context, category string, pkgs []winget.Package) {
	c.mem.Set(category, clonePackages(pkgs))
	if c.backing == nil {
		return
	}
	if err := c.backing.SaveCategory(ctx, category, pkgs); err != nil {
		c.logger.Printf("cache: save category %q: %v", category, fmt.Errorf("%w: %v", ErrUnavailable, err))
	}
}

// Clear empties memory and the persistent tier.
func (c *CategoryCache) Clear(ctx context.Context) error {
	c.mem.Clear()
	if c.backing == nil {
		return nil
	}
	if err := c.backing.ClearCategories(ctx); err != nil {
		return fmt.Errorf("failed to clear category cache: %w", err)
	}
	return nil
}

// Len returns the number of categories held in memory.
func (c *CategoryCache) Len() int {
	return c.mem.Len()
}

func clonePackages(pkgs []winget.Package) []winget.Package {
	if pkgs == nil {
		return nil
	}
	out := make([]winget.Package, len(pkgs))
	copy(out, pkgs)
	return out
}
