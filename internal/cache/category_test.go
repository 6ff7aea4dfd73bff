package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/pkghub/internal/winget"
)

type fakeBacking struct {
	mu        sync.Mutex
	data      map[string][]winget.Package
	loads     int
	err       error
	cleared   bool
	clearSugg bool
}

func newFakeBacking() *fakeBacking {
	return &fakeBacking{data: make(map[string][]winget.Package)}
}

func (f *fakeBacking) LoadCategory(_ context.Context, category string) ([]winget.Package, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.err != nil {
		return nil, false, f.err
	}
	pkgs, ok := f.data[category]
	return pkgs, ok, nil
}

func (f *fakeBacking) SaveCategory(_ context.Context, category string, pkgs []winget.Package) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.data[category] = pkgs
	return nil
}

func (f *fakeBacking) ClearCategories(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = true
	f.data = make(map[string][]winget.Package)
	return f.err
}

func (f *fakeBacking) ClearSuggestions(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearSugg = true
	return f.err
}

var browsers = []winget.Package{
	{Name: "Mozilla Firefox", ID: "Mozilla.Firefox", Version: "128.0", Source: "winget"},
	{Name: "Google Chrome", ID: "Google.Chrome", Version: "127.0", Source: "winget"},
}

func TestCategoryCache_TTLBoundary(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	c := NewCategoryCache(nil, nil)
	c.SetClock(clock.Now)

	c.Set(ctx, "browser", browsers)

	clock.Advance(CategoryTTL - time.Nanosecond)
	got, ok := c.Get(ctx, "browser")
	require.True(t, ok)
	assert.Equal(t, browsers, got)

	clock.Advance(time.Nanosecond)
	_, ok = c.Get(ctx, "browser")
	assert.False(t, ok, "read at exactly the TTL must miss")
}

func TestCategoryCache_BackingServesStaleAndRepopulates(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	backing := newFakeBacking()
	c := NewCategoryCache(backing, nil)
	c.SetClock(clock.Now)

	c.Set(ctx, "browser", browsers)
	clock.Advance(24 * time.Hour)

	got, ok := c.Get(ctx, "browser")
	require.True(t, ok, "persistent tier has no TTL")
	assert.Equal(t, browsers, got)
	assert.Equal(t, 1, backing.loads)

	// The backing hit refilled memory, so the next read does not touch it.
	_, ok = c.Get(ctx, "browser")
	require.True(t, ok)
	assert.Equal(t, 1, backing.loads)
}

func TestCategoryCache_BackingErrorsDegrade(t *testing.T) {
	ctx := context.Background()
	backing := newFakeBacking()
	backing.err = errors.New("disk I/O error")
	c := NewCategoryCache(backing, nil)

	c.Set(ctx, "dev", browsers)
	got, ok := c.Get(ctx, "dev")
	require.True(t, ok, "memory tier still serves after a backing write error")
	assert.Equal(t, browsers, got)

	_, ok = c.Get(ctx, "media")
	assert.False(t, ok)
}

func TestCategoryCache_OwnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewCategoryCache(nil, nil)

	in := append([]winget.Package(nil), browsers...)
	c.Set(ctx, "browser", in)
	in[0].Name = "mutated"

	got, _ := c.Get(ctx, "browser")
	assert.Equal(t, "Mozilla Firefox", got[0].Name)

	got[1].Name = "mutated"
	again, _ := c.Get(ctx, "browser")
	assert.Equal(t, "Google Chrome", again[1].Name)
}

func TestCategoryCache_ClearClearsBacking(t *testing.T) {
	ctx := context.Background()
	backing := newFakeBacking()
	c := NewCategoryCache(backing, nil)
	c.Set(ctx, "browser", browsers)

	require.NoError(t, c.Clear(ctx))
	assert.True(t, backing.cleared)
	_, ok := c.Get(ctx, "browser")
	assert.False(t, ok)
}
