package catalog

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/pkghub/internal/cache"
	"github.com/blackwell-systems/pkghub/internal/config"
	"github.com/blackwell-systems/pkghub/internal/notify"
	"github.com/blackwell-systems/pkghub/internal/winget"
)

const (
	popularKeywordLimit = 8
	keywordLimit        = 10
	perKeywordLimit     = 10
	broadSearchLimit    = 20
	// broadSearchBelow triggers a search on the category name itself.
	broadSearchBelow = 15

	// PopularTTL is how long a preloaded popular listing is reused.
	PopularTTL = 5 * time.Minute
)

// Searcher runs a package search. *winget.Client implements it.
type Searcher interface {
	Search(ctx context.Context, query, source string) ([]winget.Package, error)
}

// SourceSelector picks the source searches are scoped to.
type SourceSelector interface {
	SelectOptimal() string
}

// Aggregator builds category listings and runs searches.
type Aggregator struct {
	searcher    Searcher
	cfg         config.Provider
	categories  *cache.CategoryCache
	suggestions *cache.SuggestionCache
	popular     *cache.TTL[string, []winget.Package]
	keywords    map[string][]string
	selector    SourceSelector
	recorder    SuggestionRecorder
	sink        notify.Sink
	logger      *log.Logger
}

// NewAggregator creates an Aggregator. categories and suggestions may be
// shared with other components; nil values get private memory-only caches.
func NewAggregator(searcher Searcher, cfg config.Provider, categories *cache.CategoryCache, suggestions *cache.SuggestionCache, logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if categories == nil {
		categories = cache.NewCategoryCache(nil, logger)
	}
	if suggestions == nil {
		suggestions = cache.NewSuggestionCache(0, nil)
	}
	return &Aggregator{
		searcher:    searcher,
		cfg:         cfg,
		categories:  categories,
		suggestions: suggestions,
		popular:     cache.NewTTL[string, []winget.Package](PopularTTL, nil),
		keywords:    DefaultKeywords(),
		sink:        notify.Discard,
		logger:      logger,
	}
}

// SetSourceSelector makes searches use the selector's choice of source.
func (a *Aggregator) SetSourceSelector(s SourceSelector) { a.selector = s }

// SetSuggestionRecorder persists produced suggestions.
func (a *Aggregator) SetSuggestionRecorder(r SuggestionRecorder) { a.recorder = r }

// SetSink sets where category failure notices go.
func (a *Aggregator) SetSink(s notify.Sink) {
	if s == nil {
		s = notify.Discard
	}
	a.sink = s
}

// SetKeywords replaces the keyword table.
func (a *Aggregator) SetKeywords(k map[string][]string) { a.keywords = k }

// CategoryCache returns the category cache.
func (a *Aggregator) CategoryCache() *cache.CategoryCache { return a.categories }

// SuggestionCache returns the suggestion cache.
func (a *Aggregator) SuggestionCache() *cache.SuggestionCache { return a.suggestions }

func (a *Aggregator) source() string {
	if a.selector == nil {
		return ""
	}
	return a.selector.SelectOptimal()
}

func (a *Aggregator) keywordsFor(category string) []string {
	if kw, ok := a.keywords[category]; ok {
		return kw
	}
	return a.keywords[Popular]
}

// Browse returns the listing for category. It never fails: keyword search
// errors count as empty results, and a category with nothing to show gets
// its curated fallback listing.
func (a *Aggregator) Browse(ctx context.Context, category string) []winget.Package {
	category = Normalize(category)

	if pkgs, ok := a.categories.Get(ctx, category); ok {
		a.logger.Printf("catalog: %s served from cache (%d)", category, len(pkgs))
		return pkgs
	}

	keywords := a.keywordsFor(category)
	if len(keywords) == 0 {
		return []winget.Package{}
	}
	k := keywordLimit
	if category == Popular {
		k = popularKeywordLimit
	}
	if len(keywords) > k {
		keywords = keywords[:k]
	}

	source := a.source()
	results, failed := a.searchAll(ctx, keywords, source)
	if failed == len(keywords) {
		a.logger.Printf("catalog: every keyword search for %s failed, using fallback", category)
		if category != Popular {
			a.sink.Notify(notify.Event{
				PackageID: category,
				Status:    notify.StatusFailed,
				Message:   fmt.Sprintf("could not load the %s category; check the network and winget", category),
				Time:      time.Now(),
			})
		}
		return Fallback(category)
	}

	merged, seen := mergeUnique(nil, nil, results...)

	if len(merged) < broadSearchBelow && category != Popular {
		broad, err := a.searcher.Search(ctx, category, source)
		if err != nil {
			a.logger.Printf("catalog: broad search %q: %v", category, err)
		}
		merged, _ = mergeUnique(merged, seen, truncate(broad, broadSearchLimit))
	}

	merged = truncate(merged, a.cfg.Current().CategorySearchLimit)

	if len(merged) == 0 {
		merged = Fallback(category)
		a.categories.Set(ctx, category, merged)
		return merged
	}

	if category == Popular {
		merged = promoteEssentials(merged)
	}

	a.categories.Set(ctx, category, merged)
	return merged
}

// searchAll runs one search per keyword. All searches run to completion;
// one failing does not cancel the rest. Results are indexed by keyword.
func (a *Aggregator) searchAll(ctx context.Context, keywords []string, source string) ([][]winget.Package, int) {
	results := make([][]winget.Package, len(keywords))
	errs := make([]error, len(keywords))

	var g errgroup.Group
	if n := a.cfg.Current().BatchSize; n > 0 {
		g.SetLimit(n)
	}
	for i, kw := range keywords {
		i, kw := i, kw
		g.Go(func() error {
			pkgs, err := a.searcher.Search(ctx, kw, source)
			if err != nil {
				a.logger.Printf("catalog: keyword %q: %v", kw, err)
				errs[i] = err
				return nil
			}
			results[i] = truncate(pkgs, perKeywordLimit)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	return results, failed
}

// Search runs a free-text search. Failures are logged and yield an empty
// result.
func (a *Aggregator) Search(ctx context.Context, query string) []winget.Package {
	query = strings.TrimSpace(query)
	if query == "" {
		return []winget.Package{}
	}
	pkgs, err := a.searcher.Search(ctx, query, a.source())
	if err != nil {
		a.logger.Printf("catalog: search %q: %v", query, err)
		return []winget.Package{}
	}
	return pkgs
}

// Preload fetches the popular listing and keeps it for PopularTTL. An empty
// listing is replaced by the popular fallback.
func (a *Aggregator) Preload(ctx context.Context) []winget.Package {
	if pkgs, ok := a.popular.Get(Popular); ok {
		return append([]winget.Package(nil), pkgs...)
	}
	pkgs := a.Browse(ctx, Popular)
	if len(pkgs) == 0 {
		pkgs = Fallback(Popular)
	}
	a.popular.Set(Popular, append([]winget.Package(nil), pkgs...))
	return pkgs
}

// ClearCategories drops cached listings from memory and the persistent tier.
func (a *Aggregator) ClearCategories(ctx context.Context) error {
	a.popular.Clear()
	return a.categories.Clear(ctx)
}

// ClearSuggestions drops cached and persisted suggestions.
func (a *Aggregator) ClearSuggestions(ctx context.Context) error {
	return a.suggestions.Clear(ctx)
}

// mergeUnique appends the lists to dst in order, skipping ids already seen.
func mergeUnique(dst []winget.Package, seen map[string]struct{}, lists ...[]winget.Package) ([]winget.Package, map[string]struct{}) {
	if seen == nil {
		seen = make(map[string]struct{})
	}
	for _, list := range lists {
		for _, p := range list {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			dst = append(dst, p)
		}
	}
	if dst == nil {
		dst = []winget.Package{}
	}
	return dst, seen
}

func truncate(pkgs []winget.Package, n int) []winget.Package {
	if n > 0 && len(pkgs) > n {
		return pkgs[:n]
	}
	return pkgs
}

// promoteEssentials sorts by name and then moves the essential ids to the
// front in Essentials order.
func promoteEssentials(pkgs []winget.Package) []winget.Package {
	sorted := append([]winget.Package(nil), pkgs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})

	byID := make(map[string]winget.Package)
	rank := make(map[string]bool, len(Essentials))
	for _, id := range Essentials {
		rank[id] = true
	}
	for _, p := range sorted {
		if rank[p.ID] {
			byID[p.ID] = p
		}
	}

	out := make([]winget.Package, 0, len(sorted))
	for _, id := range Essentials {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	for _, p := range sorted {
		if !rank[p.ID] {
			out = append(out, p)
		}
	}
	return out
}
