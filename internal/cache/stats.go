package cache

import "github.com/blackwell-systems/pkghub/internal/winget"

// Stats summarizes cache occupancy for the stats command.
type Stats struct {
	Categories     int `json:"categories"`
	Suggestions    int `json:"suggestions"`
	SuggestionCap  int `json:"suggestion_cap"`
	ApproxBytes    int `json:"approx_bytes"`
	CachedPackages int `json:"cached_packages"`
}

// Collect reports occupancy of both caches. Either may be nil.
func Collect(categories *CategoryCache, suggestions *SuggestionCache) Stats {
	var s Stats
	if categories != nil {
		s.Categories = categories.Len()
		categories.mem.Range(func(k string, e Entry[[]winget.Package]) bool {
			s.CachedPackages += len(e.Value)
			s.ApproxBytes += len(k) + packagesSize(e.Value)
			return true
		})
	}
	if suggestions != nil {
		s.Suggestions = suggestions.Len()
		s.SuggestionCap = suggestions.Cap()
		suggestions.mem.Range(func(k string, e Entry[[]winget.Package]) bool {
			s.ApproxBytes += len(k) + packagesSize(e.Value)
			return true
		})
	}
	return s
}

func packagesSize(pkgs []winget.Package) int {
	n := 0
	for _, p := range pkgs {
		n += len(p.Name) + len(p.ID) + len(p.Version) + len(p.Source)
	}
	return n
}
