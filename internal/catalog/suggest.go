package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/blackwell-systems/pkghub/internal/store"
	"github.com/blackwell-systems/pkghub/internal/winget"
)

// MaxSuggestions caps the suggestions returned for one query.
const MaxSuggestions = 5

// Match types recorded with a suggestion.
const (
	MatchName = "name"
	MatchID   = "id"
)

// Suggestion is a package proposed for a partial query.
type Suggestion struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MatchType string `json:"match_type"`
}

// SuggestionRecorder persists suggestions. *store.Store implements it.
type SuggestionRecorder interface {
	RecordSuggestions(ctx context.Context, suggestions []store.Suggestion) error
}

var commonApps = []winget.Package{
	{ID: "Google.Chrome", Name: "Google Chrome"},
	{ID: "Microsoft.Edge", Name: "Microsoft Edge"},
	{ID: "Mozilla.Firefox", Name: "Mozilla Firefox"},
	{ID: "Microsoft.VisualStudioCode", Name: "Visual Studio Code"},
	{ID: "VideoLAN.VLC", Name: "VLC Media Player"},
	{ID: "Spotify.Spotify", Name: "Spotify"},
	{ID: "7zip.7zip", Name: "7-Zip"},
	{ID: "Git.Git", Name: "Git"},
}

// Suggest proposes packages whose name or id contains query. Candidates are
// ranked by edit distance to the query and capped at MaxSuggestions. Results
// are cached per lowercase query and recorded when a recorder is set.
func (a *Aggregator) Suggest(ctx context.Context, query string) []Suggestion {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || !a.cfg.Current().EnableSearchSuggestions {
		return []Suggestion{}
	}

	if pkgs, ok := a.suggestions.Get(q); ok {
		return toSuggestions(q, pkgs)
	}

	type candidate struct {
		pkg  winget.Package
		dist int
	}
	var candidates []candidate
	for _, p := range commonApps {
		name, id := strings.ToLower(p.Name), strings.ToLower(p.ID)
		if !strings.Contains(name, q) && !strings.Contains(id, q) {
			continue
		}
		d := levenshtein.ComputeDistance(q, name)
		if di := levenshtein.ComputeDistance(q, id); di < d {
			d = di
		}
		candidates = append(candidates, candidate{pkg: p, dist: d})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})
	if len(candidates) > MaxSuggestions {
		candidates = candidates[:MaxSuggestions]
	}

	pkgs := make([]winget.Package, len(candidates))
	for i, c := range candidates {
		pkgs[i] = c.pkg
	}
	a.suggestions.Set(q, pkgs)

	out := toSuggestions(q, pkgs)
	if a.recorder != nil && len(out) > 0 {
		rows := make([]store.Suggestion, len(out))
		for i, s := range out {
			rows[i] = store.Suggestion{Query: q, ID: s.ID, Name: s.Name, MatchType: s.MatchType}
		}
		if err := a.recorder.RecordSuggestions(ctx, rows); err != nil {
			a.logger.Printf("catalog: record suggestions for %q: %v", q, err)
		}
	}
	return out
}

func toSuggestions(q string, pkgs []winget.Package) []Suggestion {
	out := make([]Suggestion, len(pkgs))
	for i, p := range pkgs {
		mt := MatchID
		if strings.Contains(strings.ToLower(p.Name), q) {
			mt = MatchName
		}
		out[i] = Suggestion{ID: p.ID, Name: p.Name, MatchType: mt}
	}
	return out
}
