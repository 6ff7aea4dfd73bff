package install

import (
	"context"
	"strings"

	"github.com/blackwell-systems/pkghub/internal/winget"
)

// maxVerifyAttempts is the number of verification queries tried.
const maxVerifyAttempts = 3

// verifyQuery is one way of finding an installed package.
type verifyQuery struct {
	exactID string
	filter  string
}

// verifyQueries returns the exact-id query followed by substring filters on
// the first two dot-separated segments of id. An id without a second
// segment still yields three queries; the empty filter never matches.
func verifyQueries(id string) []verifyQuery {
	segs := strings.Split(id, ".")
	second := ""
	if len(segs) > 1 {
		second = segs[1]
	}
	return []verifyQuery{
		{exactID: id},
		{filter: segs[0]},
		{filter: second},
	}
}

// verify runs up to three queries, VerifyBackoff apart, and reports the
// matching package from the first query that finds one.
func (o *Orchestrator) verify(ctx context.Context, id string) (winget.Package, int, bool) {
	queries := verifyQueries(id)
	for i, q := range queries {
		if i > 0 {
			if err := o.sleep(ctx, VerifyBackoff); err != nil {
				return winget.Package{}, i, false
			}
		}
		if pkg, ok := o.runVerifyQuery(ctx, id, q); ok {
			o.logger.Printf("install %s: verified on attempt %d", id, i+1)
			return pkg, i + 1, true
		}
		o.logger.Printf("install %s: verification attempt %d found nothing", id, i+1)
	}
	return winget.Package{}, len(queries), false
}

func (o *Orchestrator) runVerifyQuery(ctx context.Context, id string, q verifyQuery) (winget.Package, bool) {
	if q.exactID == "" && strings.TrimSpace(q.filter) == "" {
		return winget.Package{}, false
	}

	res, err := o.runner.Run(ctx, winget.ListArgs(q.exactID), winget.RunOptions{Timeout: winget.ProbeTimeout})
	if err != nil {
		return winget.Package{}, false
	}
	out := res.Output()
	pkgs := winget.ParseListing(out)

	if q.exactID != "" {
		for _, p := range pkgs {
			if strings.EqualFold(p.ID, q.exactID) {
				return p, true
			}
		}
		// Truncated columns can hide the id; fall back to the raw text.
		if strings.Contains(strings.ToLower(out), strings.ToLower(q.exactID)) {
			return winget.Package{ID: id}, true
		}
		return winget.Package{}, false
	}

	needle := strings.ToLower(q.filter)
	for _, p := range pkgs {
		if strings.Contains(strings.ToLower(p.ID), needle) || strings.Contains(strings.ToLower(p.Name), needle) {
			return p, true
		}
	}
	return winget.Package{}, false
}
