package install

import (
	"sort"
	"strings"
	"sync"
)

// Registry tracks ids with an install in flight. Ids compare
// case-insensitively.
type Registry struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{active: make(map[string]struct{})}
}

// Acquire marks id as in flight. It returns false if it already is;
// otherwise the returned func releases it.
func (r *Registry) Acquire(id string) (release func(), ok bool) {
	key := strings.ToLower(strings.TrimSpace(id))

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.active[key]; busy {
		return nil, false
	}
	r.active[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.active, key)
			r.mu.Unlock()
		})
	}, true
}

// Active returns the in-flight ids, lowercased and sorted.
func (r *Registry) Active() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.active))
	for k := range r.active {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
