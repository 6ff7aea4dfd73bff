package source

import (
	"context"
	"io"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/blackwell-systems/pkghub/internal/config"
	"github.com/blackwell-systems/pkghub/internal/winget"
)

const (
	// PrimarySource is chosen when no enabled source has a measurement.
	PrimarySource = winget.DefaultSource

	// ReprobeAfter is the age at which SelectOptimal refreshes its choice.
	ReprobeAfter = 5 * time.Minute
	// StaleAfter is the age at which Status stops reporting a sample as fresh.
	StaleAfter = 10 * time.Minute
	// SeedLimit is how many persisted samples are read at startup.
	SeedLimit = 10
)

// Sample is one latency measurement.
type Sample struct {
	SourceID   string
	Latency    time.Duration
	MeasuredAt time.Time
	Err        error
}

// Result is the outcome of a probe. Probe failures are reported here, never
// as an error return.
type Result struct {
	SourceID string
	Success  bool
	Latency  time.Duration
	Rating   Rating
	Err      error
}

// Status describes what the monitor currently knows about a source.
type Status struct {
	Tested     bool
	Latency    time.Duration
	Rating     Rating
	LastTested time.Time
	Age        time.Duration
	Fresh      bool
}

// History persists probe samples.
type History interface {
	RecordProbe(ctx context.Context, s Sample) error
}

// Monitor tracks the most recent latency of each source.
type Monitor struct {
	runner  winget.Runner
	cfg     config.Provider
	history History
	sched   *Scheduler
	logger  *log.Logger
	now     func() time.Time

	mu      sync.RWMutex
	latency map[string]time.Duration
	tested  map[string]time.Time
}

// NewMonitor creates a Monitor that probes through runner and reads the
// source list from cfg on every call.
func NewMonitor(runner winget.Runner, cfg config.Provider, logger *log.Logger) *Monitor {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Monitor{
		runner:  runner,
		cfg:     cfg,
		sched:   NewScheduler(),
		logger:  logger,
		now:     time.Now,
		latency: make(map[string]time.Duration),
		tested:  make(map[string]time.Time),
	}
}

// SetHistory sets where probe samples are persisted.
func (m *Monitor) SetHistory(h History) { m.history = h }

// SetClock replaces the monitor's clock.
func (m *Monitor) SetClock(now func() time.Time) { m.now = now }

// SetScheduler replaces the background re-probe queue. The previous one is
// closed.
func (m *Monitor) SetScheduler(s *Scheduler) {
	if m.sched != nil {
		m.sched.Close()
	}
	m.sched = s
}

// Scheduler returns the background re-probe queue.
func (m *Monitor) Scheduler() *Scheduler { return m.sched }

// Close stops background re-probes and waits for running ones.
func (m *Monitor) Close() {
	m.sched.Close()
}

// Probe runs `winget --version` against sourceID and records the latency, or
// Unreachable when the command fails.
func (m *Monitor) Probe(ctx context.Context, sourceID string) Result {
	start := m.now()
	_, err := m.runner.Run(ctx, winget.VersionArgs(), winget.RunOptions{
		Timeout: winget.ProbeTimeout,
		Source:  sourceID,
	})
	end := m.now()

	sample := Sample{SourceID: sourceID, Latency: end.Sub(start), MeasuredAt: end, Err: err}
	if err != nil {
		sample.Latency = Unreachable
		m.logger.Printf("source: probe %s failed: %v", sourceID, err)
	} else {
		m.logger.Printf("source: probe %s took %s", sourceID, sample.Latency)
	}

	m.mu.Lock()
	m.latency[sourceID] = sample.Latency
	m.tested[sourceID] = sample.MeasuredAt
	m.mu.Unlock()

	if m.history != nil {
		if herr := m.history.RecordProbe(ctx, sample); herr != nil {
			m.logger.Printf("source: record probe %s: %v", sourceID, herr)
		}
	}

	return Result{
		SourceID: sourceID,
		Success:  err == nil,
		Latency:  sample.Latency,
		Rating:   Classify(sample.Latency),
		Err:      err,
	}
}

// SelectOptimal returns the source to use. With automatic selection off it
// is the configured download source. With it on, the enabled source with
// the lowest known latency wins, ties going to the lower priority value.
// When the chosen source was last measured more than ReprobeAfter ago a
// background re-probe is queued; its result only affects later calls.
func (m *Monitor) SelectOptimal() string {
	cfg := m.cfg.Current()
	enabled := cfg.EnabledSources()
	if len(enabled) == 0 {
		return PrimarySource
	}
	if !cfg.AutoSource {
		return cfg.DownloadSource
	}

	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})

	best, bestLatency := PrimarySource, Unreachable
	m.mu.RLock()
	for _, s := range enabled {
		l, ok := m.latency[s.ID]
		if ok && l < bestLatency {
			best, bestLatency = s.ID, l
		}
	}
	last, tested := m.tested[best]
	m.mu.RUnlock()

	if !tested || m.now().Sub(last) > ReprobeAfter {
		if _, queued := m.sched.Schedule(best, func(ctx context.Context) {
			m.Probe(ctx, best)
		}); queued {
			m.logger.Printf("source: re-probe of %s scheduled", best)
		}
	}
	return best
}

// Status reports the last measurement for sourceID.
func (m *Monitor) Status(sourceID string) Status {
	m.mu.RLock()
	l, ok := m.latency[sourceID]
	last := m.tested[sourceID]
	m.mu.RUnlock()

	if !ok {
		return Status{}
	}
	age := m.now().Sub(last)
	return Status{
		Tested:     true,
		Latency:    l,
		Rating:     Classify(l),
		LastTested: last,
		Age:        age,
		Fresh:      age <= StaleAfter,
	}
}

// Seed loads persisted samples, most recent first. Failed samples are
// ignored and the first sample per source wins.
func (m *Monitor) Seed(samples []Sample) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	seen := make(map[string]bool)
	for _, s := range samples {
		if s.Err != nil || s.Latency == Unreachable || seen[s.SourceID] {
			continue
		}
		seen[s.SourceID] = true
		m.latency[s.SourceID] = s.Latency
		m.tested[s.SourceID] = s.MeasuredAt
		n++
	}
	return n
}

// Snapshot returns the latest sample for every known source, sorted by id.
func (m *Monitor) Snapshot() []Sample {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Sample, 0, len(m.latency))
	for id, l := range m.latency {
		out = append(out, Sample{SourceID: id, Latency: l, MeasuredAt: m.tested[id]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SourceID < out[j].SourceID })
	return out
}
