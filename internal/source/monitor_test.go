package source

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/pkghub/internal/config"
	"github.com/blackwell-systems/pkghub/internal/winget"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// probeRunner simulates `winget --version` taking a per-source duration.
type probeRunner struct {
	mu      sync.Mutex
	clock   *fakeClock
	delays  map[string]time.Duration
	fail    map[string]bool
	sources []string
}

func (r *probeRunner) Run(_ context.Context, args []string, opts winget.RunOptions) (*winget.Result, error) {
	r.mu.Lock()
	r.sources = append(r.sources, opts.Source)
	r.mu.Unlock()

	if r.fail[opts.Source] {
		return nil, &winget.ExitError{Args: args, ExitCode: 1}
	}
	r.clock.Advance(r.delays[opts.Source])
	return &winget.Result{Args: args, Stdout: []byte("v1.8.1911")}, nil
}

func (r *probeRunner) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sources...)
}

type recordingHistory struct {
	samples []Sample
	err     error
}

func (h *recordingHistory) RecordProbe(_ context.Context, s Sample) error {
	h.samples = append(h.samples, s)
	return h.err
}

func bothEnabled(auto bool) config.Config {
	c := config.Defaults()
	c.AutoSource = auto
	c.Sources = []config.Source{
		{ID: "winget", Priority: 1, Enabled: true},
		{ID: "msstore", Priority: 2, Enabled: true},
	}
	return c
}

func newTestMonitor(t *testing.T, cfg config.Config, r *probeRunner) (*Monitor, *Scheduler) {
	t.Helper()
	m := NewMonitor(r, config.Static(cfg), nil)
	m.SetClock(r.clock.Now)
	sched := NewManualScheduler()
	m.SetScheduler(sched)
	t.Cleanup(m.Close)
	return m, sched
}

func TestClassify(t *testing.T) {
	tests := []struct {
		latency time.Duration
		tier    Tier
		color   string
	}{
		{0, TierExcellent, "#107C10"},
		{1999 * time.Millisecond, TierExcellent, "#107C10"},
		{2 * time.Second, TierGood, "#0078D7"},
		{4999 * time.Millisecond, TierGood, "#0078D7"},
		{5 * time.Second, TierMedium, "#FF8C00"},
		{9999 * time.Millisecond, TierMedium, "#FF8C00"},
		{10 * time.Second, TierSlow, "#FF4343"},
		{Unreachable, TierSlow, "#FF4343"},
	}
	for _, tt := range tests {
		got := Classify(tt.latency)
		assert.Equal(t, tt.tier, got.Tier, "latency %s", tt.latency)
		assert.Equal(t, tt.color, got.Color, "latency %s", tt.latency)
	}
}

func TestProbe_Success(t *testing.T) {
	clock := newFakeClock()
	r := &probeRunner{clock: clock, delays: map[string]time.Duration{"winget": 1500 * time.Millisecond}}
	m, _ := newTestMonitor(t, bothEnabled(true), r)
	h := &recordingHistory{}
	m.SetHistory(h)

	res := m.Probe(context.Background(), "winget")

	assert.True(t, res.Success)
	assert.Equal(t, 1500*time.Millisecond, res.Latency)
	assert.Equal(t, TierExcellent, res.Rating.Tier)
	require.Len(t, h.samples, 1)
	assert.Equal(t, "winget", h.samples[0].SourceID)
}

func TestProbe_FailureRecordsUnreachable(t *testing.T) {
	clock := newFakeClock()
	r := &probeRunner{clock: clock, fail: map[string]bool{"msstore": true}}
	m, _ := newTestMonitor(t, bothEnabled(true), r)
	h := &recordingHistory{err: errors.New("database is locked")}
	m.SetHistory(h)

	res := m.Probe(context.Background(), "msstore")

	assert.False(t, res.Success)
	assert.Error(t, res.Err)
	assert.Equal(t, Unreachable, res.Latency)
	assert.Equal(t, Unreachable, m.Status("msstore").Latency)
	assert.Len(t, h.samples, 1, "history failures are ignored")
}

func TestSelectOptimal_AutoOff(t *testing.T) {
	clock := newFakeClock()
	cfg := bothEnabled(false)
	cfg.DownloadSource = "msstore"
	m, sched := newTestMonitor(t, cfg, &probeRunner{clock: clock})

	assert.Equal(t, "msstore", m.SelectOptimal())
	assert.Empty(t, sched.Pending(), "manual selection never probes")
}

func TestSelectOptimal_NoEnabledSources(t *testing.T) {
	clock := newFakeClock()
	cfg := bothEnabled(true)
	for i := range cfg.Sources {
		cfg.Sources[i].Enabled = false
	}
	m, _ := newTestMonitor(t, cfg, &probeRunner{clock: clock})

	assert.Equal(t, "winget", m.SelectOptimal())
}

func TestSelectOptimal_LowestLatencyWins(t *testing.T) {
	clock := newFakeClock()
	r := &probeRunner{clock: clock, delays: map[string]time.Duration{
		"winget":  3 * time.Second,
		"msstore": 1 * time.Second,
	}}
	m, _ := newTestMonitor(t, bothEnabled(true), r)

	m.Probe(context.Background(), "winget")
	m.Probe(context.Background(), "msstore")

	assert.Equal(t, "msstore", m.SelectOptimal())
}

func TestSelectOptimal_TieGoesToLowerPriority(t *testing.T) {
	clock := newFakeClock()
	cfg := bothEnabled(true)
	cfg.Sources[0].Priority, cfg.Sources[1].Priority = 5, 1
	m, _ := newTestMonitor(t, cfg, &probeRunner{clock: clock})

	m.Seed([]Sample{
		{SourceID: "winget", Latency: time.Second, MeasuredAt: clock.Now()},
		{SourceID: "msstore", Latency: time.Second, MeasuredAt: clock.Now()},
	})

	assert.Equal(t, "msstore", m.SelectOptimal())
}

func TestSelectOptimal_NothingProbedDefaultsToPrimary(t *testing.T) {
	clock := newFakeClock()
	r := &probeRunner{clock: clock}
	m, sched := newTestMonitor(t, bothEnabled(true), r)

	assert.Equal(t, "winget", m.SelectOptimal())
	assert.Equal(t, []string{"winget"}, sched.Pending())
	assert.Empty(t, r.calls(), "re-probe must not run on the caller's path")
}

func TestSelectOptimal_ReprobeIsScheduledOnceAndDeferred(t *testing.T) {
	clock := newFakeClock()
	r := &probeRunner{clock: clock, delays: map[string]time.Duration{
		"winget":  time.Second,
		"msstore": 2 * time.Second,
	}}
	m, sched := newTestMonitor(t, bothEnabled(true), r)
	m.Probe(context.Background(), "winget")
	m.Probe(context.Background(), "msstore")

	// Fresh measurement: nothing scheduled.
	assert.Equal(t, "winget", m.SelectOptimal())
	assert.Empty(t, sched.Pending())

	clock.Advance(ReprobeAfter + time.Second)
	assert.Equal(t, "winget", m.SelectOptimal())
	assert.Equal(t, "winget", m.SelectOptimal())
	assert.Equal(t, []string{"winget"}, sched.Pending(), "duplicate schedules are no-ops")

	// The re-probe finds winget has slowed down; only later calls see it.
	r.delays["winget"] = 8 * time.Second
	assert.Equal(t, 1, sched.RunPending())
	assert.Empty(t, sched.Pending())
	assert.Equal(t, 8*time.Second, m.Status("winget").Latency)
	assert.Equal(t, "msstore", m.SelectOptimal())
}

func TestSelectOptimal_ReadsConfigEachCall(t *testing.T) {
	clock := newFakeClock()
	cfg := bothEnabled(false)
	var mu sync.Mutex
	provider := config.ProviderFunc(func() config.Config {
		mu.Lock()
		defer mu.Unlock()
		return cfg.Clone()
	})
	m := NewMonitor(&probeRunner{clock: clock}, provider, nil)
	m.SetScheduler(NewManualScheduler())
	defer m.Close()

	assert.Equal(t, "winget", m.SelectOptimal())

	mu.Lock()
	cfg.DownloadSource = "msstore"
	mu.Unlock()
	assert.Equal(t, "msstore", m.SelectOptimal())
}

func TestStatus(t *testing.T) {
	clock := newFakeClock()
	r := &probeRunner{clock: clock, delays: map[string]time.Duration{"winget": 6 * time.Second}}
	m, _ := newTestMonitor(t, bothEnabled(true), r)

	assert.False(t, m.Status("winget").Tested)

	m.Probe(context.Background(), "winget")
	st := m.Status("winget")
	assert.True(t, st.Tested)
	assert.True(t, st.Fresh)
	assert.Equal(t, TierMedium, st.Rating.Tier)

	clock.Advance(StaleAfter + time.Second)
	st = m.Status("winget")
	assert.False(t, st.Fresh)
	assert.Equal(t, StaleAfter+time.Second, st.Age)
}

func TestSeed(t *testing.T) {
	clock := newFakeClock()
	m, _ := newTestMonitor(t, bothEnabled(true), &probeRunner{clock: clock})

	newer := clock.Now()
	older := newer.Add(-time.Hour)
	n := m.Seed([]Sample{
		{SourceID: "winget", Latency: 900 * time.Millisecond, MeasuredAt: newer},
		{SourceID: "msstore", Latency: Unreachable, MeasuredAt: newer},
		{SourceID: "winget", Latency: 4 * time.Second, MeasuredAt: older},
		{SourceID: "msstore", Latency: 3 * time.Second, MeasuredAt: older, Err: errors.New("x")},
	})

	assert.Equal(t, 1, n)
	snap := m.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, 900*time.Millisecond, snap[0].Latency)
}
