package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/pkghub/internal/cache"
	"github.com/blackwell-systems/pkghub/internal/catalog"
	"github.com/blackwell-systems/pkghub/internal/config"
	"github.com/blackwell-systems/pkghub/internal/install"
	"github.com/blackwell-systems/pkghub/internal/notify"
	"github.com/blackwell-systems/pkghub/internal/source"
	"github.com/blackwell-systems/pkghub/internal/store"
	"github.com/blackwell-systems/pkghub/internal/winget"
)

// Options configures a Service.
type Options struct {
	DBPath     string
	ConfigPath string
	// Runner executes winget; nil runs the real executable.
	Runner winget.Runner
	Logger *log.Logger
	// Stderr receives warnings and install notifications.
	Stderr io.Writer
}

// Service owns every long-lived component a command needs. Caches and the
// source monitor live here rather than in package state.
type Service struct {
	Config    *config.Manager
	Store     *store.Store // nil when the database could not be opened
	Winget    *winget.Client
	Monitor   *source.Monitor
	Catalog   *catalog.Aggregator
	Installer *install.Orchestrator
	Aliases   *config.AliasConfig
	Logger    *log.Logger

	stderr io.Writer
}

// NewService wires a Service. A database that cannot be opened is reported
// on stderr and the service runs with memory-only caches.
func NewService(ctx context.Context, opts Options) (*Service, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	mgr, err := config.NewManager(opts.ConfigPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	dir := filepath.Dir(mgr.Path())
	if err := config.EnsureCatalog(dir, time.Now()); err != nil {
		logger.Printf("sources catalog: %v", err)
	}
	aliases, err := config.LoadAliases(dir)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: failed to read aliases: %v\n", err)
	}

	var st *store.Store
	if opts.DBPath != "" {
		st, err = store.Open(opts.DBPath)
		if err != nil {
			fmt.Fprintf(stderr, "Warning: database unavailable, results will not be saved: %v\n", err)
			st = nil
		}
	}

	runner := opts.Runner
	if runner == nil {
		runner = winget.NewExecutor("", logger)
	}

	s := &Service{
		Config:  mgr,
		Store:   st,
		Winget:  winget.NewClient(runner, logger),
		Monitor: source.NewMonitor(runner, mgr, logger),
		Aliases: aliases,
		Logger:  logger,
		stderr:  stderr,
	}

	// Interface values are only set from a non-nil store so nil checks in
	// the consumers hold.
	var (
		catBacking cache.CategoryBacking
		sugBacking cache.SuggestionBacking
	)
	if st != nil {
		catBacking, sugBacking = st, st
		s.Monitor.SetHistory(storeHistory{st})
		s.seedMonitor(ctx)
	}

	s.Catalog = catalog.NewAggregator(
		s.Winget,
		mgr,
		cache.NewCategoryCache(catBacking, logger),
		cache.NewSuggestionCache(cache.DefaultSuggestionCap, sugBacking),
		logger,
	)
	s.Catalog.SetSourceSelector(s.Monitor)

	sink := s.notifier()
	s.Catalog.SetSink(sink)

	s.Installer = install.NewOrchestrator(runner, logger)
	s.Installer.SetElevator(install.NewSystemElevator())
	s.Installer.SetSink(sink)
	s.Installer.SetExit(os.Exit)
	if st != nil {
		s.Catalog.SetSuggestionRecorder(st)
		s.Installer.SetRecorder(st)
	}

	return s, nil
}

// notifier prints events to stderr while install notifications are enabled
// in the current config.
func (s *Service) notifier() notify.Sink {
	w := notify.NewWriterSink(s.stderr)
	return notify.SinkFunc(func(e notify.Event) {
		if s.Config.Current().InstallNotifications {
			w.Notify(e)
		}
	})
}

func (s *Service) seedMonitor(ctx context.Context) {
	stats, err := s.Store.RecentSourceStats(ctx, source.SeedLimit, true)
	if err != nil {
		s.Logger.Printf("seed source history: %v", err)
		return
	}
	samples := make([]source.Sample, 0, len(stats))
	for _, st := range stats {
		samples = append(samples, source.Sample{
			SourceID:   st.SourceID,
			Latency:    time.Duration(st.SpeedMs) * time.Millisecond,
			MeasuredAt: st.TestedAt,
		})
	}
	n := s.Monitor.Seed(samples)
	s.Logger.Printf("seeded %d source measurement(s)", n)
}

// count bumps a usage counter. Counters are best effort.
func (s *Service) count(ctx context.Context, key string) {
	if s.Store == nil {
		return
	}
	if err := s.Store.IncrementStat(ctx, key); err != nil {
		s.Logger.Printf("stat %s: %v", key, err)
	}
}

// Close waits for background probes and closes the database.
func (s *Service) Close() error {
	s.Monitor.Close()
	if s.Store != nil {
		return s.Store.Close()
	}
	return nil
}

// storeHistory persists source probes.
type storeHistory struct {
	st *store.Store
}

func (h storeHistory) RecordProbe(ctx context.Context, sample source.Sample) error {
	stat := store.SourceStat{
		SourceID: sample.SourceID,
		Success:  sample.Err == nil,
		TestedAt: sample.MeasuredAt,
	}
	if sample.Err != nil {
		stat.SpeedMs = -1
		stat.ErrorMessage = sample.Err.Error()
	} else {
		stat.SpeedMs = sample.Latency.Milliseconds()
	}
	return h.st.RecordSourceStat(ctx, stat)
}

// newService builds the Service for a command. Tests replace it.
var newService = func(cmd *cobra.Command) (*Service, error) {
	db, err := getDBPath()
	if err != nil {
		return nil, err
	}
	cfgPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	var logger *log.Logger
	if verbose {
		logger = log.New(cmd.ErrOrStderr(), "pkghub: ", 0)
	}
	return NewService(cmd.Context(), Options{
		DBPath:     db,
		ConfigPath: cfgPath,
		Logger:     logger,
		Stderr:     cmd.ErrOrStderr(),
	})
}

// requireStore returns the store or an error explaining why it is missing.
func (s *Service) requireStore() (*store.Store, error) {
	if s.Store == nil {
		return nil, errors.New("database unavailable: check the --db path")
	}
	return s.Store, nil
}
