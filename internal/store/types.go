package store

import "time"

// InstalledApp records a package pkghub installed and verified.
type InstalledApp struct {
	ID          string
	Name        string
	Version     string
	InstalledAt time.Time
	Source      string
}

// SourceStat is one persisted source probe.
type SourceStat struct {
	ID           int64
	SourceID     string
	SpeedMs      int64
	Success      bool
	TestedAt     time.Time
	ErrorMessage string
}

// Suggestion is a persisted query-to-package suggestion.
type Suggestion struct {
	Query        string
	ID           string
	Name         string
	MatchType    string
	SearchCount  int
	LastSearched time.Time
}

// Stat is a named counter or value.
type Stat struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Stat keys written by pkghub.
const (
	StatSearches          = "searches"
	StatBrowses           = "browses"
	StatInstalls          = "installs"
	StatInstallFailures   = "install_failures"
	StatSuggestionQueries = "suggestion_queries"
)
