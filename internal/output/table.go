// Package output renders pkghub results for the terminal.
//
// Tables are plain strings padded by display width, so CJK package names
// line up. Colour is only emitted when stdout is a terminal and NO_COLOR is
// unset. Progress indicators are safe for concurrent use.
package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/width"

	"github.com/blackwell-systems/pkghub/internal/cache"
	"github.com/blackwell-systems/pkghub/internal/catalog"
	"github.com/blackwell-systems/pkghub/internal/config"
	"github.com/blackwell-systems/pkghub/internal/source"
	"github.com/blackwell-systems/pkghub/internal/store"
	"github.com/blackwell-systems/pkghub/internal/winget"
)

const rule = "─"

// IsColorEnabled reports whether colour codes should be written to stdout.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func paint(hex, text string) string {
	if hex == "" || !IsColorEnabled() {
		return text
	}
	return color.HEX(hex).Sprint(text)
}

// RenderPackageTable renders search or browse results in the order given.
func RenderPackageTable(pkgs []winget.Package) string {
	if len(pkgs) == 0 {
		return "No packages found.\n"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s %s %s\n", pad("Name", 32), pad("Id", 36), pad("Version", 16), "Source")
	sb.WriteString(strings.Repeat(rule, 94))
	sb.WriteString("\n")
	for _, p := range pkgs {
		fmt.Fprintf(&sb, "%s %s %s %s\n",
			pad(truncate(p.Name, 32), 32),
			pad(truncate(p.ID, 36), 36),
			pad(truncate(p.Version, 16), 16),
			p.Source)
	}
	fmt.Fprintf(&sb, "\n%d package(s)\n", len(pkgs))
	return sb.String()
}

// RenderSuggestions renders query completions, best first.
func RenderSuggestions(query string, sugs []catalog.Suggestion) string {
	if len(sugs) == 0 {
		return fmt.Sprintf("No suggestions for %q.\n", query)
	}
	var sb strings.Builder
	for _, s := range sugs {
		fmt.Fprintf(&sb, "  %s %s (%s match)\n", pad(s.Name, 24), s.ID, s.MatchType)
	}
	return sb.String()
}

// RenderInstalledTable renders the install history, newest first.
func RenderInstalledTable(apps []store.InstalledApp) string {
	if len(apps) == 0 {
		return "No packages installed through pkghub yet.\n"
	}

	sorted := make([]store.InstalledApp, len(apps))
	copy(sorted, apps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].InstalledAt.After(sorted[j].InstalledAt)
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s %s %s\n", pad("Name", 28), pad("Id", 32), pad("Version", 14), "Installed")
	sb.WriteString(strings.Repeat(rule, 90))
	sb.WriteString("\n")
	for _, a := range sorted {
		version := a.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(&sb, "%s %s %s %s\n",
			pad(truncate(a.Name, 28), 28),
			pad(truncate(a.ID, 32), 32),
			pad(truncate(version, 14), 14),
			formatRelativeTime(a.InstalledAt))
	}
	return sb.String()
}

// SourceRow is one line of the sources table.
type SourceRow struct {
	Source   config.Source
	Status   source.Status
	Selected bool
}

// RenderSourceTable renders configured sources with their last measured
// speed.
func RenderSourceTable(rows []SourceRow) string {
	if len(rows) == 0 {
		return "No sources configured.\n"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "  %s %s %s %s %s\n", pad("Id", 10), pad("Name", 24), pad("Priority", 9), pad("Enabled", 8), "Speed")
	sb.WriteString(strings.Repeat(rule, 80))
	sb.WriteString("\n")
	for _, r := range rows {
		marker := " "
		if r.Selected {
			marker = "*"
		}
		enabled := "no"
		if r.Source.Enabled {
			enabled = "yes"
		}
		fmt.Fprintf(&sb, "%s %s %s %s %s %s\n",
			marker,
			pad(r.Source.ID, 10),
			pad(truncate(r.Source.Name, 24), 24),
			pad(fmt.Sprintf("%d", r.Source.Priority), 9),
			pad(enabled, 8),
			formatStatus(r.Status))
	}
	return sb.String()
}

func formatStatus(st source.Status) string {
	if !st.Tested {
		return "untested"
	}
	if st.Latency == source.Unreachable {
		return paint(source.Classify(st.Latency).Color, "unreachable")
	}
	text := fmt.Sprintf("%s (%s)", formatLatency(st.Latency), st.Rating.Label)
	text = paint(st.Rating.Color, text)
	if !st.Fresh {
		text += fmt.Sprintf(", tested %s", formatRelativeTime(st.LastTested))
	}
	return text
}

// RenderProbeResult renders the outcome of a speed test.
func RenderProbeResult(r source.Result) string {
	if !r.Success {
		msg := "unreachable"
		if r.Err != nil {
			msg = r.Err.Error()
		}
		return fmt.Sprintf("%s: %s\n", r.SourceID, paint(r.Rating.Color, msg))
	}
	return fmt.Sprintf("%s: %s %s\n", r.SourceID,
		formatLatency(r.Latency), paint(r.Rating.Color, r.Rating.Label))
}

// RenderStats renders cache sizes, persisted table counts and usage
// counters.
func RenderStats(cs cache.Stats, tables map[string]int, counters []store.Stat) string {
	var sb strings.Builder

	sb.WriteString("Cache\n")
	fmt.Fprintf(&sb, "  %s %d (%d packages)\n", pad("Categories:", 14), cs.Categories, cs.CachedPackages)
	fmt.Fprintf(&sb, "  %s %d / %d\n", pad("Suggestions:", 14), cs.Suggestions, cs.SuggestionCap)
	fmt.Fprintf(&sb, "  %s %s\n", pad("Memory:", 14), formatSize(int64(cs.ApproxBytes)))

	if len(tables) > 0 {
		sb.WriteString("\nDatabase\n")
		names := make([]string, 0, len(tables))
		for n := range tables {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(&sb, "  %s %d\n", pad(n+":", 22), tables[n])
		}
	}

	if len(counters) > 0 {
		sb.WriteString("\nActivity\n")
		for _, c := range counters {
			fmt.Fprintf(&sb, "  %s %s\n", pad(c.Key+":", 22), c.Value)
		}
	}
	return sb.String()
}

func formatLatency(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// formatSize converts bytes to a human-readable size.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.0f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// formatRelativeTime renders t relative to now, e.g. "3 hours ago".
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	diff := time.Since(t)
	plural := func(n int, unit string) string {
		if n == 1 {
			return "1 " + unit + " ago"
		}
		return fmt.Sprintf("%d %ss ago", n, unit)
	}
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	case diff < 30*24*time.Hour:
		return plural(int(diff.Hours()/24), "day")
	default:
		return t.Local().Format("2006-01-02")
	}
}

// runeWidth is 2 for East Asian wide and fullwidth runes.
func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}
	return n
}

// pad right-pads s with spaces to n display columns.
func pad(s string, n int) string {
	if w := displayWidth(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}

// truncate shortens s to at most n display columns, ending in "...".
func truncate(s string, n int) string {
	if displayWidth(s) <= n {
		return s
	}
	if n <= 3 {
		rs := []rune(s)
		if len(rs) > n {
			rs = rs[:n]
		}
		return string(rs)
	}
	var sb strings.Builder
	w := 0
	for _, r := range s {
		rw := runeWidth(r)
		if w+rw > n-3 {
			break
		}
		sb.WriteRune(r)
		w += rw
	}
	return sb.String() + "..."
}
