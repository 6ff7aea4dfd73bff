package output

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/pkghub/internal/cache"
	"github.com/blackwell-systems/pkghub/internal/catalog"
	"github.com/blackwell-systems/pkghub/internal/config"
	"github.com/blackwell-systems/pkghub/internal/source"
	"github.com/blackwell-systems/pkghub/internal/store"
	"github.com/blackwell-systems/pkghub/internal/winget"
)

func TestRenderPackageTable(t *testing.T) {
	tests := []struct {
		name     string
		pkgs     []winget.Package
		contains []string
	}{
		{
			name:     "empty",
			pkgs:     nil,
			contains: []string{"No packages found"},
		},
		{
			name: "rows keep order",
			pkgs: []winget.Package{
				{Name: "VLC media player", ID: "VideoLAN.VLC", Version: "3.0.20", Source: "winget"},
				{Name: "7-Zip", ID: "7zip.7zip", Version: "23.01", Source: "winget"},
			},
			contains: []string{"VideoLAN.VLC", "3.0.20", "7zip.7zip", "2 package(s)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderPackageTable(tt.pkgs)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
		})
	}

	out := RenderPackageTable([]winget.Package{{Name: "Zeta", ID: "Z.Z"}, {Name: "Alpha", ID: "A.A"}})
	if strings.Index(out, "Zeta") > strings.Index(out, "Alpha") {
		t.Error("package table should not reorder rows")
	}
}

func TestRenderPackageTable_AlignsWideNames(t *testing.T) {
	out := RenderPackageTable([]winget.Package{
		{Name: "微信", ID: "Tencent.WeChat", Version: "3.9"},
		{Name: "VLC", ID: "VideoLAN.VLC", Version: "3.0"},
	})
	lines := strings.Split(out, "\n")
	// Rows start after the header and rule.
	wide, narrow := lines[2], lines[3]
	if displayWidth(wide[:strings.Index(wide, "Tencent")]) != displayWidth(narrow[:strings.Index(narrow, "VideoLAN")]) {
		t.Errorf("id column misaligned:\n%s\n%s", wide, narrow)
	}
}

func TestRenderInstalledTable(t *testing.T) {
	now := time.Now()
	apps := []store.InstalledApp{
		{ID: "Old.App", Name: "Old", InstalledAt: now.Add(-48 * time.Hour)},
		{ID: "New.App", Name: "New", Version: "1.2", InstalledAt: now.Add(-2 * time.Hour)},
	}
	out := RenderInstalledTable(apps)

	if strings.Index(out, "New.App") > strings.Index(out, "Old.App") {
		t.Errorf("newest install should be listed first:\n%s", out)
	}
	for _, want := range []string{"2 hours ago", "2 days ago", "1.2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(RenderInstalledTable(nil), "No packages installed") {
		t.Error("empty install table should say so")
	}
}

func TestRenderSourceTable(t *testing.T) {
	rows := []SourceRow{
		{
			Source:   config.Source{ID: "winget", Name: "Windows Package Manager", Priority: 1, Enabled: true},
			Status:   source.Status{Tested: true, Latency: 1500 * time.Millisecond, Rating: source.Classify(1500 * time.Millisecond), Fresh: true},
			Selected: true,
		},
		{
			Source: config.Source{ID: "msstore", Name: "Microsoft Store", Priority: 2},
		},
		{
			Source: config.Source{ID: "mirror", Name: "Mirror", Priority: 3, Enabled: true},
			Status: source.Status{Tested: true, Latency: source.Unreachable, Fresh: true},
		},
	}
	out := RenderSourceTable(rows)

	for _, want := range []string{"* winget", "1.5s (Excellent)", "untested", "unreachable", "no"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderProbeResult(t *testing.T) {
	ok := RenderProbeResult(source.Result{SourceID: "winget", Success: true, Latency: 450 * time.Millisecond, Rating: source.Classify(450 * time.Millisecond)})
	if ok != "winget: 450ms Excellent\n" {
		t.Errorf("success result = %q", ok)
	}

	bad := RenderProbeResult(source.Result{SourceID: "msstore", Err: errors.New("timed out")})
	if !strings.Contains(bad, "msstore: timed out") {
		t.Errorf("failure result = %q", bad)
	}
}

func TestRenderSuggestions(t *testing.T) {
	out := RenderSuggestions("chr", []catalog.Suggestion{{ID: "Google.Chrome", Name: "Google Chrome", MatchType: catalog.MatchName}})
	if !strings.Contains(out, "Google.Chrome") || !strings.Contains(out, "match") {
		t.Errorf("suggestions = %q", out)
	}
	if !strings.Contains(RenderSuggestions("zzz", nil), `No suggestions for "zzz"`) {
		t.Error("empty suggestions should say so")
	}
}

func TestRenderStats(t *testing.T) {
	out := RenderStats(
		cache.Stats{Categories: 2, Suggestions: 5, SuggestionCap: 100, ApproxBytes: 2048, CachedPackages: 30},
		map[string]int{"installed_apps": 3, "category_cache": 2},
		[]store.Stat{{Key: store.StatSearches, Value: "12"}},
	)
	for _, want := range []string{"2 (30 packages)", "5 / 100", "2 KB", "installed_apps:", "searches:", "12"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		t    time.Time
		want string
	}{
		{time.Time{}, "never"},
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-1 * time.Minute), "1 minute ago"},
		{now.Add(-5 * time.Hour), "5 hours ago"},
		{now.Add(-3 * 24 * time.Hour), "3 days ago"},
	}
	for _, tt := range tests {
		if got := formatRelativeTime(tt.t); got != tt.want {
			t.Errorf("formatRelativeTime(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{2048, "2 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := formatSize(tt.bytes); got != tt.want {
			t.Errorf("formatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"Microsoft.VisualStudioCode", 12, "Microsoft..."},
		{"网易云音乐播放器", 9, "网易云..."},
		{"名称", 3, "名称"},
	}
	for _, tt := range tests {
		if got := truncate(tt.s, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
		}
	}
}
