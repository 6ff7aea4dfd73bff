package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/pkghub/internal/winget"
)

// Helper function to create an in-memory store for testing
func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	if err := store.CreateSchema(); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// fixedClock returns a clock that advances by one second per call.
func fixedClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestListInstalledApps_NoSchema_ReturnsErrNotInitialized(t *testing.T) {
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	// Do NOT call CreateSchema; simulate uninitialized database.
	_, err = s.ListInstalledApps(context.Background())
	if err == nil {
		t.Fatal("ListInstalledApps() should return an error on uninitialized DB")
	}
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ListInstalledApps() error = %v; want errors.Is(err, ErrNotInitialized)", err)
	}
}

func TestLoadCategory_NoSchema_ReturnsErrNotInitialized(t *testing.T) {
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	_, _, err = s.LoadCategory(context.Background(), "browser")
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("LoadCategory() error = %v; want errors.Is(err, ErrNotInitialized)", err)
	}
}

func TestErrNotInitialized_ErrorMessage(t *testing.T) {
	if !strings.Contains(ErrNotInitialized.Error(), "pkghub check") {
		t.Errorf("ErrNotInitialized message %q should mention 'pkghub check'", ErrNotInitialized.Error())
	}
}

func TestCreateSchema(t *testing.T) {
	store := newTestStore(t)

	tables := []string{"installed_apps", "category_cache", "source_stats", "search_suggestions", "app_stats"}
	for _, table := range tables {
		var name string
		err := store.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// Running it twice is harmless.
	if err := store.CreateSchema(); err != nil {
		t.Errorf("second CreateSchema() failed: %v", err)
	}
}

func TestRecordInstall_Replace(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	store.SetClock(fixedClock(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))

	if err := store.RecordInstall(ctx, InstalledApp{ID: "VideoLAN.VLC", Name: "VLC", Version: "3.0.18", Source: "winget"}); err != nil {
		t.Fatalf("RecordInstall() failed: %v", err)
	}
	if err := store.RecordInstall(ctx, InstalledApp{ID: "VideoLAN.VLC", Name: "VLC media player", Version: "3.0.20", Source: "winget"}); err != nil {
		t.Fatalf("RecordInstall() failed: %v", err)
	}

	apps, err := store.ListInstalledApps(ctx)
	if err != nil {
		t.Fatalf("ListInstalledApps() failed: %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("expected 1 app after reinstall, got %d", len(apps))
	}
	if apps[0].Version != "3.0.20" || apps[0].Name != "VLC media player" {
		t.Errorf("reinstall did not update record: %+v", apps[0])
	}

	got, err := store.GetInstalledApp(ctx, "VideoLAN.VLC")
	if err != nil {
		t.Fatalf("GetInstalledApp() failed: %v", err)
	}
	if got.InstalledAt.IsZero() {
		t.Error("InstalledAt should be set")
	}
}

func TestGetInstalledApp_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetInstalledApp(context.Background(), "Nope.Nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetInstalledApp() error = %v, want ErrNotFound", err)
	}
}

func TestListInstalledApps_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"A.One", "B.Two", "C.Three"} {
		app := InstalledApp{ID: id, Name: id, InstalledAt: base.Add(time.Duration(i) * time.Hour)}
		if err := store.RecordInstall(ctx, app); err != nil {
			t.Fatalf("RecordInstall(%s) failed: %v", id, err)
		}
	}

	apps, err := store.ListInstalledApps(ctx)
	if err != nil {
		t.Fatalf("ListInstalledApps() failed: %v", err)
	}
	want := []string{"C.Three", "B.Two", "A.One"}
	for i, id := range want {
		if apps[i].ID != id {
			t.Errorf("apps[%d] = %s, want %s", i, apps[i].ID, id)
		}
	}
}

func TestCategoryRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, ok, err := store.LoadCategory(ctx, "browser"); err != nil || ok {
		t.Fatalf("LoadCategory() on empty table = %v, %v", ok, err)
	}

	pkgs := []winget.Package{
		{Name: "Mozilla Firefox", ID: "Mozilla.Firefox", Version: "128.0", Source: "winget"},
		{Name: "微信", ID: "Tencent.WeChat", Version: "3.9", Source: "winget"},
	}
	if err := store.SaveCategory(ctx, "browser", pkgs); err != nil {
		t.Fatalf("SaveCategory() failed: %v", err)
	}
	if err := store.SaveCategory(ctx, "browser", pkgs[:1]); err != nil {
		t.Fatalf("SaveCategory() replace failed: %v", err)
	}

	got, ok, err := store.LoadCategory(ctx, "browser")
	if err != nil || !ok {
		t.Fatalf("LoadCategory() = %v, %v", ok, err)
	}
	if len(got) != 1 || got[0] != pkgs[0] {
		t.Errorf("LoadCategory() = %+v", got)
	}

	if err := store.ClearCategories(ctx); err != nil {
		t.Fatalf("ClearCategories() failed: %v", err)
	}
	if _, ok, _ := store.LoadCategory(ctx, "browser"); ok {
		t.Error("category still present after ClearCategories()")
	}
}

func TestRecentSourceStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 12; i++ {
		st := SourceStat{
			SourceID: "winget",
			SpeedMs:  int64(1000 + i),
			Success:  i%3 != 0,
			TestedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if !st.Success {
			st.ErrorMessage = "timed out"
		}
		if err := store.RecordSourceStat(ctx, st); err != nil {
			t.Fatalf("RecordSourceStat() failed: %v", err)
		}
	}

	all, err := store.RecentSourceStats(ctx, 10, false)
	if err != nil {
		t.Fatalf("RecentSourceStats() failed: %v", err)
	}
	if len(all) != 10 {
		t.Fatalf("expected 10 stats, got %d", len(all))
	}
	if all[0].SpeedMs != 1011 {
		t.Errorf("newest stat speed = %d, want 1011", all[0].SpeedMs)
	}

	ok, err := store.RecentSourceStats(ctx, 10, true)
	if err != nil {
		t.Fatalf("RecentSourceStats(successOnly) failed: %v", err)
	}
	if len(ok) != 8 {
		t.Errorf("expected 8 successful stats, got %d", len(ok))
	}
	for _, st := range ok {
		if !st.Success {
			t.Errorf("failed stat returned with successOnly: %+v", st)
		}
	}
}

func TestRecordSuggestions_IncrementsCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	batch := []Suggestion{
		{Query: "VLC", ID: "VideoLAN.VLC", Name: "VLC media player", MatchType: "name"},
		{Query: "vlc", ID: "Other.VLCRemote", Name: "VLC Remote", MatchType: "name"},
	}
	if err := store.RecordSuggestions(ctx, batch); err != nil {
		t.Fatalf("RecordSuggestions() failed: %v", err)
	}
	if err := store.RecordSuggestions(ctx, batch[:1]); err != nil {
		t.Fatalf("RecordSuggestions() failed: %v", err)
	}

	got, err := store.ListSuggestions(ctx, " Vlc ")
	if err != nil {
		t.Fatalf("ListSuggestions() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(got))
	}
	if got[0].ID != "VideoLAN.VLC" || got[0].SearchCount != 2 {
		t.Errorf("top suggestion = %+v, want VideoLAN.VLC with count 2", got[0])
	}

	if err := store.ClearSuggestions(ctx); err != nil {
		t.Fatalf("ClearSuggestions() failed: %v", err)
	}
	got, _ = store.ListSuggestions(ctx, "vlc")
	if len(got) != 0 {
		t.Errorf("suggestions remain after clear: %+v", got)
	}
}

func TestStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.IncrementStat(ctx, StatSearches); err != nil {
			t.Fatalf("IncrementStat() failed: %v", err)
		}
	}
	if err := store.SetStat(ctx, "last_category", "dev"); err != nil {
		t.Fatalf("SetStat() failed: %v", err)
	}

	stats, err := store.ListStats(ctx)
	if err != nil {
		t.Fatalf("ListStats() failed: %v", err)
	}
	values := make(map[string]string)
	for _, st := range stats {
		values[st.Key] = st.Value
	}
	if values[StatSearches] != "3" {
		t.Errorf("searches = %q, want 3", values[StatSearches])
	}
	if values["last_category"] != "dev" {
		t.Errorf("last_category = %q, want dev", values["last_category"])
	}

	counts, err := store.TableCounts(ctx)
	if err != nil {
		t.Fatalf("TableCounts() failed: %v", err)
	}
	if counts["app_stats"] != 2 || counts["installed_apps"] != 0 {
		t.Errorf("TableCounts() = %v", counts)
	}
}
