package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCommand(t *testing.T) {
	if RootCmd.Use != "pkghub" {
		t.Errorf("expected Use to be 'pkghub', got '%s'", RootCmd.Use)
	}
	if RootCmd.Short == "" || RootCmd.Long == "" {
		t.Error("expected Short and Long descriptions to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	expected := []string{
		"search", "browse-category", "install", "test-source", "suggest",
		"sources", "installed", "clear-cache", "stats", "check", "config",
		"preload", "watch",
	}

	found := make(map[string]bool)
	for _, cmd := range RootCmd.Commands() {
		found[cmd.Name()] = true
	}
	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected command '%s' to be registered", name)
		}
	}
}

func TestRootCommandHasPersistentFlags(t *testing.T) {
	for _, name := range []string{"db", "config", "verbose"} {
		flag := RootCmd.PersistentFlags().Lookup(name)
		if flag == nil {
			t.Errorf("expected --%s flag to be registered", name)
			continue
		}
		if flag.Usage == "" {
			t.Errorf("expected --%s flag to have usage text", name)
		}
	}
}

func TestRootCommandWithoutArgs(t *testing.T) {
	setupTestEnv(t)
	out, _, err := execute(t)
	if err != nil {
		t.Fatalf("root command error = %v", err)
	}
	if !strings.Contains(out, "pkghub check") {
		t.Errorf("expected a hint to run check, got %q", out)
	}
}

func TestGetDBPath(t *testing.T) {
	old := dbPath
	defer func() { dbPath = old }()

	dbPath = "/tmp/custom.db"
	got, err := getDBPath()
	if err != nil || got != "/tmp/custom.db" {
		t.Errorf("getDBPath() = %q, %v; want flag value", got, err)
	}

	dbPath = ""
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	got, err = getDBPath()
	if err != nil {
		t.Fatalf("getDBPath() error = %v", err)
	}
	want := filepath.Join(home, "pkghub", "pkghub.db")
	if got != want {
		t.Errorf("getDBPath() = %q, want %q", got, want)
	}
	if _, err := os.Stat(filepath.Dir(want)); err != nil {
		t.Errorf("config dir not created: %v", err)
	}
}

func TestGetConfigPath(t *testing.T) {
	old := configPath
	defer func() { configPath = old }()

	configPath = ""
	t.Setenv("PKGHUB_CONFIG", "/etc/pkghub.yaml")
	got, err := getConfigPath()
	if err != nil || got != "/etc/pkghub.yaml" {
		t.Errorf("getConfigPath() = %q, %v; want env value", got, err)
	}

	configPath = "/tmp/flag.yaml"
	if got, _ := getConfigPath(); got != "/tmp/flag.yaml" {
		t.Errorf("getConfigPath() = %q, want flag value", got)
	}
}
