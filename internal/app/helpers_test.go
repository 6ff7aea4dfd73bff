package app

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/pkghub/internal/winget"
)

const searchListing = `Name                Id                         Version   Source
--------------------------------------------------------------------
VLC media player    VideoLAN.VLC               3.0.20    winget
7-Zip               7zip.7zip                  23.01     winget
`

// fakeWinget answers winget commands from canned output.
type fakeWinget struct {
	mu         sync.Mutex
	calls      [][]string
	search     string
	list       string
	installErr error
	versionErr error
}

func newFakeWinget() *fakeWinget {
	return &fakeWinget{search: searchListing, list: searchListing}
}

func (f *fakeWinget) Run(_ context.Context, args []string, _ winget.RunOptions) (*winget.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string(nil), args...))
	f.mu.Unlock()

	switch args[0] {
	case "search":
		return &winget.Result{Args: args, Stdout: []byte(f.search)}, nil
	case "list":
		return &winget.Result{Args: args, Stdout: []byte(f.list)}, nil
	case "install":
		if f.installErr != nil {
			return nil, f.installErr
		}
		return &winget.Result{Args: args}, nil
	case "--version":
		if f.versionErr != nil {
			return nil, f.versionErr
		}
		return &winget.Result{Args: args, Stdout: []byte("v1.7.10861\r\n")}, nil
	}
	return nil, errors.New("unexpected winget command: " + strings.Join(args, " "))
}

func (f *fakeWinget) count(verb string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c[0] == verb {
			n++
		}
	}
	return n
}

type testEnv struct {
	dir    string
	db     string
	config string
	winget *fakeWinget
}

// setupTestEnv points every command at a temp database and config and a fake
// winget.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	env := &testEnv{
		dir:    dir,
		db:     filepath.Join(dir, "pkghub.db"),
		config: filepath.Join(dir, "config.yaml"),
		winget: newFakeWinget(),
	}

	old := newService
	newService = func(cmd *cobra.Command) (*Service, error) {
		svc, err := NewService(cmd.Context(), Options{
			DBPath:     env.db,
			ConfigPath: env.config,
			Runner:     env.winget,
			Stderr:     cmd.ErrOrStderr(),
		})
		if err != nil {
			return nil, err
		}
		svc.Installer.SetSleeper(func(context.Context, time.Duration) error { return nil })
		svc.Installer.SetExit(func(int) {})
		return svc, nil
	}
	t.Cleanup(func() { newService = old })
	return env
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	installElevate = false
	testSourceAll = false
	preloadAll = false
	sourcesCatalog = false
	watchReprobe = 5 * time.Minute

	var stdout, stderr bytes.Buffer
	RootCmd.SetOut(&stdout)
	RootCmd.SetErr(&stderr)
	RootCmd.SetIn(strings.NewReader(""))
	if args == nil {
		// A nil slice makes cobra fall back to os.Args.
		args = []string{}
	}
	RootCmd.SetArgs(args)
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetIn(nil)
		RootCmd.SetArgs(nil)
	})

	err := RootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}
