package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/pkghub/internal/config"
)

var (
	dbPath     string
	configPath string
	verbose    bool

	// RootCmd is the root command for pkghub
	RootCmd = &cobra.Command{
		Use:   "pkghub",
		Short: "Find, browse and install Windows packages through winget",
		Long: `pkghub is a front end for the Windows Package Manager (winget).

It searches the winget catalog, browses curated categories built from
keyword searches, measures source speed to pick the fastest source, and
installs packages with a privilege check and post-install verification.

Results and install history are kept in a local SQLite database under the
pkghub config directory. Category results are cached for 10 minutes.

Examples:
  # Search the catalog
  pkghub search vlc

  # Browse a category
  pkghub browse-category dev

  # Install by id
  pkghub install VideoLAN.VLC

  # Measure source speed
  pkghub test-source winget

  # Check that winget is available
  pkghub check`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "pkghub: winget package search and install")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Run 'pkghub check' to verify winget is available.")
			fmt.Fprintln(out, "Run 'pkghub --help' for all commands.")
			return nil
		},
	}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: <config dir>/pkghub.db)")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $PKGHUB_CONFIG or <config dir>/config.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")

	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command. Ctrl+C cancels the command's context, which
// kills any running winget process.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return RootCmd.ExecuteContext(ctx)
}

// getDBPath returns the database path, using the flag value or default.
func getDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}

	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create pkghub directory: %w", err)
	}
	return filepath.Join(dir, "pkghub.db"), nil
}

// getConfigPath returns the config file path, using the flag value or
// default.
func getConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.Path()
}
