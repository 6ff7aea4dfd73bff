package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/pkghub/internal/cache"
	"github.com/blackwell-systems/pkghub/internal/output"
	"github.com/blackwell-systems/pkghub/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache and usage statistics",
	Long: `Show cache sizes, row counts for each database table and activity
counters (searches, category browses, installs).`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	RootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := cmd.Context()
	cs := cache.Collect(svc.Catalog.CategoryCache(), svc.Catalog.SuggestionCache())

	var (
		tables   map[string]int
		counters []store.Stat
	)
	if svc.Store != nil {
		if tables, err = svc.Store.TableCounts(ctx); err != nil {
			return fmt.Errorf("failed to count rows: %w", err)
		}
		if counters, err = svc.Store.ListStats(ctx); err != nil {
			return fmt.Errorf("failed to read counters: %w", err)
		}
	}

	fmt.Fprint(cmd.OutOrStdout(), output.RenderStats(cs, tables, counters))
	return nil
}
