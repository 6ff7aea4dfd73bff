package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/pkghub/internal/catalog"
	"github.com/blackwell-systems/pkghub/internal/output"
)

var preloadAll bool

var preloadCmd = &cobra.Command{
	Use:   "preload",
	Short: "Warm the category cache",
	Long: `Fetch the popular listing so later browsing is instant. With --all every
category is fetched, batch_size categories at a time, and saved to the
database cache.`,
	Args: cobra.NoArgs,
	RunE: runPreload,
}

func init() {
	preloadCmd.Flags().BoolVar(&preloadAll, "all", false, "preload every category")
	RootCmd.AddCommand(preloadCmd)
}

func runPreload(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if !preloadAll {
		pkgs := svc.Catalog.Preload(ctx)
		fmt.Fprintf(out, "✓ Preloaded %d popular packages\n", len(pkgs))
		return nil
	}

	categories := catalog.Categories()
	bar := output.NewProgress(len(categories), "Preloading categories")
	bar.SetWriter(cmd.ErrOrStderr())

	counts := preloadCategories(ctx, svc.Catalog, categories, svc.Config.Current().BatchSize, bar.Increment)
	bar.Finish()

	total := 0
	for i, c := range categories {
		fmt.Fprintf(out, "  %-12s %d\n", c, counts[i])
		total += counts[i]
	}
	fmt.Fprintf(out, "✓ Preloaded %d categories (%d packages)\n", len(categories), total)
	return nil
}

// preloadCategories browses each category, at most limit at a time (no limit
// when limit <= 0), and returns the listing sizes in input order.
func preloadCategories(ctx context.Context, agg *catalog.Aggregator, categories []string, limit int, done func()) []int {
	counts := make([]int, len(categories))
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, c := range categories {
		i, c := i, c
		g.Go(func() error {
			counts[i] = len(agg.Browse(ctx, c))
			done()
			return nil
		})
	}
	_ = g.Wait()
	return counts
}
