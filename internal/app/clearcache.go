package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache [search|category|all]",
	Short: "Clear cached category listings and search suggestions",
	Long: `Clear cached results, both in memory and in the database.

  search    search suggestions
  category  category listings, including the preloaded popular listing
  all       both (default)`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"search", "category", "all"},
	RunE:      runClearCache,
}

func init() {
	RootCmd.AddCommand(clearCacheCmd)
}

func runClearCache(cmd *cobra.Command, args []string) error {
	scope := "all"
	if len(args) == 1 {
		scope = args[0]
	}

	var clearSearch, clearCategory bool
	switch scope {
	case "search":
		clearSearch = true
	case "category":
		clearCategory = true
	case "all":
		clearSearch, clearCategory = true, true
	default:
		return fmt.Errorf("invalid scope %q: use search, category or all", scope)
	}

	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	if clearCategory {
		if err := svc.Catalog.ClearCategories(ctx); err != nil {
			return fmt.Errorf("failed to clear category cache: %w", err)
		}
		fmt.Fprintln(out, "✓ Category cache cleared")
	}
	if clearSearch {
		if err := svc.Catalog.ClearSuggestions(ctx); err != nil {
			return fmt.Errorf("failed to clear search suggestions: %w", err)
		}
		fmt.Fprintln(out, "✓ Search suggestions cleared")
	}
	return nil
}
