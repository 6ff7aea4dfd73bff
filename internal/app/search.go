package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/pkghub/internal/output"
	"github.com/blackwell-systems/pkghub/internal/store"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the winget catalog",
	Long: `Search the winget catalog by name, id, moniker or tag.

The search is scoped to the source pkghub currently prefers (see 'pkghub
sources'). A query that matches nothing, or a search winget could not run,
prints an empty result rather than an error. Use --verbose to see why a
search came back empty.`,
	Example: `  pkghub search vlc
  pkghub search "visual studio code"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	RootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("search query cannot be empty")
	}

	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := cmd.Context()
	spinner := output.NewSpinner(fmt.Sprintf("Searching for %q", query))
	spinner.SetWriter(cmd.ErrOrStderr())
	spinner.Start()
	pkgs := svc.Catalog.Search(ctx, query)
	spinner.Stop()
	svc.count(ctx, store.StatSearches)

	fmt.Fprint(cmd.OutOrStdout(), output.RenderPackageTable(pkgs))
	return nil
}
