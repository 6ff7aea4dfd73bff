package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/pkghub/internal/output"
	"github.com/blackwell-systems/pkghub/internal/store"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <query>",
	Short: "Suggest common packages matching a partial name",
	Long: `Suggest up to five well-known packages whose name or id contains the
query, closest match first. Suggestions are disabled when
enable_search_suggestions is false in the config.`,
	Example: `  pkghub suggest chr`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runSuggest,
}

func init() {
	RootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))

	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	if !svc.Config.Current().EnableSearchSuggestions {
		fmt.Fprintln(cmd.OutOrStdout(), "Search suggestions are disabled (enable_search_suggestions: false).")
		return nil
	}

	ctx := cmd.Context()
	sugs := svc.Catalog.Suggest(ctx, query)
	svc.count(ctx, store.StatSuggestionQueries)
	fmt.Fprint(cmd.OutOrStdout(), output.RenderSuggestions(query, sugs))
	return nil
}
