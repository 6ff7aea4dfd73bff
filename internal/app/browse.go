package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/pkghub/internal/catalog"
	"github.com/blackwell-systems/pkghub/internal/output"
	"github.com/blackwell-systems/pkghub/internal/store"
)

var browseCmd = &cobra.Command{
	Use:     "browse-category <name>",
	Aliases: []string{"browse"},
	Short:   "List packages in a category",
	Long: `List packages in a curated category.

A category is built by searching a fixed set of keywords, merging the results
and removing duplicates. Results are cached for 10 minutes. When winget
cannot be reached a built-in listing is shown instead, so a known category
is never empty.

Categories: ` + strings.Join(catalog.Categories(), ", "),
	Example: `  pkghub browse-category popular
  pkghub browse-category dev`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: catalog.Categories(),
	RunE:      runBrowse,
}

func init() {
	RootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	category := catalog.Normalize(strings.ToLower(args[0]))

	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := cmd.Context()
	spinner := output.NewSpinner(fmt.Sprintf("Loading %s", category))
	spinner.SetWriter(cmd.ErrOrStderr())
	spinner.Start()
	pkgs := svc.Catalog.Browse(ctx, category)
	spinner.Stop()
	svc.count(ctx, store.StatBrowses)

	fmt.Fprint(cmd.OutOrStdout(), output.RenderPackageTable(pkgs))
	return nil
}
