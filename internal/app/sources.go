package app

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/pkghub/internal/config"
	"github.com/blackwell-systems/pkghub/internal/output"
)

var sourcesCatalog bool

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List package sources and their measured speed",
	Long: `List the package sources from the config with their priority, whether
they are enabled and the last measured speed. The source pkghub would use
right now is marked with '*'.

--catalog lists the known sources from sources.yaml instead.`,
	Args: cobra.NoArgs,
	RunE: runSources,
}

func init() {
	sourcesCmd.Flags().BoolVar(&sourcesCatalog, "catalog", false, "list the known-sources catalog")
	RootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	out := cmd.OutOrStdout()

	if sourcesCatalog {
		cat, err := config.LoadCatalog(filepath.Dir(svc.Config.Path()))
		if err != nil {
			return fmt.Errorf("failed to read sources catalog: %w", err)
		}
		for _, src := range cat.Sources {
			fmt.Fprintf(out, "%-10s %-28s %s\n", src.ID, src.Name, src.URL)
		}
		return nil
	}

	cfg := svc.Config.Current()
	sources := append([]config.Source(nil), cfg.Sources...)
	sort.SliceStable(sources, func(i, j int) bool { return sources[i].Priority < sources[j].Priority })

	selected := svc.Monitor.SelectOptimal()
	rows := make([]output.SourceRow, 0, len(sources))
	for _, src := range sources {
		rows = append(rows, output.SourceRow{
			Source:   src,
			Status:   svc.Monitor.Status(src.ID),
			Selected: src.ID == selected,
		})
	}
	fmt.Fprint(out, output.RenderSourceTable(rows))

	mode := "fixed (" + cfg.DownloadSource + ")"
	if cfg.AutoSource {
		mode = "automatic, fastest enabled source"
	}
	fmt.Fprintf(out, "\nSelection: %s\n", mode)
	return nil
}
