package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/pkghub/internal/output"
)

var testSourceAll bool

var testSourceCmd = &cobra.Command{
	Use:   "test-source [id]",
	Short: "Measure how fast a package source responds",
	Long: `Measure the latency of a package source by timing 'winget --version'
against it. Results are saved and used when automatic source selection is
enabled (auto_source in the config).

Speed ratings: under 2s excellent, under 5s good, under 10s medium,
otherwise slow. A source that fails to respond is reported unreachable;
that is a result, not an error.`,
	Example: `  pkghub test-source winget
  pkghub test-source --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTestSource,
}

func init() {
	testSourceCmd.Flags().BoolVar(&testSourceAll, "all", false, "test every enabled source")
	RootCmd.AddCommand(testSourceCmd)
}

func runTestSource(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !testSourceAll {
		return fmt.Errorf("specify a source id or --all")
	}

	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	var ids []string
	if testSourceAll {
		for _, src := range svc.Config.Current().EnabledSources() {
			ids = append(ids, src.ID)
		}
		if len(ids) == 0 {
			return fmt.Errorf("no sources are enabled")
		}
	} else {
		id := strings.TrimSpace(args[0])
		if _, ok := svc.Config.Current().Source(id); !ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s is not a configured source\n", id)
		}
		ids = []string{id}
	}

	ctx := cmd.Context()
	for _, id := range ids {
		res := svc.Monitor.Probe(ctx, id)
		fmt.Fprint(cmd.OutOrStdout(), output.RenderProbeResult(res))
	}

	if svc.Config.Current().AutoSource {
		fmt.Fprintf(cmd.OutOrStdout(), "Preferred source: %s\n", svc.Monitor.SelectOptimal())
	}
	return nil
}
