package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that winget and the pkghub database are usable",
	Long: `Runs diagnostic checks:
  • winget is installed and responds
  • the database exists and is accessible
  • the config file can be read`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	RootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Running pkghub diagnostics...")
	fmt.Fprintln(out)

	svc, err := newService(cmd)
	if err != nil {
		fmt.Fprintln(out, "✗ Config cannot be loaded:", err)
		return err
	}
	defer svc.Close()

	fmt.Fprintln(out, "✓ Config:", svc.Config.Path())

	critical := 0
	ctx := cmd.Context()

	version, err := svc.Winget.Version(ctx)
	if err != nil {
		fmt.Fprintln(out, "✗ winget not available:", err)
		fmt.Fprintln(out, "  Action: install App Installer from the Microsoft Store")
		critical++
	} else {
		fmt.Fprintln(out, "✓ winget", version)
	}

	if svc.Store == nil {
		fmt.Fprintln(out, "✗ Database unavailable")
		critical++
	} else if counts, err := svc.Store.TableCounts(ctx); err != nil {
		fmt.Fprintln(out, "✗ Cannot read database:", err)
		critical++
	} else {
		fmt.Fprintf(out, "✓ Database is accessible (%d installs recorded)\n", counts["installed_apps"])
	}

	fmt.Fprintln(out)
	if critical > 0 {
		return fmt.Errorf("%d check(s) failed", critical)
	}
	fmt.Fprintln(out, "All checks passed.")
	return nil
}
