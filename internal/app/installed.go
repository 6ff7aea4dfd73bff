package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/pkghub/internal/output"
)

var installedCmd = &cobra.Command{
	Use:   "installed",
	Short: "List packages installed through pkghub",
	Args:  cobra.NoArgs,
	RunE:  runInstalled,
}

func init() {
	RootCmd.AddCommand(installedCmd)
}

func runInstalled(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	st, err := svc.requireStore()
	if err != nil {
		return err
	}
	apps, err := st.ListInstalledApps(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list installed packages: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), output.RenderInstalledTable(apps))
	return nil
}
