package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or manage the pkghub configuration",
	Long: `Show or manage the pkghub configuration file.

Settings are read from the config file, then overridden by PKGHUB_*
environment variables (for example PKGHUB_BATCH_SIZE=5).`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore and save the default configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()
		if err := svc.Config.Reset(); err != nil {
			return fmt.Errorf("failed to reset config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration reset to defaults:", svc.Config.Path())
		return nil
	},
}

var configExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the current configuration to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()
		if err := svc.Config.Export(args[0]); err != nil {
			return fmt.Errorf("failed to export config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration exported to", args[0])
		return nil
	},
}

var configImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the configuration with one read from a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()
		if err := svc.Config.Import(args[0]); err != nil {
			return fmt.Errorf("failed to import config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration imported from", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configResetCmd, configExportCmd, configImportCmd)
	RootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	data, err := yaml.Marshal(svc.Config.Current())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", svc.Config.Path())
	out.Write(data)
	return nil
}
