package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/pkghub/internal/install"
	"github.com/blackwell-systems/pkghub/internal/notify"
	"github.com/blackwell-systems/pkghub/internal/output"
	"github.com/blackwell-systems/pkghub/internal/store"
)

var installElevate bool

var installCmd = &cobra.Command{
	Use:   "install <id> [name]",
	Short: "Install a package by winget id",
	Long: `Install a package with winget and verify that it landed.

The id may be a winget id (VideoLAN.VLC), a Microsoft Store product id
(9NBLGGH4NNS1) or an alias from the aliases file in the config directory.
Store packages are installed from the msstore source and are not verified.

Installs need administrator rights. When pkghub is not elevated it offers to
restart itself as administrator; --elevate accepts without asking.

Exit codes:
  2  invalid package id
  3  administrator rights required
  4  install timed out
  5  winget failed
  6  installed but could not be verified
  7  the same package is already being installed`,
	Example: `  pkghub install VideoLAN.VLC
  pkghub install Microsoft.VisualStudioCode "VS Code"
  pkghub install vlc --elevate`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVar(&installElevate, "elevate", false, "restart as administrator without asking when required")
	RootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	id := svc.Aliases.Resolve(args[0])
	name := id
	if len(args) > 1 && strings.TrimSpace(args[1]) != "" {
		name = args[1]
	}

	ctx := cmd.Context()
	stdout := cmd.OutOrStdout()

	spinner := output.NewSpinner(fmt.Sprintf("Installing %s", name)).WithTimeout(install.Timeout)
	spinner.SetWriter(cmd.ErrOrStderr())

	svc.Installer.SetPrompter(newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr(), installElevate))
	svc.Installer.SetSink(notify.Multi(
		notify.SinkFunc(func(e notify.Event) {
			if e.Status != notify.StatusStarted {
				spinner.Stop()
			}
		}),
		svc.notifier(),
	))

	spinner.Start()
	out, err := svc.Installer.Install(ctx, id, name)
	spinner.Stop()

	if err != nil {
		svc.count(ctx, store.StatInstallFailures)
		if out.RestartConfirmed {
			fmt.Fprintln(stdout, "Restarting pkghub as administrator...")
			// The orchestrator exits the process after a short grace period.
			select {
			case <-ctx.Done():
			case <-time.After(3 * install.RelaunchGrace):
			}
		}
		return fmt.Errorf("%s: %w", out.Message, err)
	}
	svc.count(ctx, store.StatInstalls)

	switch {
	case out.IsStore:
		fmt.Fprintf(stdout, "✓ %s installed from the Microsoft Store\n", out.Name)
	case out.Version != "":
		fmt.Fprintf(stdout, "✓ %s %s installed\n", out.Name, out.Version)
	default:
		fmt.Fprintf(stdout, "✓ %s installed\n", out.Name)
	}
	return nil
}
