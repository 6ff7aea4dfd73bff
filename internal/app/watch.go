package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/pkghub/internal/watcher"
)

var watchReprobe time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the config on change and keep source speeds fresh",
	Long: `Run in the foreground, reloading the configuration whenever the config
file changes and re-measuring every enabled source on an interval so that
automatic source selection stays current.

Press Ctrl+C to stop.`,
	Example: `  pkghub watch
  pkghub watch --reprobe 10m`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchReprobe, "reprobe", 5*time.Minute, "interval between source speed tests (0 disables)")
	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	out := cmd.OutOrStdout()
	w, err := watcher.New(svc.Config.Path(), svc.Config, svc.Logger)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	w.OnReload(func(err error) {
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: config reload failed: %v\n", err)
			return
		}
		fmt.Fprintln(out, "✓ Configuration reloaded")
	})
	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Stop()

	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", w.Path())

	ctx := cmd.Context()
	var tick <-chan time.Time
	if watchReprobe > 0 {
		t := time.NewTicker(watchReprobe)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "Stopped.")
			return nil
		case <-tick:
			for _, src := range svc.Config.Current().EnabledSources() {
				res := svc.Monitor.Probe(ctx, src.ID)
				svc.Logger.Printf("watch: %s %s", src.ID, res.Rating.Label)
			}
		}
	}
}
