package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"docktop/internal/dashboard"
	"docktop/internal/engine"
	"docktop/internal/logger"
)

// monitorCommand runs the dashboard core headless, printing every update
// to stdout. This is the core exercised without a terminal UI on top:
// useful for debugging the daemon connection and as the harness a UI layer
// plugs into.
func (m *Manager) monitorCommand() *cobra.Command {
	var focusID string

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Watch containers, printing updates until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			// The monitor owns the terminal; background logging moves to
			// the state-dir log file so it cannot interleave with updates.
			if closer, err := logger.UseLogFile(); err == nil {
				defer closer.Close()
			} else {
				logger.WithError(err).Warn("log file unavailable, logging to stderr")
			}

			core := dashboard.NewCore(m.config)
			defer core.Close()
			core.Start(ctx)

			if focusID != "" {
				core.Hub.Focus.Set(focusID)
			}

			for {
				select {
				case <-ctx.Done():
					core.Wait()
					return nil
				case snapshot := <-core.Hub.Snapshots():
					fmt.Fprintf(out, "-- %d containers\n", len(snapshot))
					for _, c := range snapshot {
						fmt.Fprintf(out, "   %s  %-8s %-30s %s\n", c.ShortID(), c.State, c.Name(), c.Image)
					}
				case detail := <-core.Hub.Details():
					if detail.Stats != nil {
						fmt.Fprintf(out, "-- %s cpu=%.1f%% mem=%d/%d rx=%.0fB tx=%.0fB\n",
							engine.ShortID(detail.ContainerID), detail.CPUPercent,
							detail.Stats.MemoryStats.Usage, detail.Stats.MemoryStats.Limit,
							detail.RxRate, detail.TxRate)
					}
				case line := <-core.Hub.LogLines():
					fmt.Fprintf(out, "%s | %s\n", engine.ShortID(line.ContainerID), line.Text)
				case result := <-core.Executor.Results():
					fmt.Fprintf(out, ">> %s\n", result)
				}
			}
		},
	}

	cmd.Flags().StringVar(&focusID, "focus", "", "container id to stream detail and logs for")
	return cmd
}
