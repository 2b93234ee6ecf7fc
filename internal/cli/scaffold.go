package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"docktop/internal/compose"
)

// scaffoldCommand writes a fresh docker-compose.yml for a new project: an
// app service built from the local Dockerfile plus optional sidecars,
// with resource limits given explicitly or derived from the host.
func (m *Manager) scaffoldCommand() *cobra.Command {
	var (
		cpu      string
		memory   string
		sidecars []string
		auto     bool
	)

	cmd := &cobra.Command{
		Use:   "scaffold [dir]",
		Short: "Generate a docker-compose.yml for a new project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			dir, err := filepath.Abs(dir)
			if err != nil {
				return err
			}

			if auto {
				totalMemory, cpus, totalsErr := hostTotals()
				if totalsErr != nil {
					return fmt.Errorf("cannot derive auto limits: %w", totalsErr)
				}
				cpu, memory = compose.CalculateAutoResources(totalMemory, cpus)
			}

			if err := compose.GenerateScaffold(dir, sidecars, cpu, memory); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", filepath.Join(dir, "docker-compose.yml"))
			return nil
		},
	}

	cmd.Flags().StringVar(&cpu, "cpu", "", "cpu limit for the app service")
	cmd.Flags().StringVar(&memory, "memory", "", "memory limit for the app service")
	cmd.Flags().StringSliceVar(&sidecars, "sidecar", nil, "sidecar services to include (mysql, postgres, redis, nginx)")
	cmd.Flags().BoolVar(&auto, "auto", false, "derive cpu/memory limits from host totals")
	return cmd
}
