package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"docktop/internal/action"
	"docktop/internal/compose"
	"docktop/internal/dashboard"
)

// upCommand brings a compose project up, optionally capping services with
// a generated override file that is cleaned up afterwards. --auto derives
// the limits from the host's total memory and core count.
func (m *Manager) upCommand() *cobra.Command {
	var (
		cpu      string
		memory   string
		services []string
		auto     bool
	)

	cmd := &cobra.Command{
		Use:   "up [compose-file-or-dir]",
		Short: "Run docker compose up -d for a project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			path, err := filepath.Abs(path)
			if err != nil {
				return err
			}

			composePath := path
			if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
				composePath = filepath.Join(path, "docker-compose.yml")
			}

			if auto {
				totalMemory, cpus, totalsErr := hostTotals()
				if totalsErr != nil {
					return fmt.Errorf("cannot derive auto limits: %w", totalsErr)
				}
				cpu, memory = compose.CalculateAutoResources(totalMemory, cpus)
				fmt.Fprintf(out, "Auto limits: cpu=%s memory=%s\n", cpu, memory)
			}

			var projectFile *compose.File
			if cf, parseErr := compose.ParseFile(composePath); parseErr == nil {
				projectFile = cf
				for _, warning := range portWarnings(cf) {
					fmt.Fprintf(out, "Warning: %s\n", warning)
				}
			}

			overridePath := ""
			if cpu != "" || memory != "" {
				capped := services
				if len(capped) == 0 {
					if projectFile == nil {
						return fmt.Errorf("cannot read %s to determine services", composePath)
					}
					capped = projectFile.ServiceNames()
				}
				overridePath, err = compose.GenerateOverride(composePath, capped, cpu, memory)
				if err != nil {
					return err
				}
			}

			core := dashboard.NewCore(m.config)
			defer core.Close()
			core.Start(ctx)

			core.Executor.Enqueue(action.ComposeUp{Path: path, OverridePath: overridePath})

			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case result := <-core.Executor.Results():
					fmt.Fprintln(out, result)
					if result == "Compose Up Successful" {
						return nil
					}
					if strings.HasPrefix(result, "Compose Failed:") ||
						strings.HasPrefix(result, "Failed to run compose:") {
						return fmt.Errorf("compose up failed")
					}
				}
			}
		},
	}

	cmd.Flags().StringVar(&cpu, "cpu", "", "cpu limit applied via a generated override file")
	cmd.Flags().StringVar(&memory, "memory", "", "memory limit applied via a generated override file")
	cmd.Flags().StringSliceVar(&services, "service", nil, "services to cap (default all)")
	cmd.Flags().BoolVar(&auto, "auto", false, "derive cpu/memory limits from host totals")
	return cmd
}

// portWarnings checks the host side of every published port in the
// project and reports the ones that cannot be bound.
func portWarnings(cf *compose.File) []string {
	var warnings []string
	for _, name := range cf.ServiceNames() {
		for _, spec := range cf.Services[name].Ports {
			switch status, holder := compose.CheckPort(spec); status {
			case compose.PortStatusOccupied:
				if holder == "" {
					holder = "Unknown Process"
				}
				warnings = append(warnings,
					fmt.Sprintf("port %s (service %s) is already in use by %s", spec, name, holder))
			case compose.PortStatusInvalid:
				warnings = append(warnings,
					fmt.Sprintf("port %s (service %s) is not a valid port spec", spec, name))
			}
		}
	}
	return warnings
}

// hostTotals reports total host memory and core count for auto limits.
func hostTotals() (totalMemory uint64, cpus int, err error) {
	raw, err := os.ReadFile("/proc/meminfo")
	if err != nil {
		return 0, 0, err
	}
	totalMemory = parseMemTotal(raw)
	if totalMemory == 0 {
		return 0, 0, fmt.Errorf("no MemTotal in /proc/meminfo")
	}
	return totalMemory, runtime.NumCPU(), nil
}

// parseMemTotal extracts the MemTotal line (reported in kB) from
// /proc/meminfo content, in bytes. Zero when absent or malformed.
func parseMemTotal(meminfo []byte) uint64 {
	for _, line := range strings.Split(string(meminfo), "\n") {
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0
		}
		return kb * 1024
	}
	return 0
}
