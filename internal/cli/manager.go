// Package cli wires the cobra command tree around the dashboard core.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"docktop/internal/config"
)

// Manager handles CLI operations
type Manager struct {
	config  *config.Config
	rootCmd *cobra.Command
}

// New creates a new CLI manager
func New(cfg *config.Config) *Manager {
	m := &Manager{
		config:  cfg,
		rootCmd: createRootCommand(),
	}
	m.setupCommands()
	return m
}

// Execute executes the CLI with the given arguments
func (m *Manager) Execute(args []string) error {
	return m.ExecuteWithContext(context.Background(), args)
}

// ExecuteWithContext executes the CLI with the given arguments and context
func (m *Manager) ExecuteWithContext(ctx context.Context, args []string) error {
	m.rootCmd.SetArgs(args)
	return m.rootCmd.ExecuteContext(ctx)
}

// setupCommands sets up all CLI commands
func (m *Manager) setupCommands() {
	m.rootCmd.AddCommand(
		m.monitorCommand(),
		m.upCommand(),
		m.scaffoldCommand(),
		m.historyCommand(),
		m.configCommand(),
		versionCommand(),
	)
}
