// Package app is the composition root: it loads configuration, sets up
// logging, and hands control to the CLI.
package app

import (
	"context"

	"docktop/internal/cli"
	"docktop/internal/config"
	"docktop/internal/logger"
)

// App represents the main application.
type App struct {
	Config *config.Config
	CLI    *cli.Manager
}

// New creates a new application instance.
func New() *App {
	return &App{}
}

// Run starts the application.
func (a *App) Run(args []string) error {
	return a.RunWithContext(context.Background(), args)
}

// RunWithContext starts the application with a context for cancellation.
func (a *App) RunWithContext(ctx context.Context, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.Config = cfg

	logger.SetLevel(cfg.Log.Level)

	a.CLI = cli.New(cfg)
	return a.CLI.ExecuteWithContext(ctx, args)
}
