// Package dashboard assembles the engine client, background tasks,
// command executor, and history store into one runnable core. Frontends
// (the CLI today, a terminal UI on top of it) drive the core through its
// channels instead of touching the engine directly.
package dashboard

import (
	"context"

	"docktop/internal/action"
	"docktop/internal/config"
	"docktop/internal/engine"
	"docktop/internal/history"
	"docktop/internal/logger"
	"docktop/internal/task"
)

// Core bundles the running dashboard internals: the engine client, the
// background task hub, the command executor, and the history store. A
// frontend drives it through Hub (focus, outbound channels) and Executor
// (command submission).
type Core struct {
	Config   *config.Config
	Engine   *engine.Client
	Hub      *task.Hub
	Executor *action.Executor
	Store    *history.Store
}

// NewCore assembles a core from configuration. A history store that fails
// to open is logged and left nil; the dashboard runs without persistence.
func NewCore(cfg *config.Config) *Core {
	client := engine.NewClient(cfg.Engine.SocketPath)

	store, err := history.Open(nil)
	if err != nil {
		logger.WithError(err).Warn("history store unavailable, running without persistence")
		store = nil
	}

	// Typed nils must not leak into the recorder interfaces.
	var sampleRecorder task.SampleRecorder
	var actionRecorder action.ActionRecorder
	if store != nil {
		sampleRecorder = store
		actionRecorder = store
	}

	hub := task.NewHub(client, cfg, sampleRecorder)
	executor := action.NewExecutor(client, hub.Refresh(), actionRecorder)

	return &Core{
		Config:   cfg,
		Engine:   client,
		Hub:      hub,
		Executor: executor,
		Store:    store,
	}
}

// Start launches the background tasks and the command worker.
func (c *Core) Start(ctx context.Context) {
	c.Hub.Start(ctx)
	go c.Executor.Run(ctx)
}

// Wait blocks until the hub's tasks have exited.
func (c *Core) Wait() {
	c.Hub.Wait()
}

// Close releases held resources. Call after the context driving Start is
// cancelled.
func (c *Core) Close() {
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			logger.WithError(err).Warn("failed to close history store")
		}
	}
}
