package action

import (
	"context"
	"fmt"

	"github.com/rs/xid"

	"docktop/internal/engine"
	"docktop/internal/logger"
	"docktop/internal/task"
)

// Engine is the slice of the daemon client the executor drives. Tests
// substitute a fake.
type Engine interface {
	StartContainer(ctx context.Context, id string) error
	StopContainer(ctx context.Context, id string) error
	RestartContainer(ctx context.Context, id string) error
	RemoveContainer(ctx context.Context, id string, force bool) error
	ListContainers(ctx context.Context) ([]engine.Container, error)
	ListImages(ctx context.Context, danglingOnly bool) ([]engine.ImageSummary, error)
	ListVolumes(ctx context.Context, danglingOnly bool) ([]engine.Volume, error)
	RemoveImage(ctx context.Context, id string) error
	RemoveVolume(ctx context.Context, name string) error
	CreateContainer(ctx context.Context, name string, cfg engine.CreateConfig) (string, error)
	PullImage(ctx context.Context, ref string, progress func(string)) error
	BuildImage(ctx context.Context, tag string, contextTar []byte, progress func(string)) error
}

// ActionRecorder persists finished commands for the history view. May be
// nil to disable recording.
type ActionRecorder interface {
	RecordAction(ctx context.Context, commandID, kind, detail, result string)
}

const (
	queueCapacity  = 32
	resultCapacity = 64
)

// queued is a command stamped with a correlation id at enqueue time, so
// progress lines and the history row can be tied back to one submission.
type queued struct {
	id  xid.ID
	cmd Command
}

// Executor runs commands one at a time in FIFO order on a single worker.
// Serializing writes to the daemon keeps mutating actions from interleaving
// with each other; reads (the hub's tasks) stay concurrent.
type Executor struct {
	engine   Engine
	refresh  *task.RefreshSignal
	recorder ActionRecorder

	commands chan queued
	results  chan string
	janitor  chan []JanitorItem

	// composeRunner runs the compose CLI; swapped out in tests.
	composeRunner func(ctx context.Context, dir string, args []string) ([]byte, error)
}

// NewExecutor wires an executor. refresh is poked after every mutating
// command so the listing catches up immediately. recorder may be nil.
func NewExecutor(eng Engine, refresh *task.RefreshSignal, recorder ActionRecorder) *Executor {
	return &Executor{
		engine:        eng,
		refresh:       refresh,
		recorder:      recorder,
		commands:      make(chan queued, queueCapacity),
		results:       make(chan string, resultCapacity),
		janitor:       make(chan []JanitorItem, 1),
		composeRunner: runComposeCLI,
	}
}

// Enqueue submits a command. Returns false when the queue is full; the
// caller should surface that rather than block the UI.
func (e *Executor) Enqueue(cmd Command) bool {
	q := queued{id: xid.New(), cmd: cmd}
	select {
	case e.commands <- q:
		logger.WithFields(logger.Fields{
			"command": q.id.String(),
			"kind":    commandKind(cmd),
		}).Debug("command queued")
		return true
	default:
		return false
	}
}

// Results delivers progress and outcome strings, oldest dropped on
// overflow.
func (e *Executor) Results() <-chan string {
	return e.results
}

// JanitorItems delivers the latest janitor scan.
func (e *Executor) JanitorItems() <-chan []JanitorItem {
	return e.janitor
}

// Run processes commands until ctx is cancelled. Call it on its own
// goroutine; there must be at most one.
func (e *Executor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case q := <-e.commands:
			result := e.execute(ctx, q.cmd)
			e.emit(result)
			e.record(ctx, q, result)
			e.refresh.Trigger()
		}
	}
}

func (e *Executor) execute(ctx context.Context, cmd Command) string {
	switch c := cmd.(type) {
	case Start:
		if err := e.engine.StartContainer(ctx, c.ID); err != nil {
			return fmt.Sprintf("Failed to start: %v", err)
		}
		return fmt.Sprintf("Started container %s", engine.ShortID(c.ID))
	case Stop:
		if err := e.engine.StopContainer(ctx, c.ID); err != nil {
			return fmt.Sprintf("Failed to stop: %v", err)
		}
		return fmt.Sprintf("Stopped container %s", engine.ShortID(c.ID))
	case Restart:
		if err := e.engine.RestartContainer(ctx, c.ID); err != nil {
			return fmt.Sprintf("Failed to restart: %v", err)
		}
		return fmt.Sprintf("Restarted container %s", engine.ShortID(c.ID))
	case Delete:
		e.emit(fmt.Sprintf("Removing %s...", engine.ShortID(c.ID)))
		if err := e.engine.RemoveContainer(ctx, c.ID, true); err != nil {
			return fmt.Sprintf("Failed to remove: %v", err)
		}
		return fmt.Sprintf("Removed container %s", engine.ShortID(c.ID))
	case Create:
		return e.runCreate(ctx, c, "Started new container %s")
	case Replace:
		// Best effort: the old container may already be gone.
		e.emit(fmt.Sprintf("Stopping %s...", c.OldID))
		e.engine.StopContainer(ctx, c.OldID)
		e.emit(fmt.Sprintf("Removing %s...", c.OldID))
		e.engine.RemoveContainer(ctx, c.OldID, true)
		return e.runCreate(ctx, c.Spec, "Replaced container %s")
	case Build:
		return e.runBuild(ctx, c)
	case ComposeUp:
		return e.runComposeUp(ctx, c)
	case ScanJanitor:
		return e.runScan(ctx)
	case CleanJanitor:
		return e.runClean(ctx, c.Items)
	case RefreshContainers:
		return "Refreshed containers"
	default:
		return fmt.Sprintf("Unknown command %T", cmd)
	}
}

// runCreate is the shared pull/create/start sequence behind Create and
// Replace. successFormat takes the new container's short id.
func (e *Executor) runCreate(ctx context.Context, c Create, successFormat string) string {
	e.emit(fmt.Sprintf("Pulling %s...", c.Image))
	if err := e.engine.PullImage(ctx, c.Image, e.emit); err != nil {
		return fmt.Sprintf("Failed to pull: %v", err)
	}

	e.emit(fmt.Sprintf("Creating %s...", c.Name))
	cfg, err := buildCreateConfig(c)
	if err != nil {
		return fmt.Sprintf("Failed to create: %v", err)
	}
	id, err := e.engine.CreateContainer(ctx, c.Name, cfg)
	if err != nil {
		return fmt.Sprintf("Failed to create: %v", err)
	}

	e.emit(fmt.Sprintf("Starting %s...", id))
	if err := e.engine.StartContainer(ctx, id); err != nil {
		return fmt.Sprintf("Failed to start: %v", err)
	}
	return fmt.Sprintf(successFormat, engine.ShortID(id))
}

// emit publishes a result line, evicting the oldest on overflow.
func (e *Executor) emit(line string) {
	for {
		select {
		case e.results <- line:
			return
		default:
		}
		select {
		case <-e.results:
		default:
		}
	}
}

func (e *Executor) record(ctx context.Context, q queued, result string) {
	if e.recorder == nil {
		return
	}
	e.recorder.RecordAction(ctx, q.id.String(), commandKind(q.cmd), commandDetail(q.cmd), result)
}

func commandKind(cmd Command) string {
	switch cmd.(type) {
	case Start:
		return "start"
	case Stop:
		return "stop"
	case Restart:
		return "restart"
	case Delete:
		return "delete"
	case Create:
		return "create"
	case Replace:
		return "replace"
	case Build:
		return "build"
	case ComposeUp:
		return "compose-up"
	case ScanJanitor:
		return "janitor-scan"
	case CleanJanitor:
		return "janitor-clean"
	case RefreshContainers:
		return "refresh"
	default:
		return "unknown"
	}
}

func commandDetail(cmd Command) string {
	switch c := cmd.(type) {
	case Start:
		return engine.ShortID(c.ID)
	case Stop:
		return engine.ShortID(c.ID)
	case Restart:
		return engine.ShortID(c.ID)
	case Delete:
		return engine.ShortID(c.ID)
	case Create:
		return fmt.Sprintf("%s (%s)", c.Name, c.Image)
	case Replace:
		return fmt.Sprintf("%s (%s)", c.Spec.Name, c.Spec.Image)
	case Build:
		return fmt.Sprintf("%s <- %s", c.Tag, c.Path)
	case ComposeUp:
		return c.Path
	case CleanJanitor:
		return fmt.Sprintf("%d items", len(c.Items))
	default:
		return ""
	}
}
