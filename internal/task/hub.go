package task

import (
	"context"
	"net"
	"sync"

	"docktop/internal/config"
	"docktop/internal/engine"
)

// Engine is the slice of the daemon client the background tasks need.
// Tests substitute a fake.
type Engine interface {
	ListContainers(ctx context.Context) ([]engine.Container, error)
	ContainerStats(ctx context.Context, id string) (*engine.Stats, error)
	InspectContainer(ctx context.Context, id string) (*engine.Inspection, error)
	OpenLogStream(ctx context.Context, id string, tail int) (net.Conn, error)
	OpenEventStream(ctx context.Context) (net.Conn, error)
}

// SampleRecorder persists periodic stat samples for the focused container.
// Implemented by the history store; may be nil to disable recording.
type SampleRecorder interface {
	RecordSample(ctx context.Context, containerID string, cpuPercent, rxRate, txRate float64, memUsage, memLimit uint64)
}

// Detail is one detail-poll result for the focused container. Stats and
// Inspection are independently optional since either fetch can fail on its
// own; at least one is always set.
type Detail struct {
	ContainerID string
	Stats       *engine.Stats
	Inspection  *engine.Inspection

	// Derived from the current and previous stats sample. Zero on the
	// first sample after a focus change.
	CPUPercent float64
	RxRate     float64
	TxRate     float64
}

// LogLine is one decoded line from the focused container's log stream.
type LogLine struct {
	ContainerID string
	Text        string
}

const (
	snapshotBuffer = 8
	detailBuffer   = 8
	logLineBuffer  = 256
)

// Hub owns the background tasks and the channels they publish on. All
// channels use drop-oldest overflow so a stalled consumer never blocks a
// producer.
type Hub struct {
	engine   Engine
	cfg      *config.Config
	recorder SampleRecorder

	Focus   *FocusRegister
	refresh *RefreshSignal

	snapshots chan []engine.Container
	details   chan Detail
	logLines  chan LogLine

	wg sync.WaitGroup
}

// NewHub wires a hub around the given engine client. recorder may be nil.
func NewHub(eng Engine, cfg *config.Config, recorder SampleRecorder) *Hub {
	return &Hub{
		engine:    eng,
		cfg:       cfg,
		recorder:  recorder,
		Focus:     NewFocusRegister(),
		refresh:   NewRefreshSignal(),
		snapshots: make(chan []engine.Container, snapshotBuffer),
		details:   make(chan Detail, detailBuffer),
		logLines:  make(chan LogLine, logLineBuffer),
	}
}

// Start launches the discovery, detail, log, and event tasks. They run
// until ctx is cancelled.
func (h *Hub) Start(ctx context.Context) {
	h.wg.Add(4)
	go func() { defer h.wg.Done(); h.runDiscovery(ctx) }()
	go func() { defer h.wg.Done(); h.runDetail(ctx) }()
	go func() { defer h.wg.Done(); h.runLogs(ctx) }()
	go func() { defer h.wg.Done(); h.runEvents(ctx) }()
}

// Wait blocks until all tasks have exited.
func (h *Hub) Wait() {
	h.wg.Wait()
}

// Refresh returns the shared refresh signal so action results can force a
// re-list without waiting for the discovery timer.
func (h *Hub) Refresh() *RefreshSignal {
	return h.refresh
}

// Snapshots delivers full container listings, newest last.
func (h *Hub) Snapshots() <-chan []engine.Container {
	return h.snapshots
}

// Details delivers detail-poll results for the focused container.
func (h *Hub) Details() <-chan Detail {
	return h.details
}

// LogLines delivers decoded log lines for the focused container.
func (h *Hub) LogLines() <-chan LogLine {
	return h.logLines
}

// publish sends v on ch, evicting the oldest buffered element if the
// consumer has fallen behind.
func publish[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// closeOnCancel closes conn when ctx is cancelled, unblocking any pending
// read. The returned stop func releases the watcher once the stream is
// done with the conn.
func closeOnCancel(ctx context.Context, conn net.Conn) (stop func()) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	return func() { close(done) }
}
