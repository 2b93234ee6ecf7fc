package task

import (
	"context"

	"docktop/internal/engine"
	"docktop/internal/logger"
)

// logStream tracks one running log subtask so a retarget can cancel it and
// wait for it to drain.
type logStream struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// runLogs follows the focus register and keeps exactly one log stream
// open, for the focused container. Streams that die on their own (daemon
// restart, container stop) stay dead until the next focus change.
func (h *Hub) runLogs(ctx context.Context) {
	var (
		active *logStream
		since  uint64
	)

	for {
		id, ok, version, err := h.Focus.Wait(ctx, since)
		if err != nil {
			h.stopStream(active)
			return
		}
		since = version
		active = h.retarget(ctx, active, id, ok)
	}
}

// retarget tears down the active stream before spawning one for the new
// target. The wait on done guarantees no line from the old target is
// emitted after retarget returns.
func (h *Hub) retarget(ctx context.Context, active *logStream, id string, ok bool) *logStream {
	h.stopStream(active)
	if !ok {
		return nil
	}

	sctx, cancel := context.WithCancel(ctx)
	ls := &logStream{cancel: cancel, done: make(chan struct{})}
	go h.streamLogs(sctx, ls, id)
	return ls
}

func (h *Hub) stopStream(ls *logStream) {
	if ls == nil {
		return
	}
	ls.cancel()
	<-ls.done
}

// streamLogs opens the log stream for id and pumps decoded lines until the
// stream ends or sctx is cancelled. Stream errors end the subtask quietly;
// the operator sees the log pane stop, not a crash.
func (h *Hub) streamLogs(sctx context.Context, ls *logStream, id string) {
	defer close(ls.done)

	conn, err := h.engine.OpenLogStream(sctx, id, h.cfg.Engine.LogTail)
	if err != nil {
		if sctx.Err() == nil {
			logger.WithError(err).WithField("container", engine.ShortID(id)).Debug("log stream open failed")
		}
		return
	}
	defer conn.Close()
	stop := closeOnCancel(sctx, conn)
	defer stop()

	dec := engine.NewLogDecoder(conn)
	for {
		line, err := dec.Next()
		if err != nil {
			return
		}
		if sctx.Err() != nil {
			return
		}
		publish(h.logLines, LogLine{ContainerID: id, Text: line})
	}
}
