package task

import (
	"context"
	"net"
	"time"

	"docktop/internal/logger"
)

// runEvents keeps a daemon event stream open and converts any activity on
// it into refresh triggers. The payload is never parsed; an event of any
// kind just means the listing is stale. Reconnects forever on a fixed
// backoff so the dashboard self-heals across daemon restarts.
func (h *Hub) runEvents(ctx context.Context) {
	for {
		if err := h.consumeEvents(ctx); err != nil && ctx.Err() == nil {
			logger.WithError(err).Debug("event stream lost, reconnecting")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(h.cfg.EventBackoff()):
		}
	}
}

func (h *Hub) consumeEvents(ctx context.Context) error {
	conn, err := h.engine.OpenEventStream(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	stop := closeOnCancel(ctx, conn)
	defer stop()

	return h.pumpEvents(ctx, conn)
}

func (h *Hub) pumpEvents(ctx context.Context, conn net.Conn) error {
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			h.refresh.Trigger()
		}
		if err != nil {
			return err
		}
	}
}
