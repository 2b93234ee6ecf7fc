package task

import (
	"context"
	"time"

	"docktop/internal/logger"
)

// runDiscovery lists all containers on a fixed interval and on demand via
// the refresh signal. The first listing happens immediately so the
// dashboard is never empty at startup.
func (h *Hub) runDiscovery(ctx context.Context) {
	ticker := time.NewTicker(h.cfg.ListInterval())
	defer ticker.Stop()

	for {
		h.discoverOnce(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-h.refresh.C():
		}
	}
}

// discoverOnce fetches one listing and publishes it. A failed listing is
// logged and skipped; the previous snapshot stays current.
func (h *Hub) discoverOnce(ctx context.Context) {
	containers, err := h.engine.ListContainers(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.WithError(err).Debug("container listing failed")
		}
		return
	}
	publish(h.snapshots, containers)
}
