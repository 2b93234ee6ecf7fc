package task

import (
	"context"
	"time"

	"docktop/internal/engine"
	"docktop/internal/logger"
)

// pollGranularity bounds how quickly the detail task reacts to a focus
// change. Full fetches still only happen on the configured interval.
const pollGranularity = 250 * time.Millisecond

// runDetail polls stats and inspection for the focused container. A focus
// change triggers an immediate fetch and resets the rate baseline so the
// first sample of a new target never shows a bogus delta.
func (h *Hub) runDetail(ctx context.Context) {
	ticker := time.NewTicker(pollGranularity)
	defer ticker.Stop()

	var (
		lastVersion uint64
		lastFetch   time.Time
		prevStats   *engine.Stats
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		id, ok, version := h.Focus.Get()
		changed := version != lastVersion
		due := time.Since(lastFetch) >= h.cfg.DetailInterval()
		if !changed && !due {
			continue
		}
		lastVersion = version
		if changed {
			prevStats = nil
		}
		if !ok {
			continue
		}
		lastFetch = time.Now()

		d := Detail{ContainerID: id}

		stats, statsErr := h.engine.ContainerStats(ctx, id)
		if statsErr == nil {
			d.Stats = stats
			d.CPUPercent = engine.CPUPercent(stats, prevStats)
			d.RxRate, d.TxRate = engine.NetworkRates(stats, prevStats)
			prevStats = stats
			h.recordSample(ctx, id, d)
		} else if ctx.Err() == nil {
			logger.WithError(statsErr).WithField("container", engine.ShortID(id)).Debug("stats fetch failed")
		}

		insp, inspErr := h.engine.InspectContainer(ctx, id)
		if inspErr == nil {
			d.Inspection = insp
		} else if ctx.Err() == nil {
			logger.WithError(inspErr).WithField("container", engine.ShortID(id)).Debug("inspect failed")
		}

		if statsErr != nil && inspErr != nil {
			continue
		}
		publish(h.details, d)
	}
}

func (h *Hub) recordSample(ctx context.Context, id string, d Detail) {
	if h.recorder == nil || d.Stats == nil {
		return
	}
	h.recorder.RecordSample(ctx, id, d.CPUPercent, d.RxRate, d.TxRate,
		d.Stats.MemoryStats.Usage, d.Stats.MemoryStats.Limit)
}
