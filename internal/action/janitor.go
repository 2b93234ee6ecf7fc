package action

import (
	"context"
	"fmt"
	"sync"

	"docktop/internal/engine"
	"docktop/internal/logger"
)

// runScan inventories dangling images, dangling volumes, and stopped
// containers. The three listings run concurrently and a failed one just
// contributes nothing; a partial inventory beats no inventory.
func (e *Executor) runScan(ctx context.Context) string {
	e.emit("Scanning for junk...")

	var (
		wg    sync.WaitGroup
		slots [3][]JanitorItem
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		images, err := e.engine.ListImages(ctx, true)
		if err != nil {
			logger.WithError(err).Debug("janitor image scan failed")
			return
		}
		for _, img := range images {
			slots[0] = append(slots[0], JanitorItem{
				ID:       img.ID,
				Name:     "<none>",
				Kind:     KindImage,
				Size:     uint64(img.Size),
				Age:      "Unknown",
				Selected: true,
			})
		}
	}()
	go func() {
		defer wg.Done()
		volumes, err := e.engine.ListVolumes(ctx, true)
		if err != nil {
			logger.WithError(err).Debug("janitor volume scan failed")
			return
		}
		for _, vol := range volumes {
			slots[1] = append(slots[1], JanitorItem{
				ID:   vol.Name,
				Name: vol.Name,
				Kind: KindVolume,
				Age:  "-",
			})
		}
	}()
	go func() {
		defer wg.Done()
		containers, err := e.engine.ListContainers(ctx)
		if err != nil {
			logger.WithError(err).Debug("janitor container scan failed")
			return
		}
		for _, c := range containers {
			if c.State != "exited" && c.State != "dead" {
				continue
			}
			slots[2] = append(slots[2], JanitorItem{
				ID:       c.ID,
				Name:     c.Name(),
				Kind:     KindContainer,
				Age:      c.Status,
				Selected: true,
			})
		}
	}()
	wg.Wait()

	var items []JanitorItem
	for _, slot := range slots {
		items = append(items, slot...)
	}

	select {
	case e.janitor <- items:
	default:
		// Replace a stale unconsumed scan.
		select {
		case <-e.janitor:
		default:
		}
		e.janitor <- items
	}
	return "Scan Complete"
}

// runClean deletes the selected items one by one, continuing past
// failures. Unselected items ride along in the list untouched. The count
// tracks attempts, matching the running progress lines.
func (e *Executor) runClean(ctx context.Context, items []JanitorItem) string {
	count := 0
	for _, item := range items {
		if !item.Selected {
			continue
		}
		var err error
		switch item.Kind {
		case KindImage:
			err = e.engine.RemoveImage(ctx, item.ID)
		case KindVolume:
			err = e.engine.RemoveVolume(ctx, item.ID)
		case KindContainer:
			err = e.engine.RemoveContainer(ctx, item.ID, false)
		}
		if err != nil {
			logger.WithError(err).WithFields(logger.Fields{
				"kind": string(item.Kind),
				"id":   engine.ShortID(item.ID),
			}).Debug("janitor delete failed")
		}
		count++
		if count%5 == 0 {
			e.emit(fmt.Sprintf("Cleaned %d items...", count))
		}
	}
	return fmt.Sprintf("Janitor finished. Removed %d items.", count)
}
