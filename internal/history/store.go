package history

import (
	"context"
	"sync"

	"docktop/internal/logger"
)

const (
	// Retention caps, enforced opportunistically on write.
	actionRetention = 500
	sampleRetention = 2000

	trimEvery = 50
)

// Store is the facade the rest of the dashboard talks to. Its Record
// methods swallow and log errors: history is a convenience, and a broken
// database must never take a background task down with it.
type Store struct {
	db      *DB
	actions *ActionRepository
	samples *SampleRepository

	mu           sync.Mutex
	sampleWrites int
	actionWrites int
}

// Open opens the history database and applies migrations. cfg may be nil
// for defaults.
func Open(cfg *Config) (*Store, error) {
	db, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{
		db:      db,
		actions: NewActionRepository(db),
		samples: NewSampleRepository(db),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// HealthCheck verifies the store is usable.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.HealthCheck(ctx)
}

// RecordAction persists a finished command. Satisfies the executor's
// recorder interface.
func (s *Store) RecordAction(ctx context.Context, commandID, kind, detail, result string) {
	err := s.actions.Create(ctx, &Action{
		CommandID: commandID,
		Kind:      kind,
		Detail:    detail,
		Result:    result,
	})
	if err != nil {
		logger.WithError(err).Debug("failed to record action")
		return
	}

	s.mu.Lock()
	s.actionWrites++
	trim := s.actionWrites%trimEvery == 0
	s.mu.Unlock()
	if trim {
		if err := s.actions.Trim(ctx, actionRetention); err != nil {
			logger.WithError(err).Debug("failed to trim actions")
		}
	}
}

// RecordSample persists one stat reading. Satisfies the detail task's
// recorder interface.
func (s *Store) RecordSample(ctx context.Context, containerID string, cpuPercent, rxRate, txRate float64, memUsage, memLimit uint64) {
	err := s.samples.Create(ctx, &StatSample{
		ContainerID: containerID,
		CPUPercent:  cpuPercent,
		RxRate:      rxRate,
		TxRate:      txRate,
		MemUsage:    memUsage,
		MemLimit:    memLimit,
	})
	if err != nil {
		logger.WithError(err).Debug("failed to record stat sample")
		return
	}

	s.mu.Lock()
	s.sampleWrites++
	trim := s.sampleWrites%trimEvery == 0
	s.mu.Unlock()
	if trim {
		if err := s.samples.TrimContainer(ctx, containerID, sampleRetention); err != nil {
			logger.WithError(err).Debug("failed to trim stat samples")
		}
	}
}

// Actions returns recorded commands, newest first.
func (s *Store) Actions(ctx context.Context, limit, offset int) ([]*Action, error) {
	return s.actions.List(ctx, limit, offset)
}

// Samples returns the newest stat readings for a container.
func (s *Store) Samples(ctx context.Context, containerID string, limit int) ([]*StatSample, error) {
	return s.samples.Recent(ctx, containerID, limit)
}
