package history

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// SampleRepository handles database operations for stat samples.
type SampleRepository struct {
	db *DB
}

// NewSampleRepository creates a new sample repository.
func NewSampleRepository(db *DB) *SampleRepository {
	return &SampleRepository{db: db}
}

// Create inserts a stat sample. A missing ID gets generated.
func (r *SampleRepository) Create(ctx context.Context, sample *StatSample) error {
	if sample.ID == "" {
		sample.ID = uuid.New().String()
	}

	query := `
		INSERT INTO stat_samples (id, container_id, cpu_percent, rx_rate, tx_rate, mem_usage, mem_limit, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`

	_, err := r.db.ExecContext(ctx, query,
		sample.ID, sample.ContainerID, sample.CPUPercent, sample.RxRate, sample.TxRate,
		sample.MemUsage, sample.MemLimit)
	if err != nil {
		return fmt.Errorf("failed to create stat sample: %w", err)
	}
	return nil
}

// Recent returns the newest samples for a container, newest first.
func (r *SampleRepository) Recent(ctx context.Context, containerID string, limit int) ([]*StatSample, error) {
	query := `
		SELECT id, container_id, cpu_percent, rx_rate, tx_rate, mem_usage, mem_limit, created_at
		FROM stat_samples
		WHERE container_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, containerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stat samples: %w", err)
	}
	defer rows.Close()

	var samples []*StatSample
	for rows.Next() {
		sample := &StatSample{}
		err := rows.Scan(
			&sample.ID,
			&sample.ContainerID,
			&sample.CPUPercent,
			&sample.RxRate,
			&sample.TxRate,
			&sample.MemUsage,
			&sample.MemLimit,
			&sample.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stat sample: %w", err)
		}
		samples = append(samples, sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stat samples: %w", err)
	}
	return samples, nil
}

// TrimContainer deletes all but the newest keep samples for one container.
func (r *SampleRepository) TrimContainer(ctx context.Context, containerID string, keep int) error {
	query := `
		DELETE FROM stat_samples
		WHERE container_id = ?
		AND id NOT IN (
			SELECT id FROM stat_samples
			WHERE container_id = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)
	`

	if _, err := r.db.ExecContext(ctx, query, containerID, containerID, keep); err != nil {
		return fmt.Errorf("failed to trim stat samples: %w", err)
	}
	return nil
}
