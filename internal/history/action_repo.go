package history

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ActionRepository handles database operations for executed commands.
type ActionRepository struct {
	db *DB
}

// NewActionRepository creates a new action repository.
func NewActionRepository(db *DB) *ActionRepository {
	return &ActionRepository{db: db}
}

// Create inserts a finished action. A missing ID gets generated.
func (r *ActionRepository) Create(ctx context.Context, action *Action) error {
	if action.ID == "" {
		action.ID = uuid.New().String()
	}

	query := `
		INSERT INTO actions (id, command_id, kind, detail, result, created_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`

	_, err := r.db.ExecContext(ctx, query, action.ID, action.CommandID, action.Kind, action.Detail, action.Result)
	if err != nil {
		return fmt.Errorf("failed to create action: %w", err)
	}
	return nil
}

// List returns actions newest first, with offset pagination.
func (r *ActionRepository) List(ctx context.Context, limit, offset int) ([]*Action, error) {
	query := `
		SELECT id, command_id, kind, detail, result, created_at
		FROM actions
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query actions: %w", err)
	}
	defer rows.Close()

	var actions []*Action
	for rows.Next() {
		action := &Action{}
		err := rows.Scan(
			&action.ID,
			&action.CommandID,
			&action.Kind,
			&action.Detail,
			&action.Result,
			&action.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		actions = append(actions, action)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating actions: %w", err)
	}
	return actions, nil
}

// Count returns the total number of recorded actions.
func (r *ActionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM actions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count actions: %w", err)
	}
	return count, nil
}

// Trim deletes all but the newest keep actions.
func (r *ActionRepository) Trim(ctx context.Context, keep int) error {
	query := `
		DELETE FROM actions
		WHERE id NOT IN (
			SELECT id FROM actions
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)
	`

	if _, err := r.db.ExecContext(ctx, query, keep); err != nil {
		return fmt.Errorf("failed to trim actions: %w", err)
	}
	return nil
}
