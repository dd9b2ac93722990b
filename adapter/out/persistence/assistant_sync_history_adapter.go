package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/priyankc/PersonalAssistantBackend/core/domain"
	"github.com/priyankc/PersonalAssistantBackend/core/port/out"

	"github.com/jmoiron/sqlx"
)

// SyncHistoryRepository implements out.SyncHistoryRepository on the
// email_sync_history table. Rows are insert-only; the newest row per user is
// the effective checkpoint.
type SyncHistoryRepository struct {
	db *sqlx.DB
}

// NewSyncHistoryRepository creates a new SyncHistoryRepository.
func NewSyncHistoryRepository(db *sqlx.DB) out.SyncHistoryRepository {
	return &SyncHistoryRepository{db: db}
}

// LastSyncTime returns the most recent checkpoint time for the user, or nil
// when the user has never synced.
func (r *SyncHistoryRepository) LastSyncTime(ctx context.Context, userID string) (*time.Time, error) {
	query := `
		SELECT last_sync_time
		FROM email_sync_history
		WHERE user_id = $1
		ORDER BY last_sync_time DESC
		LIMIT 1`

	var last time.Time
	if err := r.db.GetContext(ctx, &last, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("read last sync time: %w", err)
	}
	return &last, nil
}

// AppendCheckpoint records a completed run.
func (r *SyncHistoryRepository) AppendCheckpoint(ctx context.Context, cp *domain.SyncCheckpoint) error {
	query := `
		INSERT INTO email_sync_history (user_id, last_sync_time, emails_processed, tasks_created)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.db.ExecContext(ctx, query,
		cp.UserID, cp.LastSyncTime, cp.EmailsProcessed, cp.TasksCreated); err != nil {
		return fmt.Errorf("append sync checkpoint: %w", err)
	}
	return nil
}
