package out

import (
	"context"
	"time"

	"github.com/priyankc/PersonalAssistantBackend/core/domain"
)

// TaskRepository persists materialized tasks.
type TaskRepository interface {
	// CreateTask inserts one task. It returns false without error when a
	// task for the same (user, email) already exists.
	CreateTask(ctx context.Context, task *domain.Task) (created bool, err error)

	// GetTask loads a task by ID. Returns nil when absent.
	GetTask(ctx context.Context, id int64) (*domain.Task, error)

	// UpdateReplyStatus advances the reply lifecycle of a reply task.
	UpdateReplyStatus(ctx context.Context, id int64, status domain.ReplyStatus) error
}

// SyncHistoryRepository reads and appends per-user sync checkpoints. The
// history is insert-only; the latest row wins.
type SyncHistoryRepository interface {
	// LastSyncTime returns the most recent checkpoint time for the user, or
	// nil when the user has never synced.
	LastSyncTime(ctx context.Context, userID string) (*time.Time, error)

	// AppendCheckpoint records a completed run.
	AppendCheckpoint(ctx context.Context, checkpoint *domain.SyncCheckpoint) error
}

// SyncLock serializes sync runs per user. The invoking layer acquires it
// before starting a run; overlapping runs for one user have no defined
// checkpoint merge order.
type SyncLock interface {
	// Acquire takes the lock for the user. Returns false when another run
	// holds it.
	Acquire(ctx context.Context, userID string) (bool, error)

	// Release frees the lock. Safe to call after expiry.
	Release(ctx context.Context, userID string) error
}
