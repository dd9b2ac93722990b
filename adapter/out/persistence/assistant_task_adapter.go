// Package persistence provides sqlx-backed repositories.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/priyankc/PersonalAssistantBackend/core/domain"
	"github.com/priyankc/PersonalAssistantBackend/core/port/out"

	"github.com/jmoiron/sqlx"
)

// TaskRepository implements out.TaskRepository on the user_tasks table.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *sqlx.DB) out.TaskRepository {
	return &TaskRepository{db: db}
}

// CreateTask inserts one task. The (user_id, email_id) unique constraint
// makes materialization idempotent across overlapping sync windows: a
// conflicting insert is reported as not-created, not an error.
func (r *TaskRepository) CreateTask(ctx context.Context, task *domain.Task) (bool, error) {
	query := `
		INSERT INTO user_tasks (user_id, title, description, action_required,
		                        email_id, action_type, draft_reply, reply_status, thread_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, email_id) DO NOTHING
		RETURNING id`

	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		task.UserID, task.Title, task.Description, task.ActionRequired,
		task.EmailID, task.ActionType, task.DraftReply, task.ReplyStatus, task.ThreadID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Conflict: a task for this email already exists.
			return false, nil
		}
		return false, fmt.Errorf("create task: %w", err)
	}

	task.ID = id
	return true, nil
}

// GetTask loads a task by ID. Returns nil when absent.
func (r *TaskRepository) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	query := `
		SELECT id, user_id, title, description, action_required,
		       email_id, action_type, draft_reply, reply_status, thread_id, created_at
		FROM user_tasks
		WHERE id = $1`

	var task domain.Task
	if err := r.db.GetContext(ctx, &task, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &task, nil
}

// UpdateReplyStatus advances the reply lifecycle of a reply task.
func (r *TaskRepository) UpdateReplyStatus(ctx context.Context, id int64, status domain.ReplyStatus) error {
	query := `UPDATE user_tasks SET reply_status = $1 WHERE id = $2 AND action_type = 'reply'`

	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update reply status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update reply status: task %d is not a reply task", id)
	}
	return nil
}
