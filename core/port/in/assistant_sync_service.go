package in

import (
	"context"

	"github.com/priyankc/PersonalAssistantBackend/core/domain"
)

// SyncService runs the email sync and task generation pipeline for one user.
type SyncService interface {
	RunSync(ctx context.Context, userID, accessToken string) (*domain.SyncResult, error)
}

// ReplyService sends the drafted reply of an approved reply task.
type ReplyService interface {
	SendTaskReply(ctx context.Context, taskID int64, accessToken string) error
}
