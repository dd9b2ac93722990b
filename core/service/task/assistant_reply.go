package task

import (
	"context"

	"github.com/priyankc/PersonalAssistantBackend/core/domain"
	"github.com/priyankc/PersonalAssistantBackend/core/port/out"
	"github.com/priyankc/PersonalAssistantBackend/pkg/apperr"
	"github.com/priyankc/PersonalAssistantBackend/pkg/logger"
)

// ReplyService sends the drafted reply of an approved reply task and marks it
// sent. This is a one-shot action separate from the sync pipeline.
type ReplyService struct {
	tasks    out.TaskRepository
	provider out.MailProvider
}

// NewReplyService creates a reply service.
func NewReplyService(tasks out.TaskRepository, provider out.MailProvider) *ReplyService {
	return &ReplyService{tasks: tasks, provider: provider}
}

// SendTaskReply loads the task, validates it is an approved reply, sends the
// draft on the original thread and advances the status to sent.
func (s *ReplyService) SendTaskReply(ctx context.Context, taskID int64, accessToken string) error {
	t, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return apperr.DatabaseError("load task", err)
	}
	if t == nil {
		return apperr.NotFound("task")
	}

	if t.ActionType != domain.ActionReply || t.ReplyStatus == nil || *t.ReplyStatus != domain.ReplyStatusApproved {
		return apperr.BadRequest("task is not an approved reply")
	}
	if t.DraftReply == nil || *t.DraftReply == "" {
		return apperr.BadRequest("task has no draft reply")
	}

	if err := s.provider.SendReply(ctx, accessToken, t.ThreadID, *t.DraftReply); err != nil {
		return apperr.ProviderError("send reply", err)
	}

	if err := s.tasks.UpdateReplyStatus(ctx, taskID, domain.ReplyStatusSent); err != nil {
		// The reply went out; the stale status is recoverable, so report but
		// do not fail the send.
		logger.WithError(err).Error("Reply sent but status update failed for task %d", taskID)
	}

	return nil
}
