package task

import (
	"context"
	"errors"
	"testing"

	"github.com/priyankc/PersonalAssistantBackend/core/domain"
	"github.com/priyankc/PersonalAssistantBackend/pkg/apperr"
)

type fakeMailSender struct {
	sentThread string
	sentBody   string
	err        error
}

func (f *fakeMailSender) ListMessages(ctx context.Context, accessToken string) ([]domain.RawMessage, error) {
	return nil, nil
}

func (f *fakeMailSender) FetchMessage(ctx context.Context, accessToken, messageID string) (*domain.MessageDetail, error) {
	return nil, nil
}

func (f *fakeMailSender) SendReply(ctx context.Context, accessToken, threadID, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sentThread = threadID
	f.sentBody = body
	return nil
}

func replyTask(id int64, status domain.ReplyStatus, draft string) *domain.Task {
	var draftPtr *string
	if draft != "" {
		draftPtr = &draft
	}
	return &domain.Task{
		ID:          id,
		UserID:      "user-1",
		ActionType:  domain.ActionReply,
		DraftReply:  draftPtr,
		ReplyStatus: &status,
		ThreadID:    "thread-9",
	}
}

func TestSendTaskReply(t *testing.T) {
	repo := &fakeTaskRepo{tasks: map[int64]*domain.Task{
		7: replyTask(7, domain.ReplyStatusApproved, "Sounds good, see you then."),
	}}
	sender := &fakeMailSender{}
	s := NewReplyService(repo, sender)

	if err := s.SendTaskReply(context.Background(), 7, "token"); err != nil {
		t.Fatalf("SendTaskReply() error = %v", err)
	}
	if sender.sentThread != "thread-9" {
		t.Errorf("sent thread = %q, want thread-9", sender.sentThread)
	}
	if sender.sentBody != "Sounds good, see you then." {
		t.Errorf("sent body = %q", sender.sentBody)
	}
	if repo.updates[7] != domain.ReplyStatusSent {
		t.Errorf("status = %q, want sent", repo.updates[7])
	}
}

func TestSendTaskReplyGuards(t *testing.T) {
	pending := replyTask(2, domain.ReplyStatusPending, "draft")
	noDraft := replyTask(3, domain.ReplyStatusApproved, "")
	notReply := replyTask(4, domain.ReplyStatusApproved, "draft")
	notReply.ActionType = domain.ActionFollowUp

	repo := &fakeTaskRepo{tasks: map[int64]*domain.Task{
		2: pending,
		3: noDraft,
		4: notReply,
	}}
	s := NewReplyService(repo, &fakeMailSender{})

	tests := []struct {
		name     string
		taskID   int64
		wantCode string
	}{
		{"missing task", 99, apperr.CodeNotFound},
		{"not yet approved", 2, apperr.CodeBadRequest},
		{"approved without draft", 3, apperr.CodeBadRequest},
		{"not a reply task", 4, apperr.CodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.SendTaskReply(context.Background(), tt.taskID, "token")
			if !apperr.IsCode(err, tt.wantCode) {
				t.Errorf("err = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestSendTaskReplyProviderFailure(t *testing.T) {
	repo := &fakeTaskRepo{tasks: map[int64]*domain.Task{
		7: replyTask(7, domain.ReplyStatusApproved, "draft"),
	}}
	s := NewReplyService(repo, &fakeMailSender{err: errors.New("smtp unavailable")})

	err := s.SendTaskReply(context.Background(), 7, "token")
	if !apperr.IsCode(err, apperr.CodeProviderError) {
		t.Fatalf("err = %v, want provider error", err)
	}
	if len(repo.updates) != 0 {
		t.Error("status must not advance when the send fails")
	}
}

func TestSendTaskReplyStatusUpdateFailureIsNotFatal(t *testing.T) {
	repo := &fakeTaskRepo{
		tasks:     map[int64]*domain.Task{7: replyTask(7, domain.ReplyStatusApproved, "draft")},
		updateErr: errors.New("connection reset"),
	}
	sender := &fakeMailSender{}
	s := NewReplyService(repo, sender)

	if err := s.SendTaskReply(context.Background(), 7, "token"); err != nil {
		t.Fatalf("SendTaskReply() error = %v, send succeeded so the call must too", err)
	}
	if sender.sentThread == "" {
		t.Error("reply should have been sent")
	}
}
