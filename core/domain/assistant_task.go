package domain

import (
	"fmt"
	"time"
)

// ReplyStatus tracks the lifecycle of a drafted reply. Only reply tasks carry
// one; it is advanced externally by the approval/send flow.
type ReplyStatus string

const (
	ReplyStatusPending  ReplyStatus = "pending"
	ReplyStatusApproved ReplyStatus = "approved"
	ReplyStatusSent     ReplyStatus = "sent"
)

// Task is a persisted action item materialized from an actionable email.
type Task struct {
	ID             int64        `json:"id" db:"id"`
	UserID         string       `json:"user_id" db:"user_id"`
	Title          string       `json:"title" db:"title"`
	Description    string       `json:"description" db:"description"`
	ActionRequired bool         `json:"action_required" db:"action_required"`
	EmailID        string       `json:"email_id" db:"email_id"`
	ActionType     ActionType   `json:"action_type" db:"action_type"`
	DraftReply     *string      `json:"draft_reply,omitempty" db:"draft_reply"`
	ReplyStatus    *ReplyStatus `json:"reply_status,omitempty" db:"reply_status"`
	ThreadID       string       `json:"thread_id" db:"thread_id"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
}

// TaskFromEmail builds the task record for one actionable classified email.
// Reply tasks carry the drafted reply with a pending status; other action
// types leave both unset.
func TaskFromEmail(userID string, e ClassifiedEmail) *Task {
	c := e.Classification

	task := &Task{
		UserID: userID,
		Title:  fmt.Sprintf("%s: %s", c.ActionType, e.Email.Subject),
		Description: fmt.Sprintf("From: %s\nDate: %s\n\nAction Required: %s\n\nEmail Preview: %s",
			e.Email.From,
			e.Email.Date.Format("1/2/2006, 3:04:05 PM"),
			c.ActionDescription,
			e.Email.Snippet),
		ActionRequired: true,
		EmailID:        e.Email.ID,
		ActionType:     c.ActionType,
		ThreadID:       e.Email.ThreadID,
	}

	if c.ActionType == ActionReply {
		draft := c.DraftReply
		status := ReplyStatusPending
		task.DraftReply = &draft
		task.ReplyStatus = &status
	}

	return task
}
