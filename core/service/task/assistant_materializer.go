// Package task converts classified emails into persisted task records and
// drives the reply send flow.
package task

import (
	"context"

	"github.com/priyankc/PersonalAssistantBackend/core/domain"
	"github.com/priyankc/PersonalAssistantBackend/core/port/out"
	"github.com/priyankc/PersonalAssistantBackend/pkg/logger"
)

// Materializer creates task rows from actionable classified emails.
type Materializer struct {
	tasks out.TaskRepository
}

// NewMaterializer creates a task materializer.
func NewMaterializer(tasks out.TaskRepository) *Materializer {
	return &Materializer{tasks: tasks}
}

// CreateTasks inserts one task per actionable email and returns the number of
// rows actually created. Emails without an action needed or action type are
// re-filtered here even though upstream filtering should already exclude
// them. Inserts are row-at-a-time; a failed or conflicting insert is counted
// as not-created and the remaining inserts proceed.
func (m *Materializer) CreateTasks(ctx context.Context, userID string, emails []domain.ClassifiedEmail) int {
	created := 0
	for _, e := range emails {
		if !e.Classification.ActionNeeded || e.Classification.ActionType == "" {
			continue
		}

		ok, err := m.tasks.CreateTask(ctx, domain.TaskFromEmail(userID, e))
		if err != nil {
			logger.WithError(err).Warn("Failed to create task for email %s", e.Email.ID)
			continue
		}
		if !ok {
			logger.Debug("Task for email %s already exists, skipping", e.Email.ID)
			continue
		}
		created++
	}
	return created
}
