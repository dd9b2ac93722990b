// Package sync implements the email sync and task generation pipeline.
package sync

import (
	"context"
	"time"

	"github.com/priyankc/PersonalAssistantBackend/core/domain"
	"github.com/priyankc/PersonalAssistantBackend/core/port/out"
	"github.com/priyankc/PersonalAssistantBackend/pkg/apperr"
	"github.com/priyankc/PersonalAssistantBackend/pkg/logger"
)

// TaskMaterializer converts actionable classified emails into task records.
type TaskMaterializer interface {
	CreateTasks(ctx context.Context, userID string, emails []domain.ClassifiedEmail) int
}

// Coordinator orchestrates one sync run: window resolution, listing, batched
// classification, filtering, task materialization and the checkpoint write.
type Coordinator struct {
	verifier     out.TokenVerifier
	provider     out.MailProvider
	processor    *BatchProcessor
	materializer TaskMaterializer
	history      out.SyncHistoryRepository
	window       *domain.WindowPolicy

	// now is injectable for tests.
	now func() time.Time
}

// NewCoordinator creates a sync coordinator.
func NewCoordinator(
	verifier out.TokenVerifier,
	provider out.MailProvider,
	processor *BatchProcessor,
	materializer TaskMaterializer,
	history out.SyncHistoryRepository,
	window *domain.WindowPolicy,
) *Coordinator {
	if window == nil {
		window = domain.NewWindowPolicy()
	}
	return &Coordinator{
		verifier:     verifier,
		provider:     provider,
		processor:    processor,
		materializer: materializer,
		history:      history,
		window:       window,
		now:          time.Now,
	}
}

// RunSync runs the pipeline for one user. The checkpoint write is the last
// step: a failure anywhere upstream leaves the previous checkpoint in place,
// so the same window is reprocessed on the next attempt.
func (c *Coordinator) RunSync(ctx context.Context, userID, accessToken string) (*domain.SyncResult, error) {
	if userID == "" {
		return nil, apperr.MissingField("user_id")
	}
	if accessToken == "" {
		return nil, apperr.MissingField("access_token")
	}

	started := c.now()
	log := logger.WithField("user_id", userID)

	// Fatal, no retry: an invalid token fails the run before any fetch.
	if err := c.verifier.Verify(ctx, accessToken); err != nil {
		return nil, apperr.InvalidToken("").WithDetail("cause", err.Error())
	}

	checkpoint, err := c.history.LastSyncTime(ctx, userID)
	if err != nil {
		return nil, apperr.DatabaseError("read sync checkpoint", err)
	}
	floor := c.window.Resolve(checkpoint)
	log.Info("Sync window resolved: floor=%s, checkpoint_present=%v", floor.Format(time.RFC3339), checkpoint != nil)

	messages, err := c.provider.ListMessages(ctx, accessToken)
	if err != nil {
		return nil, apperr.ProviderError("list messages", err)
	}

	classified, err := c.processor.Process(ctx, messages, accessToken, floor)
	if err != nil {
		return nil, err
	}

	actionable := domain.FilterActionable(classified)
	tasksCreated := c.materializer.CreateTasks(ctx, userID, actionable)

	syncTime := c.now()
	err = c.history.AppendCheckpoint(ctx, &domain.SyncCheckpoint{
		UserID:          userID,
		LastSyncTime:    syncTime,
		EmailsProcessed: len(classified),
		TasksCreated:    tasksCreated,
	})
	if err != nil {
		return nil, apperr.DatabaseError("write sync checkpoint", err)
	}

	log.WithDuration(c.now().Sub(started)).Info("Sync complete: %d emails processed, %d tasks created",
		len(classified), tasksCreated)

	return &domain.SyncResult{
		EmailsProcessed: len(classified),
		TasksCreated:    tasksCreated,
		LastSync:        syncTime,
	}, nil
}
