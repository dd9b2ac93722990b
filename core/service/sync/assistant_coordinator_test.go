package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/priyankc/PersonalAssistantBackend/core/domain"
	"github.com/priyankc/PersonalAssistantBackend/pkg/apperr"
)

type fakeVerifier struct {
	err error
}

func (f *fakeVerifier) Verify(ctx context.Context, accessToken string) error {
	return f.err
}

type fakeHistory struct {
	checkpoint  *time.Time
	readErr     error
	appendErr   error
	checkpoints []*domain.SyncCheckpoint
}

func (f *fakeHistory) LastSyncTime(ctx context.Context, userID string) (*time.Time, error) {
	return f.checkpoint, f.readErr
}

func (f *fakeHistory) AppendCheckpoint(ctx context.Context, cp *domain.SyncCheckpoint) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.checkpoints = append(f.checkpoints, cp)
	return nil
}

type fakeMaterializer struct {
	created int
	emails  []domain.ClassifiedEmail
}

func (f *fakeMaterializer) CreateTasks(ctx context.Context, userID string, emails []domain.ClassifiedEmail) int {
	f.emails = emails
	return f.created
}

func newTestCoordinator(provider *fakeProvider, classifier *fakeClassifier, verifier *fakeVerifier, history *fakeHistory, materializer *fakeMaterializer, now time.Time) *Coordinator {
	window := domain.NewWindowPolicy()
	window.Now = func() time.Time { return now }

	processor := NewBatchProcessor(provider, classifier, window, DefaultBatchConfig())
	processor.pause = func(ctx context.Context, d time.Duration) error { return nil }

	c := NewCoordinator(verifier, provider, processor, materializer, history, window)
	c.now = func() time.Time { return now }
	return c
}

func TestCoordinatorRunSync(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	provider := &fakeProvider{
		messages: rawMessages("a", "b", "c"),
		details: map[string]*domain.MessageDetail{
			"a": detailInWindow("a"),
			"b": detailInWindow("b"),
			"c": detailInWindow("c"),
		},
	}
	classifier := &fakeClassifier{verdicts: map[string]domain.Classification{
		"a": {ActionNeeded: true, Priority: domain.PriorityHigh, ActionType: domain.ActionReply, DraftReply: "On it."},
		"b": domain.SkipVerdict("Marketing or promotional email"),
	}}
	history := &fakeHistory{}
	materializer := &fakeMaterializer{created: 2}

	c := newTestCoordinator(provider, classifier, &fakeVerifier{}, history, materializer, now)

	result, err := c.RunSync(context.Background(), "user-1", "token")
	if err != nil {
		t.Fatalf("RunSync() error = %v", err)
	}

	if result.EmailsProcessed != 3 {
		t.Errorf("EmailsProcessed = %d, want 3", result.EmailsProcessed)
	}
	if result.TasksCreated != 2 {
		t.Errorf("TasksCreated = %d, want 2", result.TasksCreated)
	}
	if !result.LastSync.Equal(now) {
		t.Errorf("LastSync = %v, want %v", result.LastSync, now)
	}

	// The skip verdict is filtered before materialization; remaining emails
	// arrive priority-ordered.
	if len(materializer.emails) != 2 {
		t.Fatalf("materialized %d emails, want 2", len(materializer.emails))
	}
	if materializer.emails[0].Email.ID != "a" || materializer.emails[1].Email.ID != "c" {
		t.Errorf("materialized order = %q, %q; want a, c",
			materializer.emails[0].Email.ID, materializer.emails[1].Email.ID)
	}

	if len(history.checkpoints) != 1 {
		t.Fatalf("checkpoints appended = %d, want 1", len(history.checkpoints))
	}
	cp := history.checkpoints[0]
	if cp.UserID != "user-1" || cp.EmailsProcessed != 3 || cp.TasksCreated != 2 {
		t.Errorf("checkpoint = %+v", cp)
	}
	if !cp.LastSyncTime.Equal(now) {
		t.Errorf("checkpoint time = %v, want %v", cp.LastSyncTime, now)
	}
}

func TestCoordinatorValidation(t *testing.T) {
	provider := &fakeProvider{}
	c := newTestCoordinator(provider, &fakeClassifier{}, &fakeVerifier{}, &fakeHistory{}, &fakeMaterializer{}, time.Now())

	if _, err := c.RunSync(context.Background(), "", "token"); !apperr.IsCode(err, apperr.CodeMissingField) {
		t.Errorf("empty user: err = %v, want missing field", err)
	}
	if _, err := c.RunSync(context.Background(), "user-1", ""); !apperr.IsCode(err, apperr.CodeMissingField) {
		t.Errorf("empty token: err = %v, want missing field", err)
	}
	if provider.listCalls != 0 || len(provider.fetched) != 0 {
		t.Error("validation failures must not reach the provider")
	}
}

func TestCoordinatorInvalidToken(t *testing.T) {
	history := &fakeHistory{}
	c := newTestCoordinator(&fakeProvider{}, &fakeClassifier{}, &fakeVerifier{err: errors.New("expired")}, history, &fakeMaterializer{}, time.Now())

	_, err := c.RunSync(context.Background(), "user-1", "bad-token")
	if !apperr.IsCode(err, apperr.CodeInvalidToken) {
		t.Fatalf("err = %v, want invalid token", err)
	}
	if len(history.checkpoints) != 0 {
		t.Error("no checkpoint should be written on a failed run")
	}
}

func TestCoordinatorListFailureLeavesCheckpoint(t *testing.T) {
	history := &fakeHistory{}
	provider := &fakeProvider{listErr: errors.New("quota exhausted")}
	c := newTestCoordinator(provider, &fakeClassifier{}, &fakeVerifier{}, history, &fakeMaterializer{}, time.Now())

	_, err := c.RunSync(context.Background(), "user-1", "token")
	if !apperr.IsCode(err, apperr.CodeProviderError) {
		t.Fatalf("err = %v, want provider error", err)
	}
	if len(history.checkpoints) != 0 {
		t.Error("failed run must not advance the checkpoint")
	}
}

func TestCoordinatorCheckpointWriteFailure(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	provider := &fakeProvider{
		messages: rawMessages("a"),
		details:  map[string]*domain.MessageDetail{"a": detailInWindow("a")},
	}
	history := &fakeHistory{appendErr: errors.New("connection reset")}
	c := newTestCoordinator(provider, &fakeClassifier{}, &fakeVerifier{}, history, &fakeMaterializer{created: 1}, now)

	_, err := c.RunSync(context.Background(), "user-1", "token")
	if !apperr.IsCode(err, apperr.CodeDatabaseError) {
		t.Fatalf("err = %v, want database error", err)
	}
}

func TestCoordinatorUsesCheckpointAsFloor(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	checkpoint := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	// Dated Mar 2: after now-20d but before the Mar 5 checkpoint. With a
	// checkpoint present it must be excluded.
	stale := detailInWindow("stale")
	stale.Headers[2].Value = "Mon, 2 Mar 2026 10:00:00 +0000"
	fresh := detailInWindow("fresh")
	fresh.Headers[2].Value = "Sun, 8 Mar 2026 10:00:00 +0000"

	provider := &fakeProvider{
		messages: rawMessages("stale", "fresh"),
		details:  map[string]*domain.MessageDetail{"stale": stale, "fresh": fresh},
	}
	history := &fakeHistory{checkpoint: &checkpoint}
	materializer := &fakeMaterializer{created: 1}
	c := newTestCoordinator(provider, &fakeClassifier{}, &fakeVerifier{}, history, materializer, now)

	result, err := c.RunSync(context.Background(), "user-1", "token")
	if err != nil {
		t.Fatalf("RunSync() error = %v", err)
	}
	if result.EmailsProcessed != 1 {
		t.Errorf("EmailsProcessed = %d, want 1 (checkpoint excludes the older email)", result.EmailsProcessed)
	}
	if len(materializer.emails) != 1 || materializer.emails[0].Email.ID != "fresh" {
		t.Errorf("materialized = %v, want only fresh", materializer.emails)
	}
}
