package http

import (
	"context"
	"testing"

	"github.com/priyankc/PersonalAssistantBackend/infra/middleware"
	"github.com/priyankc/PersonalAssistantBackend/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

type fakeReplyService struct {
	err    error
	sentID int64
}

func (f *fakeReplyService) SendTaskReply(ctx context.Context, taskID int64, accessToken string) error {
	if f.err != nil {
		return f.err
	}
	f.sentID = taskID
	return nil
}

func newTaskTestApp(service *fakeReplyService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	NewTaskHandler(service).Register(app.Group("/api/v1"))
	return app
}

func TestTaskHandlerSendReply(t *testing.T) {
	service := &fakeReplyService{}
	app := newTaskTestApp(service)

	status, body, err := postJSON(app, "/api/v1/tasks/42/reply", `{"access_token":"token"}`)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", status, body)
	}
	if service.sentID != 42 {
		t.Errorf("sent task = %d, want 42", service.sentID)
	}
}

func TestTaskHandlerSendReplyErrors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		serviceErr error
		wantStatus int
	}{
		{"non-numeric id", "/api/v1/tasks/abc/reply", `{"access_token":"token"}`, nil, fiber.StatusBadRequest},
		{"missing token", "/api/v1/tasks/42/reply", `{}`, nil, fiber.StatusBadRequest},
		{"unknown task", "/api/v1/tasks/42/reply", `{"access_token":"token"}`, apperr.NotFound("task"), fiber.StatusNotFound},
		{"not approved", "/api/v1/tasks/42/reply", `{"access_token":"token"}`, apperr.BadRequest("task is not an approved reply"), fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTaskTestApp(&fakeReplyService{err: tt.serviceErr})

			status, body, err := postJSON(app, tt.path, tt.body)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", status, tt.wantStatus, body)
			}
		})
	}
}
