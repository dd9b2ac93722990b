package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/priyankc/PersonalAssistantBackend/core/domain"
)

func testEmail() *domain.NormalizedEmail {
	return &domain.NormalizedEmail{
		ID:      "msg-1",
		Subject: "Quarterly review",
		From:    "Jane Doe",
		Date:    time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC),
		Snippet: "can you send the numbers",
	}
}

func TestClassifySuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"You should respond to this colleague."}}]}`))
	}))
	defer server.Close()

	c := NewClassifier(ClassifierConfig{APIKey: "test-key", BaseURL: server.URL})

	got := c.Classify(context.Background(), testEmail())
	if !got.ActionNeeded {
		t.Fatal("ActionNeeded = false, want true")
	}
	if got.ActionType != domain.ActionReply {
		t.Errorf("ActionType = %q, want reply", got.ActionType)
	}
	if got.Priority != domain.PriorityMedium {
		t.Errorf("Priority = %q, want medium", got.Priority)
	}
}

func TestClassifyTransportFailureDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClassifier(ClassifierConfig{APIKey: "test-key", BaseURL: server.URL})

	got := c.Classify(context.Background(), testEmail())
	if got.ActionNeeded {
		t.Error("degraded verdict must not need action")
	}
	if got.Priority != domain.PrioritySkip {
		t.Errorf("Priority = %q, want skip", got.Priority)
	}
	if got.Reason != "Error in analysis" {
		t.Errorf("Reason = %q", got.Reason)
	}
}

func TestClassifyEmptyChoicesDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	c := NewClassifier(ClassifierConfig{APIKey: "test-key", BaseURL: server.URL})

	got := c.Classify(context.Background(), testEmail())
	if got.Priority != domain.PrioritySkip {
		t.Errorf("Priority = %q, want skip", got.Priority)
	}
}

func TestClassifyBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClassifier(ClassifierConfig{APIKey: "test-key", BaseURL: server.URL})

	// The breaker trips after 6 consecutive failures; later calls degrade
	// without reaching the endpoint.
	for i := 0; i < 8; i++ {
		got := c.Classify(context.Background(), testEmail())
		if got.Priority != domain.PrioritySkip {
			t.Fatalf("call %d: Priority = %q, want skip", i, got.Priority)
		}
	}

	if n := hits.Load(); n != 6 {
		t.Errorf("endpoint hits = %d, want 6 (breaker should short-circuit the rest)", n)
	}
}
