// Package llm provides the OpenAI email triage adapter.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/priyankc/PersonalAssistantBackend/core/domain"
	"github.com/priyankc/PersonalAssistantBackend/core/port/out"
	"github.com/priyankc/PersonalAssistantBackend/pkg/httputil"
	"github.com/priyankc/PersonalAssistantBackend/pkg/logger"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

const degradedReason = "Error in analysis"

const systemPrompt = `You are an email assistant that analyzes emails and suggests actions.
Skip marketing, sales, and update emails.
For important emails, suggest specific actions like "reply", "schedule meeting", "follow up", etc.
If action is 'reply', provide a draft reply that is professional and contextually appropriate.
Provide brief, specific action descriptions when needed.

For reply actions, format your response as:
ACTION: reply
PRIORITY: [priority]
DRAFT_REPLY: [your suggested reply]
REASON: [reason for reply]`

// Classifier implements out.Classifier on the OpenAI chat completion API.
// The transport is wrapped in a circuit breaker so a dead endpoint fails fast
// instead of burning the whole run budget on timeouts.
type Classifier struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	cb          *gobreaker.CircuitBreaker
}

// ClassifierConfig holds OpenAI classifier configuration.
type ClassifierConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	BaseURL     string // override for tests
}

const defaultModel = "gpt-4o"

// NewClassifier creates an OpenAI classifier.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.HTTPClient = httputil.OpenAIClient()
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	cbSettings := gobreaker.Settings{
		Name:     "openai-triage",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("[CircuitBreaker] %s: state changed from %s to %s", name, from.String(), to.String())
		},
	}

	return &Classifier{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
		cb:          gobreaker.NewCircuitBreaker(cbSettings),
	}
}

// Classify invokes the triage completion and parses the free-text verdict.
// Transport failures, a tripped breaker and unparseable responses all degrade
// to a skip verdict; classification never fails a run.
func (c *Classifier) Classify(ctx context.Context, email *domain.NormalizedEmail) domain.Classification {
	userPrompt := fmt.Sprintf(`Analyze this email:
From: %s
Subject: %s
Preview: %s

Determine if this needs action and what type. Return only important business or personal emails.`,
		email.From, email.Subject, email.Snippet)

	result, err := c.cb.Execute(func() (interface{}, error) {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			MaxTokens:   c.maxTokens,
			Temperature: c.temperature,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("empty completion response")
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		logger.WithError(err).Warn("Classification failed for email %s, degrading to skip", email.ID)
		return domain.SkipVerdict(degradedReason)
	}

	return ParseVerdict(result.(string))
}

// Ensure Classifier implements out.Classifier.
var _ out.Classifier = (*Classifier)(nil)
