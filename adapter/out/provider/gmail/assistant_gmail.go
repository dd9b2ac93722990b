// Package gmail provides the Gmail API mail provider adapter.
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/priyankc/PersonalAssistantBackend/core/domain"
	"github.com/priyankc/PersonalAssistantBackend/core/port/out"
	"github.com/priyankc/PersonalAssistantBackend/pkg/httputil"
	"github.com/priyankc/PersonalAssistantBackend/pkg/retry"

	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// metadataHeaders are the only headers the pipeline needs; fetching
// format=metadata keeps detail payloads small.
var metadataHeaders = []string{"From", "Subject", "Date"}

// Provider implements out.MailProvider for Gmail.
type Provider struct {
	maxResults int64
	fetchRetry *retry.Policy
	httpClient *http.Client

	// extra options for tests (endpoint override).
	opts []option.ClientOption
}

// Config holds Gmail adapter configuration.
type Config struct {
	// MaxResults bounds each list call. Messages beyond the bound are
	// invisible to the current sync.
	MaxResults int

	// FetchMaxAttempts and FetchBaseDelay parameterize the detail-fetch
	// backoff.
	FetchMaxAttempts int
	FetchBaseDelay   time.Duration
}

// NewProvider creates a Gmail provider.
func NewProvider(cfg *Config, opts ...option.ClientOption) *Provider {
	maxResults := int64(100)
	policy := retry.Default(isRetryable)
	if cfg != nil {
		if cfg.MaxResults > 0 {
			maxResults = int64(cfg.MaxResults)
		}
		if cfg.FetchMaxAttempts > 0 {
			policy.MaxAttempts = cfg.FetchMaxAttempts
		}
		if cfg.FetchBaseDelay > 0 {
			policy.BaseDelay = cfg.FetchBaseDelay
		}
	}
	return &Provider{
		maxResults: maxResults,
		fetchRetry: policy,
		httpClient: httputil.GmailClient(),
		opts:       opts,
	}
}

// service builds a Gmail service for one access token. Tokens arrive per
// invocation, so the service is constructed per call.
func (p *Provider) service(ctx context.Context, accessToken string) (*gmailapi.Service, error) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	base := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, p.httpClient), src)

	opts := append([]option.ClientOption{option.WithHTTPClient(base)}, p.opts...)
	svc, err := gmailapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return svc, nil
}

// ListMessages lists the most recent message references. Single call, no
// retry: listing happens once per run and a failure aborts the run.
func (p *Provider) ListMessages(ctx context.Context, accessToken string) ([]domain.RawMessage, error) {
	svc, err := p.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	resp, err := svc.Users.Messages.List("me").
		MaxResults(p.maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages := make([]domain.RawMessage, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		messages = append(messages, domain.RawMessage{ID: m.Id, ThreadID: m.ThreadId})
	}
	return messages, nil
}

// FetchMessage retrieves the metadata payload for one message, retrying 429
// and 5xx responses with exponential backoff. A payload without headers is
// malformed and fails without retry.
func (p *Provider) FetchMessage(ctx context.Context, accessToken, messageID string) (*domain.MessageDetail, error) {
	svc, err := p.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	var msg *gmailapi.Message
	err = p.fetchRetry.Do(ctx, func() error {
		var ferr error
		msg, ferr = svc.Users.Messages.Get("me", messageID).
			Format("metadata").
			MetadataHeaders(metadataHeaders...).
			Context(ctx).
			Do()
		return ferr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message %s: %w", messageID, err)
	}

	if msg.Payload == nil || len(msg.Payload.Headers) == 0 {
		return nil, fmt.Errorf("malformed detail response for message %s: missing headers", messageID)
	}

	detail := &domain.MessageDetail{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Snippet:  msg.Snippet,
		Headers:  make([]domain.MessageHeader, 0, len(msg.Payload.Headers)),
	}
	for _, h := range msg.Payload.Headers {
		detail.Headers = append(detail.Headers, domain.MessageHeader{Name: h.Name, Value: h.Value})
	}
	return detail, nil
}

// SendReply sends a plain-text reply on an existing thread.
func (p *Provider) SendReply(ctx context.Context, accessToken, threadID, body string) error {
	svc, err := p.service(ctx, accessToken)
	if err != nil {
		return err
	}

	raw := "Content-Type: text/plain; charset=\"UTF-8\"\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Transfer-Encoding: 7bit\r\n" +
		"\r\n" + body

	msg := &gmailapi.Message{
		ThreadId: threadID,
		Raw:      base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(raw)),
	}

	if _, err := svc.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

// isRetryable reports whether a Gmail API error is transient: rate limiting
// (429) and server errors (5xx) retry, everything else fails immediately.
func isRetryable(err error) bool {
	if apiErr, ok := err.(*googleapi.Error); ok {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500
	}
	return false
}

// Ensure Provider implements out.MailProvider.
var _ out.MailProvider = (*Provider)(nil)
