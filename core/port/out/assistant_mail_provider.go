package out

import (
	"context"

	"github.com/priyankc/PersonalAssistantBackend/core/domain"
)

// MailProvider fetches a user's messages from the mail provider. The access
// token is carried per call because every sync invocation brings its own
// token.
type MailProvider interface {
	// ListMessages returns the most recent message references, bounded by
	// the provider's per-call limit. Called once per run; a failure aborts
	// the run.
	ListMessages(ctx context.Context, accessToken string) ([]domain.RawMessage, error)

	// FetchMessage retrieves the metadata payload for one message. Transient
	// provider failures (429, 5xx) are retried with exponential backoff
	// before the last error is returned.
	FetchMessage(ctx context.Context, accessToken, messageID string) (*domain.MessageDetail, error)

	// SendReply sends a plain-text reply on an existing thread.
	SendReply(ctx context.Context, accessToken, threadID, body string) error
}
