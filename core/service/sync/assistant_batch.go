package sync

import (
	"context"
	"time"

	"github.com/priyankc/PersonalAssistantBackend/core/domain"
	"github.com/priyankc/PersonalAssistantBackend/core/port/out"
	"github.com/priyankc/PersonalAssistantBackend/pkg/logger"
)

// BatchConfig holds pacing parameters for the batch processor.
type BatchConfig struct {
	// BatchSize is the number of messages processed between batch pauses.
	BatchSize int

	// ClassifyPause is inserted after every classified item to respect the
	// triage service's rate limit.
	ClassifyPause time.Duration

	// BatchPause is inserted between consecutive batches.
	BatchPause time.Duration
}

// DefaultBatchConfig returns the stock pacing: batches of 10, 2s after each
// classification, 1s between batches.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		BatchSize:     10,
		ClassifyPause: 2 * time.Second,
		BatchPause:    time.Second,
	}
}

// BatchProcessor drives raw messages through fetch, normalization and
// classification. Items are processed strictly sequentially: the pacing
// exists to satisfy external rate limits, so no parallel fan-out is allowed
// here.
type BatchProcessor struct {
	provider   out.MailProvider
	classifier out.Classifier
	window     *domain.WindowPolicy
	cfg        BatchConfig

	// pause is injectable for tests; the default honors ctx cancellation.
	pause func(ctx context.Context, d time.Duration) error
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(provider out.MailProvider, classifier out.Classifier, window *domain.WindowPolicy, cfg BatchConfig) *BatchProcessor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if window == nil {
		window = domain.NewWindowPolicy()
	}
	return &BatchProcessor{
		provider:   provider,
		classifier: classifier,
		window:     window,
		cfg:        cfg,
		pause:      pauseCtx,
	}
}

// Process runs every message through fetchDetail -> normalize -> classify.
// Per-item failures and window exclusions are logged and omitted; one bad
// email never aborts the batch or the run. Output preserves input ordering
// modulo omissions. Returns an error only when ctx is cancelled.
func (p *BatchProcessor) Process(ctx context.Context, messages []domain.RawMessage, accessToken string, floor time.Time) ([]domain.ClassifiedEmail, error) {
	if floor.IsZero() {
		floor = p.window.Fallback()
	}

	results := make([]domain.ClassifiedEmail, 0, len(messages))
	batches := (len(messages) + p.cfg.BatchSize - 1) / p.cfg.BatchSize

	for start := 0; start < len(messages); start += p.cfg.BatchSize {
		end := start + p.cfg.BatchSize
		if end > len(messages) {
			end = len(messages)
		}
		logger.Debug("Processing batch %d of %d", start/p.cfg.BatchSize+1, batches)

		for _, msg := range messages[start:end] {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			classified, paced := p.processOne(ctx, msg, accessToken, floor)
			if classified != nil {
				results = append(results, *classified)
			}
			if paced {
				if err := p.pause(ctx, p.cfg.ClassifyPause); err != nil {
					return nil, err
				}
			}
		}

		if end < len(messages) {
			if err := p.pause(ctx, p.cfg.BatchPause); err != nil {
				return nil, err
			}
		}
	}

	return results, nil
}

// processOne handles a single message. The second return reports whether a
// classification was attempted and a pacing delay is due.
func (p *BatchProcessor) processOne(ctx context.Context, msg domain.RawMessage, accessToken string, floor time.Time) (*domain.ClassifiedEmail, bool) {
	detail, err := p.provider.FetchMessage(ctx, accessToken, msg.ID)
	if err != nil {
		logger.WithError(err).Warn("Failed to fetch email %s, skipping", msg.ID)
		return nil, false
	}

	email := domain.NormalizeDetail(detail, floor)
	if email == nil {
		logger.Debug("Excluding email %s: missing fields or outside sync window", msg.ID)
		return nil, false
	}

	verdict := p.classifier.Classify(ctx, email)
	return &domain.ClassifiedEmail{Email: *email, Classification: verdict}, true
}

func pauseCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
