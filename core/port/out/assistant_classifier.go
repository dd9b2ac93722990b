package out

import (
	"context"

	"github.com/priyankc/PersonalAssistantBackend/core/domain"
)

// Classifier produces a triage verdict for a normalized email. It never
// returns an error: any transport or parsing failure degrades to a skip
// verdict so one bad classification cannot abort a run.
type Classifier interface {
	Classify(ctx context.Context, email *domain.NormalizedEmail) domain.Classification
}
