package out

import "context"

// TokenVerifier checks whether an access token is valid. Verification failure
// is fatal for a sync run and is never retried.
type TokenVerifier interface {
	Verify(ctx context.Context, accessToken string) error
}
