// Package auth provides the Google token verification adapter.
package auth

import (
	"context"
	"fmt"

	"github.com/priyankc/PersonalAssistantBackend/core/port/out"
	"github.com/priyankc/PersonalAssistantBackend/pkg/httputil"

	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// GoogleVerifier validates access tokens against the Google tokeninfo
// endpoint. Any non-success response means the token is invalid or expired.
type GoogleVerifier struct {
	opts []option.ClientOption
}

// NewGoogleVerifier creates a Google token verifier. Extra options allow
// endpoint override in tests.
func NewGoogleVerifier(opts ...option.ClientOption) *GoogleVerifier {
	return &GoogleVerifier{
		opts: append([]option.ClientOption{option.WithHTTPClient(httputil.DefaultClient())}, opts...),
	}
}

// Verify checks the token with the tokeninfo endpoint.
func (v *GoogleVerifier) Verify(ctx context.Context, accessToken string) error {
	svc, err := oauth2api.NewService(ctx, v.opts...)
	if err != nil {
		return fmt.Errorf("failed to create oauth2 service: %w", err)
	}

	if _, err := svc.Tokeninfo().AccessToken(accessToken).Context(ctx).Do(); err != nil {
		return fmt.Errorf("invalid or expired access token: %w", err)
	}
	return nil
}

// Ensure GoogleVerifier implements out.TokenVerifier.
var _ out.TokenVerifier = (*GoogleVerifier)(nil)
