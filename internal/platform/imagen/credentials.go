package imagen

import (
	"context"
	"fmt"

	"github.com/phrazzld/specialist-portraits/internal/generation"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// CloudPlatformScope is the OAuth scope required by the prediction endpoint.
const CloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// DefaultTokenSource resolves Application Default Credentials (the
// GOOGLE_APPLICATION_CREDENTIALS file, gcloud user credentials or the
// metadata server) and returns a source that caches the token until it
// expires and refreshes it afterwards.
func DefaultTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	creds, err := google.FindDefaultCredentials(ctx, CloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrCredentials, err)
	}
	return oauth2.ReuseTokenSource(nil, creds.TokenSource), nil
}

// StaticTokenSource wraps an access token obtained out of band, for example
// from `gcloud auth print-access-token`. It is never refreshed.
func StaticTokenSource(accessToken string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
}
