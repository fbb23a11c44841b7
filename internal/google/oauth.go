package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DefaultCredentialsPath is the client secrets file read when no path is given.
const DefaultCredentialsPath = "credentials.json"

// ErrNoToken is returned when no cached token exists and none can be obtained.
var ErrNoToken = errors.New("no Google OAuth token found")

// LoadOAuthConfig reads an installed-app client secrets file and returns the
// OAuth2 configuration for the given scopes. DefaultOAuthScopes are used when
// no scopes are passed.
func LoadOAuthConfig(path string, scopes ...string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read client credentials %s: %w", path, err)
	}

	if len(scopes) == 0 {
		scopes = DefaultOAuthScopes
	}

	conf, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client credentials %s: %w", path, err)
	}
	return conf, nil
}

// NewHTTPClient returns an HTTP client that authenticates with the token from
// provider. Tokens refreshed while the client is in use are written back to
// store.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors
func NewHTTPClient(ctx context.Context, conf *oauth2.Config, provider TokenProvider, store *TokenStore) (*http.Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	token, err := provider.Token(ctx)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, NewPersistingTokenSource(ctx, conf, token, store))

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()
	baseTransport.ForceAttemptHTTP2 = false
	transport.Base = baseTransport

	return client, nil
}

// persistingTokenSource saves every token it hands out that differs from the
// last one it saw.
type persistingTokenSource struct {
	base  oauth2.TokenSource
	store *TokenStore
	last  string
}

// NewPersistingTokenSource returns a token source starting from token that
// refreshes through conf and saves refreshed tokens to store. A nil store
// disables saving.
func NewPersistingTokenSource(ctx context.Context, conf *oauth2.Config, token *oauth2.Token, store *TokenStore) oauth2.TokenSource {
	src := &persistingTokenSource{
		base:  conf.TokenSource(ctx, token),
		store: store,
		last:  token.AccessToken,
	}
	return oauth2.ReuseTokenSource(token, src)
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	if s.store != nil && token.AccessToken != s.last {
		if err := s.store.Save(token); err != nil {
			return nil, err
		}
		s.last = token.AccessToken
	}
	return token, nil
}
