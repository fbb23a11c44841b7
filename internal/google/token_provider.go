package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"

	"github.com/teemow/agenda/internal/instrumentation"
	"github.com/teemow/agenda/internal/logging"
)

// TokenProvider is an interface for providing OAuth tokens for Google APIs
// This abstraction allows different token sources (file-based, static, etc.)
type TokenProvider interface {
	// Token returns a token that is valid now.
	Token(ctx context.Context) (*oauth2.Token, error)
}

// Authorizer obtains a new token through user interaction.
type Authorizer interface {
	Authorize(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error)
}

// FileTokenProvider provides tokens cached in a TokenStore.
//
// A valid cached token is returned as is. An expired token with a refresh
// token is refreshed. When neither works and an Authorizer is set, the user
// is asked to authorize again. Every new token is saved back to the store.
type FileTokenProvider struct {
	config     *oauth2.Config
	store      *TokenStore
	authorizer Authorizer
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
}

// FileTokenProviderOption configures a FileTokenProvider.
type FileTokenProviderOption func(*FileTokenProvider)

// WithAuthorizer sets the interactive fallback used when no usable token is cached.
func WithAuthorizer(a Authorizer) FileTokenProviderOption {
	return func(p *FileTokenProvider) { p.authorizer = a }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) FileTokenProviderOption {
	return func(p *FileTokenProvider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics records token refreshes and authorizations.
func WithMetrics(m *instrumentation.Metrics) FileTokenProviderOption {
	return func(p *FileTokenProvider) { p.metrics = m }
}

// NewFileTokenProvider creates a new file-based token provider
func NewFileTokenProvider(conf *oauth2.Config, store *TokenStore, opts ...FileTokenProviderOption) *FileTokenProvider {
	p := &FileTokenProvider{
		config: conf,
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Token returns a usable token, refreshing or re-authorizing as needed.
func (p *FileTokenProvider) Token(ctx context.Context) (*oauth2.Token, error) {
	logger := logging.WithOperation(p.logger, "oauth.token")

	cached, err := p.store.Load()
	switch {
	case err == nil && cached.Valid():
		logger.Debug("using cached token", slog.String("path", p.store.Path()))
		return cached, nil

	case err == nil && cached.RefreshToken != "":
		token, refreshErr := p.refresh(ctx, cached)
		if refreshErr == nil {
			return token, nil
		}
		logger.Warn("token refresh failed, authorization required", logging.Err(refreshErr))

	case err != nil && !errors.Is(err, ErrNoToken):
		logger.Warn("ignoring unreadable token cache", logging.Err(err))
	}

	if p.authorizer == nil {
		return nil, fmt.Errorf("%w in %s; run the auth command first", ErrNoToken, p.store.Path())
	}
	return p.authorize(ctx)
}

// Authorize ignores the cached token and runs the interactive authorization.
func (p *FileTokenProvider) Authorize(ctx context.Context) (*oauth2.Token, error) {
	if p.authorizer == nil {
		return nil, fmt.Errorf("%w: no authorizer configured", ErrNoToken)
	}
	return p.authorize(ctx)
}

func (p *FileTokenProvider) refresh(ctx context.Context, cached *oauth2.Token) (*oauth2.Token, error) {
	// Clear the access token so the token source always hits the endpoint.
	expired := *cached
	expired.AccessToken = ""

	token, err := p.config.TokenSource(ctx, &expired).Token()
	if err != nil {
		p.metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultFailure)
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	p.metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultSuccess)

	// Google omits the refresh token on refresh responses.
	if token.RefreshToken == "" {
		token.RefreshToken = cached.RefreshToken
	}

	if err := p.store.Save(token); err != nil {
		return nil, err
	}
	p.logger.Info("refreshed OAuth token",
		logging.Operation("oauth.refresh"),
		slog.String("token", logging.SanitizeToken(token.AccessToken)))
	return token, nil
}

func (p *FileTokenProvider) authorize(ctx context.Context) (*oauth2.Token, error) {
	token, err := p.authorizer.Authorize(ctx, p.config)
	if err != nil {
		p.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		return nil, fmt.Errorf("authorization failed: %w", err)
	}
	p.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultSuccess)

	if err := p.store.Save(token); err != nil {
		return nil, err
	}
	p.logger.Info("saved new OAuth token",
		logging.Operation("oauth.authorize"),
		slog.String("path", p.store.Path()))
	return token, nil
}
