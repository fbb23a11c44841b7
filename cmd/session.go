package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/teemow/agenda/internal/calendar"
	"github.com/teemow/agenda/internal/google"
	"github.com/teemow/agenda/internal/instrumentation"
	"github.com/teemow/agenda/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// session carries the logger, instrumentation and credentials of one
// command invocation.
type session struct {
	cmd      *cobra.Command
	opts     *rootOptions
	logger   *slog.Logger
	provider *instrumentation.Provider
}

func newSession(ctx context.Context, cmd *cobra.Command, opts *rootOptions) (*session, error) {
	level := "info"
	if opts.debug {
		level = "debug"
	}
	logger, err := logging.NewLogger(cmd.ErrOrStderr(), level, opts.logFormat)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrumentation provider: %w", err)
	}

	return &session{
		cmd:      cmd,
		opts:     opts,
		logger:   logger,
		provider: provider,
	}, nil
}

// close flushes instrumentation. It runs even when ctx was cancelled by a
// signal so that the metrics textfile is still written.
func (s *session) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := s.provider.Shutdown(ctx); err != nil {
		s.logger.Warn("instrumentation shutdown failed", logging.Err(err))
	}
}

// credentials bundles the OAuth client configuration with the token cache.
type credentials struct {
	conf     *oauth2.Config
	store    *google.TokenStore
	provider *google.FileTokenProvider
}

func (s *session) authorizer() *google.LoopbackFlow {
	return &google.LoopbackFlow{
		Out:    s.cmd.ErrOrStderr(),
		Logger: s.logger,
	}
}

func (s *session) credentials() (*credentials, error) {
	conf, err := google.LoadOAuthConfig(s.opts.credentialsPath)
	if err != nil {
		return nil, err
	}

	store := google.NewTokenStore(s.opts.tokenPath)
	provider := google.NewFileTokenProvider(conf, store,
		google.WithAuthorizer(s.authorizer()),
		google.WithLogger(s.logger),
		google.WithMetrics(s.provider.Metrics()),
	)
	return &credentials{conf: conf, store: store, provider: provider}, nil
}

// calendarClient returns a Calendar client, authorizing the user first when
// no usable token is cached.
func (s *session) calendarClient(ctx context.Context) (*calendar.Client, error) {
	creds, err := s.credentials()
	if err != nil {
		return nil, err
	}

	return calendar.NewClientWithProvider(ctx, creds.conf, creds.provider, creds.store,
		calendar.WithLogger(s.logger),
		calendar.WithMetrics(s.provider.Metrics()),
	)
}
