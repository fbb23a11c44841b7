package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
)

func newAuthCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to Google Calendar and cache the token",
		Long: `Authorize agenda to read your calendars. The consent URL is printed and a
local callback server receives the result. The token is saved to the path
given by --token. A cached token is reused or refreshed unless --force is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := newSession(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer s.close(ctx)

			creds, err := s.credentials()
			if err != nil {
				return err
			}

			// Unreadable or missing caches are handled by the provider.
			cached, _ := creds.store.Load()

			var token *oauth2.Token
			if force {
				token, err = creds.provider.Authorize(ctx)
			} else {
				token, err = creds.provider.Token(ctx)
			}
			if err != nil {
				return err
			}

			s.logger.Debug("token ready", slog.Time("expiry", token.Expiry))

			_, err = fmt.Fprintln(cmd.OutOrStdout(), authResult(creds.store.Path(), cached, token))
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Authorize again even if a usable token is cached")
	return cmd
}

// authResult describes whether token was reused from the cache at path or
// newly written there.
func authResult(path string, cached, token *oauth2.Token) string {
	if cached != nil && token.AccessToken == cached.AccessToken {
		return fmt.Sprintf("Token is valid (%s)", path)
	}
	return fmt.Sprintf("Token saved to %s", path)
}
