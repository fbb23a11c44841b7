package google

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"

	"github.com/teemow/agenda/internal/logging"
)

// DefaultAuthTimeout bounds how long the loopback flow waits for the browser.
const DefaultAuthTimeout = 5 * time.Minute

const callbackPage = `<html><body><p>Authorization complete. You may close this window.</p></body></html>`

// LoopbackFlow runs the installed-app authorization flow. It listens on a
// random loopback port, asks the user to open the consent URL and exchanges
// the code delivered to the redirect.
type LoopbackFlow struct {
	// Out receives the consent URL prompt. Defaults to os.Stderr.
	Out io.Writer

	// Prompt, when set, replaces the default prompt written to Out.
	Prompt func(authURL string) error

	// Timeout bounds the wait for the redirect. Defaults to DefaultAuthTimeout.
	Timeout time.Duration

	Logger *slog.Logger
}

type callbackResult struct {
	code string
	err  error
}

// Authorize implements Authorizer.
func (f *LoopbackFlow) Authorize(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logging.WithOperation(logger, "oauth.loopback")

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultAuthTimeout
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to listen for OAuth redirect: %w", err)
	}

	redirect := *conf
	redirect.RedirectURL = "http://" + ln.Addr().String() + "/"

	state, err := randomState()
	if err != nil {
		ln.Close()
		return nil, err
	}
	verifier := oauth2.GenerateVerifier()

	results := make(chan callbackResult, 1)
	srv := &http.Server{
		Handler:           callbackHandler(state, results),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			deliver(results, callbackResult{err: fmt.Errorf("OAuth redirect server failed: %w", err)})
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Debug("redirect server shutdown", logging.Err(err))
		}
	}()

	authURL := redirect.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))
	if err := f.prompt(authURL); err != nil {
		return nil, err
	}
	logger.Debug("waiting for OAuth redirect", slog.String("redirect_url", redirect.RedirectURL))

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var res callbackResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, fmt.Errorf("timed out after %s waiting for authorization", timeout)
	case res = <-results:
	}
	if res.err != nil {
		return nil, res.err
	}

	token, err := redirect.Exchange(ctx, res.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return token, nil
}

func (f *LoopbackFlow) prompt(authURL string) error {
	if f.Prompt != nil {
		return f.Prompt(authURL)
	}
	out := f.Out
	if out == nil {
		out = os.Stderr
	}
	_, err := fmt.Fprintf(out, "Open the following URL in your browser to authorize access to your calendars:\n\n%s\n\n", authURL)
	return err
}

func callbackHandler(state string, results chan<- callbackResult) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		switch {
		case q.Get("state") != state:
			// Unrelated requests (favicon, stale tabs, forged errors) must not
			// end the flow.
			http.Error(w, "Invalid state.", http.StatusBadRequest)
		case q.Get("error") != "":
			http.Error(w, "Authorization failed.", http.StatusBadRequest)
			deliver(results, callbackResult{err: fmt.Errorf("authorization denied: %s", q.Get("error"))})
		case q.Get("code") == "":
			http.Error(w, "Missing authorization code.", http.StatusBadRequest)
		default:
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = io.WriteString(w, callbackPage)
			deliver(results, callbackResult{code: q.Get("code")})
		}
	})
}

// deliver sends res unless a result is already pending.
func deliver(results chan<- callbackResult, res callbackResult) {
	select {
	case results <- res:
	default:
	}
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate OAuth state: %w", err)
	}
	return hex.EncodeToString(b), nil
}
