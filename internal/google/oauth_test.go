package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const testCredentials = `{
  "installed": {
    "client_id": "test-client.apps.googleusercontent.com",
    "client_secret": "test-secret",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "redirect_uris": ["http://localhost"]
  }
}`

func TestLoadOAuthConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(testCredentials), 0600))

	conf, err := LoadOAuthConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "test-client.apps.googleusercontent.com", conf.ClientID)
	assert.Equal(t, "test-secret", conf.ClientSecret)
	assert.Equal(t, DefaultOAuthScopes, conf.Scopes)
	assert.Equal(t, "https://oauth2.googleapis.com/token", conf.Endpoint.TokenURL)
}

func TestLoadOAuthConfig_CustomScopes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(testCredentials), 0600))

	conf, err := LoadOAuthConfig(path, "scope-a", "scope-b")
	require.NoError(t, err)
	assert.Equal(t, []string{"scope-a", "scope-b"}, conf.Scopes)
}

func TestLoadOAuthConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadOAuthConfig(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"nothing": true}`), 0600))
	_, err = LoadOAuthConfig(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse client credentials")
}

func TestDefaultOAuthScopes(t *testing.T) {
	assert.Equal(t, []string{"https://www.googleapis.com/auth/calendar.readonly"}, DefaultOAuthScopes)
}

// newTokenServer returns a token endpoint that hands out accessToken and
// counts the requests it served.
func newTokenServer(t *testing.T, accessToken string, status int) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if status != http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": accessToken,
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:   "https://accounts.example.com/auth",
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: DefaultOAuthScopes,
	}
}

// fixedToken is a TokenProvider returning one token.
type fixedToken struct{ token *oauth2.Token }

func (f fixedToken) Token(ctx context.Context) (*oauth2.Token, error) {
	return f.token, nil
}

func TestNewHTTPClient_NilProvider(t *testing.T) {
	_, err := NewHTTPClient(context.Background(), testConfig("http://unused"), nil, nil)
	assert.Error(t, err)
}

func TestNewHTTPClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer api.Close()

	token := &oauth2.Token{AccessToken: "cached", TokenType: "Bearer", Expiry: time.Now().Add(time.Hour)}
	client, err := NewHTTPClient(context.Background(), testConfig("http://unused"), fixedToken{token}, nil)
	require.NoError(t, err)

	resp, err := client.Get(api.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer cached", gotAuth)
}

func TestPersistingTokenSource_SavesRefreshedToken(t *testing.T) {
	tokenSrv, calls := newTokenServer(t, "refreshed", http.StatusOK)
	store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))

	expired := &oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(-time.Hour),
	}

	ts := NewPersistingTokenSource(context.Background(), testConfig(tokenSrv.URL), expired, store)
	token, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "refreshed", token.AccessToken)
	assert.Equal(t, 1, *calls)

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "refreshed", saved.AccessToken)
	assert.Equal(t, "refresh", saved.RefreshToken)

	// Reused while valid.
	_, err = ts.Token()
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
}
