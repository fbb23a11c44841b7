package google

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeAuthorizer struct {
	token *oauth2.Token
	err   error
	calls int
}

func (a *fakeAuthorizer) Authorize(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	a.calls++
	return a.token, a.err
}

func TestFileTokenProvider_ValidCachedToken(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))
	require.NoError(t, store.Save(&oauth2.Token{
		AccessToken: "cached",
		Expiry:      time.Now().Add(time.Hour),
	}))
	auth := &fakeAuthorizer{}

	p := NewFileTokenProvider(testConfig("http://unused"), store, WithAuthorizer(auth))
	token, err := p.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "cached", token.AccessToken)
	assert.Equal(t, 0, auth.calls)
}

func TestFileTokenProvider_RefreshesExpiredToken(t *testing.T) {
	tokenSrv, calls := newTokenServer(t, "refreshed", http.StatusOK)
	store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))
	require.NoError(t, store.Save(&oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(-time.Hour),
	}))
	auth := &fakeAuthorizer{}

	p := NewFileTokenProvider(testConfig(tokenSrv.URL), store, WithAuthorizer(auth))
	token, err := p.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "refreshed", token.AccessToken)
	assert.Equal(t, "refresh", token.RefreshToken)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, 0, auth.calls)

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "refreshed", saved.AccessToken)
	assert.Equal(t, "refresh", saved.RefreshToken)
}

func TestFileTokenProvider_RefreshFailureFallsBackToAuthorize(t *testing.T) {
	tokenSrv, _ := newTokenServer(t, "", http.StatusBadRequest)
	store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))
	require.NoError(t, store.Save(&oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "revoked",
		Expiry:       time.Now().Add(-time.Hour),
	}))
	auth := &fakeAuthorizer{token: &oauth2.Token{AccessToken: "fresh", RefreshToken: "new-refresh"}}

	p := NewFileTokenProvider(testConfig(tokenSrv.URL), store, WithAuthorizer(auth))
	token, err := p.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "fresh", token.AccessToken)
	assert.Equal(t, 1, auth.calls)

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "new-refresh", saved.RefreshToken)
}

func TestFileTokenProvider_NoTokenAuthorizes(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))
	auth := &fakeAuthorizer{token: &oauth2.Token{AccessToken: "fresh"}}

	p := NewFileTokenProvider(testConfig("http://unused"), store, WithAuthorizer(auth))
	token, err := p.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "fresh", token.AccessToken)
	assert.True(t, store.Exists())
}

func TestFileTokenProvider_NoTokenNoAuthorizer(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))

	p := NewFileTokenProvider(testConfig("http://unused"), store)
	_, err := p.Token(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestFileTokenProvider_AuthorizeError(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))
	auth := &fakeAuthorizer{err: errors.New("user closed the browser")}

	p := NewFileTokenProvider(testConfig("http://unused"), store, WithAuthorizer(auth))
	_, err := p.Token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user closed the browser")
	assert.False(t, store.Exists())
}

func TestFileTokenProvider_AuthorizeIgnoresCache(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))
	require.NoError(t, store.Save(&oauth2.Token{
		AccessToken: "cached",
		Expiry:      time.Now().Add(time.Hour),
	}))
	auth := &fakeAuthorizer{token: &oauth2.Token{AccessToken: "fresh"}}

	p := NewFileTokenProvider(testConfig("http://unused"), store, WithAuthorizer(auth))
	token, err := p.Authorize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "fresh", token.AccessToken)
	assert.Equal(t, 1, auth.calls)

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "fresh", saved.AccessToken)

	_, err = NewFileTokenProvider(testConfig("http://unused"), store).Authorize(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestTokenProviderInterface(t *testing.T) {
	var _ TokenProvider = (*FileTokenProvider)(nil)
	var _ Authorizer = (*LoopbackFlow)(nil)
}
