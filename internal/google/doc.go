// Package google provides OAuth2 authentication and token management for the
// Google Calendar API.
//
// Client credentials come from an installed-app credentials.json downloaded
// from the Google Cloud console. Tokens are cached in a small JSON file
// (token.json) that is loaded on every run, refreshed when expired and
// replaced by a fresh interactive authorization when no usable token exists.
//
// The TokenProvider interface lets callers swap the file-backed provider for
// another token source, for example in tests.
package google
