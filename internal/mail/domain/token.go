package domain

import "golang.org/x/oauth2"

// TokenUpdateFunc is a callback invoked when a provider oauth token is
// refreshed, so the new token can be persisted.
type TokenUpdateFunc func(token *oauth2.Token) error
