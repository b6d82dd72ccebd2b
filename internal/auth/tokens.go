// Package auth provides thin typed wrappers over the storage layer for
// the credential and auth-flow state the platform keeps client-side:
// access/refresh tokens under the auth keys, and per-flow OAuth state in
// the session namespace. Token validation happens server-side; this
// package only stores tokens and derives their expiry for proactive
// refresh.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gpslab/clientcore/internal/storage"
)

// TokenVault persists the auth token pair in the local namespace.
type TokenVault struct {
	store *storage.Store
}

// NewTokenVault wraps a local-namespace store.
func NewTokenVault(store *storage.Store) *TokenVault {
	return &TokenVault{store: store}
}

// Tokens is the pair returned by the auth backend.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Save stores both tokens and records the access token's expiry under
// the token_expiry key. The JWT is parsed without verification: the
// client only needs the exp claim to know when to refresh, and the
// server re-validates every request anyway.
func (v *TokenVault) Save(tokens Tokens) bool {
	ok := v.store.Set(storage.KeyAccessToken, tokens.AccessToken, storage.SetOptions{})
	ok = v.store.Set(storage.KeyRefreshToken, tokens.RefreshToken, storage.SetOptions{}) && ok

	if expiry, found := tokenExpiry(tokens.AccessToken); found {
		ok = v.store.Set(storage.KeyTokenExpiry, expiry.Format(time.RFC3339), storage.SetOptions{}) && ok
	}
	return ok
}

// AccessToken returns the stored access token, or "" when absent.
func (v *TokenVault) AccessToken() string {
	token, _ := v.store.Get(storage.KeyAccessToken, "").(string)
	return token
}

// RefreshToken returns the stored refresh token, or "" when absent.
func (v *TokenVault) RefreshToken() string {
	token, _ := v.store.Get(storage.KeyRefreshToken, "").(string)
	return token
}

// Expiry returns the recorded access token expiry. ok is false when no
// expiry is stored or it does not parse.
func (v *TokenVault) Expiry() (time.Time, bool) {
	raw, _ := v.store.Get(storage.KeyTokenExpiry, "").(string)
	if raw == "" {
		return time.Time{}, false
	}
	expiry, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return expiry, true
}

// NeedsRefresh reports whether the access token expires within the
// given leeway. An absent or unparseable expiry reads as needing
// refresh.
func (v *TokenVault) NeedsRefresh(leeway time.Duration) bool {
	expiry, ok := v.Expiry()
	if !ok {
		return true
	}
	return time.Until(expiry) < leeway
}

// Clear removes the token pair and expiry record, for logout.
func (v *TokenVault) Clear() {
	v.store.Remove(storage.KeyAccessToken)
	v.store.Remove(storage.KeyRefreshToken)
	v.store.Remove(storage.KeyTokenExpiry)
}

// tokenExpiry extracts the exp claim from a JWT without verifying the
// signature.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, false
	}
	return expiry.Time, true
}
