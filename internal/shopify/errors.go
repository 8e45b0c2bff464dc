package shopify

import "errors"

var (
	// ErrMissingCredentials covers both an unknown tenant and a tenant whose
	// client key/secret pair is incomplete. No token request is made.
	ErrMissingCredentials = errors.New("missing shopify credentials")
	// ErrAuthFailed means the token endpoint answered non-2xx (or timed out).
	// Nothing is cached; the caller may retry at a higher layer.
	ErrAuthFailed = errors.New("shopify authentication failed")
	// ErrFetchFailed means a catalog endpoint answered non-2xx.
	ErrFetchFailed = errors.New("shopify fetch failed")
)
