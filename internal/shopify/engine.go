// Package shopify issues client-credentials access tokens against the
// Shopify admin API and fetches catalog data with them.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"shopgate/pkg/config"
	"shopgate/pkg/tenants"
)

const headerAccessToken = "X-Shopify-Access-Token"

// Engine owns one bearer token per tenant for the life of the process.
type Engine struct {
	prov   tenants.Provider
	log    *zap.SugaredLogger
	client *http.Client

	apiVersion     string // fallback when the tenant has no override
	leeway         time.Duration
	reuseUnchecked bool

	scheme string // https; tests override
	now    func() time.Time

	mu     sync.Mutex
	tokens map[string]cachedToken
	group  singleflight.Group
}

type cachedToken struct {
	value     string
	expiresAt time.Time
	noExpiry  bool // platform declared no expires_in
}

// Token is the outcome of a client-credentials grant.
type Token struct {
	Value     string `json:"access_token"`
	ExpiresIn int64  `json:"expires_in"`
}

// NewEngine wires a catalog engine for all tenants served by prov.
func NewEngine(cfg config.Config, prov tenants.Provider, log *zap.SugaredLogger) *Engine {
	return &Engine{
		prov:           prov,
		log:            log,
		client:         &http.Client{Timeout: cfg.HTTPTimeout},
		apiVersion:     cfg.APIVersion,
		leeway:         cfg.TokenExpiryLeeway,
		reuseUnchecked: cfg.TokenReuseUnchecked,
		scheme:         "https",
		now:            time.Now,
		tokens:         map[string]cachedToken{},
	}
}

// AccessToken returns the cached bearer token for the tenant, issuing one
// via the client-credentials grant on a miss or past expiry. Concurrent
// first requests for the same tenant are collapsed into a single token
// call; the loser of the race reuses the winner's result.
func (e *Engine) AccessToken(ctx context.Context, tenantID string) (string, error) {
	if tok, ok := e.cached(tenantID); ok {
		return tok, nil
	}
	v, err, _ := e.group.Do(tenantID, func() (any, error) {
		// Re-check under the flight: another caller may have filled the cache.
		if tok, ok := e.cached(tenantID); ok {
			return tok, nil
		}
		return e.issueToken(ctx, tenantID)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (e *Engine) cached(tenantID string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	tok, ok := e.tokens[tenantID]
	if !ok {
		return "", false
	}
	if e.reuseUnchecked || tok.noExpiry {
		return tok.value, true
	}
	if e.now().Before(tok.expiresAt.Add(-e.leeway)) {
		return tok.value, true
	}
	return "", false
}

func (e *Engine) issueToken(ctx context.Context, tenantID string) (string, error) {
	t, err := e.prov.ResolveTenant(ctx, tenantID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingCredentials, err)
	}
	if t.StoreDomain == "" || !t.HasAPICredentials() {
		return "", fmt.Errorf("%w: tenant %s incomplete", ErrMissingCredentials, tenantID)
	}

	body, _ := json.Marshal(map[string]string{
		"client_id":     t.ClientKey,
		"client_secret": t.ClientSecret,
		"grant_type":    "client_credentials",
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.accessTokenURL(t.StoreDomain), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: token endpoint status %d", ErrAuthFailed, resp.StatusCode)
	}
	var tok Token
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("%w: decode token response: %v", ErrAuthFailed, err)
	}
	if tok.Value == "" {
		return "", fmt.Errorf("%w: empty access_token", ErrAuthFailed)
	}

	cached := cachedToken{value: tok.Value, noExpiry: tok.ExpiresIn <= 0}
	if tok.ExpiresIn > 0 {
		cached.expiresAt = e.now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	e.mu.Lock()
	e.tokens[tenantID] = cached
	e.mu.Unlock()
	e.log.Infow("access token issued", "tenant", tenantID, "expires_in", tok.ExpiresIn)
	return tok.Value, nil
}

// ListProducts fetches the tenant's product catalog. limit <= 0 leaves the
// page size to the platform default.
func (e *Engine) ListProducts(ctx context.Context, tenantID string, limit int) (map[string]any, error) {
	t, err := e.prov.ResolveTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingCredentials, err)
	}
	u := e.productsURL(t)
	if limit > 0 {
		u += "?limit=" + strconv.Itoa(limit)
	}
	return e.getJSON(ctx, tenantID, u)
}

// GetProduct fetches one product by its platform id.
func (e *Engine) GetProduct(ctx context.Context, tenantID string, productID int64) (map[string]any, error) {
	t, err := e.prov.ResolveTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingCredentials, err)
	}
	u := e.productsURL(t)
	u = u[:len(u)-len(".json")] + "/" + strconv.FormatInt(productID, 10) + ".json"
	return e.getJSON(ctx, tenantID, u)
}

func (e *Engine) getJSON(ctx context.Context, tenantID, rawURL string) (map[string]any, error) {
	token, err := e.AccessToken(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if _, err := url.Parse(rawURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerAccessToken, token)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrFetchFailed, err)
	}
	return out, nil
}

func (e *Engine) accessTokenURL(domain string) string {
	return fmt.Sprintf("%s://%s/admin/oauth/access_token", e.scheme, domain)
}

func (e *Engine) productsURL(t tenants.Tenant) string {
	version := t.APIVersion
	if version == "" {
		version = e.apiVersion
	}
	return fmt.Sprintf("%s://%s/admin/api/%s/products.json", e.scheme, t.StoreDomain, version)
}
