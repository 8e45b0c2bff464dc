package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"shopgate/pkg/config"
	"shopgate/pkg/logger"
	"shopgate/pkg/tenants"
)

type fakeShopify struct {
	tokenCalls   atomic.Int64
	catalogCalls atomic.Int64
	tokenStatus  int
	expiresIn    int64
	lastLimit    string
	lastToken    string
}

func newFakeShopify(t *testing.T) (*fakeShopify, *httptest.Server) {
	t.Helper()
	f := &fakeShopify{tokenStatus: http.StatusOK, expiresIn: 3600}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/admin/oauth/access_token":
			f.tokenCalls.Add(1)
			var req map[string]string
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req["grant_type"] != "client_credentials" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if f.tokenStatus != http.StatusOK {
				w.WriteHeader(f.tokenStatus)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "tok-1",
				"expires_in":   f.expiresIn,
			})
		case r.Method == http.MethodGet && r.URL.Path == "/admin/api/2026-01/products.json":
			f.catalogCalls.Add(1)
			f.lastLimit = r.URL.Query().Get("limit")
			f.lastToken = r.Header.Get("X-Shopify-Access-Token")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"products": []map[string]any{{"id": 1, "title": "Widget"}},
			})
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/admin/api/2026-01/products/"):
			f.catalogCalls.Add(1)
			f.lastToken = r.Header.Get("X-Shopify-Access-Token")
			if strings.HasSuffix(r.URL.Path, "/404.json") {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"product": map[string]any{"id": 7, "title": "Widget"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func newTestEngine(t *testing.T, srv *httptest.Server) *Engine {
	t.Helper()
	prov := tenants.NewMemoryProvider(logger.Nop(), []tenants.Tenant{
		{
			ID:           "12345",
			StoreDomain:  strings.TrimPrefix(srv.URL, "http://"),
			ClientKey:    "key",
			ClientSecret: "secret",
		},
		{
			ID:          "no-creds",
			StoreDomain: strings.TrimPrefix(srv.URL, "http://"),
		},
	})
	cfg := config.Config{
		APIVersion:        "2026-01",
		HTTPTimeout:       5 * time.Second,
		TokenExpiryLeeway: 30 * time.Second,
	}
	e := NewEngine(cfg, prov, logger.Nop())
	e.scheme = "http"
	return e
}

func TestAccessTokenIssuedOnceThenCached(t *testing.T) {
	f, srv := newFakeShopify(t)
	e := newTestEngine(t, srv)

	tok1, err := e.AccessToken(context.Background(), "12345")
	if err != nil {
		t.Fatal(err)
	}
	tok2, err := e.AccessToken(context.Background(), "12345")
	if err != nil {
		t.Fatal(err)
	}
	if tok1 != "tok-1" || tok2 != tok1 {
		t.Fatalf("expected identical cached token, got %q and %q", tok1, tok2)
	}
	if n := f.tokenCalls.Load(); n != 1 {
		t.Fatalf("expected exactly 1 token request, got %d", n)
	}
}

func TestAccessTokenUnknownTenantNoNetworkCall(t *testing.T) {
	f, srv := newFakeShopify(t)
	e := newTestEngine(t, srv)

	_, err := e.AccessToken(context.Background(), "nope")
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	if f.tokenCalls.Load() != 0 {
		t.Fatal("unknown tenant must not trigger a token request")
	}
}

func TestAccessTokenIncompleteCredentials(t *testing.T) {
	f, srv := newFakeShopify(t)
	e := newTestEngine(t, srv)

	_, err := e.AccessToken(context.Background(), "no-creds")
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	if f.tokenCalls.Load() != 0 {
		t.Fatal("incomplete credentials must not trigger a token request")
	}
}

func TestAccessTokenFailureNotCached(t *testing.T) {
	f, srv := newFakeShopify(t)
	e := newTestEngine(t, srv)
	f.tokenStatus = http.StatusUnauthorized

	if _, err := e.AccessToken(context.Background(), "12345"); !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
	if _, err := e.AccessToken(context.Background(), "12345"); !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
	// No caching of failures: each call reaches the endpoint.
	if n := f.tokenCalls.Load(); n != 2 {
		t.Fatalf("expected 2 token requests, got %d", n)
	}
}

func TestAccessTokenReissuedPastExpiry(t *testing.T) {
	f, srv := newFakeShopify(t)
	e := newTestEngine(t, srv)
	f.expiresIn = 60

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return now }

	if _, err := e.AccessToken(context.Background(), "12345"); err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := e.AccessToken(context.Background(), "12345"); err != nil {
		t.Fatal(err)
	}
	if n := f.tokenCalls.Load(); n != 2 {
		t.Fatalf("expected reissue past expiry, token requests = %d", n)
	}
}

func TestAccessTokenReuseUncheckedSkipsExpiry(t *testing.T) {
	f, srv := newFakeShopify(t)
	e := newTestEngine(t, srv)
	e.reuseUnchecked = true
	f.expiresIn = 60

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return now }

	if _, err := e.AccessToken(context.Background(), "12345"); err != nil {
		t.Fatal(err)
	}
	now = now.Add(48 * time.Hour)
	if _, err := e.AccessToken(context.Background(), "12345"); err != nil {
		t.Fatal(err)
	}
	if n := f.tokenCalls.Load(); n != 1 {
		t.Fatalf("unchecked reuse must keep the process-lifetime token, requests = %d", n)
	}
}

func TestAccessTokenConcurrentFirstUseCollapsed(t *testing.T) {
	f, srv := newFakeShopify(t)
	e := newTestEngine(t, srv)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.AccessToken(context.Background(), "12345"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if n := f.tokenCalls.Load(); n != 1 {
		t.Fatalf("concurrent first use must collapse into one token request, got %d", n)
	}
}

func TestListProducts(t *testing.T) {
	f, srv := newFakeShopify(t)
	e := newTestEngine(t, srv)

	doc, err := e.ListProducts(context.Background(), "12345", 25)
	if err != nil {
		t.Fatal(err)
	}
	if f.lastLimit != "25" {
		t.Fatalf("expected limit=25 query, got %q", f.lastLimit)
	}
	if f.lastToken != "tok-1" {
		t.Fatalf("expected bearer token header, got %q", f.lastToken)
	}
	want := map[string]any{"products": []any{map[string]any{"id": float64(1), "title": "Widget"}}}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("unexpected response (-want +got):\n%s", diff)
	}
}

func TestGetProduct(t *testing.T) {
	_, srv := newFakeShopify(t)
	e := newTestEngine(t, srv)

	doc, err := e.GetProduct(context.Background(), "12345", 7)
	if err != nil {
		t.Fatal(err)
	}
	if title, _ := doc["product"].(map[string]any)["title"].(string); title != "Widget" {
		t.Fatalf("unexpected product payload: %v", doc)
	}
}

func TestGetProductFetchFailed(t *testing.T) {
	_, srv := newFakeShopify(t)
	e := newTestEngine(t, srv)

	_, err := e.GetProduct(context.Background(), "12345", 404)
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}
