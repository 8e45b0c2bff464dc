// pkg/middleware/tenant.go
package middleware

import (
	"context"
	"net/http"

	"shopgate/pkg/tenants"
)

const HeaderShopDomain = "X-Shopify-Shop-Domain"

type ctxTenantKey struct{}

// WithShopTenant resolves the tenant for each request from the shop-domain
// header Shopify attaches to deliveries, falling back to defaultTenantID for
// single-store deployments that never see the header. An unresolvable tenant
// means the signature can never be verified, so the request is rejected with
// 401 rather than 404.
func WithShopTenant(prov tenants.Provider, defaultTenantID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Allow health/metrics without tenant context
			switch r.URL.Path {
			case "/healthz", "/metrics":
				next.ServeHTTP(w, r)
				return
			}
			var t tenants.Tenant
			var err error
			if domain := r.Header.Get(HeaderShopDomain); domain != "" {
				t, err = prov.ResolveTenantByDomain(r.Context(), domain)
			} else {
				t, err = prov.ResolveTenant(r.Context(), defaultTenantID)
			}
			if err != nil {
				http.Error(w, "unknown shop", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), ctxTenantKey{}, t)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func TenantFrom(ctx context.Context) tenants.Tenant {
	if v := ctx.Value(ctxTenantKey{}); v != nil {
		return v.(tenants.Tenant)
	}
	return tenants.Tenant{}
}
