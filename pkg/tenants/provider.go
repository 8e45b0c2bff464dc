package tenants

import (
	"context"
	"errors"
)

// ErrTenantNotFound is a normal outcome, not a fault: callers decide how an
// unknown tenant surfaces (401 on the webhook path, MissingCredentials on
// the token path).
var ErrTenantNotFound = errors.New("tenant not found")

// Provider is the single source of truth for tenant credentials. Results
// reflect the backing store at call time; nothing is cached here.
type Provider interface {
	// Resolve tenant from its opaque client identifier.
	ResolveTenant(ctx context.Context, id string) (Tenant, error)
	// Resolve tenant from the shop domain carried on webhook deliveries.
	ResolveTenantByDomain(ctx context.Context, domain string) (Tenant, error)
}
