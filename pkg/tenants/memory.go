// pkg/tenants/memory.go
package tenants

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type memProvider struct {
	log      *zap.SugaredLogger
	byID     map[string]Tenant
	byDomain map[string]Tenant
}

// NewMemoryProvider builds a static provider over the given tenants.
func NewMemoryProvider(log *zap.SugaredLogger, ts []Tenant) Provider {
	p := &memProvider{log: log, byID: map[string]Tenant{}, byDomain: map[string]Tenant{}}
	for _, t := range ts {
		p.byID[t.ID] = t
		if t.StoreDomain != "" {
			p.byDomain[t.StoreDomain] = t
		}
	}
	return p
}

type tenantsFile struct {
	Tenants []struct {
		ID            string `yaml:"id"`
		StoreDomain   string `yaml:"store_domain"`
		ClientKey     string `yaml:"client_key"`
		ClientSecret  string `yaml:"client_secret"`
		WebhookSecret string `yaml:"webhook_secret"`
		APIVersion    string `yaml:"api_version"`
	} `yaml:"tenants"`
}

// NewMemoryProviderFromEnv seeds a static provider from a YAML tenants file
// when path is non-empty, else from the single-store env variables the
// prototype deployments used.
func NewMemoryProviderFromEnv(log *zap.SugaredLogger, path string) (Provider, error) {
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read tenants file: %w", err)
		}
		var f tenantsFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("parse tenants file: %w", err)
		}
		ts := make([]Tenant, 0, len(f.Tenants))
		for _, e := range f.Tenants {
			ts = append(ts, Tenant{
				ID: e.ID, StoreDomain: e.StoreDomain,
				ClientKey: e.ClientKey, ClientSecret: e.ClientSecret,
				WebhookSecret: e.WebhookSecret, APIVersion: e.APIVersion,
			})
		}
		log.Infow("tenants loaded", "file", path, "count", len(ts))
		return NewMemoryProvider(log, ts), nil
	}
	// single dev tenant from env
	dev := Tenant{
		ID:            envOr("SHOPGATE_DEFAULT_TENANT", "12345"),
		StoreDomain:   os.Getenv("SHOPIFY_STORE_URL"),
		ClientKey:     os.Getenv("SHOPIFY_CLIENT_ID"),
		ClientSecret:  os.Getenv("SHOPIFY_CLIENT_SECRET"),
		WebhookSecret: os.Getenv("SHOPIFY_WEBHOOK_SECRET"),
	}
	return NewMemoryProvider(log, []Tenant{dev}), nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func (m *memProvider) ResolveTenant(ctx context.Context, id string) (Tenant, error) {
	if t, ok := m.byID[id]; ok {
		return t, nil
	}
	return Tenant{}, ErrTenantNotFound
}

func (m *memProvider) ResolveTenantByDomain(ctx context.Context, domain string) (Tenant, error) {
	if t, ok := m.byDomain[domain]; ok {
		return t, nil
	}
	return Tenant{}, ErrTenantNotFound
}
