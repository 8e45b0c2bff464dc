package tenants

// Tenant represents one connected Shopify store: its admin API endpoint,
// the client-credentials pair used for token issuance, and the secret
// Shopify signs webhook deliveries with.
type Tenant struct {
	ID            string // opaque client identifier ("12345")
	StoreDomain   string // admin API host (showcasevault.myshopify.com)
	ClientKey     string
	ClientSecret  string
	WebhookSecret string
	APIVersion    string // optional override; engine default applies when empty
}

// HasAPICredentials reports whether the tenant carries a complete
// client-credentials pair.
func (t Tenant) HasAPICredentials() bool {
	return t.ClientKey != "" && t.ClientSecret != ""
}
