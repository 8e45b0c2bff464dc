// pkg/tenants/postgres.go
package tenants

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// pgProvider implements Provider backed by PostgreSQL. API and webhook
// secrets live in a single encrypted blob per tenant; decryption happens on
// every resolve so credential rotation takes effect without a restart.
type pgProvider struct {
	dbPool *pgxpool.Pool
	log    *zap.SugaredLogger
	encKey []byte
}

// NewPostgresProvider constructs a PostgreSQL-backed tenant provider.
// encryptionKey decrypts the per-tenant secrets blob; an empty key means
// secrets were stored in the clear (dev only).
func NewPostgresProvider(dbPool *pgxpool.Pool, log *zap.SugaredLogger, encryptionKey string) Provider {
	return &pgProvider{dbPool: dbPool, log: log, encKey: []byte(encryptionKey)}
}

// EnsureSchema creates required tables if they do not already exist.
// Safe to call repeatedly (idempotent).
func EnsureSchema(ctx context.Context, dbPool *pgxpool.Pool) error {
	_, err := dbPool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS tenants (
  id text PRIMARY KEY,
  store_domain text UNIQUE,
  api_version text DEFAULT '',
  secrets_encrypted bytea,
  created_at timestamptz NOT NULL DEFAULT NOW(),
  updated_at timestamptz NOT NULL DEFAULT NOW()
);
ALTER TABLE tenants ADD COLUMN IF NOT EXISTS api_version text DEFAULT '';
ALTER TABLE tenants ADD COLUMN IF NOT EXISTS secrets_encrypted bytea;
`)
	return err
}

// SeedFromEnv ingests initial tenant data.
// jsonSeed format (TENANT_SEED_JSON):
// [
//
//	{
//	  "id":"12345","store_domain":"showcasevault.myshopify.com","api_version":"2026-01",
//	  "client_key":"...","client_secret":"...","webhook_secret":"..."
//	}
//
// ]
func SeedFromEnv(ctx context.Context, dbPool *pgxpool.Pool, jsonSeed, encryptionKey string) error {
	if jsonSeed == "" {
		return nil
	}
	var entries []struct {
		ID            string `json:"id"`
		StoreDomain   string `json:"store_domain"`
		APIVersion    string `json:"api_version"`
		ClientKey     string `json:"client_key"`
		ClientSecret  string `json:"client_secret"`
		WebhookSecret string `json:"webhook_secret"`
	}
	if err := json.Unmarshal([]byte(jsonSeed), &entries); err != nil {
		return err
	}
	for _, e := range entries {
		blob, err := encryptSecrets(map[string]string{
			"client_key":     e.ClientKey,
			"client_secret":  e.ClientSecret,
			"webhook_secret": e.WebhookSecret,
		}, []byte(encryptionKey))
		if err != nil {
			return err
		}
		_, err = dbPool.Exec(ctx, `INSERT INTO tenants(id,store_domain,api_version,secrets_encrypted)
		  VALUES ($1,$2,$3,$4)
		  ON CONFLICT (id) DO UPDATE SET store_domain=EXCLUDED.store_domain,api_version=EXCLUDED.api_version,secrets_encrypted=EXCLUDED.secrets_encrypted,updated_at=NOW()`,
			e.ID, e.StoreDomain, e.APIVersion, blob)
		if err != nil {
			return err
		}
	}
	return nil
}

const tenantQuery = `SELECT id, COALESCE(store_domain,''), COALESCE(api_version,''), secrets_encrypted FROM tenants WHERE `

func (p *pgProvider) ResolveTenant(ctx context.Context, id string) (Tenant, error) {
	return p.scanTenant(ctx, tenantQuery+`id=$1`, id)
}

func (p *pgProvider) ResolveTenantByDomain(ctx context.Context, domain string) (Tenant, error) {
	return p.scanTenant(ctx, tenantQuery+`store_domain=$1`, domain)
}

func (p *pgProvider) scanTenant(ctx context.Context, q, arg string) (Tenant, error) {
	row := p.dbPool.QueryRow(ctx, q, arg)
	var t Tenant
	var blob []byte
	if err := row.Scan(&t.ID, &t.StoreDomain, &t.APIVersion, &blob); err != nil {
		return Tenant{}, ErrTenantNotFound
	}
	if len(blob) > 0 {
		secrets, err := decryptSecrets(blob, p.encKey)
		if err != nil {
			p.log.Warnw("tenant secrets decrypt failed", "tenant", t.ID, "err", err)
			return Tenant{}, ErrTenantNotFound
		}
		t.ClientKey = secrets["client_key"]
		t.ClientSecret = secrets["client_secret"]
		t.WebhookSecret = secrets["webhook_secret"]
	}
	return t, nil
}
