// pkg/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	HTTPAddr string // webhook-service

	// Shopify API surface
	APIVersion  string
	HTTPTimeout time.Duration // outbound calls to Shopify

	// Token cache behavior. When TokenReuseUnchecked is true a cached token
	// is reused for the life of the process without an expiry check
	// (legacy behavior, off by default).
	TokenExpiryLeeway   time.Duration
	TokenReuseUnchecked bool

	// Webhook intake
	DefaultTenantID string        // tenant assumed when no shop-domain header is present
	DedupWindow     time.Duration // retention for seen event ids

	// Static tenant file (memory provider); ignored when DATABASE_URL is set
	TenantsFile string

	// Redis & Postgres
	RedisURL    string
	DatabaseURL string

	// Key for at-rest tenant secrets in the postgres provider
	EncryptionKey string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:                 env("SHOPGATE_ENV", "dev"),
		HTTPAddr:            env("SHOPGATE_HTTP_ADDR", ":8050"),
		APIVersion:          env("SHOPIFY_API_VERSION", "2026-01"),
		HTTPTimeout:         envDur("SHOPIFY_HTTP_TIMEOUT_SEC", 15) * time.Second,
		TokenExpiryLeeway:   envDur("SHOPIFY_TOKEN_LEEWAY_SEC", 30) * time.Second,
		TokenReuseUnchecked: envBool("SHOPIFY_TOKEN_REUSE_UNCHECKED", false),
		DefaultTenantID:     env("SHOPGATE_DEFAULT_TENANT", "12345"),
		DedupWindow:         envDur("SHOPGATE_DEDUP_WINDOW_HOURS", 24) * time.Hour,
		TenantsFile:         env("TENANTS_FILE", ""),
		RedisURL:            env("REDIS_URL", ""),
		DatabaseURL:         env("DATABASE_URL", ""),
		EncryptionKey:       env("ENCRYPTION_KEY", ""),
	}
	return cfg
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
func envBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		b, _ := strconv.ParseBool(v)
		return b
	}
	return def
}
func envDur(k string, def int) time.Duration {
	if v := os.Getenv(k); v != "" {
		i, _ := strconv.Atoi(v)
		return time.Duration(i)
	}
	return time.Duration(def)
}
