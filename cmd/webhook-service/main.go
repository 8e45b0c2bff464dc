package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopgate/internal/dedup"
	"shopgate/internal/webhook"
	"shopgate/pkg/config"
	"shopgate/pkg/db"
	"shopgate/pkg/logger"
	"shopgate/pkg/middleware"
	"shopgate/pkg/tenants"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)

	pool := db.MustConnect(cfg, log)

	var prov tenants.Provider
	if pool != nil {
		prov = tenants.NewPostgresProvider(pool, log, cfg.EncryptionKey)
		if err := tenants.EnsureSchema(context.Background(), pool); err != nil {
			log.Fatalw("schema", "err", err)
		}
		if err := tenants.SeedFromEnv(context.Background(), pool, os.Getenv("TENANT_SEED_JSON"), cfg.EncryptionKey); err != nil {
			log.Warnw("seed", "err", err)
		}
	} else {
		var err error
		prov, err = tenants.NewMemoryProviderFromEnv(log, cfg.TenantsFile)
		if err != nil {
			log.Fatalw("tenants", "err", err)
		}
		log.Infow("using in-memory tenant provider")
	}

	var sup dedup.Suppressor
	if rdb := db.MustRedis(cfg, log); rdb != nil {
		sup = dedup.NewRedis(rdb, cfg.DedupWindow)
	} else {
		sup = dedup.NewMemory(cfg.DedupWindow)
	}

	// Downstream collaborator: log accepted product changes.
	handler := webhook.ProductHandlerFunc(func(ctx context.Context, action string, product map[string]any) error {
		log.Infow("product change", "action", action, "id", product["id"], "title", product["title"], "status", product["status"])
		return nil
	})
	intake := webhook.NewIntake(log, sup, handler)

	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recover(log))
	r.Use(middleware.Tracing(cfg))
	r.Use(middleware.WithShopTenant(prov, cfg.DefaultTenantID))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("ok")) })
	intake.Routes(r)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Infow("webhook-service listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("ListenAndServe", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	fmt.Println("webhook-service stopped")
}
