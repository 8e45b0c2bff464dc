// internal/webhook/handler.go
package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"shopgate/internal/dedup"
	"shopgate/pkg/middleware"
)

const (
	headerHmac    = "X-Shopify-Hmac-Sha256"
	headerEventID = "X-Shopify-Event-Id"
)

// ProductHandler receives decoded payloads for accepted deliveries.
// action is one of create|update|delete.
type ProductHandler interface {
	HandleProduct(ctx context.Context, action string, product map[string]any) error
}

// ProductHandlerFunc adapts a function to ProductHandler.
type ProductHandlerFunc func(ctx context.Context, action string, product map[string]any) error

func (f ProductHandlerFunc) HandleProduct(ctx context.Context, action string, product map[string]any) error {
	return f(ctx, action, product)
}

// Intake authenticates and deduplicates product lifecycle webhooks before
// handing them downstream. Signature verification runs before the duplicate
// record is written: an attacker must not be able to suppress a legitimate
// future delivery by replaying an event id with a bad signature.
type Intake struct {
	log     *zap.SugaredLogger
	dedup   dedup.Suppressor
	handler ProductHandler
}

func NewIntake(log *zap.SugaredLogger, sup dedup.Suppressor, handler ProductHandler) *Intake {
	return &Intake{log: log, dedup: sup, handler: handler}
}

// Routes mounts the three product lifecycle endpoints.
func (in *Intake) Routes(r chi.Router) {
	r.Route("/webhooks/shopify/products", func(r chi.Router) {
		r.Post("/create", in.handle("create"))
		r.Post("/update", in.handle("update"))
		r.Post("/delete", in.handle("delete"))
	})
}

func (in *Intake) handle(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tenant := middleware.TenantFrom(ctx)

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			http.Error(w, "unreadable body", http.StatusBadRequest)
			return
		}

		sig := r.Header.Get(headerHmac)
		if sig == "" {
			in.log.Warnw("webhook signature header missing", "action", action, "tenant", tenant.ID)
			eventsTotal.WithLabelValues(action, outcomeUnauthorized).Inc()
			http.Error(w, "missing signature", http.StatusUnauthorized)
			return
		}
		if !VerifySignature(body, sig, tenant.WebhookSecret) {
			in.log.Warnw("webhook signature mismatch", "action", action, "tenant", tenant.ID)
			eventsTotal.WithLabelValues(action, outcomeUnauthorized).Inc()
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}

		eventID := r.Header.Get(headerEventID)
		dup, err := in.dedup.CheckAndRecord(ctx, eventID)
		if err != nil {
			// Dedup store trouble must not drop deliveries; treat as new.
			in.log.Warnw("dedup check failed", "event_id", eventID, "err", err)
		}
		if dup {
			in.log.Infow("duplicate webhook skipped", "action", action, "event_id", eventID)
			eventsTotal.WithLabelValues(action, outcomeDuplicate).Inc()
			in.ack(w)
			return
		}

		var product map[string]any
		if err := json.Unmarshal(body, &product); err != nil {
			in.log.Warnw("webhook payload decode failed", "action", action, "err", err)
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}

		if in.handler != nil {
			if err := in.handler.HandleProduct(ctx, action, product); err != nil {
				// Delivery was authentic and recorded; log and ack so the
				// platform does not redeliver an event we would now skip.
				in.log.Errorw("product handler failed", "action", action, "event_id", eventID, "err", err)
			}
		}
		in.log.Infow("webhook accepted", "action", action, "tenant", tenant.ID, "event_id", eventID)
		eventsTotal.WithLabelValues(action, outcomeAccepted).Inc()
		in.ack(w)
	}
}

func (in *Intake) ack(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"ok":true}`))
}
