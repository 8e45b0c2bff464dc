package webhook

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeAccepted     = "accepted"
	outcomeDuplicate    = "duplicate"
	outcomeUnauthorized = "unauthorized"
)

var eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "shopgate_webhook_events_total",
	Help: "Inbound Shopify webhook deliveries by topic and outcome.",
}, []string{"topic", "outcome"})
