package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		webhookEventsTotal,
		webhookDuplicatesTotal,
	)
}

var (
	webhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Stripe webhook deliveries by event type and result (processed/ignored/rejected/failed).",
		},
		[]string{"event", "result"},
	)

	webhookDuplicatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_duplicate_events_total",
			Help: "Redelivered payment events acknowledged as idempotent no-ops.",
		},
	)
)

func IncWebhookEvent(event, result string) {
	webhookEventsTotal.WithLabelValues(norm(event), norm(result)).Inc()
}

func IncWebhookDuplicate() { webhookDuplicatesTotal.Inc() }
