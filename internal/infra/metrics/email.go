package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		emailsSentTotal,
		emailRetriesTotal,
	)
}

var (
	emailsSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Transactional emails by template kind and outcome (sent/failed).",
		},
		[]string{"kind", "outcome"},
	)

	emailRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "email_send_retries_total",
			Help: "Retries performed after rate-limit-class provider errors.",
		},
	)
)

func IncEmail(kind, outcome string) {
	emailsSentTotal.WithLabelValues(norm(kind), norm(outcome)).Inc()
}

func IncEmailRetry() { emailRetriesTotal.Inc() }
