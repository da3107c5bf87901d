package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		ordersExpiredTotal,
		broadcastResultsTotal,
	)
}

var (
	ordersExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_expired_total",
			Help: "Orders flipped to INACTIVE past their expiry date.",
		},
	)

	broadcastResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_results_total",
			Help: "Per-recipient results of admin email campaigns.",
		},
		[]string{"outcome"},
	)
)

func IncOrdersExpired(n int) { ordersExpiredTotal.Add(float64(n)) }

func IncBroadcastResult(outcome string) {
	broadcastResultsTotal.WithLabelValues(norm(outcome)).Inc()
}
