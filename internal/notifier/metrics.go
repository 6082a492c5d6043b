package notifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	notificationSendTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_notifier_send_total",
			Help: "Total campaign notifications by outcome (success, error, skipped).",
		},
		[]string{"status"},
	)
	notificationSendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campaign_notifier_send_duration_seconds",
			Help:    "Duration of chat.postMessage requests.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"status"},
	)
)
