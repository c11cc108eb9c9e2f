package bot

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	actionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solbot_actions_total",
		Help: "Button actions handled, by action and outcome",
	}, []string{"action", "outcome"})

	actionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "solbot_action_duration_seconds",
		Help:    "Time spent producing an action's reply",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"action"})
)

func observeAction(action, outcome string, start time.Time) {
	actionsTotal.WithLabelValues(action, outcome).Inc()
	actionDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())
}
