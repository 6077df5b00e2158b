// Package metrics exposes the collector's Prometheus instrumentation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Cycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weathercollector_poll_cycles_total",
		Help: "Completed poll cycles.",
	})
	LocationErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weathercollector_location_errors_total",
		Help: "Failed location fetches or writes.",
	})
	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weathercollector_notifications_total",
		Help: "Delivered transition notifications.",
	}, []string{"kind"})
)

// RegisterHeartbeatAge exposes the age of the last completed poll cycle,
// evaluated at scrape time. Call it once at startup.
func RegisterHeartbeatAge(lastBeat func() time.Time) prometheus.GaugeFunc {
	return promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "weathercollector_heartbeat_age_seconds",
		Help: "Seconds since the last completed poll cycle.",
	}, func() float64 {
		return time.Since(lastBeat()).Seconds()
	})
}
