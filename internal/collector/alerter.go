package collector

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/hamed0406/weathercollector/internal/metrics"
	"github.com/hamed0406/weathercollector/internal/notify"
)

// Alerter turns per-cycle failure batches into edge-triggered notifications:
// one alert when a clean run starts failing, one resolution when the failures
// clear. Cycles in between stay quiet no matter how the failure set changes.
type Alerter struct {
	Logger   *zap.Logger
	Notifier notify.Notifier

	// outstanding is true while an alert has been delivered and not yet
	// resolved. Only the poll loop writes it; the status API reads it.
	outstanding atomic.Bool
}

func NewAlerter(logger *zap.Logger, notifier notify.Notifier) *Alerter {
	return &Alerter{Logger: logger, Notifier: notifier}
}

// Outstanding reports whether an alert is currently unresolved.
func (a *Alerter) Outstanding() bool { return a.outstanding.Load() }

// Evaluate runs one transition step for the finished cycle. A failed delivery
// leaves the state untouched, so the same transition is retried next cycle.
func (a *Alerter) Evaluate(ctx context.Context, failures []notify.Failure) {
	switch {
	case !a.outstanding.Load() && len(failures) > 0:
		if err := a.Notifier.Alert(ctx, failures); err != nil {
			a.Logger.Warn("alert_send_failed", zap.Int("failures", len(failures)), zap.Error(err))
			return
		}
		a.outstanding.Store(true)
		metrics.Notifications.WithLabelValues("alert").Inc()
		a.Logger.Info("alert_sent", zap.Int("failures", len(failures)))

	case a.outstanding.Load() && len(failures) == 0:
		if err := a.Notifier.Resolved(ctx); err != nil {
			a.Logger.Warn("resolved_send_failed", zap.Error(err))
			return
		}
		a.outstanding.Store(false)
		metrics.Notifications.WithLabelValues("resolved").Inc()
		a.Logger.Info("alert_resolved")
	}
}
