// Package collector drives the poll loop: fetch every location's forecast,
// store it, touch the heartbeat, and hand the cycle's failures to the
// alerter.
package collector

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/weathercollector/internal/domain"
	"github.com/hamed0406/weathercollector/internal/heartbeat"
	"github.com/hamed0406/weathercollector/internal/metrics"
	"github.com/hamed0406/weathercollector/internal/notify"
	"github.com/hamed0406/weathercollector/internal/store"
)

// Fetcher is the outbound side of the loop; the forecast client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, loc domain.Location) (domain.Forecast, error)
}

type Collector struct {
	Logger    *zap.Logger
	Locations []domain.Location
	Forecasts Fetcher
	Store     store.ForecastWriter
	Heartbeat heartbeat.Channel
	Alerter   *Alerter
	Interval  time.Duration
	Timeout   time.Duration
}

func New(
	logger *zap.Logger,
	locations []domain.Location,
	forecasts Fetcher,
	st store.ForecastWriter,
	hb heartbeat.Channel,
	alerter *Alerter,
	interval time.Duration,
) *Collector {
	if interval <= 0 {
		interval = 2 * time.Minute
	}
	return &Collector{
		Logger:    logger,
		Locations: locations,
		Forecasts: forecasts,
		Store:     st,
		Heartbeat: hb,
		Alerter:   alerter,
		Interval:  interval,
		Timeout:   30 * time.Second,
	}
}

// Run starts the loop. It does an immediate pass, then runs each tick.
// Stops when ctx is cancelled.
func (c *Collector) Run(ctx context.Context) {
	t := time.NewTicker(c.Interval)
	defer t.Stop()

	// immediate pass
	c.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			c.Logger.Info("collector_stopped")
			return
		case <-t.C:
			c.runOnce(ctx)
		}
	}
}

// runOnce visits every location in file order. Failures are collected rather
// than short-circuiting, so one broken location never hides the rest.
func (c *Collector) runOnce(ctx context.Context) {
	failures := make([]notify.Failure, 0, len(c.Locations))

	for _, loc := range c.Locations {
		if err := c.collect(ctx, loc); err != nil {
			c.Logger.Error("location_failed",
				zap.Int("id", loc.ID),
				zap.String("name", loc.Name),
				zap.Error(err),
			)
			metrics.LocationErrors.Inc()
			failures = append(failures, notify.Failure{Subject: loc.Name, Reason: err.Error()})
		}
	}

	// The heartbeat moves regardless of per-location failures: it certifies
	// that the loop is alive, not that the upstream is.
	if err := c.Heartbeat.Update(); err != nil {
		c.Logger.Warn("heartbeat_update_failed", zap.Error(err))
	}
	metrics.Cycles.Inc()

	c.Alerter.Evaluate(ctx, failures)
}

func (c *Collector) collect(ctx context.Context, loc domain.Location) error {
	cctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	fc, err := c.Forecasts.Fetch(cctx, loc)
	if err != nil {
		return fmt.Errorf("forecast request failed: %w", err)
	}
	return c.Store.Write(cctx, loc, fc)
}
