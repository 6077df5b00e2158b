// Package store persists forecast observations.
package store

import (
	"context"

	"go.uber.org/multierr"

	"github.com/hamed0406/weathercollector/internal/domain"
)

// Ports (interfaces) — swap in any backend.
type ForecastWriter interface {
	Write(ctx context.Context, loc domain.Location, fc domain.Forecast) error
}

// Multi writes each observation to every backend and collects the failures,
// so a broken database does not starve the in-memory cache or vice versa.
// Nil entries are skipped.
type Multi []ForecastWriter

func (m Multi) Write(ctx context.Context, loc domain.Location, fc domain.Forecast) error {
	var errs error
	for _, w := range m {
		if w == nil {
			continue
		}
		errs = multierr.Append(errs, w.Write(ctx, loc, fc))
	}
	return errs
}
