package notify

import (
	"context"

	"go.uber.org/multierr"
)

// Failure is one subject that failed during a poll cycle. Batches keep cycle
// order, so notifications list locations the way the loop visited them.
type Failure struct {
	Subject string
	Reason  string
}

// Notifier delivers outage transitions. Alert fires when a clean run turns
// into a failing one, Resolved when the failures clear again.
type Notifier interface {
	Alert(ctx context.Context, failures []Failure) error
	Resolved(ctx context.Context) error
}

// Multi fans a transition out to several notifiers, collecting every delivery
// error instead of stopping at the first. Nil entries are skipped so optional
// backends can be wired unconditionally.
type Multi []Notifier

func (m Multi) Alert(ctx context.Context, failures []Failure) error {
	var errs error
	for _, n := range m {
		if n == nil {
			continue
		}
		errs = multierr.Append(errs, n.Alert(ctx, failures))
	}
	return errs
}

func (m Multi) Resolved(ctx context.Context) error {
	var errs error
	for _, n := range m {
		if n == nil {
			continue
		}
		errs = multierr.Append(errs, n.Resolved(ctx))
	}
	return errs
}
