package collector

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/hamed0406/weathercollector/internal/notify"
)

// ---- shared helpers ----

type fakeNotifier struct {
	alertErr    error
	resolvedErr error

	alertCalls    [][]notify.Failure
	resolvedCalls int
}

func (f *fakeNotifier) Alert(ctx context.Context, failures []notify.Failure) error {
	cp := append([]notify.Failure(nil), failures...)
	f.alertCalls = append(f.alertCalls, cp)
	return f.alertErr
}

func (f *fakeNotifier) Resolved(ctx context.Context) error {
	f.resolvedCalls++
	return f.resolvedErr
}

func failures(subjects ...string) []notify.Failure {
	out := make([]notify.Failure, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, notify.Failure{Subject: s, Reason: "boom"})
	}
	return out
}

// ---- tests ----

func TestAlerter_EdgeTriggered(t *testing.T) {
	n := &fakeNotifier{}
	a := NewAlerter(zap.NewNop(), n)
	ctx := context.Background()

	// quiet + clean cycle: nothing
	a.Evaluate(ctx, nil)
	if len(n.alertCalls) != 0 || n.resolvedCalls != 0 {
		t.Fatalf("quiet+clean must stay silent: %+v", n)
	}

	// quiet + failures: alert once
	a.Evaluate(ctx, failures("Hannover"))
	if len(n.alertCalls) != 1 || !a.Outstanding() {
		t.Fatalf("expected one alert and outstanding state: %+v", n)
	}

	// outstanding + failures: suppressed, even with a different set
	a.Evaluate(ctx, failures("Hannover", "Berlin"))
	if len(n.alertCalls) != 1 {
		t.Fatalf("repeat failures must not re-alert: %d calls", len(n.alertCalls))
	}

	// outstanding + clean: resolved once
	a.Evaluate(ctx, nil)
	if n.resolvedCalls != 1 || a.Outstanding() {
		t.Fatalf("expected one resolution and quiet state: %+v", n)
	}

	// quiet + clean again: still nothing
	a.Evaluate(ctx, nil)
	if len(n.alertCalls) != 1 || n.resolvedCalls != 1 {
		t.Fatalf("no further sends expected: %+v", n)
	}
}

func TestAlerter_FailedAlertRetriesNextCycle(t *testing.T) {
	n := &fakeNotifier{alertErr: errors.New("webhook 500")}
	a := NewAlerter(zap.NewNop(), n)
	ctx := context.Background()

	a.Evaluate(ctx, failures("Hannover"))
	if a.Outstanding() {
		t.Fatal("failed delivery must leave state quiet")
	}

	// still failing: another attempt
	a.Evaluate(ctx, failures("Hannover"))
	if len(n.alertCalls) != 2 {
		t.Fatalf("expected an implicit retry, got %d attempts", len(n.alertCalls))
	}

	// webhook recovers
	n.alertErr = nil
	a.Evaluate(ctx, failures("Hannover"))
	if len(n.alertCalls) != 3 || !a.Outstanding() {
		t.Fatal("successful delivery must flip the state")
	}

	// now suppressed
	a.Evaluate(ctx, failures("Hannover"))
	if len(n.alertCalls) != 3 {
		t.Fatal("suppression broken after recovery")
	}
}

func TestAlerter_FailedResolutionRetriesNextCycle(t *testing.T) {
	n := &fakeNotifier{}
	a := NewAlerter(zap.NewNop(), n)
	ctx := context.Background()

	a.Evaluate(ctx, failures("Hannover"))
	if !a.Outstanding() {
		t.Fatal("setup: alert should have been delivered")
	}

	n.resolvedErr = errors.New("webhook down")
	a.Evaluate(ctx, nil)
	if !a.Outstanding() {
		t.Fatal("failed resolution must keep the alert outstanding")
	}

	n.resolvedErr = nil
	a.Evaluate(ctx, nil)
	if n.resolvedCalls != 2 || a.Outstanding() {
		t.Fatalf("expected retried resolution to clear state: calls=%d", n.resolvedCalls)
	}
}

func TestAlerter_TransitionScenario(t *testing.T) {
	n := &fakeNotifier{}
	a := NewAlerter(zap.NewNop(), n)
	ctx := context.Background()

	cycles := [][]notify.Failure{
		failures("E1"),
		nil,
		failures("E2", "E3"),
		failures("E2", "E3"),
		nil,
	}
	for _, batch := range cycles {
		a.Evaluate(ctx, batch)
	}

	if len(n.alertCalls) != 2 || n.resolvedCalls != 2 {
		t.Fatalf("want alert,resolved,alert,resolved; got alerts=%d resolveds=%d",
			len(n.alertCalls), n.resolvedCalls)
	}
	if n.alertCalls[0][0].Subject != "E1" {
		t.Fatalf("first alert wrong: %+v", n.alertCalls[0])
	}
	second := n.alertCalls[1]
	if len(second) != 2 || second[0].Subject != "E2" || second[1].Subject != "E3" {
		t.Fatalf("second alert wrong: %+v", second)
	}
	if a.Outstanding() {
		t.Fatal("scenario must end quiet")
	}
}
