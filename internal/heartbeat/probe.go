package heartbeat

import (
	"fmt"
	"time"
)

// Verdict is the outcome of one liveness probe.
type Verdict struct {
	Healthy bool
	Age     time.Duration
	Reason  string
}

// ExitCode maps the verdict to the process exit convention container
// orchestrators expect: 0 healthy, 1 not.
func (v Verdict) ExitCode() int {
	if v.Healthy {
		return 0
	}
	return 1
}

// Check performs exactly one query against the channel and classifies the
// result. A last update younger than the window is healthy; at or beyond the
// window is not. A query failure means the collector is unreachable and is
// returned as an error so callers can report it separately.
func Check(ch Channel, window time.Duration) (Verdict, error) {
	last, err := ch.Query()
	if err != nil {
		return Verdict{}, err
	}
	return classify(last, time.Now(), window), nil
}

func classify(last, now time.Time, window time.Duration) Verdict {
	// A timestamp from the future means the clocks of prober and collector
	// disagree, not that the collector is stuck.
	if last.After(now) {
		return Verdict{Healthy: true, Reason: "last update is from the future, this is fine"}
	}
	age := now.Sub(last)
	return Verdict{
		Healthy: age < window,
		Age:     age,
		Reason:  fmt.Sprintf("last update was %d seconds ago", int64(age/time.Second)),
	}
}
