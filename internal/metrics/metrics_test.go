package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterHeartbeatAge(t *testing.T) {
	base := time.Now().Add(-90 * time.Second)
	g := RegisterHeartbeatAge(func() time.Time { return base })

	got := testutil.ToFloat64(g)
	if got < 89 || got > 95 {
		t.Fatalf("age gauge off: %v", got)
	}
}

func TestCounters_Registered(t *testing.T) {
	Cycles.Inc()
	LocationErrors.Inc()
	Notifications.WithLabelValues("alert").Inc()

	if testutil.ToFloat64(Cycles) < 1 {
		t.Fatal("cycle counter not counting")
	}
	if testutil.ToFloat64(Notifications.WithLabelValues("alert")) < 1 {
		t.Fatal("notification counter not counting")
	}
}
