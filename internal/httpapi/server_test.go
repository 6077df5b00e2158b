package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/weathercollector/internal/domain"
	"github.com/hamed0406/weathercollector/internal/store/memory"
)

// ---- test helpers ----

type fakeAlerts struct{ outstanding bool }

func (f *fakeAlerts) Outstanding() bool { return f.outstanding }

func setupServer(t *testing.T, alerts *fakeAlerts, lastBeat time.Time) (*httptest.Server, *memory.Store) {
	t.Helper()
	cache := memory.New()
	srv := NewServer(
		zap.NewNop(),
		"instance-1",
		[]domain.Location{{ID: 1, Name: "Hannover"}, {ID: 2, Name: "Berlin"}},
		cache,
		alerts,
		func() time.Time { return lastBeat },
	)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, cache
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

// ---- tests ----

func TestHealthz(t *testing.T) {
	ts, _ := setupServer(t, &fakeAlerts{}, time.Now())

	resp, body := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("healthz wrong: %d %q", resp.StatusCode, body)
	}
}

func TestStatus(t *testing.T) {
	lastBeat := time.Now().Add(-42 * time.Second)
	ts, _ := setupServer(t, &fakeAlerts{outstanding: true}, lastBeat)

	resp, body := get(t, ts.URL+"/api/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code: %d", resp.StatusCode)
	}
	var p statusPayload
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Instance != "instance-1" || p.Locations != 2 || !p.AlertOutstanding {
		t.Fatalf("payload wrong: %+v", p)
	}
	if p.HeartbeatAge < 42 || p.HeartbeatAge > 50 {
		t.Fatalf("heartbeat age off: %v", p.HeartbeatAge)
	}
	if !p.LastHeartbeat.Equal(lastBeat.UTC()) {
		t.Fatalf("last heartbeat wrong: %v", p.LastHeartbeat)
	}
}

func TestForecasts(t *testing.T) {
	ts, cache := setupServer(t, &fakeAlerts{}, time.Now())

	ctx := context.Background()
	_ = cache.Write(ctx, domain.Location{ID: 2, Name: "Berlin"}, domain.Forecast{From: "2025-08-18 12:00"})
	_ = cache.Write(ctx, domain.Location{ID: 1, Name: "Hannover"}, domain.Forecast{From: "2025-08-18 12:05"})

	resp, body := get(t, ts.URL+"/api/forecasts")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "application/json" {
		t.Fatalf("response wrong: %d %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	var entries []memory.Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 2 || entries[0].Location.Name != "Hannover" || entries[1].Location.Name != "Berlin" {
		t.Fatalf("entries wrong: %+v", entries)
	}
}

func TestForecasts_EmptyCache(t *testing.T) {
	ts, _ := setupServer(t, &fakeAlerts{}, time.Now())

	_, body := get(t, ts.URL+"/api/forecasts")
	if strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("empty cache must encode as []: %q", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := setupServer(t, &fakeAlerts{}, time.Now())

	resp, body := get(t, ts.URL+"/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics status: %d", resp.StatusCode)
	}
	// default registry always carries the runtime collectors
	if !strings.Contains(string(body), "go_goroutines") {
		t.Fatal("expected prometheus exposition output")
	}
}
