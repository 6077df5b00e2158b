package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hamed0406/weathercollector/internal/domain"
	"github.com/hamed0406/weathercollector/internal/store/memory"
)

// AlertState is the alerter's read side.
type AlertState interface {
	Outstanding() bool
}

// Cache serves the latest observation per location.
type Cache interface {
	Latest() []memory.Entry
}

type Server struct {
	Logger    *zap.Logger
	Instance  string
	StartedAt time.Time
	Locations []domain.Location
	Cache     Cache
	Alerts    AlertState
	LastBeat  func() time.Time
}

func NewServer(
	l *zap.Logger,
	instance string,
	locations []domain.Location,
	cache Cache,
	alerts AlertState,
	lastBeat func() time.Time,
) *Server {
	return &Server{
		Logger:    l,
		Instance:  instance,
		StartedAt: time.Now().UTC(),
		Locations: locations,
		Cache:     cache,
		Alerts:    alerts,
		LastBeat:  lastBeat,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/api/status", s.handleStatus)
	r.Get("/api/forecasts", s.handleForecasts)

	return r
}

type statusPayload struct {
	Instance         string    `json:"instance"`
	StartedAt        time.Time `json:"started_at"`
	Locations        int       `json:"locations"`
	LastHeartbeat    time.Time `json:"last_heartbeat"`
	HeartbeatAge     float64   `json:"heartbeat_age_seconds"`
	AlertOutstanding bool      `json:"alert_outstanding"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	last := s.LastBeat()
	p := statusPayload{
		Instance:         s.Instance,
		StartedAt:        s.StartedAt,
		Locations:        len(s.Locations),
		LastHeartbeat:    last.UTC(),
		HeartbeatAge:     time.Since(last).Seconds(),
		AlertOutstanding: s.Alerts.Outstanding(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(p); err != nil {
		s.Logger.Warn("status_write_failed", zap.Error(err))
	}
}

func (s *Server) handleForecasts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Cache.Latest()); err != nil {
		s.Logger.Warn("forecasts_write_failed", zap.Error(err))
	}
}
