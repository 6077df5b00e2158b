package config

import (
	"os"
	"time"
)

type Config struct {
	// Upstream forecast service.
	ForecastBaseURL string

	// InfluxDB connection. URL, org and token are required to run the
	// collector; the bucket is created on startup when missing.
	InfluxURL    string
	InfluxOrg    string
	InfluxToken  string
	InfluxBucket string

	// Discord webhook credentials for outage notifications.
	WebhookID    string
	WebhookToken string

	// Poll cadence and the window within which the last completed cycle
	// still counts as alive.
	PollInterval  time.Duration
	HealthyWindow time.Duration

	// Liveness transport: "socket" (default) or "file".
	HeartbeatMode string
	SocketPath    string

	Addr          string // status API bind address
	LogDir        string // logs directory
	LocationsFile string // YAML document listing the polled locations
}

func FromEnv() Config {
	base := os.Getenv("FORECAST_BASE_URL")
	if base == "" {
		base = "https://swat.itwh.de"
	}

	bucket := os.Getenv("INFLUX_BUCKET")
	if bucket == "" {
		bucket = "forecasts"
	}

	poll := 2 * time.Minute
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			poll = d
		}
	}

	// The window is deliberately wider than the poll interval so a single
	// slow cycle does not flap the probe.
	window := 3 * time.Minute
	if v := os.Getenv("HEALTHY_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			window = d
		}
	}

	mode := os.Getenv("HEARTBEAT_MODE")
	if mode == "" {
		mode = "socket"
	}

	socket := os.Getenv("HEARTBEAT_SOCKET")
	if socket == "" {
		socket = "/tmp/weathercollector/collector.health.sock"
	}

	// Bind address (localhost-friendly default)
	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	// Logs
	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	locations := os.Getenv("LOCATIONS_FILE")
	if locations == "" {
		locations = "locations.yaml"
	}

	return Config{
		ForecastBaseURL: base,
		InfluxURL:       os.Getenv("INFLUX_URL"),
		InfluxOrg:       os.Getenv("INFLUX_ORG"),
		InfluxToken:     os.Getenv("INFLUX_TOKEN"),
		InfluxBucket:    bucket,
		WebhookID:       os.Getenv("DISCORD_WEBHOOK_ID"),
		WebhookToken:    os.Getenv("DISCORD_WEBHOOK_TOKEN"),
		PollInterval:    poll,
		HealthyWindow:   window,
		HeartbeatMode:   mode,
		SocketPath:      socket,
		Addr:            addr,
		LogDir:          logDir,
		LocationsFile:   locations,
	}
}
