package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hamed0406/weathercollector/internal/collector"
	"github.com/hamed0406/weathercollector/internal/config"
	"github.com/hamed0406/weathercollector/internal/forecast"
	"github.com/hamed0406/weathercollector/internal/heartbeat"
	"github.com/hamed0406/weathercollector/internal/httpapi"
	"github.com/hamed0406/weathercollector/internal/logging"
	"github.com/hamed0406/weathercollector/internal/metrics"
	"github.com/hamed0406/weathercollector/internal/notify"
	"github.com/hamed0406/weathercollector/internal/store"
	"github.com/hamed0406/weathercollector/internal/store/influx"
	"github.com/hamed0406/weathercollector/internal/store/memory"
)

func main() {
	healthCheck := flag.Bool("health-check", false, "run a liveness probe against the collector and exit")
	uncheckedTLS := flag.Bool("unchecked-tls", false, "skip TLS verification on upstream requests")
	flag.Parse()

	_ = godotenv.Load() // best effort; deployments usually set the environment directly
	cfg := config.FromEnv()

	if *healthCheck {
		os.Exit(runProbe(cfg))
	}

	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	for _, v := range []struct{ name, val string }{
		{"INFLUX_URL", cfg.InfluxURL},
		{"INFLUX_ORG", cfg.InfluxOrg},
		{"INFLUX_TOKEN", cfg.InfluxToken},
		{"DISCORD_WEBHOOK_ID", cfg.WebhookID},
		{"DISCORD_WEBHOOK_TOKEN", cfg.WebhookToken},
	} {
		if v.val == "" {
			logger.Fatal("missing_required_env", zap.String("name", v.name))
		}
	}

	locations, err := config.LoadLocations(cfg.LocationsFile)
	if err != nil {
		logger.Fatal("locations_load_failed", zap.Error(err))
	}

	// liveness transport
	var hb heartbeat.Channel
	var lastBeat func() time.Time
	switch heartbeat.ParseMode(cfg.HeartbeatMode) {
	case heartbeat.ModeFile:
		fc, err := heartbeat.NewFileChannel()
		if err != nil {
			logger.Fatal("heartbeat_file_failed", zap.Error(err))
		}
		if err := fc.Create(); err != nil {
			logger.Fatal("heartbeat_file_failed", zap.Error(err))
		}
		hb = fc
		lastBeat = func() time.Time {
			t, err := fc.Query()
			if err != nil {
				return time.Unix(0, 0)
			}
			return t
		}
		logger.Info("heartbeat_ready", zap.String("mode", "file"), zap.String("path", fc.Path()))
	default:
		sc := heartbeat.NewSocketChannel(cfg.SocketPath, logger)
		if err := sc.Listen(); err != nil {
			logger.Fatal("heartbeat_listen_failed", zap.Error(err))
		}
		go func() {
			if err := sc.Serve(); err != nil {
				// The prober reads this as unhealthy and the orchestrator
				// restarts us; no point taking the poll loop down too.
				logger.Error("heartbeat_serve_failed", zap.Error(err))
			}
		}()
		hb = sc
		lastBeat = sc.Clock().Snapshot
		logger.Info("heartbeat_ready", zap.String("mode", "socket"), zap.String("path", cfg.SocketPath))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// storage
	db := influx.New(cfg.InfluxURL, cfg.InfluxOrg, cfg.InfluxToken, cfg.InfluxBucket, logger)
	defer db.Close()
	if err := db.EnsureBucket(ctx); err != nil {
		logger.Fatal("bucket_init_failed", zap.Error(err))
	}
	cache := memory.New()

	// notifications
	discord := notify.NewDiscord(cfg.WebhookID, cfg.WebhookToken)
	alerter := collector.NewAlerter(logger, notify.Multi{discord})

	col := collector.New(
		logger,
		locations,
		forecast.NewClient(cfg.ForecastBaseURL, *uncheckedTLS),
		store.Multi{db, cache},
		hb,
		alerter,
		cfg.PollInterval,
	)

	// status API
	metrics.RegisterHeartbeatAge(lastBeat)
	api := httpapi.NewServer(logger, uuid.NewString(), locations, cache, alerter, lastBeat)
	go func() {
		logger.Info("api_listen", zap.String("addr", cfg.Addr))
		if err := http.ListenAndServe(cfg.Addr, api.Router()); err != nil {
			logger.Error("api_failed", zap.Error(err))
		}
	}()

	logger.Info("collector_started",
		zap.Int("locations", len(locations)),
		zap.Duration("interval", cfg.PollInterval),
	)
	col.Run(ctx)
}

// runProbe performs the one-shot liveness check wired up as the container
// health command. It prints the verdict and exits 0 (healthy) or 1.
func runProbe(cfg config.Config) int {
	var ch heartbeat.Channel
	switch heartbeat.ParseMode(cfg.HeartbeatMode) {
	case heartbeat.ModeFile:
		fc, err := heartbeat.NewFileChannel()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		ch = fc
	default:
		ch = heartbeat.NewSocketChannel(cfg.SocketPath, zap.NewNop())
	}

	verdict, err := heartbeat.Check(ch, cfg.HealthyWindow)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(verdict.Reason)
	return verdict.ExitCode()
}
