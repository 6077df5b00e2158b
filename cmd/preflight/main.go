// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/hamed0406/weathercollector/internal/config"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	_ = godotenv.Load()

	influxURL := strings.TrimSpace(os.Getenv("INFLUX_URL"))
	influxOrg := strings.TrimSpace(os.Getenv("INFLUX_ORG"))
	influxToken := strings.TrimSpace(os.Getenv("INFLUX_TOKEN"))
	webhookID := strings.TrimSpace(os.Getenv("DISCORD_WEBHOOK_ID"))
	webhookToken := strings.TrimSpace(os.Getenv("DISCORD_WEBHOOK_TOKEN"))
	mode := strings.TrimSpace(os.Getenv("HEARTBEAT_MODE"))
	apiAddr := strings.TrimSpace(os.Getenv("API_ADDR"))

	if influxURL == "" {
		fail("INFLUX_URL is empty (nowhere to write forecasts).")
	}
	if influxOrg == "" {
		fail("INFLUX_ORG is empty.")
	}
	if influxToken == "" {
		fail("INFLUX_TOKEN is empty (writes will 401).")
	}
	ok("InfluxDB connection configured")

	if webhookID == "" || webhookToken == "" {
		fail("DISCORD_WEBHOOK_ID/DISCORD_WEBHOOK_TOKEN incomplete (outages would go unnoticed).")
	}
	ok("Discord webhook configured")

	switch mode {
	case "", "socket", "file":
	default:
		warn("HEARTBEAT_MODE=" + mode + " is unknown; the collector falls back to socket.")
	}

	if apiAddr == "" {
		warn("API_ADDR is empty; default in your app may be used.")
	} else {
		ok("API_ADDR=" + apiAddr)
	}

	locFile := strings.TrimSpace(os.Getenv("LOCATIONS_FILE"))
	if locFile == "" {
		locFile = "locations.yaml"
	}
	if locs, err := config.LoadLocations(locFile); err != nil {
		warn("locations file " + locFile + ": " + err.Error())
	} else {
		ok(fmt.Sprintf("locations file %s: %d locations", locFile, len(locs)))
	}

	ok("preflight passed")
}
