package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

type status struct {
	Instance         string    `json:"instance"`
	StartedAt        time.Time `json:"started_at"`
	Locations        int       `json:"locations"`
	LastHeartbeat    time.Time `json:"last_heartbeat"`
	HeartbeatAge     float64   `json:"heartbeat_age_seconds"`
	AlertOutstanding bool      `json:"alert_outstanding"`
}

func main() {
	api := os.Getenv("API_BASE")
	if api == "" {
		api = "http://localhost:8080"
	}

	resp, err := http.Get(api + "/api/status")
	if err != nil {
		fmt.Println("Error contacting collector:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		fmt.Println("Collector returned status:", resp.Status)
		os.Exit(1)
	}

	var s status
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		fmt.Println("Could not decode status:", err)
		os.Exit(1)
	}

	fmt.Printf("instance:   %s\n", s.Instance)
	fmt.Printf("started:    %s\n", s.StartedAt.Format(time.RFC3339))
	fmt.Printf("locations:  %d\n", s.Locations)
	fmt.Printf("last beat:  %s (%.0fs ago)\n", s.LastHeartbeat.Format(time.RFC3339), s.HeartbeatAge)
	if s.AlertOutstanding {
		fmt.Println("alerts:     outstanding (check the webhook channel)")
	} else {
		fmt.Println("alerts:     none")
	}
}
