package influx

import (
	"strings"
	"testing"
	"time"

	"github.com/hamed0406/weathercollector/internal/domain"
)

var observation = domain.Forecast{
	From: "2025-08-18 12:05",
	Lat:  52.3744,
	Lon:  9.7386,
	Current: domain.ForecastValue{
		Key: "2025-08-18 12:05", Value: 3,
	},
	Values: map[string]uint32{
		"2025-08-18 12:15": 0,
		"2025-08-18 12:10": 2,
	},
}

func TestBuildPoint(t *testing.T) {
	loc := domain.Location{ID: 1, Name: "Hannover", Lat: 52.3744, Lon: 9.7386}

	p, err := buildPoint(loc, observation)
	if err != nil {
		t.Fatalf("buildPoint: %v", err)
	}

	if p.Name() != "forecast" {
		t.Fatalf("measurement wrong: %q", p.Name())
	}
	want := time.Date(2025, 8, 18, 12, 5, 0, 0, time.UTC)
	if !p.Time().Equal(want) {
		t.Fatalf("timestamp wrong: %v", p.Time())
	}

	tags := map[string]string{}
	for _, tag := range p.TagList() {
		tags[tag.Key] = tag.Value
	}
	if tags["id"] != "1" || tags["name"] != "Hannover" || tags["lat"] != "52.3744" || tags["lon"] != "9.7386" {
		t.Fatalf("tags wrong: %v", tags)
	}

	fields := map[string]interface{}{}
	for _, f := range p.FieldList() {
		fields[f.Key] = f.Value
	}
	if fields["current"] != `{"2025-08-18 12:05":3}` {
		t.Fatalf("current field wrong: %v", fields["current"])
	}
	// JSON object keys come out sorted, so the encoding is deterministic.
	if fields["forecasts"] != `{"2025-08-18 12:10":2,"2025-08-18 12:15":0}` {
		t.Fatalf("forecasts field wrong: %v", fields["forecasts"])
	}
}

func TestBuildPoint_BadTimestamp(t *testing.T) {
	fc := observation
	fc.From = "not a timestamp"

	_, err := buildPoint(domain.Location{ID: 1, Name: "X"}, fc)
	if err == nil || !strings.Contains(err.Error(), "parsing `from` timestamp") {
		t.Fatalf("unexpected error: %v", err)
	}
}
