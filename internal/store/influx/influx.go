// Package influx writes forecast observations to InfluxDB 2.x.
package influx

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"go.uber.org/zap"

	"github.com/hamed0406/weathercollector/internal/domain"
)

const measurement = "forecast"

type Writer struct {
	client influxdb2.Client
	write  api.WriteAPIBlocking
	log    *zap.Logger
	org    string
	bucket string
}

// New builds the writer. Points carry second-resolution timestamps, matching
// the upstream's minute-grained data.
func New(url, org, token, bucket string, log *zap.Logger) *Writer {
	client := influxdb2.NewClientWithOptions(url, token,
		influxdb2.DefaultOptions().SetPrecision(time.Second))
	return &Writer{
		client: client,
		write:  client.WriteAPIBlocking(org, bucket),
		log:    log,
		org:    org,
		bucket: bucket,
	}
}

func (w *Writer) Close() { w.client.Close() }

// EnsureBucket creates the bucket on first run so a fresh InfluxDB instance
// needs no manual setup. Runs once at startup; failures there are fatal for
// the collector.
func (w *Writer) EnsureBucket(ctx context.Context) error {
	if _, err := w.client.BucketsAPI().FindBucketByName(ctx, w.bucket); err == nil {
		w.log.Info("bucket_ready", zap.String("bucket", w.bucket))
		return nil
	}
	org, err := w.client.OrganizationsAPI().FindOrganizationByName(ctx, w.org)
	if err != nil {
		return fmt.Errorf("looking up organization %q: %w", w.org, err)
	}
	if _, err := w.client.BucketsAPI().CreateBucketWithName(ctx, org, w.bucket); err != nil {
		return fmt.Errorf("creating bucket %q: %w", w.bucket, err)
	}
	w.log.Info("bucket_created", zap.String("bucket", w.bucket))
	return nil
}

// Write stores one observation as a point tagged by location.
func (w *Writer) Write(ctx context.Context, loc domain.Location, fc domain.Forecast) error {
	point, err := buildPoint(loc, fc)
	if err != nil {
		return err
	}
	if err := w.write.WritePoint(ctx, point); err != nil {
		return fmt.Errorf("writing forecast point: %w", err)
	}
	w.log.Info("forecast_written",
		zap.String("name", loc.Name),
		zap.Int("id", loc.ID),
		zap.String("from", fc.From),
	)
	return nil
}

func buildPoint(loc domain.Location, fc domain.Forecast) (*write.Point, error) {
	ts, err := fc.FromTime()
	if err != nil {
		return nil, fmt.Errorf("parsing `from` timestamp: %w", err)
	}
	// Readings go in as JSON strings; keys are map-ordered, so the encoding
	// is stable across writes.
	current, err := json.Marshal(fc.CurrentMap())
	if err != nil {
		return nil, fmt.Errorf("serializing current reading: %w", err)
	}
	values, err := json.Marshal(fc.Values)
	if err != nil {
		return nil, fmt.Errorf("serializing forecast values: %w", err)
	}
	return influxdb2.NewPoint(measurement,
		map[string]string{
			"id":   strconv.Itoa(loc.ID),
			"name": loc.Name,
			"lat":  strconv.FormatFloat(loc.Lat, 'f', -1, 64),
			"lon":  strconv.FormatFloat(loc.Lon, 'f', -1, 64),
		},
		map[string]interface{}{
			"current":   string(current),
			"forecasts": string(values),
		},
		ts,
	), nil
}
