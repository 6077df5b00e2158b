// Package forecast talks to the SWAT rain forecast service.
package forecast

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hamed0406/weathercollector/internal/domain"
)

// Client fetches forecasts over HTTP. BaseURL carries no trailing slash.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient builds the upstream client. insecureTLS disables certificate
// verification for deployments behind an intercepting proxy.
func NewClient(baseURL string, insecureTLS bool) *Client {
	hc := &http.Client{Timeout: 15 * time.Second}
	if insecureTLS {
		hc.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return &Client{BaseURL: baseURL, HTTP: hc}
}

// wireForecast mirrors the upstream response, German field names and all.
type wireForecast struct {
	From    string            `json:"vorhersageZeit"`
	Lat     float64           `json:"lat"`
	Lon     float64           `json:"lon"`
	Current map[string]uint32 `json:"aktuell"`
	Values  map[string]uint32 `json:"vorhersage"`
}

// Fetch requests the forecast for one location.
func (c *Client) Fetch(ctx context.Context, loc domain.Location) (domain.Forecast, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(loc.Lon, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/Vorhersage?"+q.Encode(), nil)
	if err != nil {
		return domain.Forecast{}, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return domain.Forecast{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Forecast{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Forecast{}, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var wire wireForecast
	if err := json.Unmarshal(body, &wire); err != nil {
		// Keep what the upstream actually sent; it is usually an HTML error
		// page and the only clue to what went wrong.
		return domain.Forecast{}, fmt.Errorf("decoding forecast: %w, original text:\n%s", err, excerpt(body))
	}
	current, err := firstByKey(wire.Current)
	if err != nil {
		return domain.Forecast{}, err
	}
	return domain.Forecast{
		From:    wire.From,
		Lat:     wire.Lat,
		Lon:     wire.Lon,
		Current: current,
		Values:  wire.Values,
	}, nil
}

// firstByKey picks the entry with the smallest key. The upstream keys its
// readings by interval start, so the smallest one is "now".
func firstByKey(m map[string]uint32) (domain.ForecastValue, error) {
	if len(m) == 0 {
		return domain.ForecastValue{}, errors.New("aktuell: expected at least one element")
	}
	var cur domain.ForecastValue
	found := false
	for k, v := range m {
		if !found || k < cur.Key {
			cur = domain.ForecastValue{Key: k, Value: v}
			found = true
		}
	}
	return cur, nil
}

func excerpt(b []byte) string {
	const max = 512
	if len(b) > max {
		return string(b[:max]) + "…"
	}
	return string(b)
}
