package domain

import "time"

// ForecastTimeLayout is the upstream's minute-resolution timestamp format.
const ForecastTimeLayout = "2006-01-02 15:04"

// ForecastValue is a single rainfall reading: the interval key as reported by
// the upstream service and its intensity value.
type ForecastValue struct {
	Key   string `json:"key"`
	Value uint32 `json:"value"`
}

// Forecast is one upstream reply for a location. From keeps the upstream
// timestamp verbatim; it is parsed only when a storage backend needs an
// instant.
type Forecast struct {
	From    string            `json:"from"`
	Lat     float64           `json:"lat"`
	Lon     float64           `json:"lon"`
	Current ForecastValue     `json:"current"`
	Values  map[string]uint32 `json:"forecasts"`
}

// FromTime parses the upstream timestamp. The upstream reports naive local
// times; they are treated as UTC throughout.
func (f Forecast) FromTime() (time.Time, error) {
	return time.Parse(ForecastTimeLayout, f.From)
}

// CurrentMap returns the current reading as a one-entry map, the shape the
// storage backends serialize it in.
func (f Forecast) CurrentMap() map[string]uint32 {
	return map[string]uint32{f.Current.Key: f.Current.Value}
}
