// Package memory caches the latest observation per location, backing the
// status API without a database round trip.
package memory

import (
	"context"
	"sort"
	"strconv"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/hamed0406/weathercollector/internal/domain"
)

// Entry is the newest accepted observation for one location.
type Entry struct {
	Location domain.Location `json:"location"`
	Forecast domain.Forecast `json:"forecast"`
	StoredAt time.Time       `json:"stored_at"`
}

type Store struct {
	entries cmap.ConcurrentMap[string, Entry]
}

func New() *Store {
	return &Store{entries: cmap.New[Entry]()}
}

// Write replaces the cached observation for the location.
func (s *Store) Write(ctx context.Context, loc domain.Location, fc domain.Forecast) error {
	s.entries.Set(strconv.Itoa(loc.ID), Entry{
		Location: loc,
		Forecast: fc,
		StoredAt: time.Now().UTC(),
	})
	return nil
}

// Latest returns the cached observations ordered by location id.
func (s *Store) Latest() []Entry {
	out := make([]Entry, 0, s.entries.Count())
	for _, e := range s.entries.Items() {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Location.ID < out[j].Location.ID })
	return out
}
