package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/hamed0406/weathercollector/internal/domain"
)

var validate = validator.New()

type locationsFile struct {
	Locations []domain.Location `yaml:"locations" validate:"min=1,dive"`
}

// LoadLocations reads the polled locations from a YAML document:
//
//	locations:
//	  - id: 1
//	    name: Hannover
//	    lat: 52.374
//	    lon: 9.738
//
// Every entry needs a unique id; it keys the database series, so reusing one
// would silently merge two places.
func LoadLocations(path string) ([]domain.Location, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading locations file: %w", err)
	}

	var f locationsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing locations file: %w", err)
	}
	if err := validate.Struct(&f); err != nil {
		return nil, fmt.Errorf("validating locations file: %w", err)
	}

	seen := make(map[int]string, len(f.Locations))
	for _, loc := range f.Locations {
		if prev, ok := seen[loc.ID]; ok {
			return nil, fmt.Errorf("duplicate location id %d (%s, %s)", loc.ID, prev, loc.Name)
		}
		seen[loc.ID] = loc.Name
	}
	return f.Locations, nil
}
