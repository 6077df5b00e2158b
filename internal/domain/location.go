package domain

// Location is one place the collector fetches forecasts for. Locations come
// from the locations file; the numeric id is stable and ends up as a series
// tag in the database.
type Location struct {
	ID   int     `yaml:"id" json:"id" validate:"required"`
	Name string  `yaml:"name" json:"name" validate:"required"`
	Lat  float64 `yaml:"lat" json:"lat" validate:"gte=-90,lte=90"`
	Lon  float64 `yaml:"lon" json:"lon" validate:"gte=-180,lte=180"`
}
