package geocoding

import "context"

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geocoder resolves a Polish city name to coordinates. A nil result with a
// nil error means the lookup found nothing usable.
type Geocoder interface {
	Lookup(ctx context.Context, name string) (*Coordinates, error)
}
