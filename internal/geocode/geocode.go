// Package geocode resolves city names to coordinates with caching and rate
// limiting.
package geocode

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"
)

// Error is a failed resolution. It carries the original query; geocoding
// failure is fatal to the enclosing poster request.
type Error struct {
	Query string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("geocoding failed for %s: %v", e.Query, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Geocoder resolves a city and country to a WGS84 point (lon, lat order,
// following orb).
type Geocoder interface {
	Geocode(ctx context.Context, city, country string) (orb.Point, error)
}
