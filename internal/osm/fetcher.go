package osm

import (
	"context"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Tag filters for the two feature layers rendered on a poster.
var (
	WaterTags = map[string]string{"natural": "water", "waterway": "riverbank"}
	ParkTags  = map[string]string{"leisure": "park", "landuse": "grass"}
)

// Fetcher downloads map data for a radius around a point. A street-graph
// failure is fatal to the request; a feature-layer failure is not, and
// callers proceed with that layer absent.
type Fetcher interface {
	FetchGraph(ctx context.Context, point orb.Point, dist int) (*Graph, error)
	FetchFeatures(ctx context.Context, point orb.Point, dist int, tags map[string]string, name string) (*geojson.FeatureCollection, error)
}
