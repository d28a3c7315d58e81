package osm

import (
	"encoding/json"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type overpassResponse struct {
	Elements []element `json:"elements"`
}

type element struct {
	Type     string            `json:"type"`
	ID       int64             `json:"id"`
	Tags     map[string]string `json:"tags"`
	Geometry []coordinate      `json:"geometry"`
	Members  []member          `json:"members"`
}

type coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type member struct {
	Type     string       `json:"type"`
	Role     string       `json:"role"`
	Geometry []coordinate `json:"geometry"`
}

func lineString(coords []coordinate) orb.LineString {
	line := make(orb.LineString, 0, len(coords))
	for _, c := range coords {
		line = append(line, orb.Point{c.Lon, c.Lat})
	}
	return line
}

func decodeGraph(body []byte) (*Graph, error) {
	var resp overpassResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	graph := &Graph{}
	for _, el := range resp.Elements {
		if el.Type != "way" || len(el.Geometry) < 2 {
			continue
		}
		line := lineString(el.Geometry)
		graph.Nodes = append(graph.Nodes, line...)
		graph.Ways = append(graph.Ways, Way{
			Geometry: line,
			// semicolon-separated values keep their order; the first wins
			Highway: strings.Split(el.Tags["highway"], ";"),
		})
	}
	return graph, nil
}

// decodeFeatures keeps only polygonal geometry: closed ways become
// polygons, multipolygon relations contribute their closed outer rings.
func decodeFeatures(body []byte) (*geojson.FeatureCollection, error) {
	var resp overpassResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	fc := geojson.NewFeatureCollection()
	for _, el := range resp.Elements {
		var geom orb.Geometry

		switch el.Type {
		case "way":
			if ring := closedRing(el.Geometry); ring != nil {
				geom = orb.Polygon{ring}
			}
		case "relation":
			var mp orb.MultiPolygon
			for _, m := range el.Members {
				if m.Type != "way" || m.Role == "inner" {
					continue
				}
				if ring := closedRing(m.Geometry); ring != nil {
					mp = append(mp, orb.Polygon{ring})
				}
			}
			if len(mp) > 0 {
				geom = mp
			}
		}

		if geom == nil {
			continue
		}
		feature := geojson.NewFeature(geom)
		for k, v := range el.Tags {
			feature.Properties[k] = v
		}
		fc.Append(feature)
	}
	return fc, nil
}

func closedRing(coords []coordinate) orb.Ring {
	if len(coords) < 4 {
		return nil
	}
	first, last := coords[0], coords[len(coords)-1]
	if first.Lat != last.Lat || first.Lon != last.Lon {
		return nil
	}
	ring := make(orb.Ring, 0, len(coords))
	for _, c := range coords {
		ring = append(ring, orb.Point{c.Lon, c.Lat})
	}
	return ring
}
