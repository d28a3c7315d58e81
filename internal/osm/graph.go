// Package osm fetches street networks and feature layers from
// OpenStreetMap with caching and rate limiting.
package osm

import "github.com/paulmach/orb"

// Way is one street polyline with its road classification tags. When the
// highway tag is multi-valued the first entry is authoritative.
type Way struct {
	Geometry orb.LineString `json:"geometry"`
	Highway  []string       `json:"highway"`
}

// Graph is a street network around a point. Nodes carry every vertex
// position and drive crop-extent computation; Ways carry drawable edges.
type Graph struct {
	Nodes []orb.Point `json:"nodes"`
	Ways  []Way       `json:"ways"`
}

// Bound is the bounding box over all node positions.
func (g *Graph) Bound() orb.Bound {
	bound := orb.Bound{Min: orb.Point{1, 1}, Max: orb.Point{-1, -1}}
	for i, node := range g.Nodes {
		if i == 0 {
			bound = orb.Bound{Min: node, Max: node}
			continue
		}
		bound = bound.Extend(node)
	}
	return bound
}

// Tier is a road-hierarchy level used for styling. Every highway tag value
// maps to exactly one tier.
type Tier int

const (
	TierMotorway Tier = iota
	TierPrimary
	TierSecondary
	TierTertiary
	TierResidential
	TierDefault
)

// Classify maps a way's highway tags to its tier. An absent tag counts as
// unclassified.
func Classify(highway []string) Tier {
	value := "unclassified"
	if len(highway) > 0 && highway[0] != "" {
		value = highway[0]
	}

	switch value {
	case "motorway", "motorway_link":
		return TierMotorway
	case "trunk", "trunk_link", "primary", "primary_link":
		return TierPrimary
	case "secondary", "secondary_link":
		return TierSecondary
	case "tertiary", "tertiary_link":
		return TierTertiary
	case "residential", "living_street", "unclassified":
		return TierResidential
	default:
		return TierDefault
	}
}
