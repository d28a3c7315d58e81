// Package keys derives deterministic logical cache keys from request
// parameters. The same logical request always yields the same key; any
// parameter that affects the result is part of the key.
package keys

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Coords keys a geocoding lookup. Name matching is case-insensitive.
func Coords(city, country string) string {
	return fmt.Sprintf("coords_%s_%s", normalizeName(city), normalizeName(country))
}

// Graph keys a street-network download around a point.
func Graph(lat, lon float64, dist int) string {
	return fmt.Sprintf("graph_%s_%s_%d", formatCoord(lat), formatCoord(lon), dist)
}

// Features keys a feature-layer download. The tag set is order-insensitive:
// keys are sorted before joining.
func Features(name string, lat, lon float64, dist int, tags map[string]string) string {
	tagKeys := make([]string, 0, len(tags))
	for k := range tags {
		tagKeys = append(tagKeys, k)
	}
	sort.Strings(tagKeys)
	return fmt.Sprintf("%s_%s_%s_%d_%s",
		name, formatCoord(lat), formatCoord(lon), dist, strings.Join(tagKeys, "_"))
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// shortest round-trippable representation, stable across calls
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
