package osm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	"github.com/mapposter/mapposter/internal/cache"
	"github.com/mapposter/mapposter/internal/cache/keys"
	"github.com/mapposter/mapposter/internal/ratelimit"
)

// Overpass fetches from an Overpass API endpoint. Street-graph and
// feature requests are separate rate-limit classes with independent
// limiters owned by this instance.
type Overpass struct {
	store    cache.Store
	client   *http.Client
	endpoint string
	graphLim *ratelimit.Limiter
	featLim  *ratelimit.Limiter
	log      zerolog.Logger
}

func NewOverpass(store cache.Store, client *http.Client, endpoint string, graphLim, featLim *ratelimit.Limiter, log zerolog.Logger) *Overpass {
	return &Overpass{
		store:    store,
		client:   client,
		endpoint: endpoint,
		graphLim: graphLim,
		featLim:  featLim,
		log:      log,
	}
}

func (o *Overpass) FetchGraph(ctx context.Context, point orb.Point, dist int) (*Graph, error) {
	key := keys.Graph(point.Lat(), point.Lon(), dist)

	if data, err := o.store.Get(key); err == nil {
		var graph Graph
		if err := json.Unmarshal(data, &graph); err == nil {
			o.log.Info().Msg("using cached street network")
			return &graph, nil
		}
		o.log.Warn().Str("key", key).Msg("discarding undecodable cached street network")
	} else if !errors.Is(err, cache.ErrNotFound) {
		o.log.Warn().Err(err).Msg("cache read failed")
	}

	o.graphLim.Wait()

	body, err := o.query(ctx, graphQuery(bbox(point, dist)))
	if err != nil {
		return nil, fmt.Errorf("fetch street network: %w", err)
	}
	graph, err := decodeGraph(body)
	if err != nil {
		return nil, fmt.Errorf("decode street network: %w", err)
	}
	if len(graph.Ways) == 0 {
		return nil, errors.New("fetch street network: no ways in radius")
	}

	if data, err := json.Marshal(graph); err == nil {
		if err := o.store.Set(key, data); err != nil {
			o.log.Warn().Err(err).Msg("failed to cache street network")
		}
	}
	return graph, nil
}

func (o *Overpass) FetchFeatures(ctx context.Context, point orb.Point, dist int, tags map[string]string, name string) (*geojson.FeatureCollection, error) {
	key := keys.Features(name, point.Lat(), point.Lon(), dist, tags)

	if data, err := o.store.Get(key); err == nil {
		if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil {
			o.log.Info().Str("layer", name).Msg("using cached features")
			return fc, nil
		}
		o.log.Warn().Str("key", key).Msg("discarding undecodable cached features")
	} else if !errors.Is(err, cache.ErrNotFound) {
		o.log.Warn().Err(err).Msg("cache read failed")
	}

	o.featLim.Wait()

	body, err := o.query(ctx, featureQuery(bbox(point, dist), tags))
	if err != nil {
		return nil, fmt.Errorf("fetch %s features: %w", name, err)
	}
	fc, err := decodeFeatures(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s features: %w", name, err)
	}

	if data, err := fc.MarshalJSON(); err == nil {
		if err := o.store.Set(key, data); err != nil {
			o.log.Warn().Err(err).Str("layer", name).Msg("failed to cache features")
		}
	}
	return fc, nil
}

func (o *Overpass) query(ctx context.Context, q string) ([]byte, error) {
	form := url.Values{"data": {q}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func bbox(point orb.Point, dist int) orb.Bound {
	return geo.NewBoundAroundPoint(point, float64(dist))
}

// (south, west, north, east), the order Overpass expects
func bboxClause(b orb.Bound) string {
	return fmt.Sprintf("(%f,%f,%f,%f)", b.Min.Lat(), b.Min.Lon(), b.Max.Lat(), b.Max.Lon())
}

func graphQuery(b orb.Bound) string {
	return fmt.Sprintf(`[out:json][timeout:90];way["highway"]%s;out geom;`, bboxClause(b))
}

func featureQuery(b orb.Bound, tags map[string]string) string {
	tagKeys := make([]string, 0, len(tags))
	for k := range tags {
		tagKeys = append(tagKeys, k)
	}
	sort.Strings(tagKeys)

	var clauses strings.Builder
	for _, k := range tagKeys {
		fmt.Fprintf(&clauses, `way[%q=%q]%s;relation[%q=%q]%s;`,
			k, tags[k], bboxClause(b), k, tags[k], bboxClause(b))
	}
	return fmt.Sprintf(`[out:json][timeout:90];(%s);out geom;`, clauses.String())
}
