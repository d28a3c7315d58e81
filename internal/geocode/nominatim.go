package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog"

	"github.com/mapposter/mapposter/internal/cache"
	"github.com/mapposter/mapposter/internal/cache/keys"
	"github.com/mapposter/mapposter/internal/ratelimit"
)

// Nominatim resolves names against a Nominatim endpoint. Results are cached
// forever; a cache hit consumes no rate-limit wait and no network access.
type Nominatim struct {
	store   cache.Store
	client  *http.Client
	baseURL string
	limiter *ratelimit.Limiter
	log     zerolog.Logger
}

func NewNominatim(store cache.Store, client *http.Client, baseURL string, limiter *ratelimit.Limiter, log zerolog.Logger) *Nominatim {
	return &Nominatim{
		store:   store,
		client:  client,
		baseURL: baseURL,
		limiter: limiter,
		log:     log,
	}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (g *Nominatim) Geocode(ctx context.Context, city, country string) (orb.Point, error) {
	query := fmt.Sprintf("%s, %s", city, country)
	key := keys.Coords(city, country)

	if data, err := g.store.Get(key); err == nil {
		var point orb.Point
		if err := json.Unmarshal(data, &point); err == nil {
			g.log.Info().Str("city", city).Str("country", country).
				Msg("using cached coordinates")
			return point, nil
		}
		g.log.Warn().Str("key", key).Msg("discarding undecodable cached coordinates")
	} else if !errors.Is(err, cache.ErrNotFound) {
		g.log.Warn().Err(err).Msg("cache read failed")
	}

	g.log.Info().Str("query", query).Msg("looking up coordinates")
	g.limiter.Wait()

	point, address, err := g.lookup(ctx, query)
	if err != nil {
		return orb.Point{}, &Error{Query: query, Err: err}
	}

	g.log.Info().Str("address", address).Msg("found location")
	g.log.Info().
		Str("coordinates", fmt.Sprintf("%.4f, %.4f", point.Lat(), point.Lon())).
		Msg("resolved coordinates")

	if data, err := json.Marshal(point); err == nil {
		if err := g.store.Set(key, data); err != nil {
			g.log.Warn().Err(err).Msg("failed to cache coordinates")
		}
	}
	return point, nil
}

func (g *Nominatim) lookup(ctx context.Context, query string) (orb.Point, string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return orb.Point{}, "", err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return orb.Point{}, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return orb.Point{}, "", fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return orb.Point{}, "", fmt.Errorf("decode response: %w", err)
	}
	if len(results) == 0 {
		return orb.Point{}, "", errors.New("could not find coordinates")
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return orb.Point{}, "", fmt.Errorf("parse latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return orb.Point{}, "", fmt.Errorf("parse longitude: %w", err)
	}
	return orb.Point{lon, lat}, results[0].DisplayName, nil
}
