// Package poster orchestrates one poster generation: geocode, fetch map
// data, style, render, save.
package poster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"github.com/mapposter/mapposter/internal/geocode"
	"github.com/mapposter/mapposter/internal/osm"
	"github.com/mapposter/mapposter/internal/output"
	"github.com/mapposter/mapposter/internal/render"
	"github.com/mapposter/mapposter/internal/theme"
)

// Request is the unit of work for one generation call. It fully determines
// the rendering inputs and, with the timestamp, the output filename.
type Request struct {
	City         string
	Country      string
	Theme        string
	Distance     int // meters
	Format       string
	CountryLabel string
}

type Generator struct {
	geocoder geocode.Geocoder
	fetcher  osm.Fetcher
	themes   *theme.Store
	renderer render.Renderer
	namer    *output.Namer
	log      zerolog.Logger
	progress io.Writer
}

func NewGenerator(geocoder geocode.Geocoder, fetcher osm.Fetcher, themes *theme.Store, renderer render.Renderer, namer *output.Namer, log zerolog.Logger, progress io.Writer) *Generator {
	if progress == nil {
		progress = os.Stderr
	}
	return &Generator{
		geocoder: geocoder,
		fetcher:  fetcher,
		themes:   themes,
		renderer: renderer,
		namer:    namer,
		log:      log,
		progress: progress,
	}
}

// Generate produces one poster and returns its path. Geocoding or
// street-network failure is fatal; a missing water or parks layer is not.
func (g *Generator) Generate(ctx context.Context, req Request) (string, error) {
	g.log.Info().Str("city", req.City).Str("country", req.Country).
		Msg("generating map poster")

	point, err := g.geocoder.Geocode(ctx, req.City, req.Country)
	if err != nil {
		return "", err
	}

	graph, water, parks, err := g.fetchAll(ctx, point, req.Distance)
	if err != nil {
		return "", err
	}
	g.log.Info().Msg("all data retrieved")

	t := g.themes.Load(req.Theme)
	path := g.namer.Filename(req.City, req.Theme, req.Format)

	// render fully into memory; the destination file is written last so a
	// failure leaves nothing partial on disk
	var buf bytes.Buffer
	err = g.renderer.Render(render.Input{
		Graph:        graph,
		Water:        water,
		Parks:        parks,
		City:         req.City,
		Country:      req.Country,
		CountryLabel: req.CountryLabel,
		Point:        point,
		Theme:        t,
		Format:       req.Format,
	}, &buf)
	if err != nil {
		return "", fmt.Errorf("render poster: %w", err)
	}

	g.log.Info().Str("path", path).Msg("saving poster")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("save poster: %w", err)
	}

	g.log.Info().Str("path", path).Msg("poster saved")
	return path, nil
}

// fetchAll fans out the street graph and both feature layers as three
// concurrent fetches and joins them. They hit different rate-limit classes
// and different cache keys; a failure in one never cancels the others.
// Feature-layer failures degrade to an absent layer.
func (g *Generator) fetchAll(ctx context.Context, point orb.Point, dist int) (*osm.Graph, *geojson.FeatureCollection, *geojson.FeatureCollection, error) {
	bar := progressbar.NewOptions(3,
		progressbar.OptionSetWriter(g.progress),
		progressbar.OptionSetDescription("fetching map data"),
	)

	var (
		wg       sync.WaitGroup
		graph    *osm.Graph
		graphErr error
		water    *geojson.FeatureCollection
		parks    *geojson.FeatureCollection
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		graph, graphErr = g.fetcher.FetchGraph(ctx, point, dist)
		_ = bar.Add(1)
	}()
	go func() {
		defer wg.Done()
		fc, err := g.fetcher.FetchFeatures(ctx, point, dist, osm.WaterTags, "water")
		if err != nil {
			g.log.Warn().Err(err).Msg("water features unavailable, continuing without")
		} else {
			water = fc
		}
		_ = bar.Add(1)
	}()
	go func() {
		defer wg.Done()
		fc, err := g.fetcher.FetchFeatures(ctx, point, dist, osm.ParkTags, "parks")
		if err != nil {
			g.log.Warn().Err(err).Msg("park features unavailable, continuing without")
		} else {
			parks = fc
		}
		_ = bar.Add(1)
	}()
	wg.Wait()
	_ = bar.Finish()

	if graphErr != nil {
		return nil, nil, nil, fmt.Errorf("retrieve street network: %w", graphErr)
	}
	if graph == nil {
		return nil, nil, nil, errors.New("retrieve street network: empty result")
	}
	return graph, water, parks, nil
}

// GenerateAll renders the request once per available theme. A failed theme
// is logged and skipped; the batch continues and the aggregate error
// reports the failures.
func (g *Generator) GenerateAll(ctx context.Context, req Request) ([]string, error) {
	names := g.themes.List()
	paths := make([]string, 0, len(names))
	var failures []error

	for _, name := range names {
		themed := req
		themed.Theme = name
		path, err := g.Generate(ctx, themed)
		if err != nil {
			g.log.Error().Err(err).Str("theme", name).Msg("poster generation failed, skipping theme")
			failures = append(failures, fmt.Errorf("theme %s: %w", name, err))
			continue
		}
		paths = append(paths, path)
	}

	if len(failures) > 0 {
		return paths, fmt.Errorf("%d of %d themes failed: %w",
			len(failures), len(names), errors.Join(failures...))
	}
	return paths, nil
}
