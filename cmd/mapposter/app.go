package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/mapposter/mapposter/internal/cache"
	"github.com/mapposter/mapposter/internal/config"
	"github.com/mapposter/mapposter/internal/geocode"
	"github.com/mapposter/mapposter/internal/httpclient"
	"github.com/mapposter/mapposter/internal/osm"
	"github.com/mapposter/mapposter/internal/output"
	"github.com/mapposter/mapposter/internal/poster"
	"github.com/mapposter/mapposter/internal/ratelimit"
	"github.com/mapposter/mapposter/internal/render"
	"github.com/mapposter/mapposter/internal/theme"
	"github.com/mapposter/mapposter/internal/typography"
)

type app struct {
	generator *poster.Generator
	themes    *theme.Store
}

// buildApp wires the dependency graph from configuration.
func buildApp(cfg config.Config, log zerolog.Logger) (*app, error) {
	disk, err := cache.NewDisk(cfg.CacheDir)
	if err != nil {
		return nil, err
	}
	store, err := cache.NewTiered(cfg.CacheMemoryEntries, disk)
	if err != nil {
		return nil, err
	}

	geocoder := geocode.NewNominatim(
		store,
		httpclient.NewOutbound(cfg.GeocodingUserAgent, cfg.GeocodingTimeout),
		cfg.NominatimURL,
		ratelimit.New(cfg.GeocodingRateLimit),
		log,
	)

	fetcher := osm.NewOverpass(
		store,
		httpclient.NewOutbound(cfg.GeocodingUserAgent, cfg.FetchTimeout),
		cfg.OverpassURL,
		ratelimit.New(cfg.GraphRateLimit),
		ratelimit.New(cfg.FeaturesRateLimit),
		log,
	)

	themes, err := theme.NewStore(cfg.ThemesDir, log)
	if err != nil {
		return nil, err
	}

	fonts := typography.Load(cfg.FontsDir, log)
	renderer := render.NewPoster(fonts, cfg.FigureWidth, cfg.FigureHeight, cfg.DPI, log)

	namer, err := output.NewNamer(cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	generator := poster.NewGenerator(geocoder, fetcher, themes, renderer, namer, log, nil)
	return &app{generator: generator, themes: themes}, nil
}

func listThemes(w io.Writer, a *app) {
	names := a.themes.List()
	if len(names) == 0 {
		fmt.Fprintln(w, "No themes found in themes directory.")
		return
	}

	fmt.Fprintln(w, "\nAvailable Themes:")
	fmt.Fprintln(w, "------------------------------------------------------------")
	for _, name := range names {
		display, description := a.themes.Info(name)
		fmt.Fprintf(w, "  %s\n", name)
		fmt.Fprintf(w, "    %s\n", display)
		if description != "" {
			fmt.Fprintf(w, "    %s\n", description)
		}
		fmt.Fprintln(w)
	}
}
