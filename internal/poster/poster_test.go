package poster

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	"github.com/mapposter/mapposter/internal/osm"
	"github.com/mapposter/mapposter/internal/output"
	"github.com/mapposter/mapposter/internal/render"
	"github.com/mapposter/mapposter/internal/theme"
	"github.com/mapposter/mapposter/internal/typography"
)

type stubGeocoder struct {
	point orb.Point
	err   error
}

func (s stubGeocoder) Geocode(context.Context, string, string) (orb.Point, error) {
	return s.point, s.err
}

type stubFetcher struct {
	graph    *osm.Graph
	graphErr error
	features *geojson.FeatureCollection
	featErr  error
}

func (s stubFetcher) FetchGraph(context.Context, orb.Point, int) (*osm.Graph, error) {
	return s.graph, s.graphErr
}

func (s stubFetcher) FetchFeatures(context.Context, orb.Point, int, map[string]string, string) (*geojson.FeatureCollection, error) {
	return s.features, s.featErr
}

func testGraph() *osm.Graph {
	g := &osm.Graph{}
	for _, way := range []osm.Way{
		{Geometry: orb.LineString{{2.30, 48.82}, {2.40, 48.88}}, Highway: []string{"motorway"}},
		{Geometry: orb.LineString{{2.32, 48.83}, {2.38, 48.87}}, Highway: []string{"residential"}},
	} {
		g.Ways = append(g.Ways, way)
		g.Nodes = append(g.Nodes, way.Geometry...)
	}
	return g
}

func newGeneratorForTest(t *testing.T, geocoder stubGeocoder, fetcher stubFetcher) (*Generator, string, string) {
	t.Helper()
	log := zerolog.New(io.Discard)

	themesDir := t.TempDir()
	def := theme.Default()
	def.Name = "Test"
	if err := def.Save(filepath.Join(themesDir, "feature_based.json")); err != nil {
		t.Fatalf("save theme: %v", err)
	}
	themes, err := theme.NewStore(themesDir, log)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	fonts := typography.Load(t.TempDir(), log)
	renderer := render.NewPoster(fonts, 12, 16, 72, log)

	outDir := t.TempDir()
	namer, err := output.NewNamer(outDir)
	if err != nil {
		t.Fatalf("NewNamer: %v", err)
	}

	return NewGenerator(geocoder, fetcher, themes, renderer, namer, log, io.Discard), outDir, themesDir
}

func testRequest() Request {
	return Request{
		City:     "Paris",
		Country:  "France",
		Theme:    "feature_based",
		Distance: 10000,
		Format:   "png",
	}
}

func TestGenerate_WritesPoster(t *testing.T) {
	g, outDir, _ := newGeneratorForTest(t,
		stubGeocoder{point: orb.Point{2.3522, 48.8566}},
		stubFetcher{graph: testGraph(), features: geojson.NewFeatureCollection()})

	path, err := g.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if filepath.Dir(path) != outDir {
		t.Fatalf("poster written to %q, want %q", filepath.Dir(path), outDir)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat poster: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("poster file is empty")
	}
	if !strings.HasPrefix(filepath.Base(path), "paris_feature_based_") {
		t.Fatalf("poster name %q lacks city and theme", filepath.Base(path))
	}
}

func TestGenerate_GeocodeFailureIsFatal(t *testing.T) {
	g, outDir, _ := newGeneratorForTest(t,
		stubGeocoder{err: errors.New("no such place")},
		stubFetcher{graph: testGraph()})

	if _, err := g.Generate(context.Background(), testRequest()); err == nil {
		t.Fatalf("Generate succeeded with failing geocoder")
	}
	entries, _ := os.ReadDir(outDir)
	if len(entries) != 0 {
		t.Fatalf("failed generation left %d files", len(entries))
	}
}

func TestGenerate_GraphFailureIsFatal(t *testing.T) {
	g, _, _ := newGeneratorForTest(t,
		stubGeocoder{point: orb.Point{2.3522, 48.8566}},
		stubFetcher{graphErr: errors.New("overpass down")})

	_, err := g.Generate(context.Background(), testRequest())
	if err == nil {
		t.Fatalf("Generate succeeded without a street network")
	}
	if !strings.Contains(err.Error(), "street network") {
		t.Fatalf("err=%v, want street-network failure", err)
	}
}

func TestGenerate_FeatureFailureIsNotFatal(t *testing.T) {
	g, _, _ := newGeneratorForTest(t,
		stubGeocoder{point: orb.Point{2.3522, 48.8566}},
		stubFetcher{graph: testGraph(), featErr: errors.New("layer timeout")})

	path, err := g.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("poster missing after degraded generation: %v", err)
	}
}

func TestGenerate_RenderFailureWritesNothing(t *testing.T) {
	g, outDir, _ := newGeneratorForTest(t,
		stubGeocoder{point: orb.Point{2.3522, 48.8566}},
		stubFetcher{graph: testGraph()})

	req := testRequest()
	req.Format = "bmp"
	if _, err := g.Generate(context.Background(), req); err == nil {
		t.Fatalf("Generate accepted unknown format")
	}
	entries, _ := os.ReadDir(outDir)
	if len(entries) != 0 {
		t.Fatalf("failed render left %d files", len(entries))
	}
}

func TestGenerateAll_OnePosterPerTheme(t *testing.T) {
	g, outDir, themesDir := newGeneratorForTest(t,
		stubGeocoder{point: orb.Point{2.3522, 48.8566}},
		stubFetcher{graph: testGraph()})

	// second theme alongside the one the fixture wrote
	noir := theme.Default()
	noir.Name = "Noir"
	if err := noir.Save(filepath.Join(themesDir, "noir.json")); err != nil {
		t.Fatalf("save theme: %v", err)
	}

	paths, err := g.GenerateAll(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths=%d want 2", len(paths))
	}
	entries, _ := os.ReadDir(outDir)
	if len(entries) != 2 {
		t.Fatalf("output files=%d want 2", len(entries))
	}
}
