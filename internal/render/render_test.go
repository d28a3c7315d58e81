package render

import (
	"bytes"
	"image/color"
	"io"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	"github.com/mapposter/mapposter/internal/osm"
	"github.com/mapposter/mapposter/internal/theme"
	"github.com/mapposter/mapposter/internal/typography"
)

func TestParseColor(t *testing.T) {
	cases := []struct {
		hex  string
		want color.RGBA
	}{
		{"#FFFFFF", color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}},
		{"#0a192f", color.RGBA{0x0A, 0x19, 0x2F, 0xFF}},
		{"#000000", color.RGBA{0, 0, 0, 0xFF}},
		// malformed input degrades to opaque black, never panics
		{"", color.RGBA{A: 0xFF}},
		{"#FFF", color.RGBA{A: 0xFF}},
		{"#GGGGGG", color.RGBA{A: 0xFF}},
	}
	for _, tc := range cases {
		if got := parseColor(tc.hex); got != tc.want {
			t.Fatalf("parseColor(%q)=%v want %v", tc.hex, got, tc.want)
		}
	}
}

func TestHexColor_RoundTrip(t *testing.T) {
	for _, hex := range []string{"#ffffff", "#0a192f", "#c0392b"} {
		if got := hexColor(parseColor(hex)); got != hex {
			t.Fatalf("hexColor(parseColor(%q))=%q", hex, got)
		}
	}
}

func almostEq(t *testing.T, got, want, eps float64) {
	t.Helper()
	if math.Abs(got-want) > eps {
		t.Fatalf("got=%g want=%g (eps=%g)", got, want, eps)
	}
}

func TestCropBound_WideBoundCropsHorizontally(t *testing.T) {
	b := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{100, 10}}
	aspect := 0.75 // portrait target
	got := cropBound(b, aspect)

	xr := got.Max[0] - got.Min[0]
	yr := got.Max[1] - got.Min[1]
	almostEq(t, xr/yr, aspect, 1e-9)
	// vertical extent untouched, horizontal cropped around the center
	almostEq(t, yr, 10, 1e-9)
	almostEq(t, (got.Min[0]+got.Max[0])/2, 50, 1e-9)
}

func TestCropBound_TallBoundCropsVertically(t *testing.T) {
	b := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 100}}
	aspect := 0.75
	got := cropBound(b, aspect)

	xr := got.Max[0] - got.Min[0]
	yr := got.Max[1] - got.Min[1]
	almostEq(t, xr/yr, aspect, 1e-9)
	almostEq(t, xr, 10, 1e-9)
	almostEq(t, (got.Min[1]+got.Max[1])/2, 50, 1e-9)
}

func TestCropBound_MatchingAspectUnchanged(t *testing.T) {
	b := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{75, 100}}
	if got := cropBound(b, 0.75); got != b {
		t.Fatalf("cropBound changed an already-matching bound: %v", got)
	}
}

func TestCropBound_DegenerateBoundPassesThrough(t *testing.T) {
	b := orb.Bound{Min: orb.Point{5, 5}, Max: orb.Point{5, 5}}
	if got := cropBound(b, 0.75); got != b {
		t.Fatalf("cropBound changed a degenerate bound: %v", got)
	}
}

func TestTransform_FlipsY(t *testing.T) {
	tr := transform{
		crop: orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{100, 200}},
		w:    50, h: 100,
	}
	// bottom-left of the crop lands at the bottom-left of the canvas,
	// which is y=h in canvas space
	got := tr.pt(orb.Point{0, 0})
	almostEq(t, got.X, 0, 1e-9)
	almostEq(t, got.Y, 100, 1e-9)

	got = tr.pt(orb.Point{100, 200})
	almostEq(t, got.X, 50, 1e-9)
	almostEq(t, got.Y, 0, 1e-9)
}

func testInput(format string) Input {
	seine := orb.Ring{
		{2.34, 48.84}, {2.36, 48.84}, {2.36, 48.85}, {2.34, 48.85}, {2.34, 48.84},
	}
	water := geojson.NewFeatureCollection()
	water.Append(geojson.NewFeature(orb.Polygon{seine}))

	graph := &osm.Graph{}
	for _, way := range []osm.Way{
		{Geometry: orb.LineString{{2.30, 48.82}, {2.40, 48.88}}, Highway: []string{"motorway"}},
		{Geometry: orb.LineString{{2.32, 48.83}, {2.38, 48.87}}, Highway: []string{"primary"}},
		{Geometry: orb.LineString{{2.33, 48.84}, {2.37, 48.86}}, Highway: []string{"residential"}},
	} {
		graph.Ways = append(graph.Ways, way)
		graph.Nodes = append(graph.Nodes, way.Geometry...)
	}

	return Input{
		Graph:   graph,
		Water:   water,
		City:    "Paris",
		Country: "France",
		Point:   orb.Point{2.3522, 48.8566},
		Theme:   theme.Default(),
		Format:  format,
	}
}

func newPosterForTest(t *testing.T) *Poster {
	t.Helper()
	log := zerolog.New(io.Discard)
	fonts := typography.Load(t.TempDir(), log) // fallback set
	return NewPoster(fonts, 12, 16, 72, log)
}

func TestRender_Formats(t *testing.T) {
	p := newPosterForTest(t)

	for _, format := range []string{"png", "svg", "pdf"} {
		var buf bytes.Buffer
		if err := p.Render(testInput(format), &buf); err != nil {
			t.Fatalf("Render(%s): %v", format, err)
		}
		if buf.Len() == 0 {
			t.Fatalf("Render(%s) wrote nothing", format)
		}
	}
}

func TestRender_PNGSignature(t *testing.T) {
	p := newPosterForTest(t)
	var buf bytes.Buffer
	if err := p.Render(testInput("png"), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	sig := []byte{0x89, 'P', 'N', 'G'}
	if !bytes.HasPrefix(buf.Bytes(), sig) {
		t.Fatalf("output does not start with a PNG signature")
	}
}

func TestRender_SVGContainsTextAndAttribution(t *testing.T) {
	p := newPosterForTest(t)
	var buf bytes.Buffer
	if err := p.Render(testInput("svg"), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !bytes.Contains(buf.Bytes(), []byte("<svg")) {
		t.Fatalf("output is not SVG")
	}
	for _, want := range []string{"P  A  R  I  S", "FRANCE", "OpenStreetMap contributors"} {
		if !contains(out, want) {
			t.Fatalf("SVG lacks %q", want)
		}
	}
}

func TestRender_CountryLabelOverride(t *testing.T) {
	p := newPosterForTest(t)
	in := testInput("svg")
	in.Country = "United Kingdom"
	in.CountryLabel = "Scotland"

	var buf bytes.Buffer
	if err := p.Render(in, &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !contains(buf.String(), "SCOTLAND") {
		t.Fatalf("override label missing from output")
	}
	if contains(buf.String(), "UNITED KINGDOM") {
		t.Fatalf("overridden country still rendered")
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	p := newPosterForTest(t)
	var buf bytes.Buffer
	if err := p.Render(testInput("bmp"), &buf); err == nil {
		t.Fatalf("Render accepted unknown format")
	}
	if buf.Len() != 0 {
		t.Fatalf("failed render wrote %d bytes", buf.Len())
	}
}

func contains(s, sub string) bool { return bytes.Contains([]byte(s), []byte(sub)) }
