package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/project"
	"github.com/rs/zerolog"

	"github.com/mapposter/mapposter/internal/osm"
	"github.com/mapposter/mapposter/internal/theme"
	"github.com/mapposter/mapposter/internal/typography"
)

const pointsPerInch = 72.0

// Input is everything one poster render consumes. Water and Parks may be
// nil; that layer is simply absent.
type Input struct {
	Graph        *osm.Graph
	Water        *geojson.FeatureCollection
	Parks        *geojson.FeatureCollection
	City         string
	Country      string
	CountryLabel string
	Point        orb.Point
	Theme        theme.Theme
	Format       string
}

// Renderer produces one finished poster per input, deterministic given
// identical inputs.
type Renderer interface {
	Render(in Input, out io.Writer) error
}

// Line widths per road tier, points. Motorways are thickest; the default
// tier is thinnest.
var tierWidths = map[osm.Tier]float64{
	osm.TierMotorway:    1.2,
	osm.TierPrimary:     1.0,
	osm.TierSecondary:   0.8,
	osm.TierTertiary:    0.6,
	osm.TierResidential: 0.5,
	osm.TierDefault:     0.4,
}

func tierColor(t theme.Theme, tier osm.Tier) string {
	switch tier {
	case osm.TierMotorway:
		return t.RoadMotorway
	case osm.TierPrimary:
		return t.RoadPrimary
	case osm.TierSecondary:
		return t.RoadSecondary
	case osm.TierTertiary:
		return t.RoadTertiary
	case osm.TierResidential:
		return t.RoadResidential
	default:
		return t.RoadDefault
	}
}

// Poster is the standard renderer.
type Poster struct {
	fonts *typography.FontSet
	figW  float64 // inches
	figH  float64
	dpi   int
	log   zerolog.Logger
}

func NewPoster(fonts *typography.FontSet, figW, figH float64, dpi int, log zerolog.Logger) *Poster {
	return &Poster{fonts: fonts, figW: figW, figH: figH, dpi: dpi, log: log}
}

func (p *Poster) newCanvas(format string, w, h float64) (Canvas, error) {
	switch strings.ToLower(format) {
	case "png":
		return NewRaster(w, h, p.dpi), nil
	case "svg":
		return NewSVG(w, h), nil
	case "pdf":
		return NewPDF(w, h, p.fonts), nil
	default:
		return nil, fmt.Errorf("render: unsupported output format %q", format)
	}
}

// Render composes the poster in fixed layer order: background, water,
// parks, roads, gradients, text. The order is the z-layering contract.
func (p *Poster) Render(in Input, out io.Writer) error {
	p.log.Info().Msg("rendering map")

	w := p.figW * pointsPerInch
	h := p.figH * pointsPerInch
	canvas, err := p.newCanvas(in.Format, w, h)
	if err != nil {
		return err
	}

	canvas.FillBackground(parseColor(in.Theme.BG))

	// derived projected copy; the fetched graph is never mutated
	proj := projectGraph(in.Graph)
	crop := cropBound(proj.Bound(), w/h)
	tr := transform{crop: crop, w: w, h: h}

	p.drawLayer(canvas, in.Water, in.Theme.Water, tr)
	p.drawLayer(canvas, in.Parks, in.Theme.Parks, tr)

	p.log.Info().Msg("applying road hierarchy colors")
	for _, way := range proj.Ways {
		tier := osm.Classify(way.Highway)
		canvas.StrokePolyline(tr.line(way.Geometry),
			parseColor(tierColor(in.Theme, tier)), tierWidths[tier])
	}

	grad := parseColor(in.Theme.GradientColor)
	canvas.VerticalGradient(0.75*h, h, grad, 0, 1)
	canvas.VerticalGradient(0, 0.25*h, grad, 1, 0)

	p.drawText(canvas, in, w, h)

	return canvas.Export(out)
}

func (p *Poster) drawLayer(canvas Canvas, fc *geojson.FeatureCollection, colorHex string, tr transform) {
	if fc == nil {
		return
	}
	fill := parseColor(colorHex)
	for _, f := range fc.Features {
		geom := project.Geometry(orb.Clone(f.Geometry), project.WGS84.ToMercator)
		switch g := geom.(type) {
		case orb.Polygon:
			canvas.FillPolygon(tr.rings(g), fill)
		case orb.MultiPolygon:
			for _, poly := range g {
				canvas.FillPolygon(tr.rings(poly), fill)
			}
		}
	}
}

func (p *Poster) drawText(canvas Canvas, in Input, w, h float64) {
	text := parseColor(in.Theme.Text)

	canvas.Text(Point{X: 0.5 * w, Y: 0.86 * h},
		typography.FormatTitle(in.City),
		TextStyle{Font: &p.fonts.Bold, Size: typography.TitleSize(in.City), Color: text, Alpha: 1},
		AnchorCenter)

	country := in.Country
	if in.CountryLabel != "" {
		country = in.CountryLabel
	}
	canvas.Text(Point{X: 0.5 * w, Y: 0.90 * h},
		strings.ToUpper(country),
		TextStyle{Font: &p.fonts.Light, Size: typography.CountrySize, Color: text, Alpha: 1},
		AnchorCenter)

	canvas.Text(Point{X: 0.5 * w, Y: 0.93 * h},
		typography.FormatCoordinates(in.Point.Lat(), in.Point.Lon()),
		TextStyle{Font: &p.fonts.Regular, Size: typography.CoordsSize, Color: text, Alpha: 0.7},
		AnchorCenter)

	canvas.Line(Point{X: 0.4 * w, Y: 0.875 * h}, Point{X: 0.6 * w, Y: 0.875 * h}, text, 1)

	canvas.Text(Point{X: 0.98 * w, Y: 0.98 * h},
		"© OpenStreetMap contributors",
		TextStyle{Font: &p.fonts.Light, Size: typography.AttributionSize, Color: text, Alpha: 0.5},
		AnchorRight)
}

func projectGraph(g *osm.Graph) *osm.Graph {
	out := &osm.Graph{
		Nodes: make([]orb.Point, len(g.Nodes)),
		Ways:  make([]osm.Way, len(g.Ways)),
	}
	for i, node := range g.Nodes {
		out.Nodes[i] = project.WGS84.ToMercator(node)
	}
	for i, way := range g.Ways {
		line := make(orb.LineString, len(way.Geometry))
		for j, pt := range way.Geometry {
			line[j] = project.WGS84.ToMercator(pt)
		}
		out.Ways[i] = osm.Way{Geometry: line, Highway: way.Highway}
	}
	return out
}

// cropBound shrinks the longer axis of the bound symmetrically around its
// center so the window aspect matches the target exactly. The final image
// never letterboxes or distorts regardless of city shape.
func cropBound(b orb.Bound, aspect float64) orb.Bound {
	xRange := b.Max[0] - b.Min[0]
	yRange := b.Max[1] - b.Min[1]
	if xRange <= 0 || yRange <= 0 {
		return b
	}

	cx := (b.Min[0] + b.Max[0]) / 2
	cy := (b.Min[1] + b.Max[1]) / 2

	switch current := xRange / yRange; {
	case current > aspect:
		// too wide, crop horizontally
		xRange = yRange * aspect
		b.Min[0] = cx - xRange/2
		b.Max[0] = cx + xRange/2
	case current < aspect:
		// too tall, crop vertically
		yRange = xRange / aspect
		b.Min[1] = cy - yRange/2
		b.Max[1] = cy + yRange/2
	}
	return b
}

// transform maps projected coordinates into canvas space. Because the crop
// aspect equals the canvas aspect, one scale serves both axes; y flips
// since canvas y grows downward.
type transform struct {
	crop orb.Bound
	w, h float64
}

func (t transform) pt(p orb.Point) Point {
	scale := t.w / (t.crop.Max[0] - t.crop.Min[0])
	return Point{
		X: (p[0] - t.crop.Min[0]) * scale,
		Y: (t.crop.Max[1] - p[1]) * scale,
	}
}

func (t transform) line(l orb.LineString) []Point {
	pts := make([]Point, len(l))
	for i, p := range l {
		pts[i] = t.pt(p)
	}
	return pts
}

func (t transform) rings(poly orb.Polygon) [][]Point {
	rings := make([][]Point, len(poly))
	for i, ring := range poly {
		pts := make([]Point, len(ring))
		for j, p := range ring {
			pts[j] = t.pt(p)
		}
		rings[i] = pts
	}
	return rings
}
