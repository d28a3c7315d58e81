// Package render turns a street graph, feature layers, a theme and
// typography into a finished poster image.
package render

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/mapposter/mapposter/internal/typography"
)

// Point is a position in canvas space. Canvas units are points, 72 per
// inch, origin top-left.
type Point struct {
	X, Y float64
}

// Anchor controls horizontal placement of text relative to its position;
// the vertical reference is always the baseline.
type Anchor int

const (
	AnchorCenter Anchor = iota
	AnchorRight
)

type TextStyle struct {
	Font  *typography.Font
	Size  float64 // points
	Color color.RGBA
	Alpha float64
}

// Canvas is the drawing surface a poster is composed on. Implementations
// exist per output format; raster backends apply DPI at export, vector
// backends keep point units.
type Canvas interface {
	// FillBackground floods the whole frame, no margins.
	FillBackground(c color.RGBA)

	// FillPolygon fills rings with even-odd winding; ring 0 is the outer
	// boundary, the rest are holes.
	FillPolygon(rings [][]Point, c color.RGBA)

	StrokePolyline(pts []Point, c color.RGBA, width float64)

	// VerticalGradient fills the full-width band between yTop and yBottom
	// with c fading between the two alphas.
	VerticalGradient(yTop, yBottom float64, c color.RGBA, alphaTop, alphaBottom float64)

	Line(a, b Point, c color.RGBA, width float64)

	Text(at Point, s string, style TextStyle, anchor Anchor)

	Export(w io.Writer) error
}

func parseColor(hex string) color.RGBA {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return color.RGBA{A: 0xFF}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{A: 0xFF}
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xFF,
	}
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
