package render

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// SVG draws into an in-memory document; Export closes it and copies it
// out, so a failed render never emits a partial file.
type SVG struct {
	buf       bytes.Buffer
	doc       *svg.SVG
	w, h      float64
	gradients int
}

func NewSVG(w, h float64) *SVG {
	s := &SVG{w: w, h: h}
	s.doc = svg.New(&s.buf)
	s.doc.Start(int(w), int(h))
	return s
}

func (s *SVG) FillBackground(c color.RGBA) {
	s.doc.Rect(0, 0, int(s.w), int(s.h), "fill:"+hexColor(c)+";stroke:none")
}

func pathData(rings [][]Point) string {
	var d strings.Builder
	for _, ring := range rings {
		if len(ring) == 0 {
			continue
		}
		fmt.Fprintf(&d, "M%.2f %.2f", ring[0].X, ring[0].Y)
		for _, p := range ring[1:] {
			fmt.Fprintf(&d, "L%.2f %.2f", p.X, p.Y)
		}
		d.WriteString("Z")
	}
	return d.String()
}

func (s *SVG) FillPolygon(rings [][]Point, c color.RGBA) {
	s.doc.Path(pathData(rings),
		fmt.Sprintf("fill:%s;fill-rule:evenodd;stroke:none", hexColor(c)))
}

func (s *SVG) StrokePolyline(pts []Point, c color.RGBA, width float64) {
	if len(pts) < 2 {
		return
	}
	var d strings.Builder
	fmt.Fprintf(&d, "M%.2f %.2f", pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		fmt.Fprintf(&d, "L%.2f %.2f", p.X, p.Y)
	}
	s.doc.Path(d.String(),
		fmt.Sprintf("fill:none;stroke:%s;stroke-width:%.2f;stroke-linecap:round", hexColor(c), width))
}

func (s *SVG) VerticalGradient(yTop, yBottom float64, c color.RGBA, alphaTop, alphaBottom float64) {
	s.gradients++
	id := fmt.Sprintf("fade%d", s.gradients)

	s.doc.Def()
	s.doc.LinearGradient(id, 0, 0, 0, 100, []svg.Offcolor{
		{Offset: 0, Color: hexColor(c), Opacity: alphaTop},
		{Offset: 100, Color: hexColor(c), Opacity: alphaBottom},
	})
	s.doc.DefEnd()

	s.doc.Rect(0, int(yTop), int(s.w), int(yBottom-yTop),
		fmt.Sprintf("fill:url(#%s);stroke:none", id))
}

func (s *SVG) Line(a, b Point, c color.RGBA, width float64) {
	s.doc.Line(int(a.X), int(a.Y), int(b.X), int(b.Y),
		fmt.Sprintf("stroke:%s;stroke-width:%.2f", hexColor(c), width))
}

func (s *SVG) Text(at Point, t string, style TextStyle, anchor Anchor) {
	ta := "middle"
	if anchor == AnchorRight {
		ta = "end"
	}
	family := style.Font.Family
	s.doc.Text(int(at.X), int(at.Y), t, fmt.Sprintf(
		"text-anchor:%s;font-family:%s;font-size:%.1fpx;fill:%s;fill-opacity:%.2f",
		ta, family, style.Size, hexColor(style.Color), style.Alpha))
}

func (s *SVG) Export(w io.Writer) error {
	s.doc.End()
	_, err := w.Write(s.buf.Bytes())
	return err
}
