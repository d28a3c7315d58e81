package render

import (
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Raster draws on a pixel canvas sized by DPI; all incoming point-space
// coordinates are scaled on entry.
type Raster struct {
	dc    *gg.Context
	scale float64
	dpi   float64
	w, h  float64 // points
}

func NewRaster(w, h float64, dpi int) *Raster {
	scale := float64(dpi) / 72.0
	dc := gg.NewContext(int(w*scale+0.5), int(h*scale+0.5))
	return &Raster{dc: dc, scale: scale, dpi: float64(dpi), w: w, h: h}
}

func (r *Raster) FillBackground(c color.RGBA) {
	r.dc.SetColor(c)
	r.dc.Clear()
}

func (r *Raster) FillPolygon(rings [][]Point, c color.RGBA) {
	r.dc.SetFillRule(gg.FillRuleEvenOdd)
	for _, ring := range rings {
		if len(ring) == 0 {
			continue
		}
		r.dc.NewSubPath()
		r.dc.MoveTo(ring[0].X*r.scale, ring[0].Y*r.scale)
		for _, p := range ring[1:] {
			r.dc.LineTo(p.X*r.scale, p.Y*r.scale)
		}
		r.dc.ClosePath()
	}
	r.dc.SetColor(c)
	r.dc.Fill()
}

func (r *Raster) StrokePolyline(pts []Point, c color.RGBA, width float64) {
	if len(pts) < 2 {
		return
	}
	r.dc.MoveTo(pts[0].X*r.scale, pts[0].Y*r.scale)
	for _, p := range pts[1:] {
		r.dc.LineTo(p.X*r.scale, p.Y*r.scale)
	}
	r.dc.SetColor(c)
	r.dc.SetLineWidth(width * r.scale)
	r.dc.SetLineCapRound()
	r.dc.Stroke()
}

func (r *Raster) VerticalGradient(yTop, yBottom float64, c color.RGBA, alphaTop, alphaBottom float64) {
	grad := gg.NewLinearGradient(0, yTop*r.scale, 0, yBottom*r.scale)
	grad.AddColorStop(0, color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(alphaTop*255 + 0.5)})
	grad.AddColorStop(1, color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(alphaBottom*255 + 0.5)})
	r.dc.SetFillStyle(grad)
	r.dc.DrawRectangle(0, yTop*r.scale, r.w*r.scale, (yBottom-yTop)*r.scale)
	r.dc.Fill()
}

func (r *Raster) Line(a, b Point, c color.RGBA, width float64) {
	r.dc.SetColor(c)
	r.dc.SetLineWidth(width * r.scale)
	r.dc.DrawLine(a.X*r.scale, a.Y*r.scale, b.X*r.scale, b.Y*r.scale)
	r.dc.Stroke()
}

func (r *Raster) Text(at Point, s string, style TextStyle, anchor Anchor) {
	face, err := style.Font.Face(style.Size, r.dpi)
	if err != nil {
		return
	}
	r.dc.SetFontFace(face)
	r.dc.SetColor(color.NRGBA{R: style.Color.R, G: style.Color.G, B: style.Color.B,
		A: uint8(style.Alpha*255 + 0.5)})

	ax := 0.5
	if anchor == AnchorRight {
		ax = 1.0
	}
	// ay 0 keeps the baseline on the y coordinate
	r.dc.DrawStringAnchored(s, at.X*r.scale, at.Y*r.scale, ax, 0)
}

// Export encodes the pixels as PNG at the configured DPI.
func (r *Raster) Export(w io.Writer) error {
	return imaging.Encode(w, r.dc.Image(), imaging.PNG)
}
