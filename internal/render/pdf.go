package render

import (
	"image/color"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/mapposter/mapposter/internal/typography"
)

// PDF draws on a single custom-sized page in point units. The three poster
// fonts are embedded up front so text ops only select by weight.
type PDF struct {
	doc  *fpdf.Fpdf
	w, h float64
}

func NewPDF(w, h float64, fonts *typography.FontSet) *PDF {
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: w, Ht: h},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	for _, f := range []*typography.Font{&fonts.Bold, &fonts.Regular, &fonts.Light} {
		doc.AddUTF8FontFromBytes("poster-"+f.Weight, "", f.Data)
	}
	return &PDF{doc: doc, w: w, h: h}
}

func (p *PDF) FillBackground(c color.RGBA) {
	p.doc.SetFillColor(int(c.R), int(c.G), int(c.B))
	p.doc.Rect(0, 0, p.w, p.h, "F")
}

// FillPolygon fills the outer ring; PDF path ops here do not model holes.
func (p *PDF) FillPolygon(rings [][]Point, c color.RGBA) {
	if len(rings) == 0 || len(rings[0]) == 0 {
		return
	}
	outer := make([]fpdf.PointType, 0, len(rings[0]))
	for _, pt := range rings[0] {
		outer = append(outer, fpdf.PointType{X: pt.X, Y: pt.Y})
	}
	p.doc.SetFillColor(int(c.R), int(c.G), int(c.B))
	p.doc.Polygon(outer, "F")
}

func (p *PDF) StrokePolyline(pts []Point, c color.RGBA, width float64) {
	if len(pts) < 2 {
		return
	}
	p.doc.SetDrawColor(int(c.R), int(c.G), int(c.B))
	p.doc.SetLineWidth(width)
	p.doc.SetLineCapStyle("round")
	p.doc.MoveTo(pts[0].X, pts[0].Y)
	for _, pt := range pts[1:] {
		p.doc.LineTo(pt.X, pt.Y)
	}
	p.doc.DrawPath("D")
}

// VerticalGradient approximates the alpha ramp with thin constant-alpha
// strips; fpdf gradients cannot fade to transparent.
func (p *PDF) VerticalGradient(yTop, yBottom float64, c color.RGBA, alphaTop, alphaBottom float64) {
	const strips = 64
	p.doc.SetFillColor(int(c.R), int(c.G), int(c.B))
	stripH := (yBottom - yTop) / strips
	for i := 0; i < strips; i++ {
		t := (float64(i) + 0.5) / strips
		alpha := alphaTop + (alphaBottom-alphaTop)*t
		p.doc.SetAlpha(alpha, "Normal")
		p.doc.Rect(0, yTop+float64(i)*stripH, p.w, stripH, "F")
	}
	p.doc.SetAlpha(1, "Normal")
}

func (p *PDF) Line(a, b Point, c color.RGBA, width float64) {
	p.doc.SetDrawColor(int(c.R), int(c.G), int(c.B))
	p.doc.SetLineWidth(width)
	p.doc.Line(a.X, a.Y, b.X, b.Y)
}

func (p *PDF) Text(at Point, s string, style TextStyle, anchor Anchor) {
	p.doc.SetFont("poster-"+style.Font.Weight, "", style.Size)
	p.doc.SetTextColor(int(style.Color.R), int(style.Color.G), int(style.Color.B))
	p.doc.SetAlpha(style.Alpha, "Normal")

	x := at.X
	width := p.doc.GetStringWidth(s)
	switch anchor {
	case AnchorCenter:
		x -= width / 2
	case AnchorRight:
		x -= width
	}
	p.doc.Text(x, at.Y, s)
	p.doc.SetAlpha(1, "Normal")
}

func (p *PDF) Export(w io.Writer) error {
	return p.doc.Output(w)
}
