// Package chart draws the dashboard's time-series line charts as PNG.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"price-dashboard/models"
)

// Palette is used for series without an explicit color.
var Palette = []color.Color{
	color.RGBA{0x63, 0x6e, 0xfa, 0xff},
	color.RGBA{0xef, 0x55, 0x3b, 0xff},
	color.RGBA{0x00, 0xcc, 0x96, 0xff},
	color.RGBA{0xab, 0x63, 0xfa, 0xff},
	color.RGBA{0xff, 0xa1, 0x5a, 0xff},
}

type Point struct {
	X time.Time
	Y float64
}

type Series struct {
	Name   string
	Points []Point
	Color  color.Color
}

// Reference is a labelled horizontal line across the plot.
type Reference struct {
	Label string
	Y     float64
}

type Chart struct {
	Title      string
	YLabel     string
	Series     []Series
	References []Reference
}

// Renderer draws charts at a fixed size.
type Renderer struct {
	width, height int
	face          font.Face
	titleFace     font.Face
}

// NewRenderer loads the embedded Go font and returns a Renderer.
func NewRenderer(width, height int) (*Renderer, error) {
	if width < 200 || height < 150 {
		return nil, fmt.Errorf("chart: size %dx%d too small", width, height)
	}
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("chart: parse font: %w", err)
	}
	return &Renderer{
		width:     width,
		height:    height,
		face:      truetype.NewFace(f, &truetype.Options{Size: 12, DPI: 72, Hinting: font.HintingFull}),
		titleFace: truetype.NewFace(f, &truetype.Options{Size: 18, DPI: 72, Hinting: font.HintingFull}),
	}, nil
}

const (
	marginLeft   = 70.0
	marginRight  = 150.0
	marginTop    = 50.0
	marginBottom = 50.0
	yTicks       = 5
)

// Render draws c and writes it to w as PNG.
func (r *Renderer) Render(w io.Writer, c Chart) error {
	W, H := float64(r.width), float64(r.height)
	dc := gg.NewContext(r.width, r.height)
	dc.SetColor(color.White)
	dc.Clear()

	dc.SetFontFace(r.titleFace)
	dc.SetColor(color.Black)
	dc.DrawStringAnchored(c.Title, W/2, marginTop/2, 0.5, 0.5)
	dc.SetFontFace(r.face)

	plotW := W - marginLeft - marginRight
	plotH := H - marginTop - marginBottom

	minX, maxX, maxY, ok := bounds(c)
	if !ok {
		dc.SetColor(color.Gray{Y: 0x80})
		dc.DrawStringAnchored("No data for this selection", W/2, H/2, 0.5, 0.5)
		return encode(dc, w)
	}
	yMax := niceCeil(maxY)

	xPos := func(t time.Time) float64 {
		span := maxX.Sub(minX)
		if span <= 0 {
			return marginLeft + plotW/2
		}
		return marginLeft + plotW*float64(t.Sub(minX))/float64(span)
	}
	yPos := func(v float64) float64 {
		return marginTop + plotH - plotH*v/yMax
	}

	// grid and y axis labels
	for i := 0; i <= yTicks; i++ {
		v := yMax * float64(i) / yTicks
		y := yPos(v)
		dc.SetColor(color.Gray{Y: 0xe5})
		dc.SetLineWidth(1)
		dc.DrawLine(marginLeft, y, marginLeft+plotW, y)
		dc.Stroke()
		dc.SetColor(color.Gray{Y: 0x44})
		dc.DrawStringAnchored(formatTick(v), marginLeft-8, y, 1, 0.5)
	}

	// x axis labels from the first series' dates
	for _, p := range xTicks(c) {
		dc.DrawStringAnchored(p.Format("Jan 06"), xPos(p), marginTop+plotH+18, 0.5, 0.5)
	}

	if c.YLabel != "" {
		dc.Push()
		dc.RotateAbout(gg.Radians(-90), 18, marginTop+plotH/2)
		dc.DrawStringAnchored(c.YLabel, 18, marginTop+plotH/2, 0.5, 0.5)
		dc.Pop()
	}

	for _, ref := range c.References {
		y := yPos(ref.Y)
		dc.SetColor(color.RGBA{0x44, 0x44, 0x44, 0xff})
		dc.SetLineWidth(1.5)
		dc.SetDash(6, 4)
		dc.DrawLine(marginLeft, y, marginLeft+plotW, y)
		dc.Stroke()
		dc.SetDash()
		dc.DrawStringAnchored(ref.Label, marginLeft+plotW-4, y-8, 1, 0.5)
	}

	for i, s := range c.Series {
		col := s.Color
		if col == nil {
			col = Palette[i%len(Palette)]
		}
		dc.SetColor(col)
		dc.SetLineWidth(2.5)
		for j, p := range s.Points {
			if j == 0 {
				dc.MoveTo(xPos(p.X), yPos(p.Y))
			} else {
				dc.LineTo(xPos(p.X), yPos(p.Y))
			}
		}
		dc.Stroke()
		for _, p := range s.Points {
			dc.DrawCircle(xPos(p.X), yPos(p.Y), 4)
			dc.Fill()
		}

		// legend
		ly := marginTop + 10 + float64(i)*22
		lx := marginLeft + plotW + 16
		dc.DrawRectangle(lx, ly-5, 14, 10)
		dc.Fill()
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(s.Name, lx+20, ly, 0, 0.5)
	}

	dc.SetColor(color.Gray{Y: 0x44})
	dc.SetLineWidth(1)
	dc.DrawLine(marginLeft, marginTop+plotH, marginLeft+plotW, marginTop+plotH)
	dc.DrawLine(marginLeft, marginTop, marginLeft, marginTop+plotH)
	dc.Stroke()

	return encode(dc, w)
}

func encode(dc *gg.Context, w io.Writer) error {
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("chart: encode png: %w", err)
	}
	return nil
}

func bounds(c Chart) (minX, maxX time.Time, maxY float64, ok bool) {
	for _, s := range c.Series {
		for _, p := range s.Points {
			if !ok || p.X.Before(minX) {
				minX = p.X
			}
			if !ok || p.X.After(maxX) {
				maxX = p.X
			}
			if p.Y > maxY {
				maxY = p.Y
			}
			ok = true
		}
	}
	if !ok {
		return
	}
	for _, ref := range c.References {
		if ref.Y > maxY {
			maxY = ref.Y
		}
	}
	return
}

func xTicks(c Chart) []time.Time {
	var longest []Point
	for _, s := range c.Series {
		if len(s.Points) > len(longest) {
			longest = s.Points
		}
	}
	out := make([]time.Time, 0, len(longest))
	for _, p := range longest {
		out = append(out, p.X)
	}
	return out
}

// niceCeil rounds v up to 1, 2, 2.5 or 5 times a power of ten. Zero and
// negative values give 1 so the axis is never degenerate.
func niceCeil(v float64) float64 {
	if v <= 0 {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if v <= m*exp {
			return m * exp
		}
	}
	return 10 * exp
}

func formatTick(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

// PriceChart plots the prescribed price of each row over time, with the
// scenario price as a reference line.
func PriceChart(view *models.DashboardView) Chart {
	pts := make([]Point, 0, len(view.Rows))
	for _, r := range view.Rows {
		pts = append(pts, Point{X: r.Date, Y: r.Price})
	}
	return Chart{
		Title:  fmt.Sprintf("Prescribed price over time: %s", view.Scenario.Location),
		YLabel: "Price (₱)",
		Series: []Series{{Name: view.Scenario.Location, Points: pts}},
		References: []Reference{{
			Label: "Scenario " + view.Headline.Display,
			Y:     view.Headline.Price,
		}},
	}
}

// ActiveUsersChart plots active users over time, one series per location in
// the order locations first appear.
func ActiveUsersChart(obs []*models.Observation) Chart {
	var order []string
	byLoc := make(map[string][]Point)
	for _, o := range obs {
		if _, ok := byLoc[o.Location]; !ok {
			order = append(order, o.Location)
		}
		byLoc[o.Location] = append(byLoc[o.Location], Point{X: o.Date, Y: float64(o.ActiveUsers)})
	}

	c := Chart{Title: "Active Users Over Time", YLabel: "Active users"}
	for _, loc := range order {
		c.Series = append(c.Series, Series{Name: loc, Points: byLoc[loc]})
	}
	return c
}
