// Package plot draws the valence/arousal state chart shown next to each snapshot.
package plot

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	Size  = 400
	Limit = 1.1
)

var (
	ErrHighlightOutOfRange = errors.New("highlight index out of range")
	ErrHighlightNotFinite  = errors.New("highlight point is not finite")
)

// planeBound is how far outside the visible range a point may be drawn.
const planeBound = 2 * Limit

var (
	backgroundColor = drawing.ColorFromHex("161b22")
	gridColor       = drawing.ColorFromHex("8b949e").WithAlpha(26)
	axisColor       = drawing.ColorFromHex("30363d")
	tickColor       = drawing.ColorFromHex("8b949e")
	trajectoryColor = drawing.ColorFromHex("58a6ff").WithAlpha(38)
	highlightColor  = drawing.ColorFromHex("ff7b72")
)

// Quadrant is a fixed label placed on the affect plane.
type Quadrant struct {
	Name  string
	X, Y  float64
	Color drawing.Color
}

var Quadrants = []Quadrant{
	{Name: "Excited", X: 0.7, Y: 0.7, Color: drawing.ColorFromHex("7ee787")},
	{Name: "Stressed", X: -0.7, Y: 0.7, Color: drawing.ColorFromHex("ff7b72")},
	{Name: "Depressed", X: -0.7, Y: -0.7, Color: drawing.ColorFromHex("a5d6ff")},
	{Name: "Relaxed", X: 0.7, Y: -0.7, Color: drawing.ColorFromHex("d2a8ff")},
}

var gridSteps = []float64{-1, -0.5, 0.5, 1}

// RenderState draws the whole trajectory faintly and marks point highlight. Output
// depends only on the inputs.
func RenderState(valence, arousal []float64, highlight int) (image.Image, error) {
	data, err := RenderStatePNG(valence, arousal, highlight)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode state plot: %w", err)
	}
	return img, nil
}

// RenderStatePNG is RenderState without the decode step.
func RenderStatePNG(valence, arousal []float64, highlight int) ([]byte, error) {
	n := min(len(valence), len(arousal))
	if highlight < 0 || highlight >= n {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrHighlightOutOfRange, highlight, n)
	}
	hx, hy := valence[highlight], arousal[highlight]
	if !isFinite(hx) || !isFinite(hy) {
		return nil, fmt.Errorf("%w: index %d is (%v, %v)", ErrHighlightNotFinite, highlight, hx, hy)
	}
	xs, ys := planePoints(valence[:n], arousal[:n])

	axisRange := func() *chart.ContinuousRange {
		return &chart.ContinuousRange{Min: -Limit, Max: Limit}
	}
	ch := chart.Chart{
		Width:  Size,
		Height: Size,
		Background: chart.Style{
			FillColor: backgroundColor,
			Padding:   chart.Box{Top: 16, Left: 28, Right: 16, Bottom: 28},
		},
		Canvas: chart.Style{FillColor: backgroundColor},
		XAxis:  chart.XAxis{Style: chart.Style{Hidden: true}, Range: axisRange()},
		YAxis:  chart.YAxis{Style: chart.Style{Hidden: true}, Range: axisRange()},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "trajectory",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: trajectoryColor,
					StrokeWidth: 1,
				},
			},
		},
	}
	ch.Elements = []chart.Renderable{
		planeOverlay(clampPlane(hx), clampPlane(hy)),
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render state plot: %w", err)
	}
	return buf.Bytes(), nil
}

// planePoints drops samples with a NaN or infinite coordinate and pulls the rest
// into [-planeBound, planeBound]; go-chart's rasterizer never returns on such input.
func planePoints(valence, arousal []float64) (xs, ys []float64) {
	xs = make([]float64, 0, len(valence))
	ys = make([]float64, 0, len(arousal))
	for i := range valence {
		x, y := valence[i], arousal[i]
		if !isFinite(x) || !isFinite(y) {
			continue
		}
		xs = append(xs, clampPlane(x))
		ys = append(ys, clampPlane(y))
	}
	return xs, ys
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clampPlane(v float64) float64 {
	return math.Max(-planeBound, math.Min(planeBound, v))
}

// planeOverlay draws grid, origin axes, tick labels, quadrant names and the
// highlighted point directly onto the canvas box.
func planeOverlay(hx, hy float64) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		toX := func(v float64) int {
			return box.Left + int((v+Limit)/(2*Limit)*float64(box.Width()))
		}
		toY := func(v float64) int {
			return box.Bottom - int((v+Limit)/(2*Limit)*float64(box.Height()))
		}
		font := defaults.GetFont()
		if font == nil {
			font, _ = chart.GetDefaultFont()
		}

		r.SetStrokeColor(gridColor)
		r.SetStrokeWidth(1)
		r.SetStrokeDashArray([]float64{4, 4})
		for _, v := range gridSteps {
			r.MoveTo(toX(v), box.Top)
			r.LineTo(toX(v), box.Bottom)
			r.Stroke()
			r.MoveTo(box.Left, toY(v))
			r.LineTo(box.Right, toY(v))
			r.Stroke()
		}
		r.SetStrokeDashArray(nil)

		r.SetStrokeColor(axisColor)
		r.SetStrokeWidth(1.5)
		r.MoveTo(toX(0), box.Top)
		r.LineTo(toX(0), box.Bottom)
		r.Stroke()
		r.MoveTo(box.Left, toY(0))
		r.LineTo(box.Right, toY(0))
		r.Stroke()

		if font != nil {
			r.SetFont(font)
			r.SetFontSize(8)
			r.SetFontColor(tickColor)
			for _, v := range append([]float64{0}, gridSteps...) {
				label := fmt.Sprintf("%g", v)
				tb := r.MeasureText(label)
				r.Text(label, toX(v)-tb.Width()/2, box.Bottom+tb.Height()+6)
				r.Text(label, box.Left-tb.Width()-6, toY(v)+tb.Height()/2)
			}

			r.SetFontSize(9)
			for _, q := range Quadrants {
				r.SetFontColor(q.Color.WithAlpha(178))
				tb := r.MeasureText(q.Name)
				r.Text(q.Name, toX(q.X)-tb.Width()/2, toY(q.Y))
			}
		}

		r.SetFillColor(highlightColor)
		r.SetStrokeColor(drawing.ColorWhite)
		r.SetStrokeWidth(1.5)
		r.Circle(6, toX(hx), toY(hy))
		r.FillStroke()
	}
}
