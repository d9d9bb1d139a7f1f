package report

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"ocean-report/internal/domain"
)

const (
	radarSize  = 600
	radarTitle = "Normalized Personality Profile"
	radarMax   = 100.0
)

var (
	radarLineColor  = drawing.ColorFromHex("2c3e50")
	radarFillColor  = drawing.ColorFromHex("3498db").WithAlpha(77)
	radarRingColor  = drawing.ColorFromHex("bdc3c7")
	radarLabelColor = drawing.ColorFromHex("7f8c8d")
	radarRings      = []float64{20, 40, 60, 80, 100}
)

// RadarPath returns the polar angles and values of a closed radar polygon: the first
// point is repeated at the end, so both slices have len(values)+1 entries.
func RadarPath(values []float64) (angles, closed []float64) {
	n := len(values)
	if n == 0 {
		return nil, nil
	}
	angles = make([]float64, 0, n+1)
	closed = make([]float64, 0, n+1)
	for i, v := range values {
		angles = append(angles, 2*math.Pi*float64(i)/float64(n))
		closed = append(closed, v)
	}
	angles = append(angles, angles[0])
	closed = append(closed, closed[0])
	return angles, closed
}

// RenderRadar draws the trait profile on a fixed 0..100 scale and returns PNG bytes.
func RenderRadar(scores domain.TraitScore) ([]byte, error) {
	ordered := scores.Ordered()
	values := make([]float64, len(ordered))
	for i, tp := range ordered {
		values[i] = clampPercent(tp.Percentage)
	}
	angles, closed := RadarPath(values)

	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("load chart font: %w", err)
	}
	r, err := chart.PNG(radarSize, radarSize)
	if err != nil {
		return nil, fmt.Errorf("create radar canvas: %w", err)
	}

	cx, cy := radarSize/2, radarSize/2+20
	radius := float64(radarSize)/2 - 90
	point := func(angle, value float64) (int, int) {
		d := value / radarMax * radius
		return cx + int(math.Round(d*math.Cos(angle))), cy - int(math.Round(d*math.Sin(angle)))
	}

	r.SetFillColor(drawing.ColorWhite)
	r.MoveTo(0, 0)
	r.LineTo(radarSize, 0)
	r.LineTo(radarSize, radarSize)
	r.LineTo(0, radarSize)
	r.Close()
	r.Fill()

	r.SetStrokeColor(radarRingColor)
	r.SetStrokeWidth(1)
	for _, ring := range radarRings {
		for i, a := range angles {
			x, y := point(a, ring)
			if i == 0 {
				r.MoveTo(x, y)
				continue
			}
			r.LineTo(x, y)
		}
		r.Stroke()
	}
	for _, a := range angles[:len(angles)-1] {
		x, y := point(a, radarMax)
		r.MoveTo(cx, cy)
		r.LineTo(x, y)
		r.Stroke()
	}

	r.SetFillColor(radarFillColor)
	r.SetStrokeColor(radarLineColor)
	r.SetStrokeWidth(2.5)
	for i := range angles {
		x, y := point(angles[i], closed[i])
		if i == 0 {
			r.MoveTo(x, y)
			continue
		}
		r.LineTo(x, y)
	}
	r.Close()
	r.FillStroke()

	r.SetFont(font)
	r.SetFontSize(9)
	r.SetFontColor(radarLabelColor)
	ringAngle := math.Pi / 6
	for _, ring := range radarRings {
		x, y := point(ringAngle, ring)
		r.Text(fmt.Sprintf("%.0f", ring), x+3, y-3)
	}

	r.SetFontSize(11)
	r.SetFontColor(radarLineColor)
	for i, tp := range ordered {
		x, y := point(angles[i], radarMax+14)
		tb := r.MeasureText(tp.Trait)
		tx := x - tb.Width()/2
		switch c := math.Cos(angles[i]); {
		case c > 0.2:
			tx = x
		case c < -0.2:
			tx = x - tb.Width()
		}
		r.Text(tp.Trait, tx, y+tb.Height()/2)
	}

	r.SetFontSize(14)
	tb := r.MeasureText(radarTitle)
	r.Text(radarTitle, radarSize/2-tb.Width()/2, 32)

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, fmt.Errorf("encode radar: %w", err)
	}
	return buf.Bytes(), nil
}

func clampPercent(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > radarMax {
		return radarMax
	}
	return v
}
