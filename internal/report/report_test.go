package report

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"ocean-report/internal/domain"
)

func testScores() domain.TraitScore {
	return domain.TraitScore{
		{Trait: domain.TraitOpenness, Percentage: 80},
		{Trait: domain.TraitConscientiousness, Percentage: 55.6},
		{Trait: domain.TraitExtraversion, Percentage: 62.5},
		{Trait: domain.TraitAgreeableness, Percentage: 55.6},
		{Trait: domain.TraitNeuroticism, Percentage: 12.5},
	}
}

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	return img
}

func TestRadarPathIsClosed(t *testing.T) {
	angles, values := RadarPath([]float64{10, 20, 30, 40, 50})
	require.Len(t, angles, 6)
	require.Len(t, values, 6)
	require.Equal(t, angles[0], angles[5])
	require.Equal(t, values[0], values[5])
	require.InDelta(t, 2*math.Pi/5, angles[1], 1e-12)

	a, v := RadarPath(nil)
	require.Nil(t, a)
	require.Nil(t, v)
}

func TestRenderRadarProducesPNG(t *testing.T) {
	data, err := RenderRadar(testScores())
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, radarSize, img.Bounds().Dx())

	again, err := RenderRadar(testScores())
	require.NoError(t, err)
	require.True(t, bytes.Equal(data, again))
}

func TestRenderRadarPadsMissingTraits(t *testing.T) {
	_, err := RenderRadar(domain.TraitScore{{Trait: domain.TraitOpenness, Percentage: 150}})
	require.NoError(t, err)
}

func TestComposeParsesAndShowsPlaceholders(t *testing.T) {
	snapshots := []domain.AffectSample{
		{Index: 4, Timestamp: 65.4, Valence: 0.123, Arousal: -0.456, Frame: solid(8, 6), ThermalFrame: solid(8, 6), StatePlot: solid(4, 4)},
		{Index: 9, Timestamp: 130, Valence: -0.001, Arousal: 0.999},
	}
	out, err := Compose("Ada Lovelace", testScores(), "## Executive Summary\n\nCurious and organised.", snapshots)
	require.NoError(t, err)

	_, err = html.Parse(strings.NewReader(out))
	require.NoError(t, err)

	require.Equal(t, 3, strings.Count(out, PlaceholderHTML))
	require.Contains(t, out, "Prepared for: Ada Lovelace")
	require.Contains(t, out, "<h2>Executive Summary</h2>")
	require.Contains(t, out, "<strong>1:05</strong><br>V: 0.12<br>A: -0.46")
	require.Contains(t, out, "<strong>2:10</strong><br>V: 0.00<br>A: 1.00")
	require.Contains(t, out, "80.0%")
	require.Equal(t, 5, strings.Count(out, `class="score-label"`))
	require.NotContains(t, out, "ZgotmplZ")
	require.NotContains(t, out, "http://")
	require.NotContains(t, out, "https://")

	for _, label := range []string{"OPTICAL", "THERMAL", "MAPPING"} {
		require.Equal(t, 2, strings.Count(out, "<span>"+label+"</span>"))
	}
}

func TestComposeTraitOrderIsCanonical(t *testing.T) {
	scores := domain.TraitScore{
		{Trait: domain.TraitNeuroticism, Percentage: 10},
		{Trait: domain.TraitOpenness, Percentage: 90},
	}
	out, err := Compose("x", scores, "", nil)
	require.NoError(t, err)

	last := -1
	for _, trait := range domain.TraitOrder {
		idx := strings.Index(out, `<span class="score-label">`+trait+`</span>`)
		require.Greater(t, idx, last, "trait %s out of order", trait)
		last = idx
	}
	require.Contains(t, out, "0.0%")
	require.NotContains(t, out, "snapshot-section\">")
}

func TestComposeRendersErrorTextAndSanitizes(t *testing.T) {
	narrative := "Error generating report: upstream timeout\n\n<script>alert(1)</script>"
	out, err := Compose("<b>Eve</b>", testScores(), narrative, nil)
	require.NoError(t, err)
	require.Contains(t, out, "Error generating report: upstream timeout")
	require.NotContains(t, out, "<script>alert(1)</script>")
	require.NotContains(t, out, "<b>Eve</b>")
	require.Contains(t, out, "&lt;b&gt;Eve&lt;/b&gt;")
}

func TestImageDataURI(t *testing.T) {
	uri, err := imageDataURI(nil)
	require.NoError(t, err)
	require.Empty(t, uri)

	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 1, A: 255})
	uri, err = imageDataURI(img)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(uri), "data:image/png;base64,"))
}
