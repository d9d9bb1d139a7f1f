// Package report assembles the self-contained HTML personality report. Every image is
// inlined as a data URI, so the output has no external references.
package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"image"
	"image/png"
	"math"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"ocean-report/internal/domain"
)

const (
	// DownloadName is the file name offered when the report is served for download.
	DownloadName = "Personality_Report.html"
	// PlaceholderHTML replaces any image that could not be produced.
	PlaceholderHTML = `<div class="placeholder">No image available</div>`
)

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	sanitize = bluemonday.UGCPolicy()
	page     = template.Must(template.New("report").Parse(reportTemplate))
)

type scoreRow struct {
	Trait   string
	Percent string
}

type snapshotRow struct {
	Time    string
	Valence string
	Arousal string
	Optical template.URL
	Thermal template.URL
	Mapping template.URL
}

type pageData struct {
	Name      string
	Radar     template.URL
	Scores    []scoreRow
	Narrative template.HTML
	Snapshots []snapshotRow
}

// Compose renders the report. It performs no I/O; nil images in snapshots become
// placeholders and the narrative is rendered whatever it contains.
func Compose(name string, scores domain.TraitScore, narrative string, snapshots []domain.AffectSample) (string, error) {
	radar, err := RenderRadar(scores)
	if err != nil {
		return "", err
	}
	body, err := RenderMarkdown(narrative)
	if err != nil {
		return "", err
	}

	data := pageData{
		Name:      strings.TrimSpace(name),
		Radar:     pngDataURI(radar),
		Narrative: body,
	}
	for _, tp := range scores.Ordered() {
		data.Scores = append(data.Scores, scoreRow{
			Trait:   tp.Trait,
			Percent: fmt.Sprintf("%.1f", tp.Percentage),
		})
	}
	for _, s := range snapshots {
		row := snapshotRow{
			Time:    s.Clock(),
			Valence: formatAffect(s.Valence),
			Arousal: formatAffect(s.Arousal),
		}
		if row.Optical, err = imageDataURI(s.Frame); err != nil {
			return "", err
		}
		if row.Thermal, err = imageDataURI(s.ThermalFrame); err != nil {
			return "", err
		}
		if row.Mapping, err = imageDataURI(s.StatePlot); err != nil {
			return "", err
		}
		data.Snapshots = append(data.Snapshots, row)
	}

	var out bytes.Buffer
	if err := page.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render report template: %w", err)
	}
	return out.String(), nil
}

// RenderMarkdown converts narrative markdown to sanitized HTML.
func RenderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("convert narrative markdown: %w", err)
	}
	return template.HTML(sanitize.SanitizeBytes(buf.Bytes())), nil
}

func formatAffect(v float64) string {
	r := math.Round(v*100) / 100
	// no "-0.00"
	if r == 0 {
		r = 0
	}
	return fmt.Sprintf("%.2f", r)
}

func imageDataURI(img image.Image) (template.URL, error) {
	if img == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode snapshot image: %w", err)
	}
	return pngDataURI(buf.Bytes()), nil
}

func pngDataURI(data []byte) template.URL {
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(data))
}
