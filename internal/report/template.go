package report

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Personality Report - {{.Name}}</title>
<style>
:root {
  --primary-color: #2c3e50;
  --secondary-color: #3498db;
  --accent-color: #e67e22;
  --bg-color: #f8f9fa;
  --card-bg: #ffffff;
  --text-color: #333333;
}
body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; color: var(--text-color); line-height: 1.6; max-width: 950px; margin: 0 auto; padding: 40px 20px; background-color: var(--bg-color); }
.report-container { background-color: var(--card-bg); padding: 40px; border-radius: 12px; box-shadow: 0 8px 30px rgba(0,0,0,0.08); }
.header { text-align: center; border-bottom: 2px solid #ecf0f1; padding-bottom: 25px; margin-bottom: 40px; }
.header h1 { color: var(--primary-color); margin: 0; font-size: 32px; font-weight: 800; }
.header h2 { color: var(--accent-color); margin-top: 10px; font-size: 18px; text-transform: uppercase; }
.top-layout { display: flex; align-items: center; gap: 40px; margin-bottom: 40px; }
.chart-section { flex: 1; text-align: center; }
.chart-section img { max-width: 100%; }
.score-card { flex: 1; background-color: var(--bg-color); padding: 30px; border-radius: 10px; border-top: 4px solid var(--primary-color); }
.score-row { display: flex; justify-content: space-between; margin-bottom: 12px; font-size: 16px; }
.score-label { font-weight: 600; color: var(--primary-color); }
.score-value { font-weight: bold; color: var(--secondary-color); }
.analysis-section { margin-top: 40px; padding-top: 30px; border-top: 2px solid #ecf0f1; }
.snapshot-section { margin-top: 50px; border-top: 2px solid #ecf0f1; padding-top: 30px; }
.snapshot-section h3 { color: var(--primary-color); margin-bottom: 20px; }
.snapshot-card { display: flex; gap: 15px; border: 1px solid #ecf0f1; border-radius: 10px; padding: 15px; margin-bottom: 15px; align-items: center; page-break-inside: avoid; }
.snap-info { flex: 0.7; border-right: 2px solid #ecf0f1; padding-right: 10px; font-size: 14px; color: var(--primary-color); }
.snap-box { flex: 2; text-align: center; }
.snap-box img { width: 100%; border-radius: 6px; border: 1px solid #eee; }
.snap-box span { font-size: 10px; font-weight: bold; color: #7f8c8d; display: block; margin-top: 5px; }
.placeholder { display: flex; align-items: center; justify-content: center; min-height: 120px; border: 1px dashed #bdc3c7; border-radius: 6px; color: #95a5a6; font-size: 12px; }
@media print { .report-container { box-shadow: none; border: none; width: 100% !important; } }
</style>
</head>
<body>
<div class="report-container">
  <div class="header">
    <h1>Comprehensive Personality Assessment</h1>
    <h2>Prepared for: {{.Name}}</h2>
  </div>

  <div class="top-layout">
    <div class="chart-section">
      <img src="{{.Radar}}" alt="Radar Chart">
    </div>
    <div class="score-card">
      <h3>Trait Breakdown (0-100%)</h3>
      {{- range .Scores}}
      <div class="score-row">
        <span class="score-label">{{.Trait}}</span>
        <span class="score-value">{{.Percent}}%</span>
      </div>
      {{- end}}
    </div>
  </div>

  <div class="analysis-section">
{{.Narrative}}
  </div>
{{- if .Snapshots}}

  <div class="snapshot-section">
    <h3>Temporal Emotion &amp; Behavioral Analysis</h3>
    {{- range .Snapshots}}
    <div class="snapshot-card">
      <div class="snap-info"><strong>{{.Time}}</strong><br>V: {{.Valence}}<br>A: {{.Arousal}}</div>
      <div class="snap-box">{{with .Optical}}<img src="{{.}}" alt="Optical frame">{{else}}<div class="placeholder">No image available</div>{{end}}<span>OPTICAL</span></div>
      <div class="snap-box">{{with .Thermal}}<img src="{{.}}" alt="Thermal frame">{{else}}<div class="placeholder">No image available</div>{{end}}<span>THERMAL</span></div>
      <div class="snap-box">{{with .Mapping}}<img src="{{.}}" alt="Valence/arousal state">{{else}}<div class="placeholder">No image available</div>{{end}}<span>MAPPING</span></div>
    </div>
    {{- end}}
  </div>
{{- end}}
</div>
</body>
</html>
`
