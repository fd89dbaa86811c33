package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/salescope/salescope/internal/domain/analysis"
	"github.com/salescope/salescope/internal/domain/model"
	"github.com/salescope/salescope/pkg/logger"
)

var htmlReport = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Sales Analysis Report</title>
<style>
  :root {
    --ink: #1f2933;
    --muted: #52606d;
    --accent: #1f6feb;
    --paper: #f8f9fb;
    --card: #ffffff;
    --line: #d9e2ec;
  }
  * { box-sizing: border-box; }
  body {
    margin: 0;
    font-family: "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
    color: var(--ink);
    background: var(--paper);
    line-height: 1.6;
  }
  header {
    background: linear-gradient(135deg, #16324f, #1f6feb);
    color: #fff;
    padding: 48px 32px 40px;
  }
  header h1 { margin: 0 0 8px; font-size: 2rem; font-weight: 600; }
  header p { margin: 0; opacity: 0.85; }
  main { max-width: 980px; margin: 0 auto; padding: 32px 24px 64px; }
  section { margin-bottom: 40px; }
  h2 {
    font-size: 1.3rem;
    border-bottom: 2px solid var(--accent);
    padding-bottom: 6px;
    margin-bottom: 18px;
  }
  .stat-grid {
    display: grid;
    grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
    gap: 14px;
  }
  .stat {
    background: var(--card);
    border: 1px solid var(--line);
    border-radius: 8px;
    padding: 16px 18px;
  }
  .stat .label { color: var(--muted); font-size: 0.82rem; text-transform: uppercase; letter-spacing: 0.04em; }
  .stat .value { font-size: 1.35rem; font-weight: 600; margin-top: 4px; }
  .narrative {
    background: var(--card);
    border: 1px solid var(--line);
    border-radius: 8px;
    padding: 20px 24px;
    white-space: pre-wrap;
  }
  table { width: 100%; border-collapse: collapse; background: var(--card); }
  th, td { text-align: left; padding: 10px 14px; border-bottom: 1px solid var(--line); }
  th { background: #eef2f7; color: var(--muted); font-weight: 600; }
  footer { text-align: center; color: var(--muted); padding: 24px; font-size: 0.85rem; }
</style>
</head>
<body>
<header>
  <h1>Sales Analysis Report</h1>
  <p>Generated {{.GeneratedAt}}</p>
</header>
<main>
{{if .Stats}}<section>
  <h2>Key Figures</h2>
  <div class="stat-grid">
  {{range .Stats}}<div class="stat"><div class="label">{{.Label}}</div><div class="value">{{.Value}}</div></div>
  {{end}}</div>
</section>{{end}}
{{range .Narratives}}<section>
  <h2>{{.Title}}</h2>
  <div class="narrative">{{.Text}}</div>
</section>
{{end}}
{{if .Growth}}<section>
  <h2>Year-over-Year Growth</h2>
  <table><tr><th>Year</th><th>Growth</th></tr>
  {{range .Growth}}<tr><td>{{.Year}}</td><td>{{.GrowthPct}}</td></tr>
  {{end}}</table>
</section>{{end}}
{{if .TopModels}}<section>
  <h2>Top Models</h2>
  <table><tr><th>Model</th><th>Sales</th></tr>
  {{range .TopModels}}<tr><td>{{.Label}}</td><td>{{.Value}}</td></tr>
  {{end}}</table>
</section>{{end}}
{{if .TopRegions}}<section>
  <h2>Regional Market Share</h2>
  <table><tr><th>Region</th><th>Share</th></tr>
  {{range .TopRegions}}<tr><td>{{.Label}}</td><td>{{.Value}}</td></tr>
  {{end}}</table>
</section>{{end}}
{{if .TopPairs}}<section>
  <h2>Strongest Correlations</h2>
  <table><tr><th>Pair</th><th>Coefficient</th></tr>
  {{range .TopPairs}}<tr><td>{{.Label}}</td><td>{{.Value}}</td></tr>
  {{end}}</table>
</section>{{end}}
{{if .HasRevenue}}<section>
  <h2>Revenue</h2>
  <div class="stat-grid">
  {{range .Revenue}}<div class="stat"><div class="label">{{.Label}}</div><div class="value">{{.Value}}</div></div>
  {{end}}</div>
</section>{{end}}
</main>
<footer>Interactive charts are published alongside this report.</footer>
</body>
</html>
`))

// ReportHTML renders the full HTML report.
func (r *Renderer) ReportHTML(ctx context.Context, a *analysis.Analysis, narratives *model.NarrativeSet) (string, error) {
	var buf bytes.Buffer
	if err := htmlReport.Execute(&buf, r.buildReportData(a, narratives)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderReport, err)
	}

	r.log.Debug(ctx, "html report rendered", logger.Int("bytes", buf.Len()))
	return buf.String(), nil
}
