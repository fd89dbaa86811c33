package render

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/salescope/salescope/internal/domain/analysis"
	"github.com/salescope/salescope/internal/domain/model"
	"github.com/salescope/salescope/pkg/logger"
)

var markdownReport = template.Must(template.New("markdown").Parse(`# Sales Analysis Report

*Generated {{.GeneratedAt}}*

{{if .Stats}}## Key Figures

| Metric | Value |
|---|---|
{{range .Stats}}| {{.Label}} | {{.Value}} |
{{end}}{{end}}
{{range .Narratives}}## {{.Title}}

{{.Text}}

{{end}}{{if .Growth}}## Year-over-Year Growth

| Year | Growth |
|---|---|
{{range .Growth}}| {{.Year}} | {{.GrowthPct}} |
{{end}}{{end}}
{{if .TopModels}}## Top Models

| Model | Sales |
|---|---|
{{range .TopModels}}| {{.Label}} | {{.Value}} |
{{end}}{{end}}
{{if .TopRegions}}## Regional Market Share

| Region | Share |
|---|---|
{{range .TopRegions}}| {{.Label}} | {{.Value}} |
{{end}}{{end}}
{{if .TopPairs}}## Strongest Correlations

| Pair | Coefficient |
|---|---|
{{range .TopPairs}}| {{.Label}} | {{.Value}} |
{{end}}{{end}}
{{if .HasRevenue}}## Revenue

| Metric | Value |
|---|---|
{{range .Revenue}}| {{.Label}} | {{.Value}} |
{{end}}{{end}}`))

// ReportMarkdown renders the Markdown companion report.
func (r *Renderer) ReportMarkdown(ctx context.Context, a *analysis.Analysis, narratives *model.NarrativeSet) (string, error) {
	var buf bytes.Buffer
	if err := markdownReport.Execute(&buf, r.buildReportData(a, narratives)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderReport, err)
	}

	r.log.Debug(ctx, "markdown report rendered", logger.Int("bytes", buf.Len()))
	return buf.String(), nil
}
