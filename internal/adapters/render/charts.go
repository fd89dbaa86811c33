// Package render turns an analysis and its narratives into the report
// artifacts: an interactive charts page, an HTML report and a Markdown
// report. Rendering is side-effect free; callers persist the output.
package render

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/salescope/salescope/internal/domain/analysis"
	"github.com/salescope/salescope/pkg/logger"
	"github.com/salescope/salescope/pkg/metrics"
)

// ChartsHTML renders every applicable chart onto a single page.
func (r *Renderer) ChartsHTML(ctx context.Context, a *analysis.Analysis) (string, error) {
	page := components.NewPage()
	page.PageTitle = "Sales Analysis Charts"

	count := 0
	add := func(chart components.Charter) {
		page.AddCharts(chart)
		metrics.RecordChartRendered()
		count++
	}

	if a.YearlyTrends != nil {
		add(yearlyTrendLine(a.YearlyTrends))
	}
	if a.RegionalPerformance != nil {
		add(categoryBar("Sales by Region", a.RegionalPerformance.RegionalSales))
	}
	if a.ModelPerformance != nil {
		add(categoryBar("Sales by Model", a.ModelPerformance.ModelSales))
	}
	if a.PriceAnalysis != nil {
		add(categoryBar("Sales by Price Segment", a.PriceAnalysis.SegmentSales))
	}
	if a.FuelTypeAnalysis != nil {
		add(fuelPie(a.FuelTypeAnalysis))
	}
	if a.RevenueAnalysis != nil {
		add(revenueBar(a.RevenueAnalysis))
	}
	if a.CorrelationAnalysis != nil {
		add(correlationHeatmap(a.CorrelationAnalysis))
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		metrics.RecordChartRenderError()
		return "", fmt.Errorf("%w: %v", ErrRenderCharts, err)
	}

	r.log.Debug(ctx, "charts rendered",
		logger.Int("charts", count),
		logger.Int("bytes", buf.Len()))
	return buf.String(), nil
}

func yearlyTrendLine(t *analysis.YearlyTrends) components.Charter {
	years := make([]int, 0, len(t.YearlySales))
	for y := range t.YearlySales {
		years = append(years, y)
	}
	sort.Ints(years)

	labels := make([]string, len(years))
	sales := make([]opts.LineData, len(years))
	prices := make([]opts.LineData, len(years))
	for i, y := range years {
		labels[i] = fmt.Sprintf("%d", y)
		sales[i] = opts.LineData{Value: t.YearlySales[y]}
		prices[i] = opts.LineData{Value: t.YearlyAvgPrice[y]}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Yearly Sales Trend"}))
	line.SetXAxis(labels).
		AddSeries("Sales Volume", sales).
		AddSeries("Avg Price", prices)
	return line
}

func categoryBar(title string, sums map[string]float64) components.Charter {
	labels := make([]string, 0, len(sums))
	for k := range sums {
		labels = append(labels, k)
	}
	sort.Strings(labels)

	data := make([]opts.BarData, len(labels))
	for i, k := range labels {
		data[i] = opts.BarData{Value: sums[k]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))
	bar.SetXAxis(labels).AddSeries("Sales Volume", data)
	return bar
}

func fuelPie(f *analysis.FuelTypeAnalysis) components.Charter {
	labels := make([]string, 0, len(f.FuelSales))
	for k := range f.FuelSales {
		labels = append(labels, k)
	}
	sort.Strings(labels)

	data := make([]opts.PieData, len(labels))
	for i, k := range labels {
		data[i] = opts.PieData{Name: k, Value: f.FuelSales[k]}
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Sales by Fuel Type"}))
	pie.AddSeries("Fuel Type", data)
	return pie
}

func revenueBar(rev *analysis.RevenueAnalysis) components.Charter {
	years := make([]int, 0, len(rev.RevenueByYear))
	for y := range rev.RevenueByYear {
		years = append(years, y)
	}
	sort.Ints(years)

	labels := make([]string, len(years))
	data := make([]opts.BarData, len(years))
	for i, y := range years {
		labels[i] = fmt.Sprintf("%d", y)
		data[i] = opts.BarData{Value: rev.RevenueByYear[y]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Revenue by Year"}))
	bar.SetXAxis(labels).AddSeries("Revenue", data)
	return bar
}

func correlationHeatmap(c *analysis.CorrelationAnalysis) components.Charter {
	columns := make([]string, 0, len(c.Matrix))
	for k := range c.Matrix {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	data := make([]opts.HeatMapData, 0, len(columns)*len(columns))
	for i, a := range columns {
		for j, b := range columns {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{i, j, c.Matrix[a][b]}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Correlation Matrix"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: columns}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: columns}),
		charts.WithVisualMapOpts(opts.VisualMap{Min: -1, Max: 1}),
	)
	hm.AddSeries("Correlation", data)
	return hm
}
