package render

import (
	"fmt"
	"sort"
	"time"

	"github.com/salescope/salescope/internal/domain/analysis"
	"github.com/salescope/salescope/internal/domain/model"
	"github.com/salescope/salescope/pkg/logger"
)

// Renderer builds report artifacts from an analysis and its narratives.
type Renderer struct {
	now func() time.Time
	log logger.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithNow overrides the clock stamped into reports.
func WithNow(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		now: time.Now,
		log: logger.Get().Named("render"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// sectionTitles maps narrative keys to their report headings.
var sectionTitles = map[string]string{
	model.NarrativeExecutiveSummary: "Executive Summary",
	model.NarrativeYearlyAnalysis:   "Yearly Trends Analysis",
	model.NarrativeRegionalAnalysis: "Regional Performance",
	model.NarrativeModelAnalysis:    "Model Performance",
	model.NarrativeDriversAnalysis:  "Sales Drivers & Price Analysis",
	model.NarrativeCreativeInsights: "Creative Insights",
	model.NarrativeRecommendations:  "Strategic Recommendations",
}

type narrativeView struct {
	Title string
	Text  string
}

type statView struct {
	Label string
	Value string
}

type rankView struct {
	Label string
	Value string
}

type growthView struct {
	Year      int
	GrowthPct string
}

type reportData struct {
	GeneratedAt string
	Stats       []statView
	Narratives  []narrativeView
	TopModels   []rankView
	TopRegions  []rankView
	Growth      []growthView
	TopPairs    []rankView
	HasRevenue  bool
	Revenue     []statView
}

// buildReportData flattens the analysis into template-friendly rows.
// Narrative sections keep their canonical order; absent sections are
// dropped from the report rather than rendered empty.
func (r *Renderer) buildReportData(a *analysis.Analysis, narratives *model.NarrativeSet) reportData {
	data := reportData{GeneratedAt: r.now().Format("2006-01-02 15:04")}

	if o := a.Overview; o != nil {
		data.Stats = append(data.Stats,
			statView{"Total Records", fmt.Sprintf("%d", o.TotalRecords)},
			statView{"Years Covered", fmt.Sprintf("%d", o.TotalYears)},
			statView{"Models", fmt.Sprintf("%d", o.TotalModels)},
			statView{"Regions", fmt.Sprintf("%d", o.TotalRegions)},
			statView{"Total Sales Volume", fmt.Sprintf("%.0f units", o.TotalSalesVolume)},
			statView{"Average Price", fmt.Sprintf("$%.2f", o.AvgPrice)},
		)
	}
	if t := a.YearlyTrends; t != nil {
		for _, g := range t.YoYGrowth {
			data.Growth = append(data.Growth, growthView{Year: g.Year, GrowthPct: fmt.Sprintf("%+.2f%%", g.GrowthPct)})
		}
	}
	if m := a.ModelPerformance; m != nil {
		for _, rc := range m.Top3 {
			data.TopModels = append(data.TopModels, rankView{rc.Label, fmt.Sprintf("%.0f units", rc.Value)})
		}
	}
	if reg := a.RegionalPerformance; reg != nil {
		shares := make([]string, 0, len(reg.MarketShare))
		for k := range reg.MarketShare {
			shares = append(shares, k)
		}
		sort.Strings(shares)
		for _, k := range shares {
			data.TopRegions = append(data.TopRegions, rankView{k, fmt.Sprintf("%.2f%%", reg.MarketShare[k])})
		}
	}
	if c := a.CorrelationAnalysis; c != nil {
		for _, p := range c.TopPairs {
			data.TopPairs = append(data.TopPairs, rankView{
				fmt.Sprintf("%s vs %s", p.Var1, p.Var2),
				fmt.Sprintf("%.3f", p.Correlation),
			})
		}
	}
	if rev := a.RevenueAnalysis; rev != nil {
		data.HasRevenue = true
		data.Revenue = append(data.Revenue,
			statView{"Total Revenue", fmt.Sprintf("$%.2f", rev.TotalRevenue)},
			statView{"Avg Revenue per Sale", fmt.Sprintf("$%.2f", rev.AvgRevenuePerSale)},
		)
	}

	for _, entry := range narratives.Entries() {
		if entry.Text == nil {
			continue
		}
		data.Narratives = append(data.Narratives, narrativeView{
			Title: sectionTitles[entry.Key],
			Text:  *entry.Text,
		})
	}
	return data
}
