package analysis

import (
	"fmt"
	"sort"
	"strings"
)

// SummaryText renders the analysis as a compact plain-text digest, the
// shape handed to the language model as grounding context. Map-backed
// listings are emitted in sorted key order so the output is stable.
func (a *Analysis) SummaryText() string {
	var b strings.Builder

	b.WriteString("SALES DATA ANALYSIS SUMMARY\n")

	if o := a.Overview; o != nil {
		b.WriteString("\n=== OVERVIEW ===\n")
		fmt.Fprintf(&b, "- Total Records: %d\n", o.TotalRecords)
		fmt.Fprintf(&b, "- Years Covered: %s\n", joinYears(o.YearsCovered))
		fmt.Fprintf(&b, "- Total Models: %d\n", o.TotalModels)
		fmt.Fprintf(&b, "- Total Regions: %d\n", o.TotalRegions)
		fmt.Fprintf(&b, "- Total Sales Volume: %.0f units\n", o.TotalSalesVolume)
		fmt.Fprintf(&b, "- Average Price: $%.2f\n", o.AvgPrice)
	}

	if t := a.YearlyTrends; t != nil {
		b.WriteString("\n=== YEARLY TRENDS ===\n")
		fmt.Fprintf(&b, "- Best Performing Year: %d\n", t.BestYear)
		fmt.Fprintf(&b, "- Worst Performing Year: %d\n", t.WorstYear)
		fmt.Fprintf(&b, "- Overall Growth: %.2f%%\n", t.TotalGrowthPct)
		fmt.Fprintf(&b, "- Yearly Sales: %s\n", formatYearMap(t.YearlySales))
	}

	if r := a.RegionalPerformance; r != nil {
		b.WriteString("\n=== REGIONAL PERFORMANCE ===\n")
		fmt.Fprintf(&b, "- Top Region: %s\n", r.TopRegion)
		fmt.Fprintf(&b, "- Bottom Region: %s\n", r.BottomRegion)
		fmt.Fprintf(&b, "- Regional Market Share: %s\n", formatShareMap(r.MarketShare))
	}

	if m := a.ModelPerformance; m != nil {
		b.WriteString("\n=== MODEL PERFORMANCE ===\n")
		fmt.Fprintf(&b, "- Top 3 Models: %s\n", joinLabels(m.Top3))
		fmt.Fprintf(&b, "- Bottom 3 Models: %s\n", joinLabels(m.Bottom3))
		fmt.Fprintf(&b, "- Model Market Share: %s\n", formatShareMap(m.MarketShare))
	}

	if p := a.PriceAnalysis; p != nil {
		b.WriteString("\n=== PRICE ANALYSIS ===\n")
		fmt.Fprintf(&b, "- Price-Sales Correlation: %.3f\n", p.PriceElasticity)
		fmt.Fprintf(&b, "- Sales by Price Segment: %s\n", formatFloatMap(p.SegmentSales))
	}

	if f := a.FuelTypeAnalysis; f != nil {
		b.WriteString("\n=== FUEL TYPE TRENDS ===\n")
		fmt.Fprintf(&b, "- Most Popular Fuel Type: %s\n", f.MostPopular)
		fmt.Fprintf(&b, "- Fuel Type Market Share: %s\n", formatShareMap(f.MarketShare))
	}

	if tr := a.TransmissionAnalysis; tr != nil {
		b.WriteString("\n=== TRANSMISSION PREFERENCE ===\n")
		fmt.Fprintf(&b, "- Preferred Transmission: %s\n", tr.Preferred)
		fmt.Fprintf(&b, "- Market Share: %s\n", formatShareMap(tr.MarketShare))
	}

	if rev := a.RevenueAnalysis; rev != nil {
		b.WriteString("\n=== REVENUE ANALYSIS ===\n")
		fmt.Fprintf(&b, "- Total Revenue: $%.2f\n", rev.TotalRevenue)
		fmt.Fprintf(&b, "- Top Revenue Models: %s\n", joinLabels(rev.TopModels))
		fmt.Fprintf(&b, "- Top Revenue Regions: %s\n", joinLabels(rev.TopRegions))
	}

	return b.String()
}

func joinYears(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = fmt.Sprintf("%d", y)
	}
	return strings.Join(parts, ", ")
}

func joinLabels(ranked []RankedCategory) string {
	parts := make([]string, len(ranked))
	for i, rc := range ranked {
		parts[i] = rc.Label
	}
	return strings.Join(parts, ", ")
}

func formatShareMap(shares map[string]float64) string {
	keys := make([]string, 0, len(shares))
	for k := range shares {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %.2f%%", k, shares[k])
	}
	return strings.Join(parts, ", ")
}

func formatFloatMap(m map[string]float64) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %.0f", k, m[k])
	}
	return strings.Join(parts, ", ")
}

func formatYearMap(m map[int]float64) string {
	years := make([]int, 0, len(m))
	for y := range m {
		years = append(years, y)
	}
	sort.Ints(years)

	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = fmt.Sprintf("%d: %.0f", y, m[y])
	}
	return strings.Join(parts, ", ")
}
