package analysis

import (
	"math"
	"sort"

	"github.com/salescope/salescope/internal/domain/model"
)

// Price segmentation breakpoints in USD. The top bucket is unbounded.
const (
	budgetCeiling   = 50_000
	midRangeCeiling = 75_000
	premiumCeiling  = 100_000
)

// Segment labels in ascending price order.
var priceSegments = []string{"Budget", "Mid-Range", "Premium", "Luxury"}

// topCorrelationCount bounds the ranked correlation listing.
const topCorrelationCount = 5

// Analyze computes every section of the Analysis from row-level records.
// It is a pure function; the result is never mutated afterwards.
func Analyze(records []model.SalesRecord) *Analysis {
	hasRevenue := false
	for _, r := range records {
		if r.HasRevenue() {
			hasRevenue = true
			break
		}
	}

	return &Analysis{
		Overview:             analyzeOverview(records, hasRevenue),
		YearlyTrends:         analyzeYearlyTrends(records),
		RegionalPerformance:  analyzeRegionalPerformance(records),
		ModelPerformance:     analyzeModelPerformance(records),
		PriceAnalysis:        analyzePriceDrivers(records),
		FuelTypeAnalysis:     analyzeFuelTypes(records),
		TransmissionAnalysis: analyzeTransmissions(records),
		RevenueAnalysis:      analyzeRevenue(records, hasRevenue),
		CorrelationAnalysis:  analyzeCorrelations(records, hasRevenue),
	}
}

func analyzeOverview(records []model.SalesRecord, hasRevenue bool) *Overview {
	years := make(map[int]bool)
	models := make(map[string]bool)
	regions := make(map[string]bool)

	var totalVolume, totalPrice, totalRevenue float64
	for _, r := range records {
		years[r.Year] = true
		models[r.Model] = true
		regions[r.Region] = true
		totalVolume += r.SalesVolume
		totalPrice += r.PriceUSD
		if r.TotalRevenue != nil {
			totalRevenue += *r.TotalRevenue
		}
	}

	sortedYears := make([]int, 0, len(years))
	for y := range years {
		sortedYears = append(sortedYears, y)
	}
	sort.Ints(sortedYears)

	o := &Overview{
		TotalRecords:     len(records),
		YearsCovered:     sortedYears,
		TotalYears:       len(sortedYears),
		TotalModels:      len(models),
		TotalRegions:     len(regions),
		TotalSalesVolume: totalVolume,
	}
	if len(records) > 0 {
		o.AvgPrice = totalPrice / float64(len(records))
		o.AvgSalesPerRecord = totalVolume / float64(len(records))
	}
	if hasRevenue {
		o.TotalRevenue = &totalRevenue
	}
	return o
}

func analyzeYearlyTrends(records []model.SalesRecord) *YearlyTrends {
	sales := make(map[int]float64)
	priceSum := make(map[int]float64)
	count := make(map[int]int)
	for _, r := range records {
		sales[r.Year] += r.SalesVolume
		priceSum[r.Year] += r.PriceUSD
		count[r.Year]++
	}

	years := make([]int, 0, len(sales))
	for y := range sales {
		years = append(years, y)
	}
	sort.Ints(years)

	t := &YearlyTrends{
		YearlySales:    sales,
		YearlyAvgPrice: make(map[int]float64, len(years)),
	}
	for _, y := range years {
		t.YearlyAvgPrice[y] = priceSum[y] / float64(count[y])
	}

	// Growth for each consecutive year pair, in year order; the first
	// year has no prior and is omitted.
	for i := 1; i < len(years); i++ {
		prev := sales[years[i-1]]
		if prev == 0 {
			continue
		}
		t.YoYGrowth = append(t.YoYGrowth, GrowthPoint{
			Year:      years[i],
			GrowthPct: (sales[years[i]] - prev) / prev * 100,
		})
	}

	if len(years) > 0 {
		best, worst := years[0], years[0]
		for _, y := range years[1:] {
			if sales[y] > sales[best] {
				best = y
			}
			if sales[y] < sales[worst] {
				worst = y
			}
		}
		t.BestYear = best
		t.WorstYear = worst

		first, last := sales[years[0]], sales[years[len(years)-1]]
		if first != 0 {
			t.TotalGrowthPct = (last - first) / first * 100
		}
	}
	return t
}

func analyzeRegionalPerformance(records []model.SalesRecord) *RegionalPerformance {
	sales := make(map[string]float64)
	priceSum := make(map[string]float64)
	count := make(map[string]int)
	for _, r := range records {
		sales[r.Region] += r.SalesVolume
		priceSum[r.Region] += r.PriceUSD
		count[r.Region]++
	}

	p := &RegionalPerformance{
		RegionalSales:    sales,
		MarketShare:      marketShare(sales),
		AvgPriceByRegion: make(map[string]float64, len(sales)),
	}
	for region, sum := range priceSum {
		p.AvgPriceByRegion[region] = sum / float64(count[region])
	}
	p.TopRegion, p.BottomRegion = extremes(sales)
	return p
}

func analyzeModelPerformance(records []model.SalesRecord) *ModelPerformance {
	sales := make(map[string]float64)
	priceSum := make(map[string]float64)
	count := make(map[string]int)
	categorySales := make(map[string]float64)
	hasCategories := false
	for _, r := range records {
		sales[r.Model] += r.SalesVolume
		priceSum[r.Model] += r.PriceUSD
		count[r.Model]++
		if r.ModelCategory != "" {
			categorySales[r.ModelCategory] += r.SalesVolume
			hasCategories = true
		}
	}

	p := &ModelPerformance{
		ModelSales:      sales,
		MarketShare:     marketShare(sales),
		AvgPriceByModel: make(map[string]float64, len(sales)),
	}
	for m, sum := range priceSum {
		p.AvgPriceByModel[m] = sum / float64(count[m])
	}
	if hasCategories {
		p.CategorySales = categorySales
	}

	ranked := rankDescending(sales)
	p.Top3 = headRanked(ranked, 3)
	p.Bottom3 = tailRanked(ranked, 3)
	return p
}

func analyzePriceDrivers(records []model.SalesRecord) *PriceAnalysis {
	segmentSales := make(map[string]float64)
	segmentCount := make(map[string]int)
	categorySales := make(map[string]float64)
	hasCategories := false

	var priceSum float64
	prices := make([]float64, 0, len(records))
	volumes := make([]float64, 0, len(records))
	for _, r := range records {
		seg := priceSegment(r.PriceUSD)
		segmentSales[seg] += r.SalesVolume
		segmentCount[seg]++
		if r.PriceCategory != "" {
			categorySales[r.PriceCategory] += r.SalesVolume
			hasCategories = true
		}
		priceSum += r.PriceUSD
		prices = append(prices, r.PriceUSD)
		volumes = append(volumes, r.SalesVolume)
	}

	p := &PriceAnalysis{
		SegmentSales:      segmentSales,
		AvgSalesBySegment: make(map[string]float64, len(segmentSales)),
		PriceElasticity:   pearson(prices, volumes),
	}
	for seg, sum := range segmentSales {
		p.AvgSalesBySegment[seg] = sum / float64(segmentCount[seg])
	}
	if hasCategories {
		p.CategorySales = categorySales
	}
	if len(records) > 0 {
		p.AvgPrice = priceSum / float64(len(records))
	}
	return p
}

func analyzeFuelTypes(records []model.SalesRecord) *FuelTypeAnalysis {
	sales := make(map[string]float64)
	yearly := make(map[int]map[string]float64)
	for _, r := range records {
		sales[r.FuelType] += r.SalesVolume
		if yearly[r.Year] == nil {
			yearly[r.Year] = make(map[string]float64)
		}
		yearly[r.Year][r.FuelType] += r.SalesVolume
	}

	f := &FuelTypeAnalysis{
		FuelSales:    sales,
		MarketShare:  marketShare(sales),
		YearlyTrends: yearly,
	}
	f.MostPopular, _ = extremes(sales)
	return f
}

func analyzeTransmissions(records []model.SalesRecord) *TransmissionAnalysis {
	sales := make(map[string]float64)
	for _, r := range records {
		sales[r.Transmission] += r.SalesVolume
	}

	t := &TransmissionAnalysis{
		Sales:       sales,
		MarketShare: marketShare(sales),
	}
	t.Preferred, _ = extremes(sales)
	return t
}

// analyzeRevenue returns nil when the source has no revenue column; the
// section is simply absent, not an error.
func analyzeRevenue(records []model.SalesRecord, hasRevenue bool) *RevenueAnalysis {
	if !hasRevenue {
		return nil
	}

	var total float64
	byYear := make(map[int]float64)
	byModel := make(map[string]float64)
	byRegion := make(map[string]float64)
	n := 0
	for _, r := range records {
		if r.TotalRevenue == nil {
			continue
		}
		total += *r.TotalRevenue
		byYear[r.Year] += *r.TotalRevenue
		byModel[r.Model] += *r.TotalRevenue
		byRegion[r.Region] += *r.TotalRevenue
		n++
	}

	a := &RevenueAnalysis{
		TotalRevenue:  total,
		RevenueByYear: byYear,
		TopModels:     headRanked(rankDescending(byModel), 5),
		TopRegions:    headRanked(rankDescending(byRegion), 3),
	}
	if n > 0 {
		a.AvgRevenuePerSale = total / float64(n)
	}
	return a
}

func analyzeCorrelations(records []model.SalesRecord, hasRevenue bool) *CorrelationAnalysis {
	columns := []string{"Price_USD", "Sales_Volume", "Engine_Size_L", "Mileage_KM"}
	if hasRevenue {
		columns = append(columns, "Total_Revenue")
	}

	series := make(map[string][]float64, len(columns))
	for _, r := range records {
		series["Price_USD"] = append(series["Price_USD"], r.PriceUSD)
		series["Sales_Volume"] = append(series["Sales_Volume"], r.SalesVolume)
		series["Engine_Size_L"] = append(series["Engine_Size_L"], r.EngineSizeL)
		series["Mileage_KM"] = append(series["Mileage_KM"], r.MileageKM)
		if hasRevenue {
			rev := 0.0
			if r.TotalRevenue != nil {
				rev = *r.TotalRevenue
			}
			series["Total_Revenue"] = append(series["Total_Revenue"], rev)
		}
	}

	matrix := make(map[string]map[string]float64, len(columns))
	for _, a := range columns {
		matrix[a] = make(map[string]float64, len(columns))
		for _, b := range columns {
			if a == b {
				matrix[a][b] = 1
				continue
			}
			matrix[a][b] = pearson(series[a], series[b])
		}
	}

	// Off-diagonal pairs in (i, j) enumeration order, i < j; a stable
	// sort by absolute coefficient keeps that order for ties.
	var pairs []CorrelationPair
	for i := 0; i < len(columns); i++ {
		for j := i + 1; j < len(columns); j++ {
			pairs = append(pairs, CorrelationPair{
				Var1:        columns[i],
				Var2:        columns[j],
				Correlation: matrix[columns[i]][columns[j]],
			})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].Correlation) > math.Abs(pairs[j].Correlation)
	})
	if len(pairs) > topCorrelationCount {
		pairs = pairs[:topCorrelationCount]
	}

	return &CorrelationAnalysis{Matrix: matrix, TopPairs: pairs}
}

// priceSegment maps a price to its fixed bucket. The top bucket is open.
func priceSegment(price float64) string {
	switch {
	case price <= budgetCeiling:
		return priceSegments[0]
	case price <= midRangeCeiling:
		return priceSegments[1]
	case price <= premiumCeiling:
		return priceSegments[2]
	default:
		return priceSegments[3]
	}
}

// marketShare converts category sums into percentages of the total,
// rounded to 2 decimals. Shares across a section sum to ~100.
func marketShare(sums map[string]float64) map[string]float64 {
	var total float64
	for _, v := range sums {
		total += v
	}
	shares := make(map[string]float64, len(sums))
	if total == 0 {
		return shares
	}
	for k, v := range sums {
		shares[k] = roundTo2(v / total * 100)
	}
	return shares
}

// extremes returns the labels with the highest and lowest sums. Ties go
// to the alphabetically first label, so results are deterministic.
func extremes(sums map[string]float64) (highest, lowest string) {
	labels := make([]string, 0, len(sums))
	for k := range sums {
		labels = append(labels, k)
	}
	sort.Strings(labels)

	for _, k := range labels {
		if highest == "" || sums[k] > sums[highest] {
			highest = k
		}
		if lowest == "" || sums[k] < sums[lowest] {
			lowest = k
		}
	}
	return highest, lowest
}

// rankDescending sorts category sums by value descending, ties by label.
func rankDescending(sums map[string]float64) []RankedCategory {
	ranked := make([]RankedCategory, 0, len(sums))
	for k, v := range sums {
		ranked = append(ranked, RankedCategory{Label: k, Value: v})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Value != ranked[j].Value {
			return ranked[i].Value > ranked[j].Value
		}
		return ranked[i].Label < ranked[j].Label
	})
	return ranked
}

func headRanked(ranked []RankedCategory, n int) []RankedCategory {
	if len(ranked) < n {
		n = len(ranked)
	}
	out := make([]RankedCategory, n)
	copy(out, ranked[:n])
	return out
}

func tailRanked(ranked []RankedCategory, n int) []RankedCategory {
	if len(ranked) < n {
		n = len(ranked)
	}
	out := make([]RankedCategory, n)
	copy(out, ranked[len(ranked)-n:])
	return out
}

// pearson computes the correlation coefficient of two equal-length
// series. Degenerate series (zero variance, empty) yield 0.
func pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return 0
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
