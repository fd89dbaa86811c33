// Package analysis turns row-level sales records into grouped statistics.
package analysis

// Analysis is the full statistical result for one dataset. Sections are
// pointers so that an absent section (e.g. revenue without a revenue
// column) is representable and survives JSON round-trips as a missing
// field rather than a zero value.
type Analysis struct {
	Overview             *Overview             `json:"overview,omitempty"`
	YearlyTrends         *YearlyTrends         `json:"yearly_trends,omitempty"`
	RegionalPerformance  *RegionalPerformance  `json:"regional_performance,omitempty"`
	ModelPerformance     *ModelPerformance     `json:"model_performance,omitempty"`
	PriceAnalysis        *PriceAnalysis        `json:"price_analysis,omitempty"`
	FuelTypeAnalysis     *FuelTypeAnalysis     `json:"fuel_type_analysis,omitempty"`
	TransmissionAnalysis *TransmissionAnalysis `json:"transmission_analysis,omitempty"`
	RevenueAnalysis      *RevenueAnalysis      `json:"revenue_analysis,omitempty"`
	CorrelationAnalysis  *CorrelationAnalysis  `json:"correlation_analysis,omitempty"`
}

// Overview holds dataset-level counts and averages.
type Overview struct {
	TotalRecords      int      `json:"total_records"`
	YearsCovered      []int    `json:"years_covered"` // ascending
	TotalYears        int      `json:"total_years"`
	TotalModels       int      `json:"total_models"`
	TotalRegions      int      `json:"total_regions"`
	TotalSalesVolume  float64  `json:"total_sales_volume"`
	TotalRevenue      *float64 `json:"total_revenue,omitempty"`
	AvgPrice          float64  `json:"avg_price"`
	AvgSalesPerRecord float64  `json:"avg_sales_per_record"`
}

// GrowthPoint is the year-over-year growth for one year relative to the
// previous one. The first covered year has no point.
type GrowthPoint struct {
	Year      int     `json:"year"`
	GrowthPct float64 `json:"growth_pct"`
}

// YearlyTrends holds per-year sums and growth figures.
type YearlyTrends struct {
	YearlySales    map[int]float64 `json:"yearly_sales"`
	YearlyAvgPrice map[int]float64 `json:"yearly_avg_price"`
	YoYGrowth      []GrowthPoint   `json:"yoy_growth_rate"` // year ascending
	BestYear       int             `json:"best_year"`
	WorstYear      int             `json:"worst_year"`
	TotalGrowthPct float64         `json:"total_growth"`
}

// RegionalPerformance holds the per-region breakdown.
type RegionalPerformance struct {
	RegionalSales    map[string]float64 `json:"regional_sales"`
	TopRegion        string             `json:"top_region"`
	BottomRegion     string             `json:"bottom_region"`
	MarketShare      map[string]float64 `json:"regional_market_share"` // percent, 2 decimals
	AvgPriceByRegion map[string]float64 `json:"avg_price_by_region"`
}

// RankedCategory is a category label with its metric value, used in
// ordered top/bottom listings.
type RankedCategory struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ModelPerformance holds the per-model breakdown.
type ModelPerformance struct {
	ModelSales      map[string]float64 `json:"model_sales"`
	Top3            []RankedCategory   `json:"top_3_models"`    // descending
	Bottom3         []RankedCategory   `json:"bottom_3_models"` // descending tail
	MarketShare     map[string]float64 `json:"model_market_share"`
	AvgPriceByModel map[string]float64 `json:"avg_price_by_model"`
	CategorySales   map[string]float64 `json:"model_category_sales,omitempty"`
}

// PriceAnalysis holds the fixed price segmentation and elasticity signal.
type PriceAnalysis struct {
	CategorySales     map[string]float64 `json:"price_category_sales,omitempty"`
	SegmentSales      map[string]float64 `json:"price_segment_sales"`
	AvgSalesBySegment map[string]float64 `json:"avg_sales_by_price_segment"`
	AvgPrice          float64            `json:"avg_price"`
	// PriceElasticity is the price-vs-volume correlation coefficient,
	// used qualitatively as a sensitivity signal.
	PriceElasticity float64 `json:"price_elasticity_indicator"`
}

// FuelTypeAnalysis holds fuel preferences overall and per year.
type FuelTypeAnalysis struct {
	FuelSales    map[string]float64         `json:"fuel_type_sales"`
	MarketShare  map[string]float64         `json:"fuel_market_share"`
	YearlyTrends map[int]map[string]float64 `json:"fuel_yearly_trends"`
	MostPopular  string                     `json:"most_popular_fuel"`
}

// TransmissionAnalysis holds transmission preferences.
type TransmissionAnalysis struct {
	Sales       map[string]float64 `json:"transmission_sales"`
	MarketShare map[string]float64 `json:"transmission_market_share"`
	Preferred   string             `json:"preferred_transmission"`
}

// RevenueAnalysis is present only when the source carries a revenue column.
type RevenueAnalysis struct {
	TotalRevenue      float64          `json:"total_revenue"`
	RevenueByYear     map[int]float64  `json:"revenue_by_year"`
	TopModels         []RankedCategory `json:"top_revenue_models"`  // top 5
	TopRegions        []RankedCategory `json:"top_revenue_regions"` // top 3
	AvgRevenuePerSale float64          `json:"avg_revenue_per_sale"`
}

// CorrelationPair is one off-diagonal entry of the correlation matrix.
type CorrelationPair struct {
	Var1        string  `json:"var1"`
	Var2        string  `json:"var2"`
	Correlation float64 `json:"correlation"`
}

// CorrelationAnalysis holds pairwise correlations among numeric columns.
type CorrelationAnalysis struct {
	Matrix map[string]map[string]float64 `json:"correlation_matrix"`
	// TopPairs is ranked by absolute coefficient, ties broken by the
	// (i, j) column enumeration order.
	TopPairs []CorrelationPair `json:"top_correlations"`
}
