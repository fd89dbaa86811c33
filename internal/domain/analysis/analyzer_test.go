package analysis_test

import (
	"math"
	"strings"
	"testing"

	analysis "github.com/salescope/salescope/internal/domain/analysis"
	"github.com/salescope/salescope/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(m, region string, year int, price, volume float64) model.SalesRecord {
	return model.SalesRecord{
		Model:        m,
		Region:       region,
		FuelType:     "Petrol",
		Transmission: "Automatic",
		Color:        "Black",
		Year:         year,
		PriceUSD:     price,
		SalesVolume:  volume,
		EngineSizeL:  2.0,
		MileageKM:    50000,
	}
}

func withRevenue(r model.SalesRecord, rev float64) model.SalesRecord {
	r.TotalRevenue = &rev
	return r
}

func TestAnalyze_Overview(t *testing.T) {
	Convey("Given records across several years, models and regions", t, func() {
		records := []model.SalesRecord{
			rec("X5", "Europe", 2021, 60000, 100),
			rec("X3", "Asia", 2022, 45000, 200),
			rec("i4", "Europe", 2023, 55000, 300),
		}

		Convey("When analyzed", func() {
			a := analysis.Analyze(records)

			Convey("Then the overview counts distinct dimensions", func() {
				So(a.Overview.TotalRecords, ShouldEqual, 3)
				So(a.Overview.YearsCovered, ShouldResemble, []int{2021, 2022, 2023})
				So(a.Overview.TotalYears, ShouldEqual, 3)
				So(a.Overview.TotalModels, ShouldEqual, 3)
				So(a.Overview.TotalRegions, ShouldEqual, 2)
				So(a.Overview.TotalSalesVolume, ShouldEqual, 600)
			})

			Convey("And averages are over records, not volume", func() {
				So(a.Overview.AvgPrice, ShouldAlmostEqual, (60000+45000+55000)/3.0, 0.001)
				So(a.Overview.AvgSalesPerRecord, ShouldAlmostEqual, 200, 0.001)
			})

			Convey("And revenue is absent without a revenue column", func() {
				So(a.Overview.TotalRevenue, ShouldBeNil)
				So(a.RevenueAnalysis, ShouldBeNil)
			})
		})
	})
}

func TestAnalyze_YearlyTrends(t *testing.T) {
	Convey("Given yearly sales of 100, 150, 120", t, func() {
		records := []model.SalesRecord{
			rec("X5", "Europe", 2020, 60000, 100),
			rec("X5", "Europe", 2021, 60000, 150),
			rec("X5", "Europe", 2022, 60000, 120),
		}
		a := analysis.Analyze(records)
		tr := a.YearlyTrends

		Convey("Then growth is computed per consecutive pair, first year omitted", func() {
			So(len(tr.YoYGrowth), ShouldEqual, 2)
			So(tr.YoYGrowth[0].Year, ShouldEqual, 2021)
			So(tr.YoYGrowth[0].GrowthPct, ShouldAlmostEqual, 50, 0.001)
			So(tr.YoYGrowth[1].Year, ShouldEqual, 2022)
			So(tr.YoYGrowth[1].GrowthPct, ShouldAlmostEqual, -20, 0.001)
		})

		Convey("Then best and worst years follow total volume", func() {
			So(tr.BestYear, ShouldEqual, 2021)
			So(tr.WorstYear, ShouldEqual, 2020)
		})

		Convey("Then total growth spans first to last year", func() {
			So(tr.TotalGrowthPct, ShouldAlmostEqual, 20, 0.001)
		})
	})

	Convey("Given a single year of data", t, func() {
		a := analysis.Analyze([]model.SalesRecord{rec("X5", "Europe", 2024, 60000, 100)})

		Convey("Then there is no growth series and best equals worst", func() {
			So(a.YearlyTrends.YoYGrowth, ShouldBeEmpty)
			So(a.YearlyTrends.BestYear, ShouldEqual, 2024)
			So(a.YearlyTrends.WorstYear, ShouldEqual, 2024)
		})
	})
}

func TestAnalyze_MarketShare(t *testing.T) {
	Convey("Given records spread over three regions", t, func() {
		records := []model.SalesRecord{
			rec("X5", "Europe", 2022, 60000, 333),
			rec("X5", "Asia", 2022, 60000, 333),
			rec("X5", "Americas", 2022, 60000, 334),
		}
		a := analysis.Analyze(records)

		Convey("Then shares are percentages rounded to 2 decimals", func() {
			So(a.RegionalPerformance.MarketShare["Europe"], ShouldEqual, 33.3)
			So(a.RegionalPerformance.MarketShare["Americas"], ShouldEqual, 33.4)
		})

		Convey("Then shares across the section sum to about 100", func() {
			var sum float64
			for _, v := range a.RegionalPerformance.MarketShare {
				sum += v
			}
			So(math.Abs(sum-100), ShouldBeLessThan, 0.1)
		})

		Convey("Then top and bottom regions follow total volume", func() {
			So(a.RegionalPerformance.TopRegion, ShouldEqual, "Americas")
			So(a.RegionalPerformance.BottomRegion, ShouldNotEqual, "Americas")
		})
	})
}

func TestAnalyze_ModelRanking(t *testing.T) {
	Convey("Given five models with distinct volumes", t, func() {
		records := []model.SalesRecord{
			rec("M5", "Europe", 2022, 90000, 50),
			rec("X5", "Europe", 2022, 60000, 500),
			rec("X3", "Europe", 2022, 45000, 400),
			rec("i4", "Europe", 2022, 55000, 300),
			rec("Z4", "Europe", 2022, 65000, 100),
		}
		a := analysis.Analyze(records)
		mp := a.ModelPerformance

		Convey("Then top 3 is descending by volume", func() {
			So(len(mp.Top3), ShouldEqual, 3)
			So(mp.Top3[0].Label, ShouldEqual, "X5")
			So(mp.Top3[1].Label, ShouldEqual, "X3")
			So(mp.Top3[2].Label, ShouldEqual, "i4")
		})

		Convey("Then bottom 3 keeps the descending order of the tail", func() {
			So(len(mp.Bottom3), ShouldEqual, 3)
			So(mp.Bottom3[0].Label, ShouldEqual, "i4")
			So(mp.Bottom3[1].Label, ShouldEqual, "Z4")
			So(mp.Bottom3[2].Label, ShouldEqual, "M5")
		})

		Convey("Then category sales stay absent without category columns", func() {
			So(mp.CategorySales, ShouldBeNil)
		})
	})

	Convey("Given fewer models than the rank size", t, func() {
		a := analysis.Analyze([]model.SalesRecord{
			rec("X5", "Europe", 2022, 60000, 100),
			rec("X3", "Europe", 2022, 45000, 200),
		})

		Convey("Then rankings shrink instead of padding", func() {
			So(len(a.ModelPerformance.Top3), ShouldEqual, 2)
			So(len(a.ModelPerformance.Bottom3), ShouldEqual, 2)
		})
	})
}

func TestAnalyze_PriceSegments(t *testing.T) {
	Convey("Given one record per price bucket", t, func() {
		records := []model.SalesRecord{
			rec("X1", "Europe", 2022, 50000, 10),  // boundary stays Budget
			rec("X3", "Europe", 2022, 50001, 20),  // just past the boundary
			rec("X5", "Europe", 2022, 75000, 30),  // boundary stays Mid-Range
			rec("X6", "Europe", 2022, 100000, 40), // boundary stays Premium
			rec("M8", "Europe", 2022, 150000, 50),
		}
		a := analysis.Analyze(records)
		p := a.PriceAnalysis

		Convey("Then bucket boundaries are inclusive on the upper edge", func() {
			So(p.SegmentSales["Budget"], ShouldEqual, 10)
			So(p.SegmentSales["Mid-Range"], ShouldEqual, 50)
			So(p.SegmentSales["Premium"], ShouldEqual, 40)
			So(p.SegmentSales["Luxury"], ShouldEqual, 50)
		})

		Convey("Then per-segment averages divide by record count", func() {
			So(p.AvgSalesBySegment["Mid-Range"], ShouldAlmostEqual, 25, 0.001)
		})

		Convey("Then the overall average price is carried", func() {
			So(p.AvgPrice, ShouldAlmostEqual, (50000+50001+75000+100000+150000)/5.0, 0.001)
		})
	})
}

func TestAnalyze_Correlations(t *testing.T) {
	Convey("Given records where price and volume move together", t, func() {
		records := []model.SalesRecord{
			{Model: "X5", Region: "Europe", FuelType: "Petrol", Transmission: "Automatic",
				Year: 2022, PriceUSD: 10, SalesVolume: 10, EngineSizeL: 1, MileageKM: 5},
			{Model: "X5", Region: "Europe", FuelType: "Petrol", Transmission: "Automatic",
				Year: 2022, PriceUSD: 20, SalesVolume: 20, EngineSizeL: 2, MileageKM: 4},
			{Model: "X5", Region: "Europe", FuelType: "Petrol", Transmission: "Automatic",
				Year: 2022, PriceUSD: 30, SalesVolume: 30, EngineSizeL: 3, MileageKM: 3},
		}
		a := analysis.Analyze(records)
		c := a.CorrelationAnalysis

		Convey("Then the matrix covers the numeric columns with unit diagonal", func() {
			So(c.Matrix["Price_USD"]["Price_USD"], ShouldEqual, 1)
			So(c.Matrix["Price_USD"]["Sales_Volume"], ShouldAlmostEqual, 1, 0.0001)
			So(c.Matrix["Price_USD"]["Mileage_KM"], ShouldAlmostEqual, -1, 0.0001)
			_, hasRevenue := c.Matrix["Total_Revenue"]
			So(hasRevenue, ShouldBeFalse)
		})

		Convey("Then top pairs are ranked by absolute coefficient", func() {
			So(len(c.TopPairs), ShouldEqual, 5)
			So(math.Abs(c.TopPairs[0].Correlation), ShouldAlmostEqual, 1, 0.0001)
		})

		Convey("Then equal-strength pairs keep enumeration order", func() {
			// All six pairs here have |r| == 1, so the first ranked
			// pair must be the first enumerated one.
			So(c.TopPairs[0].Var1, ShouldEqual, "Price_USD")
			So(c.TopPairs[0].Var2, ShouldEqual, "Sales_Volume")
		})
	})

	Convey("Given a constant column", t, func() {
		records := []model.SalesRecord{
			rec("X5", "Europe", 2022, 60000, 100),
			rec("X5", "Europe", 2022, 60000, 200),
		}
		a := analysis.Analyze(records)

		Convey("Then its correlations collapse to zero instead of NaN", func() {
			So(a.CorrelationAnalysis.Matrix["Price_USD"]["Sales_Volume"], ShouldEqual, 0)
		})
	})
}

func TestAnalyze_Revenue(t *testing.T) {
	Convey("Given records carrying revenue", t, func() {
		records := []model.SalesRecord{
			withRevenue(rec("X5", "Europe", 2021, 60000, 100), 6_000_000),
			withRevenue(rec("X3", "Asia", 2022, 45000, 200), 9_000_000),
		}
		a := analysis.Analyze(records)

		Convey("Then the revenue section is present and totalled", func() {
			So(a.RevenueAnalysis, ShouldNotBeNil)
			So(a.RevenueAnalysis.TotalRevenue, ShouldEqual, 15_000_000)
			So(a.RevenueAnalysis.RevenueByYear[2021], ShouldEqual, 6_000_000)
			So(a.RevenueAnalysis.AvgRevenuePerSale, ShouldAlmostEqual, 7_500_000, 0.001)
		})

		Convey("Then top listings rank by revenue", func() {
			So(a.RevenueAnalysis.TopModels[0].Label, ShouldEqual, "X3")
			So(a.RevenueAnalysis.TopRegions[0].Label, ShouldEqual, "Asia")
		})

		Convey("Then the overview picks up total revenue", func() {
			So(a.Overview.TotalRevenue, ShouldNotBeNil)
			So(*a.Overview.TotalRevenue, ShouldEqual, 15_000_000)
		})

		Convey("Then the correlation matrix gains the revenue column", func() {
			_, ok := a.CorrelationAnalysis.Matrix["Total_Revenue"]
			So(ok, ShouldBeTrue)
		})
	})
}

func TestAnalyze_FuelAndTransmission(t *testing.T) {
	Convey("Given a mix of fuel types and transmissions", t, func() {
		records := []model.SalesRecord{
			{Model: "i4", Region: "Europe", FuelType: "Electric", Transmission: "Automatic",
				Year: 2022, PriceUSD: 55000, SalesVolume: 300, EngineSizeL: 0, MileageKM: 10000},
			{Model: "X5", Region: "Europe", FuelType: "Petrol", Transmission: "Manual",
				Year: 2022, PriceUSD: 60000, SalesVolume: 100, EngineSizeL: 3, MileageKM: 40000},
			{Model: "X3", Region: "Europe", FuelType: "Petrol", Transmission: "Automatic",
				Year: 2023, PriceUSD: 45000, SalesVolume: 150, EngineSizeL: 2, MileageKM: 30000},
		}
		a := analysis.Analyze(records)

		Convey("Then fuel totals and the yearly breakdown agree", func() {
			So(a.FuelTypeAnalysis.FuelSales["Petrol"], ShouldEqual, 250)
			So(a.FuelTypeAnalysis.YearlyTrends[2022]["Petrol"], ShouldEqual, 100)
			So(a.FuelTypeAnalysis.YearlyTrends[2023]["Petrol"], ShouldEqual, 150)
			So(a.FuelTypeAnalysis.MostPopular, ShouldEqual, "Electric")
		})

		Convey("Then the preferred transmission follows volume", func() {
			So(a.TransmissionAnalysis.Preferred, ShouldEqual, "Automatic")
			So(a.TransmissionAnalysis.Sales["Manual"], ShouldEqual, 100)
		})
	})
}

func TestSummaryText(t *testing.T) {
	Convey("Given a complete analysis", t, func() {
		records := []model.SalesRecord{
			withRevenue(rec("X5", "Europe", 2021, 60000, 100), 6_000_000),
			withRevenue(rec("X3", "Asia", 2022, 45000, 200), 9_000_000),
		}
		a := analysis.Analyze(records)

		Convey("When rendered as text", func() {
			s := a.SummaryText()

			Convey("Then every section header appears", func() {
				for _, h := range []string{
					"=== OVERVIEW ===",
					"=== YEARLY TRENDS ===",
					"=== REGIONAL PERFORMANCE ===",
					"=== MODEL PERFORMANCE ===",
					"=== PRICE ANALYSIS ===",
					"=== FUEL TYPE TRENDS ===",
					"=== TRANSMISSION PREFERENCE ===",
					"=== REVENUE ANALYSIS ===",
				} {
					So(s, ShouldContainSubstring, h)
				}
			})

			Convey("Then key figures are embedded", func() {
				So(s, ShouldContainSubstring, "Total Records: 2")
				So(s, ShouldContainSubstring, "2021, 2022")
			})
		})

		Convey("When revenue is absent the section is dropped", func() {
			noRev := analysis.Analyze([]model.SalesRecord{rec("X5", "Europe", 2021, 60000, 100)})
			So(strings.Contains(noRev.SummaryText(), "REVENUE ANALYSIS"), ShouldBeFalse)
		})
	})
}
