// Package evaluation scores a generated report across five quality
// dimensions and grades the result. Each dimension starts at 100 and
// loses points per rubric rule; a dimension passes at 70 or above.
package evaluation

// Dimension statuses.
const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
)

// passThreshold is the per-dimension passing score.
const passThreshold = 70

// DimensionScore is the outcome of one quality dimension.
type DimensionScore struct {
	Score  float64  `json:"score"`
	Issues []string `json:"issues"`
	Status string   `json:"status"`
}

// Result is a full evaluation of one report run.
type Result struct {
	ID             string         `json:"id"`
	Timestamp      string         `json:"timestamp"`
	Correctness    DimensionScore `json:"correctness"`
	Completeness   DimensionScore `json:"completeness"`
	Readability    DimensionScore `json:"readability"`
	DataQuality    DimensionScore `json:"data_quality"`
	InsightQuality DimensionScore `json:"insight_quality"`
	OverallScore   float64        `json:"overall_score"`
	Grade          string         `json:"grade"`
}

// Dimensions returns name/score pairs in report order.
func (r *Result) Dimensions() []struct {
	Name  string
	Score DimensionScore
} {
	return []struct {
		Name  string
		Score DimensionScore
	}{
		{"Correctness", r.Correctness},
		{"Completeness", r.Completeness},
		{"Readability", r.Readability},
		{"Data Quality", r.DataQuality},
		{"Insight Quality", r.InsightQuality},
	}
}

// Grade maps an overall score to its letter grade. Thresholds are
// checked in descending order; the first match wins.
func Grade(score float64) string {
	switch {
	case score >= 90:
		return "A (Excellent)"
	case score >= 80:
		return "B (Good)"
	case score >= 70:
		return "C (Satisfactory)"
	case score >= 60:
		return "D (Needs Improvement)"
	default:
		return "F (Poor)"
	}
}
