package evaluation

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/salescope/salescope/internal/domain/analysis"
	"github.com/salescope/salescope/internal/domain/model"
	"github.com/salescope/salescope/pkg/logger"
	"github.com/salescope/salescope/pkg/metrics"
)

// Store persists evaluation results. Saving is best effort; a failed
// save never fails the evaluation itself.
type Store interface {
	Save(ctx context.Context, res *Result) (string, error)
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithStore sets the result store.
func WithStore(s Store) Option {
	return func(e *Evaluator) { e.store = s }
}

// WithNow overrides the clock, used by tests.
func WithNow(now func() time.Time) Option {
	return func(e *Evaluator) { e.now = now }
}

// Evaluator grades report runs against the quality rubric.
type Evaluator struct {
	store Store
	now   func() time.Time
	log   logger.Logger
}

// New creates an Evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		now: time.Now,
		log: logger.Get().Named("evaluation"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate scores one report run. The analysis and narratives are the
// in-memory artifacts; htmlPath and mdPath point at the rendered files.
func (e *Evaluator) Evaluate(ctx context.Context, a *analysis.Analysis, narratives *model.NarrativeSet, htmlPath, mdPath string) *Result {
	e.log.Info(ctx, "starting report evaluation")

	res := &Result{
		ID:             uuid.NewString(),
		Timestamp:      e.now().Format(time.RFC3339),
		Correctness:    evaluateCorrectness(a, narratives),
		Completeness:   evaluateCompleteness(a, narratives),
		Readability:    evaluateReadability(htmlPath, mdPath),
		DataQuality:    evaluateDataQuality(a),
		InsightQuality: evaluateInsightQuality(narratives),
	}

	var sum float64
	for _, d := range res.Dimensions() {
		sum += d.Score.Score
	}
	res.OverallScore = sum / 5
	res.Grade = Grade(res.OverallScore)

	metrics.RecordEvaluation()
	metrics.UpdateEvaluationOverallScore(res.OverallScore)
	for _, d := range res.Dimensions() {
		label := strings.ToLower(strings.ReplaceAll(d.Name, " ", "_"))
		metrics.UpdateEvaluationDimensionScore(label, d.Score.Score)
		metrics.AddEvaluationIssues(label, len(d.Score.Issues))
	}

	if e.store != nil {
		if path, err := e.store.Save(ctx, res); err != nil {
			metrics.RecordPersistError()
			e.log.Error(ctx, "failed to save evaluation",
				logger.Error(err))
		} else {
			e.log.Info(ctx, "evaluation saved",
				logger.String("path", path))
		}
	}

	e.log.Info(ctx, "evaluation complete",
		logger.Float64("overall_score", res.OverallScore),
		logger.String("grade", res.Grade))
	return res
}

// tally accumulates deductions for one dimension. Issues keep the
// order their rules ran in.
type tally struct {
	score  float64
	issues []string
}

func newTally() *tally {
	return &tally{score: 100, issues: []string{}}
}

func (t *tally) deduct(points float64, issue string) {
	t.score -= points
	t.issues = append(t.issues, issue)
}

func (t *tally) result() DimensionScore {
	score := t.score
	if score < 0 {
		score = 0
	}
	status := StatusFail
	if score >= passThreshold {
		status = StatusPass
	}
	return DimensionScore{Score: score, Issues: t.issues, Status: status}
}

// Sections the correctness rubric requires, keyed by report name.
var requiredSections = []string{
	"overview",
	"yearly_trends",
	"regional_performance",
	"model_performance",
	"price_analysis",
	"correlation_analysis",
}

func sectionPresent(a *analysis.Analysis, name string) bool {
	switch name {
	case "overview":
		return a.Overview != nil
	case "yearly_trends":
		return a.YearlyTrends != nil
	case "regional_performance":
		return a.RegionalPerformance != nil
	case "model_performance":
		return a.ModelPerformance != nil
	case "price_analysis":
		return a.PriceAnalysis != nil
	case "correlation_analysis":
		return a.CorrelationAnalysis != nil
	default:
		return false
	}
}

func evaluateCorrectness(a *analysis.Analysis, narratives *model.NarrativeSet) DimensionScore {
	t := newTally()

	var missing []string
	for _, name := range requiredSections {
		if !sectionPresent(a, name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		t.deduct(float64(len(missing))*10,
			fmt.Sprintf("Missing analysis sections: %s", strings.Join(missing, ", ")))
	}

	if a.Overview != nil {
		switch records := a.Overview.TotalRecords; {
		case records == 0:
			t.deduct(20, "No records found in dataset")
		case records < 100:
			t.deduct(10, fmt.Sprintf("Low record count: %d", records))
		}
	}

	if a.PriceAnalysis != nil && a.PriceAnalysis.AvgPrice < 0 {
		t.deduct(15, "Negative average price detected")
	}

	for _, entry := range narratives.Entries() {
		if entry.Text == nil {
			continue
		}
		if n := utf8.RuneCountInString(*entry.Text); n < 50 {
			t.deduct(5, fmt.Sprintf("Insufficient insight for %s: only %d characters", entry.Key, n))
		}
	}

	return t.result()
}

func evaluateCompleteness(a *analysis.Analysis, narratives *model.NarrativeSet) DimensionScore {
	t := newTally()

	var missing []string
	for _, entry := range narratives.Entries() {
		if entry.Text == nil {
			missing = append(missing, entry.Key)
		}
	}
	if len(missing) > 0 {
		t.deduct(float64(len(missing))*10,
			fmt.Sprintf("Missing insight sections: %s", strings.Join(missing, ", ")))
	}

	if a.Overview != nil {
		if a.Overview.TotalModels < 5 {
			t.deduct(5, fmt.Sprintf("Limited model coverage: %d models", a.Overview.TotalModels))
		}
		if a.Overview.TotalRegions < 3 {
			t.deduct(5, fmt.Sprintf("Limited regional coverage: %d regions", a.Overview.TotalRegions))
		}
		if a.Overview.TotalYears < 3 {
			t.deduct(5, fmt.Sprintf("Limited temporal coverage: %d years", a.Overview.TotalYears))
		}
	}

	if a.CorrelationAnalysis == nil {
		t.deduct(10, "Missing correlation analysis")
	}

	return t.result()
}

func evaluateReadability(htmlPath, mdPath string) DimensionScore {
	t := newTally()

	if info, err := os.Stat(htmlPath); err != nil {
		t.deduct(30, "HTML report file not found")
	} else {
		size := info.Size()
		if size < 5_000 {
			t.deduct(15, fmt.Sprintf("HTML report too short: %d bytes", size))
		} else if size > 5_000_000 {
			t.deduct(10, fmt.Sprintf("HTML report very large: %d bytes", size))
		}

		if content, err := os.ReadFile(htmlPath); err != nil {
			t.deduct(10, fmt.Sprintf("Error reading HTML: %v", err))
		} else {
			if !strings.Contains(strings.ToLower(string(content)), "<html") {
				t.deduct(10, "Invalid HTML structure")
			}
			if !strings.Contains(string(content), "Executive Summary") {
				t.deduct(5, "Missing key sections in HTML")
			}
		}
	}

	if info, err := os.Stat(mdPath); err != nil {
		t.deduct(20, "Markdown report file not found")
	} else if info.Size() < 2_000 {
		t.deduct(10, fmt.Sprintf("Markdown report too short: %d bytes", info.Size()))
	}

	return t.result()
}

func evaluateDataQuality(a *analysis.Analysis) DimensionScore {
	t := newTally()

	if a.Overview != nil {
		if a.Overview.TotalRecords < 1000 {
			t.deduct(15, fmt.Sprintf("Small dataset: %d records", a.Overview.TotalRecords))
		}
		if len(a.Overview.YearsCovered) < 2 {
			t.deduct(10, "Insufficient temporal coverage")
		}
	}

	if a.RegionalPerformance != nil && len(a.RegionalPerformance.RegionalSales) > 0 {
		first := true
		var minSales, maxSales float64
		for _, v := range a.RegionalPerformance.RegionalSales {
			if first {
				minSales, maxSales = v, v
				first = false
				continue
			}
			if v < minSales {
				minSales = v
			}
			if v > maxSales {
				maxSales = v
			}
		}
		if maxSales > 0 && minSales/maxSales < 0.1 {
			t.deduct(5, "Highly imbalanced regional distribution")
		}
	}

	return t.result()
}

func evaluateInsightQuality(narratives *model.NarrativeSet) DimensionScore {
	t := newTally()

	for _, entry := range narratives.Entries() {
		if entry.Text == nil {
			continue
		}
		text := *entry.Text
		if text == "" {
			t.deduct(10, fmt.Sprintf("Empty insight: %s", entry.Key))
			continue
		}

		if n := utf8.RuneCountInString(text); n < 200 {
			t.deduct(5, fmt.Sprintf("Short insight for %s: %d chars", entry.Key, n))
		}
		if !strings.ContainsAny(text, "0123456789") {
			t.deduct(3, fmt.Sprintf("No specific numbers in %s", entry.Key))
		}
		if !strings.Contains(text, "%") && entry.Key != model.NarrativeCreativeInsights {
			t.deduct(2, fmt.Sprintf("No percentages in %s", entry.Key))
		}
	}

	return t.result()
}
