// Package metrics provides Prometheus metrics for the salescope pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for one process.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ingestion
	recordsLoaded       prometheus.Counter
	datasetLoadDuration prometheus.Histogram

	// Aggregation
	analysisDuration prometheus.Histogram

	// Charts and reports
	chartsRendered    prometheus.Counter
	chartRenderErrors prometheus.Counter
	reportsRendered   *prometheus.CounterVec
	reportBytes       *prometheus.GaugeVec

	// Narrative generation
	llmRequests        *prometheus.CounterVec
	llmRequestDuration prometheus.Histogram
	llmRetries         prometheus.Counter
	llmFailures        prometheus.Counter

	// Evaluation
	evaluationsTotal         prometheus.Counter
	evaluationOverallScore   prometheus.Gauge
	evaluationDimensionScore *prometheus.GaugeVec
	evaluationIssues         *prometheus.CounterVec
	persistErrors            prometheus.Counter

	// Pipeline
	pipelineRuns     *prometheus.CounterVec
	pipelineDuration prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "salescope",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recordsLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_loaded_total",
		Help:      "Total number of sales records loaded from the dataset",
	})

	m.datasetLoadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_load_duration_milliseconds",
		Help:      "Dataset load duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.analysisDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "analysis_duration_milliseconds",
		Help:      "Statistical analysis duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.chartsRendered = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "charts_rendered_total",
		Help:      "Total number of chart files rendered",
	})

	m.chartRenderErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "chart_render_errors_total",
		Help:      "Total number of chart rendering failures",
	})

	m.reportsRendered = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "reports_rendered_total",
			Help:      "Total number of report artifacts rendered, by format",
		},
		[]string{"format"},
	)

	m.reportBytes = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "report_size_bytes",
			Help:      "Size of the most recently rendered report artifact, by format",
		},
		[]string{"format"},
	)

	m.llmRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "llm_requests_total",
			Help:      "Total number of narrative model requests, by section",
		},
		[]string{"section"},
	)

	m.llmRequestDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "llm_request_duration_milliseconds",
		Help:      "Narrative model request duration in milliseconds",
		Buckets:   []float64{100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
	})

	m.llmRetries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "llm_retries_total",
		Help:      "Total number of narrative model retries after rate limiting",
	})

	m.llmFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "llm_failures_total",
		Help:      "Total number of narrative sections that could not be generated",
	})

	m.evaluationsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluations_total",
		Help:      "Total number of report evaluations performed",
	})

	m.evaluationOverallScore = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluation_overall_score",
		Help:      "Overall score of the most recent evaluation (0-100)",
	})

	m.evaluationDimensionScore = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "evaluation_dimension_score",
			Help:      "Per-dimension score of the most recent evaluation (0-100)",
		},
		[]string{"dimension"},
	)

	m.evaluationIssues = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "evaluation_issues_total",
			Help:      "Total number of rubric issues raised, by dimension",
		},
		[]string{"dimension"},
	)

	m.persistErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluation_persist_errors_total",
		Help:      "Total number of evaluation record persistence failures",
	})

	m.pipelineRuns = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "runs_total",
			Help:      "Total number of pipeline runs, by outcome status",
		},
		[]string{"status"},
	)

	m.pipelineDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_milliseconds",
		Help:      "End-to-end pipeline run duration in milliseconds",
		Buckets:   []float64{500, 1000, 5000, 15000, 30000, 60000, 120000, 300000},
	})
}

// AddRecordsLoaded adds to the loaded-records counter.
func AddRecordsLoaded(n int) {
	globalManager.recordsLoaded.Add(float64(n))
}

// RecordDatasetLoadDuration records dataset load duration in milliseconds.
func RecordDatasetLoadDuration(ms float64) {
	globalManager.datasetLoadDuration.Observe(ms)
}

// RecordAnalysisDuration records analysis duration in milliseconds.
func RecordAnalysisDuration(ms float64) {
	globalManager.analysisDuration.Observe(ms)
}

// RecordChartRendered increments the rendered-charts counter.
func RecordChartRendered() {
	globalManager.chartsRendered.Inc()
}

// RecordChartRenderError increments the chart render error counter.
func RecordChartRenderError() {
	globalManager.chartRenderErrors.Inc()
}

// RecordReportRendered increments the rendered-reports counter for a format.
func RecordReportRendered(format string) {
	globalManager.reportsRendered.WithLabelValues(format).Inc()
}

// UpdateReportBytes sets the size of the last rendered report for a format.
func UpdateReportBytes(format string, size int64) {
	globalManager.reportBytes.WithLabelValues(format).Set(float64(size))
}

// RecordLLMRequest increments the model request counter for a section.
func RecordLLMRequest(section string) {
	globalManager.llmRequests.WithLabelValues(section).Inc()
}

// RecordLLMRequestDuration records a model request duration in milliseconds.
func RecordLLMRequestDuration(ms float64) {
	globalManager.llmRequestDuration.Observe(ms)
}

// RecordLLMRetry increments the model retry counter.
func RecordLLMRetry() {
	globalManager.llmRetries.Inc()
}

// RecordLLMFailure increments the failed-section counter.
func RecordLLMFailure() {
	globalManager.llmFailures.Inc()
}

// RecordEvaluation increments the evaluations counter.
func RecordEvaluation() {
	globalManager.evaluationsTotal.Inc()
}

// UpdateEvaluationOverallScore sets the most recent overall score.
func UpdateEvaluationOverallScore(score float64) {
	globalManager.evaluationOverallScore.Set(score)
}

// UpdateEvaluationDimensionScore sets a dimension's most recent score.
func UpdateEvaluationDimensionScore(dimension string, score float64) {
	globalManager.evaluationDimensionScore.WithLabelValues(dimension).Set(score)
}

// AddEvaluationIssues adds to the issue counter for a dimension.
func AddEvaluationIssues(dimension string, n int) {
	globalManager.evaluationIssues.WithLabelValues(dimension).Add(float64(n))
}

// RecordPersistError increments the persistence failure counter.
func RecordPersistError() {
	globalManager.persistErrors.Inc()
}

// RecordPipelineRun increments the run counter for an outcome status.
func RecordPipelineRun(status string) {
	globalManager.pipelineRuns.WithLabelValues(status).Inc()
}

// RecordPipelineDuration records an end-to-end run duration in milliseconds.
func RecordPipelineDuration(ms float64) {
	globalManager.pipelineDuration.Observe(ms)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
