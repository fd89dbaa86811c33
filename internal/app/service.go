// Package service wires the pipeline together: load the dataset,
// compute the analysis, render the artifacts, generate narratives and
// evaluate the finished report.
package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/salescope/salescope/internal/adapters/dataset"
	"github.com/salescope/salescope/internal/adapters/narrative"
	"github.com/salescope/salescope/internal/adapters/render"
	"github.com/salescope/salescope/internal/adapters/storage"
	"github.com/salescope/salescope/internal/config"
	"github.com/salescope/salescope/internal/domain/analysis"
	"github.com/salescope/salescope/internal/domain/evaluation"
	"github.com/salescope/salescope/internal/domain/model"
	"github.com/salescope/salescope/pkg/logger"
	"github.com/salescope/salescope/pkg/metrics"
)

// Artifact filenames below the output directory.
const (
	chartsFile     = "charts.html"
	htmlReportFile = "sales_report.html"
	mdReportFile   = "sales_report.md"
	evalReportFile = "evaluation_report.txt"
)

// Service runs the analysis pipeline end to end.
type Service struct {
	dataPath  string
	generator narrative.Generator
	renderer  *render.Renderer
	store     *storage.Store
	evaluator *evaluation.Evaluator
	logger    logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithGenerator replaces the narrative generator.
func WithGenerator(g narrative.Generator) Option {
	return func(s *Service) { s.generator = g }
}

// WithRenderer replaces the artifact renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(s *Service) { s.renderer = r }
}

// New builds a Service from cfg. The narrative generator is only
// constructed when narratives are enabled; options may override any
// component, which tests use to stub the chat model.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Service, error) {
	store, err := storage.New(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	s := &Service{
		dataPath:  cfg.DataPath,
		renderer:  render.New(),
		store:     store,
		evaluator: evaluation.New(evaluation.WithStore(store)),
		logger:    logger.Get().Named("pipeline"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.generator == nil && cfg.NarrativeEnabled {
		gen, err := narrative.NewOpenAI(ctx, narrative.Config{
			BaseURL:     cfg.LLMBaseURL,
			APIKey:      cfg.LLMAPIKey,
			Model:       cfg.LLMModel,
			Temperature: float32(cfg.LLMTemperature),
			RPM:         cfg.LLMRequestsPerMinute,
			Burst:       cfg.LLMBurst,
			MaxRetries:  cfg.LLMMaxRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("init narrative generator: %w", err)
		}
		s.generator = gen
	}
	return s, nil
}

// Run executes one pipeline pass and returns the evaluation of the
// produced report. Only a failed dataset load aborts the run; every
// later degradation surfaces as a scored penalty instead.
func (s *Service) Run(ctx context.Context) (*evaluation.Result, error) {
	runID := uuid.NewString()
	start := time.Now()
	log := s.logger.With(logger.String("run_id", runID))
	log.Info(ctx, "pipeline started", logger.String("data_path", s.dataPath))

	records, err := dataset.Load(ctx, s.dataPath)
	if err != nil {
		metrics.RecordPipelineRun("failed")
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	analysisStart := time.Now()
	a := analysis.Analyze(records)
	metrics.RecordAnalysisDuration(time.Since(analysisStart).Seconds() * 1000)
	log.Info(ctx, "analysis computed",
		logger.Int("records", len(records)),
		logger.Int("years", a.Overview.TotalYears))

	s.renderCharts(ctx, log, a)
	narratives := s.generateNarratives(ctx, log, a)
	htmlPath := s.renderReport(ctx, log, "html", htmlReportFile, func() (string, error) {
		return s.renderer.ReportHTML(ctx, a, narratives)
	})
	mdPath := s.renderReport(ctx, log, "markdown", mdReportFile, func() (string, error) {
		return s.renderer.ReportMarkdown(ctx, a, narratives)
	})

	res := s.evaluator.Evaluate(ctx, a, narratives, htmlPath, mdPath)

	if _, err := s.store.SaveReport(ctx, evalReportFile, evaluation.RenderReport(res)); err != nil {
		log.Error(ctx, "failed to write evaluation report", logger.Error(err))
	}

	metrics.RecordPipelineRun("success")
	metrics.RecordPipelineDuration(time.Since(start).Seconds() * 1000)
	log.Info(ctx, "pipeline finished",
		logger.Float64("overall_score", res.OverallScore),
		logger.String("grade", res.Grade))
	return res, nil
}

func (s *Service) renderCharts(ctx context.Context, log logger.Logger, a *analysis.Analysis) {
	page, err := s.renderer.ChartsHTML(ctx, a)
	if err != nil {
		log.Error(ctx, "failed to render charts", logger.Error(err))
		return
	}
	if _, err := s.store.SaveReport(ctx, chartsFile, page); err != nil {
		log.Error(ctx, "failed to write charts", logger.Error(err))
	}
}

// generateNarratives never fails the run: with no generator, or a
// generator that produced nothing, the report simply carries no prose
// and the evaluation scores it accordingly.
func (s *Service) generateNarratives(ctx context.Context, log logger.Logger, a *analysis.Analysis) *model.NarrativeSet {
	if s.generator == nil {
		log.Warn(ctx, "narrative generation disabled")
		return &model.NarrativeSet{}
	}

	narratives, err := s.generator.Generate(ctx, a)
	if err != nil {
		log.Error(ctx, "narrative generation failed", logger.Error(err))
		return &model.NarrativeSet{}
	}
	log.Info(ctx, "narratives generated", logger.Int("sections", narratives.Present()))
	return narratives
}

// renderReport renders one report format and writes it out, returning
// the target path even when rendering failed so the evaluator can
// observe the missing artifact.
func (s *Service) renderReport(ctx context.Context, log logger.Logger, format, name string, build func() (string, error)) string {
	content, err := build()
	if err != nil {
		log.Error(ctx, "failed to render report",
			logger.String("format", format),
			logger.Error(err))
		return filepath.Join(s.store.OutputDir(), name)
	}

	path, err := s.store.SaveReport(ctx, name, content)
	if err != nil {
		log.Error(ctx, "failed to write report",
			logger.String("format", format),
			logger.Error(err))
		return filepath.Join(s.store.OutputDir(), name)
	}

	metrics.RecordReportRendered(format)
	metrics.UpdateReportBytes(format, int64(len(content)))
	return path
}
