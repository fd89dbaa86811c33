// Package storage persists evaluation results and rendered reports on
// the local filesystem under a single output directory.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/salescope/salescope/internal/domain/evaluation"
	"github.com/salescope/salescope/pkg/logger"
)

const evaluationSubdir = "evaluations"

// Option configures a Store.
type Option func(*Store)

// WithNow overrides the clock used for result filenames.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store writes run artifacts below outputDir. Evaluation results land
// in an evaluations/ subdirectory as timestamped JSON records.
type Store struct {
	outputDir string
	evalDir   string
	now       func() time.Time
	log       logger.Logger
}

// New creates the output directory layout and returns a Store.
func New(outputDir string, opts ...Option) (*Store, error) {
	s := &Store{
		outputDir: outputDir,
		evalDir:   filepath.Join(outputDir, evaluationSubdir),
		now:       time.Now,
		log:       logger.Get().Named("storage"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(s.evalDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateDir, err)
	}
	return s, nil
}

// OutputDir returns the root artifact directory.
func (s *Store) OutputDir() string {
	return s.outputDir
}

// Save writes an evaluation result as an indented JSON record named
// evaluation_<YYYYMMDD_HHMMSS>.json and returns the written path.
func (s *Store) Save(ctx context.Context, res *evaluation.Result) (string, error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}

	path := filepath.Join(s.evalDir, fmt.Sprintf("evaluation_%s.json", s.now().Format("20060102_150405")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}

	s.log.Debug(ctx, "evaluation written",
		logger.String("path", path),
		logger.Int("bytes", len(data)))
	return path, nil
}

// Load reads a previously saved evaluation result back.
func (s *Store) Load(_ context.Context, path string) (*evaluation.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	var res evaluation.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &res, nil
}

// SaveReport writes a rendered report under the output directory and
// returns the written path.
func (s *Store) SaveReport(ctx context.Context, name, content string) (string, error) {
	path := filepath.Join(s.outputDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}

	s.log.Debug(ctx, "report written",
		logger.String("path", path),
		logger.Int("bytes", len(content)))
	return path, nil
}
