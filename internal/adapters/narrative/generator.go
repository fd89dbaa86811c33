// Package narrative produces the prose sections of a report by
// prompting a chat model with the computed analysis. Sections fail
// independently: a failed section is left absent from the result set
// and scored down later instead of failing the run.
package narrative

import (
	"context"

	"github.com/salescope/salescope/internal/domain/analysis"
	"github.com/salescope/salescope/internal/domain/model"
)

// Generator turns an analysis into narrative sections.
type Generator interface {
	Generate(ctx context.Context, a *analysis.Analysis) (*model.NarrativeSet, error)
}

// Config holds the chat model connection and pacing settings.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	// RPM is the request budget per minute; Burst caps short spikes.
	RPM        int
	Burst      int
	MaxRetries int
}
