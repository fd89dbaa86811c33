package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SALESCOPE_CONFIG is set
//  3. env (prefix SALESCOPE_)
//
// A .env file in the working directory is read into the environment first
// so that OPENAI_API_KEY and friends can live next to the dataset.
func Load(_ context.Context) (*Config, error) {
	// Best effort; a missing .env is the normal case.
	_ = godotenv.Load()

	base := New()

	k := koanf.New(".")

	if path := os.Getenv("SALESCOPE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: SALESCOPE_DATA_PATH, SALESCOPE_LLM_MODEL, ...
	// Map env keys like SALESCOPE_OUTPUT_DIR -> output_dir (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("SALESCOPE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "salescope_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// The API key commonly arrives under the provider's own variable.
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = os.Getenv("OPENAI_API_KEY")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DataPath == "" {
		return fmt.Errorf("%w: data_path must not be empty", ErrInvalidConfig)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output_dir must not be empty", ErrInvalidConfig)
	}
	if c.LLMRequestsPerMinute <= 0 {
		return fmt.Errorf("%w: llm_rpm must be positive", ErrInvalidConfig)
	}
	if c.LLMBurst <= 0 {
		return fmt.Errorf("%w: llm_burst must be positive", ErrInvalidConfig)
	}
	if c.LLMMaxRetries < 0 {
		return fmt.Errorf("%w: llm_max_retries must not be negative", ErrInvalidConfig)
	}
	return nil
}
