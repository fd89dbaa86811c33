// Package config defines pipeline configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer sources.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// DataPath points at the cleaned sales dataset (.csv or .xlsx).
	DataPath string `koanf:"data_path"`

	// OutputDir receives charts, reports and evaluation records.
	OutputDir string `koanf:"output_dir"`

	// MetricsAddr exposes Prometheus metrics during the run when set,
	// e.g. ":9090". Empty disables the listener.
	MetricsAddr string `koanf:"metrics_addr"`

	// NarrativeEnabled toggles LLM narrative generation. When false the
	// reports are assembled from statistics alone and the evaluation
	// degrades the completeness score accordingly.
	NarrativeEnabled bool `koanf:"narrative_enabled"`

	// LLMBaseURL overrides the OpenAI-compatible endpoint. Empty uses
	// the provider default.
	LLMBaseURL string `koanf:"llm_base_url"`

	// LLMAPIKey authenticates narrative requests. Falls back to
	// OPENAI_API_KEY from the environment (or a .env file).
	LLMAPIKey string `koanf:"llm_api_key"`

	// LLMModel names the chat model used for narration.
	LLMModel string `koanf:"llm_model"`

	// LLMTemperature controls narrative sampling temperature.
	LLMTemperature float64 `koanf:"llm_temperature"`

	// LLMRequestsPerMinute and LLMBurst bound the request rate.
	LLMRequestsPerMinute int `koanf:"llm_rpm"`
	LLMBurst             int `koanf:"llm_burst"`

	// LLMMaxRetries bounds retries after rate-limit responses.
	LLMMaxRetries int `koanf:"llm_max_retries"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		DataPath:             "data/sales_cleaned.csv",
		OutputDir:            "reports",
		MetricsAddr:          "",
		NarrativeEnabled:     true,
		LLMBaseURL:           "",
		LLMAPIKey:            "",
		LLMModel:             "gpt-4o",
		LLMTemperature:       0.7,
		LLMRequestsPerMinute: 30,
		LLMBurst:             3,
		LLMMaxRetries:        3,
	}
}
