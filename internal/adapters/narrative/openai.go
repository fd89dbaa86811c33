package narrative

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/salescope/salescope/internal/domain/analysis"
	"github.com/salescope/salescope/internal/domain/model"
	"github.com/salescope/salescope/pkg/logger"
	"github.com/salescope/salescope/pkg/metrics"
)

// retryBaseDelay seeds the exponential backoff after a rate-limit
// rejection from the provider.
const retryBaseDelay = 2 * time.Second

// Option configures an OpenAI generator.
type Option func(*OpenAI)

// WithChatModel replaces the provider-backed chat model, used by tests.
func WithChatModel(cm einomodel.BaseChatModel) Option {
	return func(o *OpenAI) { o.chatModel = cm }
}

// WithRetryBaseDelay overrides the backoff seed.
func WithRetryBaseDelay(d time.Duration) Option {
	return func(o *OpenAI) { o.baseDelay = d }
}

// OpenAI generates narratives through an OpenAI-compatible endpoint.
type OpenAI struct {
	chatModel  einomodel.BaseChatModel
	limiter    *rate.Limiter
	maxRetries int
	baseDelay  time.Duration
	log        logger.Logger
}

// NewOpenAI builds a generator for cfg. The request pacing comes from
// cfg.RPM and cfg.Burst; every section call waits for the limiter.
func NewOpenAI(ctx context.Context, cfg Config, opts ...Option) (*OpenAI, error) {
	o := &OpenAI{
		limiter:    rate.NewLimiter(rate.Limit(float64(cfg.RPM)/60.0), cfg.Burst),
		maxRetries: cfg.MaxRetries,
		baseDelay:  retryBaseDelay,
		log:        logger.Get().Named("narrative"),
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.chatModel == nil {
		temperature := cfg.Temperature
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: &temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInitModel, err)
		}
		o.chatModel = cm
	}
	return o, nil
}

// Generate prompts the model once per section. A failed section is
// logged and left absent; only a run where every section fails is an
// error.
func (o *OpenAI) Generate(ctx context.Context, a *analysis.Analysis) (*model.NarrativeSet, error) {
	set := &model.NarrativeSet{}
	for _, sec := range sections {
		text, err := o.complete(ctx, sec, a)
		if err != nil {
			metrics.RecordLLMFailure()
			o.log.Error(ctx, "narrative section failed",
				logger.String("section", sec.key),
				logger.Error(err))
			continue
		}
		set.Set(sec.key, text)
		o.log.Debug(ctx, "narrative section generated",
			logger.String("section", sec.key),
			logger.Int("chars", len(text)))
	}

	if set.Present() == 0 {
		return nil, ErrAllSectionsFailed
	}
	return set, nil
}

func (o *OpenAI) complete(ctx context.Context, sec section, a *analysis.Analysis) (string, error) {
	messages := []*schema.Message{
		{Role: schema.System, Content: sec.system},
		{Role: schema.User, Content: sec.prompt(a)},
	}

	var lastErr error
	for i := 0; i <= o.maxRetries; i++ {
		if err := o.limiter.Wait(ctx); err != nil {
			return "", err
		}

		start := time.Now()
		metrics.RecordLLMRequest(sec.key)
		resp, err := o.chatModel.Generate(ctx, messages)
		metrics.RecordLLMRequestDuration(time.Since(start).Seconds() * 1000)
		if err != nil {
			if isRateLimited(err) && i < o.maxRetries {
				lastErr = err
				metrics.RecordLLMRetry()
				select {
				case <-time.After(o.baseDelay * time.Duration(1<<i)):
				case <-ctx.Done():
					return "", ctx.Err()
				}
				continue
			}
			return "", err
		}

		text := strings.TrimSpace(resp.Content)
		if text == "" {
			return "", fmt.Errorf("empty completion for %s", sec.key)
		}
		return text, nil
	}
	return "", lastErr
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}
