// Package models exposes the heavyweight inference capabilities behind small
// interfaces. Each capability is constructed lazily on first use and reused
// for the life of the process; a capability nobody asks for is never built.
package models

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"newslens/internal/config"
	"newslens/internal/ratelimit"
	"newslens/internal/retry"
)

var (
	// ErrModelUnavailable means the capability could not be constructed.
	// Re-construction within the same process will fail identically, so
	// callers must not retry.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrInference means a classify/summarize/recognize call failed at
	// runtime. Stage boundaries decide whether to compensate or skip.
	ErrInference = errors.New("inference failed")
)

// Label is a sentiment class.
type Label string

const (
	Positive Label = "POSITIVE"
	Negative Label = "NEGATIVE"
)

// SentimentResult is a single classification with model confidence in [0,1].
type SentimentResult struct {
	Label      Label
	Confidence float64
}

// Entity is one recognized span as the model emitted it.
type Entity struct {
	Text  string
	Group string
	Score float64
}

type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (SentimentResult, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text string, maxWords, minWords int) (string, error)
}

type EntityRecognizer interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)
}

// Registry hands out the shared capability singletons.
type Registry struct {
	cfg     *config.Config
	limiter *ratelimit.AIRateLimiter
	retry   retry.RetryConfig

	sentimentOnce sync.Once
	sentiment     SentimentClassifier
	sentimentErr  error

	summarizerOnce sync.Once
	summarizer     Summarizer
	summarizerErr  error

	entitiesOnce sync.Once
	entities     EntityRecognizer
	entitiesErr  error
}

func NewRegistry(cfg *config.Config, limiter *ratelimit.AIRateLimiter) *Registry {
	return &Registry{
		cfg:     cfg,
		limiter: limiter,
		retry: retry.RetryConfig{
			MaxAttempts: cfg.RetryAttempts,
			Delay:       cfg.RetryDelay,
			Backoff:     true,
		},
	}
}

// Sentiment returns the shared sentiment classifier, constructing it on first
// call. A construction failure is cached and returned on every later call.
func (r *Registry) Sentiment() (SentimentClassifier, error) {
	r.sentimentOnce.Do(func() {
		if r.cfg.HuggingFaceAPIKey == "" {
			r.sentimentErr = fmt.Errorf("%w: sentiment classifier needs HUGGINGFACE_API_KEY", ErrModelUnavailable)
			return
		}
		r.sentiment = newHFSentiment(r.cfg, r.limiter, r.retry)
	})
	return r.sentiment, r.sentimentErr
}

// Summarizer returns the shared summarizer. Providers are chained in the
// order Gemini, OpenAI, HuggingFace; the first configured provider with
// budget left serves each call and the rest are fallbacks.
func (r *Registry) Summarizer() (Summarizer, error) {
	r.summarizerOnce.Do(func() {
		var chain []provider

		if r.cfg.GeminiAPIKey != "" {
			g, err := newGeminiSummarizer(r.cfg)
			if err != nil {
				r.summarizerErr = fmt.Errorf("%w: gemini: %v", ErrModelUnavailable, err)
				return
			}
			chain = append(chain, provider{ratelimit.Gemini, g})
		}
		if r.cfg.OpenAIAPIKey != "" {
			chain = append(chain, provider{ratelimit.OpenAI, newOpenAISummarizer(r.cfg)})
		}
		if r.cfg.HuggingFaceAPIKey != "" {
			chain = append(chain, provider{ratelimit.HuggingFace, newHFSummarizer(r.cfg, r.retry)})
		}

		if len(chain) == 0 {
			r.summarizerErr = fmt.Errorf("%w: no summarization provider configured", ErrModelUnavailable)
			return
		}
		r.summarizer = &chainSummarizer{providers: chain, limiter: r.limiter}
	})
	return r.summarizer, r.summarizerErr
}

// Entities returns the shared entity recognizer, constructing it on first call.
func (r *Registry) Entities() (EntityRecognizer, error) {
	r.entitiesOnce.Do(func() {
		if r.cfg.HuggingFaceAPIKey == "" {
			r.entitiesErr = fmt.Errorf("%w: entity recognizer needs HUGGINGFACE_API_KEY", ErrModelUnavailable)
			return
		}
		r.entities = newHFEntities(r.cfg, r.limiter, r.retry)
	})
	return r.entities, r.entitiesErr
}

// provider pairs a summarization backend with its budget identity.
type provider struct {
	name ratelimit.Provider
	s    Summarizer
}

// chainSummarizer tries each provider in order, skipping any that is over
// budget and falling through on inference failure.
type chainSummarizer struct {
	providers []provider
	limiter   *ratelimit.AIRateLimiter
}

func (c *chainSummarizer) Summarize(ctx context.Context, text string, maxWords, minWords int) (string, error) {
	var lastErr error
	for _, p := range c.providers {
		if c.limiter != nil && !c.limiter.CanUse(p.name) {
			continue
		}
		if c.limiter != nil {
			if err := c.limiter.Use(p.name); err != nil {
				continue
			}
		}
		summary, err := p.s.Summarize(ctx, text, maxWords, minWords)
		if err == nil {
			return summary, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("all providers over budget")
	}
	return "", fmt.Errorf("%w: %v", ErrInference, lastErr)
}
