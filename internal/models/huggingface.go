package models

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"newslens/internal/config"
	"newslens/internal/logger"
	"newslens/internal/ratelimit"
	"newslens/internal/retry"
)

// hfClient calls the HuggingFace Inference API for one hosted model.
type hfClient struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	retry   retry.RetryConfig
}

func newHFClient(cfg *config.Config, model string, rc retry.RetryConfig) *hfClient {
	return &hfClient{
		baseURL: cfg.HuggingFaceAPIURL,
		apiKey:  cfg.HuggingFaceAPIKey,
		model:   model,
		http:    &http.Client{Timeout: 60 * time.Second},
		retry:   rc,
	}
}

type hfRequest struct {
	Inputs     string                 `json:"inputs"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	Options    map[string]interface{} `json:"options,omitempty"`
}

// infer posts the request and decodes the JSON response into out. A 503
// (model still loading on the inference host) is retried with backoff; other
// HTTP errors are permanent.
func (c *hfClient) infer(ctx context.Context, reqBody hfRequest, out interface{}) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	url := c.baseURL + "/" + c.model

	return retry.WithRetry(ctx, c.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return retry.Permanent{Err: err}
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				logger.Warn("failed to close response body", "error", err)
			}
		}()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			if err := json.Unmarshal(body, out); err != nil {
				return retry.Permanent{Err: fmt.Errorf("decoding response: %w", err)}
			}
			return nil
		case resp.StatusCode == http.StatusServiceUnavailable:
			// Model is cold; the host loads it on demand.
			logger.Debug("model loading, will retry", "model", c.model)
			return fmt.Errorf("model %s loading (status 503)", c.model)
		default:
			return retry.Permanent{Err: fmt.Errorf("inference API status %d: %s", resp.StatusCode, truncateBody(body))}
		}
	})
}

func truncateBody(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}

// hfSentiment classifies with a hosted sentiment model.
type hfSentiment struct {
	client  *hfClient
	limiter *ratelimit.AIRateLimiter
}

func newHFSentiment(cfg *config.Config, limiter *ratelimit.AIRateLimiter, rc retry.RetryConfig) *hfSentiment {
	return &hfSentiment{client: newHFClient(cfg, cfg.SentimentModel, rc), limiter: limiter}
}

type hfClassification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (s *hfSentiment) Classify(ctx context.Context, text string) (SentimentResult, error) {
	if s.limiter != nil {
		if err := s.limiter.Use(ratelimit.HuggingFace); err != nil {
			return SentimentResult{}, fmt.Errorf("%w: %v", ErrInference, err)
		}
	}

	// The API returns one ranked list of labels per input.
	var out [][]hfClassification
	err := s.client.infer(ctx, hfRequest{
		Inputs:  text,
		Options: map[string]interface{}{"wait_for_model": true},
	}, &out)
	if err != nil {
		return SentimentResult{}, fmt.Errorf("%w: %v", ErrInference, err)
	}
	if len(out) == 0 || len(out[0]) == 0 {
		return SentimentResult{}, fmt.Errorf("%w: empty classification response", ErrInference)
	}

	best := out[0][0]
	for _, c := range out[0][1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return SentimentResult{Label: Label(best.Label), Confidence: best.Score}, nil
}

// hfSummarizer is the last-resort summarization provider in the chain.
type hfSummarizer struct {
	client *hfClient
}

func newHFSummarizer(cfg *config.Config, rc retry.RetryConfig) *hfSummarizer {
	return &hfSummarizer{client: newHFClient(cfg, cfg.SummaryModel, rc)}
}

type hfSummary struct {
	SummaryText string `json:"summary_text"`
}

func (s *hfSummarizer) Summarize(ctx context.Context, text string, maxWords, minWords int) (string, error) {
	var out []hfSummary
	err := s.client.infer(ctx, hfRequest{
		Inputs: text,
		Parameters: map[string]interface{}{
			"max_length": maxWords,
			"min_length": minWords,
			"truncation": "longest_first",
		},
		Options: map[string]interface{}{"wait_for_model": true},
	}, &out)
	if err != nil {
		return "", err
	}
	if len(out) == 0 || out[0].SummaryText == "" {
		return "", fmt.Errorf("empty summary response")
	}
	return out[0].SummaryText, nil
}

// hfEntities recognizes named entities with a hosted NER model.
type hfEntities struct {
	client  *hfClient
	limiter *ratelimit.AIRateLimiter
}

func newHFEntities(cfg *config.Config, limiter *ratelimit.AIRateLimiter, rc retry.RetryConfig) *hfEntities {
	return &hfEntities{client: newHFClient(cfg, cfg.NERModel, rc), limiter: limiter}
}

type hfEntity struct {
	EntityGroup string  `json:"entity_group"`
	Word        string  `json:"word"`
	Score       float64 `json:"score"`
}

func (e *hfEntities) Recognize(ctx context.Context, text string) ([]Entity, error) {
	if e.limiter != nil {
		if err := e.limiter.Use(ratelimit.HuggingFace); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInference, err)
		}
	}

	var out []hfEntity
	err := e.client.infer(ctx, hfRequest{
		Inputs: text,
		Parameters: map[string]interface{}{
			"aggregation_strategy": "simple",
		},
		Options: map[string]interface{}{"wait_for_model": true},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}

	entities := make([]Entity, 0, len(out))
	for _, ent := range out {
		entities = append(entities, Entity{
			Text:  ent.Word,
			Group: ent.EntityGroup,
			Score: ent.Score,
		})
	}
	return entities, nil
}
