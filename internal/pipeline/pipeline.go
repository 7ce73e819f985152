// Package pipeline orchestrates the analysis flows: single-article deep
// analysis and the batch headline briefing. Components below this one never
// call each other; the orchestrator owns the control flow.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"newslens/internal/cache"
	"newslens/internal/config"
	"newslens/internal/entities"
	"newslens/internal/fetcher"
	"newslens/internal/headlines"
	"newslens/internal/logger"
	"newslens/internal/metrics"
	"newslens/internal/models"
	"newslens/internal/sentiment"
	"newslens/internal/storage"
	"newslens/internal/summarize"
	"newslens/internal/textproc"
)

// AnalysisResult is the full analytical output for one article. It exists
// only if acquisition passed the minimum-content gate.
type AnalysisResult struct {
	Title     string
	Summary   string
	FullText  string
	Sentiment models.SentimentResult
	Keywords  []textproc.Keyword
	Entities  entities.Set
}

// Briefing is the batch output for one category of headlines.
type Briefing struct {
	Headlines []headlines.Headline
	Sentiment sentiment.BatchSummary
	Corpus    textproc.Tokens
}

// Renderer consumes the filtered token corpus for visual rendering. The
// visual itself is external; the pipeline only hands over the data.
type Renderer interface {
	RenderCloud(corpus string, title string) error
}

// Notifier delivers a formatted briefing to a side channel (optional).
type Notifier interface {
	Send(text string) error
}

// CapabilitySource hands out the model capabilities. *models.Registry is the
// production implementation.
type CapabilitySource interface {
	Sentiment() (models.SentimentClassifier, error)
	Summarizer() (models.Summarizer, error)
	Entities() (models.EntityRecognizer, error)
}

type Service struct {
	cfg       *config.Config
	registry  CapabilitySource
	fetch     *fetcher.Fetcher
	source    headlines.Provider
	results   *cache.Cache
	inference storage.InferenceCache // nil disables the durable cache
	renderer  Renderer
	notifier  Notifier // nil disables delivery
}

type ServiceOption func(*Service)

func WithInferenceCache(c storage.InferenceCache) ServiceOption {
	return func(s *Service) { s.inference = c }
}

func WithNotifier(n Notifier) ServiceOption {
	return func(s *Service) { s.notifier = n }
}

func WithRenderer(r Renderer) ServiceOption {
	return func(s *Service) { s.renderer = r }
}

func New(cfg *config.Config, registry CapabilitySource, fetch *fetcher.Fetcher, source headlines.Provider, opts ...ServiceOption) *Service {
	s := &Service{
		cfg:      cfg,
		registry: registry,
		fetch:    fetch,
		source:   source,
		results:  cache.New(),
		renderer: &FrequencyRenderer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeArticle runs the single-article flow. Only acquisition failure is
// fatal: it returns (nil, error) and nothing was analyzed. Summarization,
// sentiment and entity extraction each degrade locally on failure.
func (s *Service) AnalyzeArticle(ctx context.Context, url string) (*AnalysisResult, error) {
	start := time.Now()

	cacheKey := cache.Key(url)
	if v, ok := s.results.Get(cacheKey); ok {
		metrics.Global.IncrementCacheHits()
		logger.Debug("analysis served from cache", "url", url)
		return v.(*AnalysisResult), nil
	}
	metrics.Global.IncrementCacheMisses()

	article, err := s.fetch.Fetch(ctx, url)
	if err != nil {
		metrics.Global.IncrementFetchFailures()
		metrics.Global.SetError(err.Error())
		logger.Warn("article acquisition failed", "url", url, "error", err)
		return nil, fmt.Errorf("acquiring %s: %w", url, err)
	}

	contentHash := storage.ContentHash(article.FullText)
	var cached *storage.Record
	if s.inference != nil {
		cached, _ = s.inference.Get(contentHash)
	}

	result := &AnalysisResult{
		Title:    article.Title,
		FullText: article.FullText,
	}

	result.Summary, err = s.summarizeArticle(ctx, article.FullText, contentHash, cached)
	if err != nil {
		return nil, err // capability could not be constructed
	}

	result.Sentiment, err = s.classifyArticle(ctx, article.FullText, contentHash, cached)
	if err != nil {
		return nil, err
	}

	tokens := textproc.Preprocess(article.FullText)
	result.Keywords = textproc.RankKeywords(tokens, s.cfg.KeywordCount)

	result.Entities, err = s.extractEntities(ctx, article.FullText)
	if err != nil {
		return nil, err
	}

	s.results.Set(cacheKey, result, s.cfg.ResultCacheTTL)
	metrics.Global.IncrementArticlesAnalyzed()
	metrics.Global.RecordAnalysisTime(time.Since(start))
	metrics.Global.SetLastRun()

	logger.Info("article analyzed", "url", url, "chars", len(article.FullText), "took", time.Since(start))
	return result, nil
}

// summarizeArticle returns the summary or the sentinel; the only error out of
// here is an unconstructible summarizer.
func (s *Service) summarizeArticle(ctx context.Context, text, contentHash string, cached *storage.Record) (string, error) {
	if cached != nil && cached.Summary != "" {
		logger.Debug("summary served from inference cache")
		return cached.Summary, nil
	}

	summarizer, err := s.registry.Summarizer()
	if err != nil {
		return "", err
	}

	controller := summarize.NewController(summarizer, s.cfg.SummaryMaxWords, s.cfg.SummaryMinWords, s.cfg.SummaryInputChars)
	summary := controller.Summarize(ctx, text)
	if summary == summarize.FailedSentinel {
		metrics.Global.IncrementInferenceFailures()
	} else if s.inference != nil {
		if err := s.inference.PutSummary(contentHash, summary); err != nil {
			logger.Warn("caching summary failed", "error", err)
		}
	}
	return summary, nil
}

// classifyArticle returns the sentiment, zero-valued when classification
// fails at runtime.
func (s *Service) classifyArticle(ctx context.Context, text, contentHash string, cached *storage.Record) (models.SentimentResult, error) {
	if cached != nil && cached.SentimentLabel != "" {
		logger.Debug("sentiment served from inference cache")
		return models.SentimentResult{
			Label:      models.Label(cached.SentimentLabel),
			Confidence: cached.SentimentScore,
		}, nil
	}

	classifier, err := s.registry.Sentiment()
	if err != nil {
		return models.SentimentResult{}, err
	}

	analyzer := sentiment.NewAnalyzer(classifier, s.cfg.SentimentInputChars)
	res, err := analyzer.Classify(ctx, text)
	if err != nil {
		metrics.Global.IncrementInferenceFailures()
		logger.Warn("sentiment classification failed", "error", err)
		return models.SentimentResult{}, nil
	}
	if s.inference != nil {
		if err := s.inference.PutSentiment(contentHash, res); err != nil {
			logger.Warn("caching sentiment failed", "error", err)
		}
	}
	return res, nil
}

func (s *Service) extractEntities(ctx context.Context, text string) (entities.Set, error) {
	recognizer, err := s.registry.Entities()
	if err != nil {
		return nil, err
	}
	return entities.Extract(ctx, recognizer, text, entities.Options{
		ChunkSize: s.cfg.ChunkSize,
		Threshold: s.cfg.ConfidenceThreshold(),
		Workers:   s.cfg.EntityWorkers,
	}), nil
}

// GenerateBriefing runs the batch flow: per-headline sentiment over titles,
// one preprocessed corpus over titles+descriptions, aggregated percentages.
// No full-text fetch happens here.
func (s *Service) GenerateBriefing(ctx context.Context, category string) (*Briefing, error) {
	items := s.source.List(ctx, category, s.cfg.HeadlinePageSize)
	metrics.Global.AddHeadlinesFetched(len(items))

	if len(items) == 0 {
		return &Briefing{Sentiment: sentiment.BatchSummary{Indeterminate: true}}, nil
	}

	classifier, err := s.registry.Sentiment()
	if err != nil {
		return nil, err
	}
	analyzer := sentiment.NewAnalyzer(classifier, s.cfg.SentimentInputChars)

	var results []models.SentimentResult
	var corpus string

	for _, item := range items {
		corpus += item.Title + " " + item.Description + " "

		res, err := analyzer.Classify(ctx, item.Title)
		if err != nil {
			// Failed items are excluded, not counted as neutral.
			metrics.Global.IncrementInferenceFailures()
			logger.Warn("headline sentiment failed, skipping item", "title", item.Title, "error", err)
			continue
		}
		results = append(results, res)
	}

	briefing := &Briefing{
		Headlines: items,
		Sentiment: sentiment.Aggregate(results),
		Corpus:    textproc.Preprocess(corpus),
	}

	if len(briefing.Corpus) > 0 && s.renderer != nil {
		title := fmt.Sprintf("TOPICS OF THE DAY - %s", category)
		if err := s.renderer.RenderCloud(textproc.Join(briefing.Corpus), title); err != nil {
			logger.Warn("cloud rendering failed", "error", err)
		}
	}

	if s.notifier != nil {
		if err := s.notifier.Send(FormatBriefing(briefing, category)); err != nil {
			logger.Warn("briefing delivery failed", "error", err)
		}
	}

	metrics.Global.IncrementBriefingsGenerated()
	metrics.Global.SetLastRun()
	return briefing, nil
}
