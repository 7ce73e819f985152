package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	HeadlinesFetched   int64
	ArticlesAnalyzed   int64
	FetchFailures      int64
	InferenceFailures  int64
	BriefingsGenerated int64
	CacheHits          int64
	CacheMisses        int64

	// Timings
	LastAnalysisTime    time.Duration
	AverageAnalysisTime time.Duration
	TotalAnalysisTime   time.Duration
	AnalysisCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddHeadlinesFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HeadlinesFetched += int64(n)
}

func (m *Metrics) IncrementArticlesAnalyzed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesAnalyzed++
}

func (m *Metrics) IncrementFetchFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchFailures++
}

func (m *Metrics) IncrementInferenceFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InferenceFailures++
}

func (m *Metrics) IncrementBriefingsGenerated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BriefingsGenerated++
}

func (m *Metrics) IncrementCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *Metrics) IncrementCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *Metrics) RecordAnalysisTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastAnalysisTime = duration
	m.TotalAnalysisTime += duration
	m.AnalysisCount++

	if m.AnalysisCount > 0 {
		m.AverageAnalysisTime = m.TotalAnalysisTime / time.Duration(m.AnalysisCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"headlines_fetched":        m.HeadlinesFetched,
		"articles_analyzed":        m.ArticlesAnalyzed,
		"fetch_failures":           m.FetchFailures,
		"inference_failures":       m.InferenceFailures,
		"briefings_generated":      m.BriefingsGenerated,
		"cache_hits":               m.CacheHits,
		"cache_misses":             m.CacheMisses,
		"last_analysis_time_ms":    m.LastAnalysisTime.Milliseconds(),
		"average_analysis_time_ms": m.AverageAnalysisTime.Milliseconds(),
		"last_run_time":            m.LastRunTime.Format(time.RFC3339),
		"last_error_time":          m.LastErrorTime.Format(time.RFC3339),
		"last_error":               m.LastError,
		"is_healthy":               m.IsHealthy,
	}
}
