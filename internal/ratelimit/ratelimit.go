package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"newslens/internal/logger"
)

// Provider identifies an AI backend for budget accounting.
type Provider string

const (
	HuggingFace Provider = "huggingface"
	Gemini      Provider = "gemini"
	OpenAI      Provider = "openai"
)

// AIRateLimiter enforces daily request budgets per provider plus a total cap.
type AIRateLimiter struct {
	mu          sync.Mutex
	counts      map[Provider]int
	limits      map[Provider]int
	totalCount  int
	maxTotal    int
	resetTime   time.Time
	cacheHits   int
	cacheMisses int
}

// NewAIRateLimiter creates a limiter; a zero limit means unlimited.
func NewAIRateLimiter(maxHF, maxGemini, maxOpenAI, maxTotal int) *AIRateLimiter {
	return &AIRateLimiter{
		counts: make(map[Provider]int),
		limits: map[Provider]int{
			HuggingFace: maxHF,
			Gemini:      maxGemini,
			OpenAI:      maxOpenAI,
		},
		maxTotal:  maxTotal,
		resetTime: time.Now().Add(24 * time.Hour), // Reset daily
	}
}

// CanUse checks whether a request to the provider fits the budget.
func (rl *AIRateLimiter) CanUse(p Provider) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.checkReset()

	if limit := rl.limits[p]; limit > 0 && rl.counts[p] >= limit {
		logger.Warn("provider rate limit reached", "provider", string(p), "used", rl.counts[p], "limit", limit)
		return false
	}
	if rl.maxTotal > 0 && rl.totalCount >= rl.maxTotal {
		logger.Warn("total AI rate limit reached", "used", rl.totalCount, "limit", rl.maxTotal)
		return false
	}
	return true
}

// Use records one request against the provider's budget.
func (rl *AIRateLimiter) Use(p Provider) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.checkReset()

	if limit := rl.limits[p]; limit > 0 && rl.counts[p] >= limit {
		return fmt.Errorf("%s rate limit exceeded", p)
	}
	if rl.maxTotal > 0 && rl.totalCount >= rl.maxTotal {
		return fmt.Errorf("total AI rate limit exceeded")
	}

	rl.counts[p]++
	rl.totalCount++
	rl.cacheMisses++

	logger.Debug("AI usage", "provider", string(p), "used", rl.counts[p], "total", rl.totalCount)
	return nil
}

// RecordCacheHit records a model call answered from cache instead of a provider.
func (rl *AIRateLimiter) RecordCacheHit() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.cacheHits++
}

// CacheHitRate returns the cache hit rate percentage.
func (rl *AIRateLimiter) CacheHitRate() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	total := rl.cacheHits + rl.cacheMisses
	if total == 0 {
		return 0
	}
	return float64(rl.cacheHits) / float64(total) * 100
}

// GetStats returns current usage for the monitoring endpoint.
func (rl *AIRateLimiter) GetStats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	stats := map[string]interface{}{
		"total_used":   rl.totalCount,
		"total_limit":  rl.maxTotal,
		"cache_hits":   rl.cacheHits,
		"cache_misses": rl.cacheMisses,
		"reset_time":   rl.resetTime.Format(time.RFC3339),
	}
	for p, c := range rl.counts {
		stats[string(p)+"_used"] = c
	}
	for p, l := range rl.limits {
		stats[string(p)+"_limit"] = l
	}
	return stats
}

// checkReset rolls counters over when the daily window expires. Caller holds mu.
func (rl *AIRateLimiter) checkReset() {
	if time.Now().After(rl.resetTime) {
		rl.counts = make(map[Provider]int)
		rl.totalCount = 0
		rl.resetTime = time.Now().Add(24 * time.Hour)
		logger.Info("AI rate limit counters reset")
	}
}
