// Package storage caches individual model outputs (summaries, sentiment)
// keyed by content hash, so re-analyzing the same text never burns a second
// provider request. Analysis results as a whole are never persisted.
package storage

import (
	"crypto/sha256"
	"encoding/hex"

	"newslens/internal/models"
)

// Record is one cached inference result set for a piece of content.
type Record struct {
	Summary        string
	SentimentLabel string
	SentimentScore float64
}

// InferenceCache is implemented by the postgres and file backends.
type InferenceCache interface {
	Get(contentHash string) (*Record, bool)
	PutSummary(contentHash, summary string) error
	PutSentiment(contentHash string, res models.SentimentResult) error
	Close() error
}

// ContentHash derives the cache key for a piece of text.
func ContentHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}
