package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"newslens/internal/logger"
	"newslens/internal/models"
)

type fileRecord struct {
	Hash           string    `json:"hash"`
	Summary        string    `json:"summary,omitempty"`
	SentimentLabel string    `json:"sentiment_label,omitempty"`
	SentimentScore float64   `json:"sentiment_score,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// FileCache is the inference cache used when no DATABASE_URL is configured.
// Entries live in a JSON file and expire by TTL on load.
type FileCache struct {
	filePath string
	ttlHours int
	items    map[string]fileRecord
	mu       sync.RWMutex
}

func NewFileCache(filePath string, ttlHours int) *FileCache {
	return &FileCache{
		filePath: filePath,
		ttlHours: ttlHours,
		items:    make(map[string]fileRecord),
	}
}

// Load reads the existing cache file, dropping expired entries.
func (fc *FileCache) Load() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if _, err := os.Stat(fc.filePath); os.IsNotExist(err) {
		return nil // no file yet, start empty
	}

	data, err := os.ReadFile(fc.filePath)
	if err != nil {
		return fmt.Errorf("failed to read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var records []fileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to unmarshal cache: %w", err)
	}

	cutoff := time.Now().Add(-time.Duration(fc.ttlHours) * time.Hour)
	for _, rec := range records {
		if rec.CreatedAt.After(cutoff) {
			fc.items[rec.Hash] = rec
		}
	}

	logger.Info("file inference cache loaded", "path", fc.filePath, "items", len(fc.items))
	return nil
}

func (fc *FileCache) save() error {
	records := make([]fileRecord, 0, len(fc.items))
	for _, rec := range fc.items {
		records = append(records, rec)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}
	return os.WriteFile(fc.filePath, data, 0o644)
}

func (fc *FileCache) Get(contentHash string) (*Record, bool) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	rec, ok := fc.items[contentHash]
	if !ok {
		return nil, false
	}
	if time.Since(rec.CreatedAt) > time.Duration(fc.ttlHours)*time.Hour {
		return nil, false
	}
	return &Record{
		Summary:        rec.Summary,
		SentimentLabel: rec.SentimentLabel,
		SentimentScore: rec.SentimentScore,
	}, true
}

func (fc *FileCache) PutSummary(contentHash, summary string) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	rec := fc.items[contentHash]
	rec.Hash = contentHash
	rec.Summary = summary
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	fc.items[contentHash] = rec
	return fc.save()
}

func (fc *FileCache) PutSentiment(contentHash string, res models.SentimentResult) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	rec := fc.items[contentHash]
	rec.Hash = contentHash
	rec.SentimentLabel = string(res.Label)
	rec.SentimentScore = res.Confidence
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	fc.items[contentHash] = rec
	return fc.save()
}

func (fc *FileCache) Close() error {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return fc.save()
}
