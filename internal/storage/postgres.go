package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"newslens/internal/logger"
	"newslens/internal/models"
)

// PostgresCache stores inference results in PostgreSQL.
type PostgresCache struct {
	db       *sql.DB
	ttlHours int
}

// NewPostgresCache connects and prepares the schema.
func NewPostgresCache(connectionString string, ttlHours int) (*PostgresCache, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	cache := &PostgresCache{
		db:       db,
		ttlHours: ttlHours,
	}

	if err := cache.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := cache.cleanupExpired(); err != nil {
		logger.Warn("inference cache cleanup failed", "error", err)
	}

	logger.Info("PostgreSQL inference cache connected")
	return cache, nil
}

func (pc *PostgresCache) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS inference_cache (
		content_hash    TEXT PRIMARY KEY,
		summary         TEXT,
		sentiment_label TEXT,
		sentiment_score DOUBLE PRECISION,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_used_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		use_count       INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_inference_cache_created_at ON inference_cache (created_at);
	`
	_, err := pc.db.Exec(schema)
	return err
}

func (pc *PostgresCache) cleanupExpired() error {
	cutoff := time.Now().Add(-time.Duration(pc.ttlHours) * time.Hour)
	res, err := pc.db.Exec(`DELETE FROM inference_cache WHERE created_at < $1`, cutoff)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		logger.Info("expired inference cache entries removed", "count", n)
	}
	return nil
}

// Get returns the cached record for the hash, bumping usage stats on hit.
func (pc *PostgresCache) Get(contentHash string) (*Record, bool) {
	var rec Record
	var summary, label sql.NullString
	var score sql.NullFloat64

	err := pc.db.QueryRow(`
		SELECT summary, sentiment_label, sentiment_score
		FROM inference_cache
		WHERE content_hash = $1 AND created_at > $2`,
		contentHash, time.Now().Add(-time.Duration(pc.ttlHours)*time.Hour),
	).Scan(&summary, &label, &score)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		logger.Warn("inference cache lookup failed", "error", err)
		return nil, false
	}

	if _, err := pc.db.Exec(`
		UPDATE inference_cache SET last_used_at = now(), use_count = use_count + 1
		WHERE content_hash = $1`, contentHash); err != nil {
		logger.Warn("inference cache usage update failed", "error", err)
	}

	rec.Summary = summary.String
	rec.SentimentLabel = label.String
	rec.SentimentScore = score.Float64
	return &rec, true
}

func (pc *PostgresCache) PutSummary(contentHash, summary string) error {
	_, err := pc.db.Exec(`
		INSERT INTO inference_cache (content_hash, summary)
		VALUES ($1, $2)
		ON CONFLICT (content_hash)
		DO UPDATE SET summary = EXCLUDED.summary, last_used_at = now()`,
		contentHash, summary)
	return err
}

func (pc *PostgresCache) PutSentiment(contentHash string, res models.SentimentResult) error {
	_, err := pc.db.Exec(`
		INSERT INTO inference_cache (content_hash, sentiment_label, sentiment_score)
		VALUES ($1, $2, $3)
		ON CONFLICT (content_hash)
		DO UPDATE SET sentiment_label = EXCLUDED.sentiment_label,
		              sentiment_score = EXCLUDED.sentiment_score,
		              last_used_at = now()`,
		contentHash, string(res.Label), res.Confidence)
	return err
}

// GetStats returns cache size counters for the monitoring endpoint.
func (pc *PostgresCache) GetStats() (map[string]interface{}, error) {
	var total, used int64
	if err := pc.db.QueryRow(`SELECT count(*), coalesce(sum(use_count), 0) FROM inference_cache`).Scan(&total, &used); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"total_items": total,
		"total_hits":  used,
	}, nil
}

func (pc *PostgresCache) Close() error {
	return pc.db.Close()
}
