package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Headline source settings
	NewsAPIKey       string
	NewsAPIBaseURL   string
	FeedsConfigPath  string
	HeadlinePageSize int

	// Model provider settings
	HuggingFaceAPIKey string
	HuggingFaceAPIURL string
	GeminiAPIKey      string
	OpenAIAPIKey      string
	SentimentModel    string
	SummaryModel      string
	NERModel          string

	// AI request budgets per day (0 = unlimited)
	MaxHFRequests     int
	MaxGeminiRequests int
	MaxOpenAIRequests int
	MaxAIRequests     int

	// Fetcher settings
	BlockedDomains  []string
	ConnectTimeout  time.Duration
	ReadTimeout     time.Duration
	MinArticleChars int

	// Analysis settings
	ChunkSize           int
	StrictEntities      bool // 0.85 threshold when true, 0.80 otherwise
	EntityWorkers       int
	KeywordCount        int
	SummaryMaxWords     int
	SummaryMinWords     int
	SummaryInputChars   int
	SentimentInputChars int

	// Preprocessing resources
	StopwordsPath string
	StopwordsURL  string

	// Cache settings
	DatabaseURL    string
	CacheFilePath  string
	CacheTTLHours  int
	ResultCacheTTL time.Duration

	// Delivery (optional)
	TelegramToken  string
	TelegramChatID string

	// App settings
	Debug         bool
	RetryAttempts int
	RetryDelay    time.Duration
}

// defaultBlockedDomains are outlets whose pages are paywalled or bot-blocked;
// fetching them wastes a request and feeds stubs into the models.
var defaultBlockedDomains = []string{
	"bloomberg.com",
	"wsj.com",
	"ft.com",
	"nytimes.com",
	"washingtonpost.com",
	"medium.com",
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		NewsAPIBaseURL:      "https://newsapi.org/v2",
		FeedsConfigPath:     "configs/feeds.yaml",
		HeadlinePageSize:    30,
		HuggingFaceAPIURL:   "https://api-inference.huggingface.co/models",
		SentimentModel:      "distilbert-base-uncased-finetuned-sst-2-english",
		SummaryModel:        "sshleifer/distilbart-cnn-12-6",
		NERModel:            "dslim/bert-base-NER",
		BlockedDomains:      defaultBlockedDomains,
		ConnectTimeout:      6 * time.Second,
		ReadTimeout:         10 * time.Second,
		MinArticleChars:     100,
		ChunkSize:           400,
		StrictEntities:      true,
		EntityWorkers:       1,
		KeywordCount:        5,
		SummaryMaxWords:     130,
		SummaryMinWords:     30,
		SummaryInputChars:   3000,
		SentimentInputChars: 512,
		CacheFilePath:       "analysis_cache.json",
		CacheTTLHours:       48,
		ResultCacheTTL:      time.Hour,
		RetryAttempts:       3,
		RetryDelay:          2 * time.Second,
		MaxAIRequests:       0,
	}

	// Load from environment
	cfg.NewsAPIKey = os.Getenv("NEWSAPI_KEY")
	cfg.HuggingFaceAPIKey = os.Getenv("HUGGINGFACE_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.FeedsConfigPath = getEnvOrDefault("FEEDS_CONFIG_PATH", cfg.FeedsConfigPath)
	cfg.CacheFilePath = getEnvOrDefault("CACHE_FILE_PATH", cfg.CacheFilePath)
	cfg.CacheTTLHours = getEnvIntOrDefault("CACHE_TTL_HOURS", cfg.CacheTTLHours)
	cfg.StopwordsPath = os.Getenv("STOPWORDS_PATH")
	cfg.StopwordsURL = os.Getenv("STOPWORDS_URL")

	cfg.HeadlinePageSize = getEnvIntOrDefault("HEADLINE_PAGE_SIZE", cfg.HeadlinePageSize)
	cfg.ChunkSize = getEnvIntOrDefault("NER_CHUNK_SIZE", cfg.ChunkSize)
	cfg.EntityWorkers = getEnvIntOrDefault("NER_WORKERS", cfg.EntityWorkers)
	cfg.KeywordCount = getEnvIntOrDefault("KEYWORD_COUNT", cfg.KeywordCount)

	cfg.MaxHFRequests = getEnvIntOrDefault("MAX_HF_REQUESTS", 0)
	cfg.MaxGeminiRequests = getEnvIntOrDefault("MAX_GEMINI_REQUESTS", 0)
	cfg.MaxOpenAIRequests = getEnvIntOrDefault("MAX_OPENAI_REQUESTS", 0)
	cfg.MaxAIRequests = getEnvIntOrDefault("MAX_AI_REQUESTS", 0)

	if v := os.Getenv("STRICT_ENTITIES"); v != "" {
		cfg.StrictEntities = v == "true"
	}

	if v := os.Getenv("BLOCKED_DOMAINS"); v != "" {
		parts := strings.Split(v, ",")
		domains := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				domains = append(domains, p)
			}
		}
		cfg.BlockedDomains = domains
	}

	if v := os.Getenv("CONNECT_TIMEOUT_SEC"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.ConnectTimeout = time.Duration(val) * time.Second
		}
	}
	if v := os.Getenv("READ_TIMEOUT_SEC"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.ReadTimeout = time.Duration(val) * time.Second
		}
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// ConfidenceThreshold returns the minimum NER score to accept an entity.
func (c *Config) ConfidenceThreshold() float64 {
	if c.StrictEntities {
		return 0.85
	}
	return 0.80
}

func (c *Config) Validate() error {
	if c.HuggingFaceAPIKey == "" && c.GeminiAPIKey == "" && c.OpenAIAPIKey == "" {
		return fmt.Errorf("no model provider configured: set HUGGINGFACE_API_KEY, GEMINI_API_KEY or OPENAI_API_KEY")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("NER_CHUNK_SIZE must be positive")
	}
	if c.MinArticleChars <= 0 {
		return fmt.Errorf("minimum article length must be positive")
	}
	return nil
}
