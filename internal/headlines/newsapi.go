package headlines

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"newslens/internal/logger"
)

// NewsAPIProvider fetches top headlines from newsapi.org.
type NewsAPIProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewNewsAPI(apiKey, baseURL string) *NewsAPIProvider {
	return &NewsAPIProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func (p *NewsAPIProvider) List(ctx context.Context, category string, pageSize int) []Headline {
	params := url.Values{}
	params.Set("category", category)
	params.Set("language", "en")
	params.Set("pageSize", fmt.Sprintf("%d", pageSize))

	endpoint := p.baseURL + "/top-headlines?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		logger.Error("building NewsAPI request", "error", err)
		return nil
	}
	req.Header.Set("X-Api-Key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		logger.Error("NewsAPI request failed", "category", category, "error", err)
		return nil
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		logger.Error("NewsAPI returned error status", "status", resp.StatusCode, "category", category)
		return nil
	}

	var parsed newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		logger.Error("decoding NewsAPI response", "error", err)
		return nil
	}
	if parsed.Status != "ok" {
		logger.Error("NewsAPI error response", "message", parsed.Message)
		return nil
	}

	items := make([]Headline, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		if a.Title == "" || a.URL == "" {
			continue
		}
		published, _ := time.Parse(time.RFC3339, a.PublishedAt)
		items = append(items, Headline{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: published,
		})
	}

	logger.Info("headlines loaded from NewsAPI", "category", category, "count", len(items))
	return items
}
