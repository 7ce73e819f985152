package headlines

import (
	"context"
	"os"
	"time"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"newslens/internal/logger"
)

// FeedsConfig is the YAML config structure
// categories:
//
//	general:
//	  - https://...
type FeedsConfig struct {
	Categories map[string][]string `yaml:"categories"`
}

// LoadFeeds reads the category→feeds mapping from a YAML file.
func LoadFeeds(path string) (*FeedsConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg FeedsConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RSSProvider serves headlines from per-category RSS feeds. It is the
// fallback when no NewsAPI key is configured.
type RSSProvider struct {
	feeds  *FeedsConfig
	parser *gofeed.Parser
}

func NewRSS(feeds *FeedsConfig) *RSSProvider {
	return &RSSProvider{feeds: feeds, parser: gofeed.NewParser()}
}

func (p *RSSProvider) List(ctx context.Context, category string, pageSize int) []Headline {
	urls := p.feeds.Categories[category]
	if len(urls) == 0 {
		logger.Warn("no feeds configured for category", "category", category)
		return nil
	}

	var items []Headline
	successCount := 0

	for _, feedURL := range urls {
		feed, err := p.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			logger.Warn("error parsing RSS feed", "url", feedURL, "error", err)
			continue // Log error, but don't stop
		}
		successCount++

		for _, item := range feed.Items {
			if item.Title == "" || item.Link == "" {
				continue
			}
			var published time.Time
			if item.PublishedParsed != nil {
				published = *item.PublishedParsed
			}
			items = append(items, Headline{
				Title:       item.Title,
				Description: item.Description,
				URL:         item.Link,
				Source:      feed.Title,
				PublishedAt: published,
			})
			if len(items) >= pageSize {
				break
			}
		}
		if len(items) >= pageSize {
			break
		}
	}

	logger.Info("headlines loaded from RSS", "category", category, "feeds_ok", successCount, "feeds_total", len(urls), "count", len(items))
	return items
}
