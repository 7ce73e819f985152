// Package headlines lists current top headlines for a category. Two sources:
// NewsAPI when a key is configured, category RSS feeds otherwise. Either way
// a failure means an empty list, logged, never an error to the caller.
package headlines

import (
	"context"
	"time"

	"newslens/internal/logger"
)

// Headline is one entry from the headline source. Title and URL are always
// set; Description may be empty.
type Headline struct {
	Title       string
	Description string
	URL         string
	Source      string
	PublishedAt time.Time
}

// Provider lists headlines for a category.
type Provider interface {
	List(ctx context.Context, category string, pageSize int) []Headline
}

// Categories the assistant offers; both sources understand them.
var Categories = []string{"general", "technology", "business", "science", "health"}

// multiProvider tries providers in order and returns the first non-empty list.
type multiProvider struct {
	providers []Provider
}

// NewMulti chains providers; later entries are fallbacks.
func NewMulti(providers ...Provider) Provider {
	return &multiProvider{providers: providers}
}

func (m *multiProvider) List(ctx context.Context, category string, pageSize int) []Headline {
	for _, p := range m.providers {
		if items := p.List(ctx, category, pageSize); len(items) > 0 {
			return items
		}
	}
	logger.Warn("no headline source returned results", "category", category)
	return nil
}
