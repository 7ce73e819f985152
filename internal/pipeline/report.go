package pipeline

import (
	"fmt"
	"strings"

	"newslens/internal/entities"
	"newslens/internal/logger"
	"newslens/internal/textproc"
)

// FrequencyRenderer is the default renderer: it logs the top term
// frequencies instead of drawing anything. The visual word cloud is an
// external concern.
type FrequencyRenderer struct {
	TopN int
}

func (r *FrequencyRenderer) RenderCloud(corpus string, title string) error {
	n := r.TopN
	if n <= 0 {
		n = 10
	}
	ranked := textproc.RankKeywords(textproc.Preprocess(corpus), n)
	terms := make([]string, 0, len(ranked))
	for _, kw := range ranked {
		terms = append(terms, fmt.Sprintf("%s(%d)", kw.Token, kw.Count))
	}
	logger.Info("term frequencies", "title", title, "top", strings.Join(terms, " "))
	return nil
}

// FormatBriefing renders a briefing as plain text for delivery channels.
func FormatBriefing(b *Briefing, category string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Daily press review - %s\n", strings.ToUpper(category)))

	if b.Sentiment.Indeterminate {
		sb.WriteString("Global sentiment: impossible to calculate\n")
	} else {
		sb.WriteString(fmt.Sprintf("Global sentiment: %.1f%% POSITIVE | %.1f%% NEGATIVE\n",
			b.Sentiment.PositivePct, b.Sentiment.NegativePct))
	}

	limit := len(b.Headlines)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, b.Headlines[i].Title))
	}

	return sb.String()
}

// FormatAnalysis renders a full analysis report as plain text.
func FormatAnalysis(r *AnalysisResult) string {
	var sb strings.Builder

	if r.Title != "" {
		sb.WriteString(r.Title + "\n\n")
	}

	sb.WriteString("SUMMARY:\n" + r.Summary + "\n\n")

	if r.Sentiment.Label != "" {
		sb.WriteString(fmt.Sprintf("SENTIMENT: %s (confidence: %.4f)\n\n", r.Sentiment.Label, r.Sentiment.Confidence))
	} else {
		sb.WriteString("SENTIMENT: unavailable\n\n")
	}

	sb.WriteString("ENTITIES:\n")
	printed := false
	groups := []struct {
		group entities.Group
		label string
	}{
		{entities.Person, "People"},
		{entities.Organization, "Organisations"},
		{entities.Location, "Locations"},
	}
	for _, g := range groups {
		list := r.Entities[g.group]
		if len(list) > 0 {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", g.label, strings.Join(list, ", ")))
			printed = true
		}
	}
	if !printed {
		sb.WriteString("  (no entity found with high confidence)\n")
	}
	sb.WriteString("\n")

	sb.WriteString("KEYWORDS: ")
	terms := make([]string, 0, len(r.Keywords))
	for _, kw := range r.Keywords {
		terms = append(terms, fmt.Sprintf("%s (%d)", kw.Token, kw.Count))
	}
	sb.WriteString(strings.Join(terms, ", ") + "\n")

	return sb.String()
}
