// Package sentiment classifies single texts and rolls per-item results up
// into a batch percentage summary.
package sentiment

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"

	"newslens/internal/models"
)

// BatchSummary is the sentiment rollup over a batch of classified items.
// Indeterminate is set instead of dividing by zero when nothing classified.
type BatchSummary struct {
	PositivePct   float64
	NegativePct   float64
	Indeterminate bool
}

type Analyzer struct {
	classifier models.SentimentClassifier
	inputChars int // only the leading slice is classified, default 512
}

func NewAnalyzer(c models.SentimentClassifier, inputChars int) *Analyzer {
	return &Analyzer{classifier: c, inputChars: inputChars}
}

// Classify runs the classifier over the first inputChars characters of text.
// Title and lead are assumed representative; classifying the whole body buys
// little accuracy for a lot of latency.
func (a *Analyzer) Classify(ctx context.Context, text string) (models.SentimentResult, error) {
	return a.classifier.Classify(ctx, Head(text, a.inputChars))
}

// Head returns the first n characters of text, never cutting mid-rune.
func Head(text string, n int) string {
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return strings.TrimSpace(text)
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:n]))
}

// Aggregate computes positive/negative percentages over the results, rounded
// to one decimal. An empty batch yields an indeterminate summary.
func Aggregate(results []models.SentimentResult) BatchSummary {
	total := len(results)
	if total == 0 {
		return BatchSummary{Indeterminate: true}
	}

	var positive, negative int
	for _, r := range results {
		switch r.Label {
		case models.Positive:
			positive++
		case models.Negative:
			negative++
		}
	}

	return BatchSummary{
		PositivePct: round1(float64(positive) / float64(total) * 100),
		NegativePct: round1(float64(negative) / float64(total) * 100),
	}
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
