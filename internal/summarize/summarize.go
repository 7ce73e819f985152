// Package summarize wraps the summarization capability with the length
// policy: dynamic word bounds from input size and a hard input budget.
package summarize

import (
	"context"
	"strings"
	"unicode/utf8"

	"newslens/internal/logger"
	"newslens/internal/models"
)

// FailedSentinel replaces the summary when every provider fails. The
// pipeline keeps going; a missing summary never kills a run.
const FailedSentinel = "Summary generation failed."

type Controller struct {
	summarizer models.Summarizer
	maxWords   int // upper bound, default 130
	minWords   int // fixed lower bound, default 30
	inputChars int // character budget sent to the model, default 3000
}

func NewController(s models.Summarizer, maxWords, minWords, inputChars int) *Controller {
	return &Controller{
		summarizer: s,
		maxWords:   maxWords,
		minWords:   minWords,
		inputChars: inputChars,
	}
}

// Bounds computes (maxWords, minWords) for a text of wordCount words:
// maxWords = min(130, wordCount/2), clamped up to minWords when the input is
// short. The upstream algorithm left maxWords < minWords unhandled for short
// articles; clamping is the documented policy here.
func (c *Controller) Bounds(wordCount int) (int, int) {
	maxWords := wordCount / 2
	if maxWords > c.maxWords {
		maxWords = c.maxWords
	}
	if maxWords < c.minWords {
		maxWords = c.minWords
	}
	return maxWords, c.minWords
}

// Summarize returns a summary of text, or FailedSentinel if the capability
// fails. Texts shorter than minWords words skip the model entirely; they are
// already their own summary.
func (c *Controller) Summarize(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return FailedSentinel
	}

	wordCount := len(strings.Fields(text))
	if wordCount < c.minWords {
		return text
	}

	maxWords, minWords := c.Bounds(wordCount)
	input := Truncate(text, c.inputChars)

	summary, err := c.summarizer.Summarize(ctx, input, maxWords, minWords)
	if err != nil {
		logger.Warn("summarization failed, using sentinel", "words", wordCount, "error", err)
		return FailedSentinel
	}
	return strings.TrimSpace(summary)
}

// Truncate cuts text to at most maxChars runes, never mid-rune and ending at
// a sentence boundary when one falls reasonably late in the budget.
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}

	runes := []rune(text)
	trimmed := string(runes[:maxChars])
	if idx := strings.LastIndex(trimmed, ". "); idx > maxChars/3 {
		trimmed = trimmed[:idx+1]
	} else if idx := strings.LastIndex(trimmed, " "); idx > 0 {
		// fall back to a word boundary
		trimmed = trimmed[:idx]
	}
	return trimmed
}
