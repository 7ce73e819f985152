package models

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"newslens/internal/config"
)

// geminiSummarizer is the preferred summarization provider when a Gemini key
// is configured.
type geminiSummarizer struct {
	client *genai.Client
	model  string
}

func newGeminiSummarizer(cfg *config.Config) (*geminiSummarizer, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &geminiSummarizer{client: client, model: "gemini-1.5-flash"}, nil
}

func (g *geminiSummarizer) Close() {
	if g.client != nil {
		g.client.Close()
	}
}

func (g *geminiSummarizer) Summarize(ctx context.Context, text string, maxWords, minWords int) (string, error) {
	model := g.client.GenerativeModel(g.model)

	// Sanitize & limit content size (avoid over-long prompts)
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.Join(strings.Fields(strings.TrimSpace(text)), " ")
	const maxChars = 6000
	if utf8.RuneCountInString(text) > maxChars {
		// cut on rune boundary then try to end at sentence
		runes := []rune(text)
		trimmed := string(runes[:maxChars])
		if idx := strings.LastIndex(trimmed, ". "); idx > 1200 {
			trimmed = trimmed[:idx+1]
		}
		text = trimmed
	}

	prompt := fmt.Sprintf(`Summarize the following news article in %d to %d words.
Write plain prose, no headings, no bullet points, no preamble like "This article is about".
Keep names of people, organizations and places exactly as written.

ARTICLE:
%s`, minWords, maxWords, text)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	summary := strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
	if summary == "" {
		return "", fmt.Errorf("empty summary from Gemini")
	}
	return summary, nil
}
