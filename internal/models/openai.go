package models

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"newslens/internal/config"
)

// openaiSummarizer is the mid-chain summarization fallback.
type openaiSummarizer struct {
	client *openai.Client
}

func newOpenAISummarizer(cfg *config.Config) *openaiSummarizer {
	return &openaiSummarizer{client: openai.NewClient(cfg.OpenAIAPIKey)}
}

func (o *openaiSummarizer) Summarize(ctx context.Context, text string, maxWords, minWords int) (string, error) {
	prompt := fmt.Sprintf(`Summarize the following news article in %d to %d words.
Keep the meaning and tone of the original. Do not add commentary.
Keep proper names exactly as written.

Article:
%s`, minWords, maxWords, text)

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT3Dot5Turbo,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens: 500,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", errors.New("empty summary from OpenAI")
	}
	return summary, nil
}
