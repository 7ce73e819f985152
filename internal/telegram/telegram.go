// Package telegram delivers briefing reports to a Telegram chat. Optional
// side channel; the pipeline works without it.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"newslens/internal/logger"
	"newslens/internal/retry"
)

type Notifier struct {
	token  string
	chatID string
	client *http.Client
}

func NewNotifier(token, chatID string) *Notifier {
	return &Notifier{
		token:  token,
		chatID: chatID,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Send posts the text to the configured chat, retrying transient failures
// with exponential backoff.
func (n *Notifier) Send(text string) error {
	// Telegram messages cap at ~4096 chars.
	if len(text) > 4000 {
		text = text[:4000]
	}

	cfg := retry.RetryConfig{MaxAttempts: 3, Delay: 2 * time.Second, Backoff: true}
	err := retry.WithRetry(context.Background(), cfg, func() error {
		return n.sendOnce(text)
	})
	if err != nil {
		return fmt.Errorf("can't send message: %w", err)
	}
	return nil
}

func (n *Notifier) sendOnce(text string) error {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.token)

	payload := map[string]interface{}{
		"chat_id":                  n.chatID,
		"text":                     text,
		"disable_web_page_preview": true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return retry.Permanent{Err: fmt.Errorf("error make JSON: %w", err)}
	}

	resp, err := n.client.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("error HTTP request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error: status %d", resp.StatusCode)
	}
	return nil
}
