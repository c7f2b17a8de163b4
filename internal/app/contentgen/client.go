// Package contentgen talks to an OpenAI-compatible chat-completions
// service for tutor replies, quiz generation, and the other study tools.
// Structured responses are parsed leniently (models love code fences)
// but an unparseable body is an error, never zeroed-out data.
package contentgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/studygram-app/studygram/internal/domain"
	"github.com/studygram-app/studygram/internal/infra/metrics"
)

// Config holds upstream connection settings.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// Client is a chat-completions client with retry and backoff.
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient creates a content-generation client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3.2"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// IsConfigured reports whether an upstream is usable.
func (c *Client) IsConfigured() bool {
	return c.cfg.BaseURL != ""
}

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Index        int     `json:"index"`
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Chat sends one chat-completions request and returns the assistant text.
func (c *Client) Chat(ctx context.Context, task string, messages []Message, temperature float64) (string, error) {
	start := time.Now()
	metrics.ContentRequests.WithLabelValues(task).Inc()

	text, err := c.chatOnce(ctx, messages, temperature)
	metrics.ContentLatency.WithLabelValues(task).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ContentFailures.WithLabelValues(task, "upstream").Inc()
	}
	return text, err
}

func (c *Client) chatOnce(ctx context.Context, messages []Message, temperature float64) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   2000,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrContentService, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", domain.ErrContentService, err)
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: upstream status %s", domain.ErrContentService, resp.Status)
		if resp.StatusCode < http.StatusInternalServerError {
			// Auth and request errors will fail identically on every retry.
			return "", &permanentError{err}
		}
		return "", err
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrContentService, err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", domain.ErrContentService)
	}
	return chatResp.Choices[0].Message.Content, nil
}

// permanentError marks an upstream rejection retrying cannot fix.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// ChatWithRetry retries transient upstream failures (transport errors and
// 5xx responses) with exponential backoff (1s, 2s, 4s). Client-side
// rejections such as 401 return immediately; context cancellation aborts.
func (c *Client) ChatWithRetry(ctx context.Context, task string, messages []Message, temperature float64) (string, error) {
	var lastErr error
	for i := 0; i < c.cfg.MaxRetries; i++ {
		text, err := c.Chat(ctx, task, messages, temperature)
		if err == nil {
			return text, nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return "", err
		}
		lastErr = err

		backoff := time.Duration(1<<uint(i)) * time.Second
		log.Printf("[contentgen] %s attempt %d failed, retrying in %v: %v", task, i+1, backoff, err)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}
	return "", fmt.Errorf("%s failed after %d attempts: %w", task, c.cfg.MaxRetries, lastErr)
}

// parseStructured decodes a JSON payload that may be wrapped in markdown
// code fences. A body that still fails to parse is ErrContentUnparseable;
// callers must surface it rather than substitute defaults.
func parseStructured(text string, v any) error {
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrContentUnparseable, err)
	}
	return nil
}
