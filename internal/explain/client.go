// Package explain produces natural-language explanations of a snippet,
// either from a remote chat-completions endpoint or locally from its trace.
package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/i18n"
)

// ErrNoAPIKey is returned when no API key is configured.
var ErrNoAPIKey = errors.New("explain: no API key configured")

// DefaultBaseURL is the OpenAI-compatible API root used when none is set.
const DefaultBaseURL = "https://api.openai.com/v1"

// Request is what the caller wants explained.
type Request struct {
	Code    string
	Dialect string
	Prompt  string
	Locale  string
}

// Client explains code.
type Client interface {
	Explain(ctx context.Context, req Request) (string, error)
}

// Config configures an HTTPClient.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// HTTPClient talks to an OpenAI-compatible chat completions API.
type HTTPClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewHTTPClient creates a client. It fails with ErrNoAPIKey when cfg has no
// key.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &HTTPClient{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Model returns the model identifier.
func (c *HTTPClient) Model() string {
	return c.model
}

// Explain sends one chat completion request. Failures are returned as
// errors; there are no retries.
func (c *HTTPClient) Explain(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(req.Locale)},
			{Role: "user", Content: userPrompt(req)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if chat.Error != nil {
		return "", fmt.Errorf("API error: %s", chat.Error.Message)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return strings.TrimSpace(chat.Choices[0].Message.Content), nil
}

func systemPrompt(locale string) string {
	lang := "English"
	if i18n.Match(locale) == i18n.Spanish {
		lang = "Spanish"
	}
	return "You are a patient programming tutor. Explain what the given code does step by step, " +
		"for a beginner, in " + lang + ". Keep it short and refer to concrete values."
}

func userPrompt(req Request) string {
	var b strings.Builder
	if req.Dialect != "" {
		fmt.Fprintf(&b, "Language: %s\n", req.Dialect)
	}
	b.WriteString("Code:\n```\n")
	b.WriteString(req.Code)
	b.WriteString("\n```\n")
	if q := strings.TrimSpace(req.Prompt); q != "" {
		fmt.Fprintf(&b, "Question: %s\n", q)
	}
	return b.String()
}
