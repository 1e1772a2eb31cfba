package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chatmol/gromacs-copilot/internal/metrics"
)

const chatCompletionsSuffix = "/chat/completions"

// OpenAIClient talks to any OpenAI-compatible chat-completion endpoint.
// DeepSeek exposes the same wire format, so a single client covers both.
type OpenAIClient struct {
	Endpoint string // full chat-completions URL
	APIKey   string
	Model    string
	HTTP     *http.Client
	Timeout  time.Duration
}

// Compile-time interface conformance
var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient accepts either a base URL or a full chat-completions URL.
func NewOpenAIClient(url, apiKey, model string) *OpenAIClient {
	if url == "" {
		url = "https://api.openai.com/v1" + chatCompletionsSuffix
	}
	url = strings.TrimRight(url, "/")
	if !strings.HasSuffix(url, chatCompletionsSuffix) {
		url += chatCompletionsSuffix
	}

	return &OpenAIClient{
		Endpoint: url,
		APIKey:   apiKey,
		Model:    model,
		HTTP: &http.Client{
			Timeout: 120 * time.Second,
		},
		Timeout: 120 * time.Second,
	}
}

// Ping does a cheap authenticated GET against the service's models listing.
func (c *OpenAIClient) Ping(ctx context.Context) error {
	if c.APIKey == "" {
		return fmt.Errorf("llm api key is empty")
	}

	to := c.Timeout
	if to <= 0 {
		to = 5 * time.Second
	}
	var cancel context.CancelFunc
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel = context.WithTimeout(ctx, to)
	defer cancel()

	url := strings.TrimSuffix(c.Endpoint, chatCompletionsSuffix) + "/models"
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: to}
	}

	resp, err := retryHTTP(ctx, 3, 100*time.Millisecond, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
		return httpClient.Do(req)
	})
	if err != nil {
		metrics.LLMPings.Inc(map[string]string{"outcome": "error"})
		return fmt.Errorf("llm ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		metrics.LLMPings.Inc(map[string]string{"outcome": "error"})
		return fmt.Errorf("llm ping bad status: %d, body: %s", resp.StatusCode, string(b))
	}

	metrics.LLMPings.Inc(map[string]string{"outcome": "ok"})
	return nil
}

// Chat sends the conversation plus tool schemas and returns the assistant
// message, which may carry tool calls instead of content.
func (c *OpenAIClient) Chat(ctx context.Context, messages []Message, tools []ToolSpec) (Message, error) {
	if c.APIKey == "" {
		return Message{}, fmt.Errorf("llm api key is empty")
	}

	payload := map[string]any{
		"model":    c.Model,
		"messages": messages,
	}
	if len(tools) > 0 {
		payload["tools"] = tools
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshal payload: %w", err)
	}

	to := c.Timeout
	if to <= 0 {
		to = 120 * time.Second
	}
	var cancel context.CancelFunc
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel = context.WithTimeout(ctx, to)
	defer cancel()

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: to}
	}

	start := time.Now()
	resp, err := retryHTTP(ctx, 3, 100*time.Millisecond, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewBuffer(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
		req.Header.Set("Content-Type", "application/json")
		return httpClient.Do(req)
	})
	if err != nil {
		metrics.LLMChats.Inc(map[string]string{"outcome": "error"})
		return Message{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		metrics.LLMChats.Inc(map[string]string{"outcome": "error"})
		return Message{}, fmt.Errorf("llm chat failed: status %d, body: %s", resp.StatusCode, string(b))
	}

	var result struct {
		Choices []struct {
			Message Message `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		metrics.LLMChats.Inc(map[string]string{"outcome": "error"})
		return Message{}, err
	}

	if len(result.Choices) == 0 {
		metrics.LLMChats.Inc(map[string]string{"outcome": "error"})
		return Message{}, fmt.Errorf("llm: empty response")
	}

	metrics.LLMChats.Inc(map[string]string{"outcome": "ok"})
	metrics.LLMChatDur.Observe(map[string]string{"outcome": "ok"}, time.Since(start).Seconds())
	return result.Choices[0].Message, nil
}
