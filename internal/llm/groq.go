package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/yourusername/pitch-prophet/internal/metrics"
)

const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

// GroqClient calls the Groq chat-completions REST endpoint
type GroqClient struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
	baseURL    string
	apiKey     string
	model      string
}

// GroqOption customizes a GroqClient
type GroqOption func(*GroqClient)

// WithGroqBaseURL overrides the API base URL, mainly for tests
func WithGroqBaseURL(baseURL string) GroqOption {
	return func(c *GroqClient) { c.baseURL = baseURL }
}

// NewGroqClient creates a Groq summarizer client
func NewGroqClient(apiKey, model string, logger *logrus.Logger, opts ...GroqOption) *GroqClient {
	c := &GroqClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		breaker:    newLLMBreaker("groq", logger),
		logger:     logger,
		baseURL:    defaultGroqBaseURL,
		apiKey:     apiKey,
		model:      model,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type groqResponse struct {
	Choices []struct {
		Message groqMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Summarize implements Summarizer against the Groq API
func (c *GroqClient) Summarize(ctx context.Context, systemPrompt, content string, temperature float64, maxTokens int) (string, error) {
	start := time.Now()

	reqBody := groqRequest{
		Model: c.model,
		Messages: []groqMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: content},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.complete(ctx, &reqBody)
	})
	if err != nil {
		metrics.RecordSummarizerCall("groq", "error", time.Since(start).Seconds())
		return "", &ServiceUnavailableError{Provider: "groq", Err: err}
	}

	metrics.RecordSummarizerCall("groq", "success", time.Since(start).Seconds())
	return result.(string), nil
}

func (c *GroqClient) complete(ctx context.Context, reqBody *groqRequest) (string, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("groq request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read groq response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("groq returned status %d: %s", resp.StatusCode, truncate(string(body), 256))
	}

	var parsed groqResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode groq response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("groq error (%s): %s", parsed.Error.Type, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		c.logger.Warn("Groq returned no choices")
		return "", nil
	}
	return parsed.Choices[0].Message.Content, nil
}
