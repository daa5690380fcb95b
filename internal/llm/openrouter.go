package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/huimingz/commitgen/internal/log"
)

const (
	// OpenRouterEndpoint is the chat completions endpoint used by default
	OpenRouterEndpoint = "https://openrouter.ai/api/v1/chat/completions"

	// DefaultRequestTimeout bounds a single summarization request
	DefaultRequestTimeout = 30 * time.Second
)

var defaultHTTPClient = &http.Client{
	Transport: &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// OpenRouterClient calls an OpenAI-style chat completions endpoint directly,
// so that status code and body of a failed call reach the caller unchanged.
type OpenRouterClient struct {
	apiKey     string
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
}

// OpenRouterOption configures an OpenRouterClient
type OpenRouterOption func(*OpenRouterClient)

// WithEndpoint overrides the chat completions URL
func WithEndpoint(url string) OpenRouterOption {
	return func(c *OpenRouterClient) {
		if url != "" {
			c.endpoint = url
		}
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) OpenRouterOption {
	return func(c *OpenRouterClient) {
		c.timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) OpenRouterOption {
	return func(c *OpenRouterClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewOpenRouterClient creates a client authenticated with apiKey
func NewOpenRouterClient(apiKey string, opts ...OpenRouterOption) *OpenRouterClient {
	c := &OpenRouterClient{
		apiKey:     apiKey,
		endpoint:   OpenRouterEndpoint,
		timeout:    DefaultRequestTimeout,
		httpClient: defaultHTTPClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate sends one user message and returns the first choice, trimmed.
func (c *OpenRouterClient) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       req.Model,
		Messages:    []chatMessage{{Role: "user", Content: BuildPrompt(req)}},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &TransportError{Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	log.DebugRequest(http.MethodPost, c.endpoint, len(payload))
	start := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	log.DebugResponse(resp.StatusCode, body)
	log.DebugDuration("Summarization request", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ServiceError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &InvalidResponseError{Reason: fmt.Sprintf("malformed body: %v", err)}
	}
	if len(parsed.Choices) == 0 {
		return "", &InvalidResponseError{Reason: "no choices returned"}
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", &InvalidResponseError{Reason: "first choice is empty"}
	}
	return text, nil
}
