package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/davidbz/hearth/internal/domain"
	"github.com/davidbz/hearth/internal/observability"
)

const apiVersion = "2023-06-01"

// Client wraps the HTTP client for the Anthropic messages API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// NewClient creates a new upstream client.
func NewClient(config Config) *Client {
	return &Client{
		apiKey:    config.APIKey,
		baseURL:   config.BaseURL,
		model:     config.Model,
		maxTokens: config.MaxTokens,
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
	}
}

// Anthropic API request/response structures.
type messagesRequest struct {
	Model     string           `json:"model"`
	MaxTokens int              `json:"max_tokens"`
	Messages  []domain.Message `json:"messages"`
	System    string           `json:"system,omitempty"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesResponse struct {
	ID      string         `json:"id"`
	Content []contentBlock `json:"content"`
	Model   string         `json:"model"`
	Usage   struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Complete sends a single non-retried request to the messages endpoint and
// classifies the outcome. Error messages stay generic so credential state is
// never revealed to a caller; the raw upstream detail rides along internally
// for development-posture diagnostics.
func (c *Client) Complete(
	ctx context.Context,
	messages []domain.Message,
	systemPrompt string,
) (*domain.ChatResult, error) {
	if c.apiKey == "" {
		return nil, errors.New("API key is not configured")
	}

	req := messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  messages,
		System:    systemPrompt,
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/messages",
		bytes.NewReader(reqBody),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, domain.NewUpstreamError(domain.CodeUpstreamUnavailable,
			"Failed to process request", fmt.Sprintf("upstream request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, c.classifyFailure(ctx, resp)
	}

	var upstreamResp messagesResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&upstreamResp); decodeErr != nil {
		return nil, domain.NewUpstreamError(domain.CodeUpstreamUnavailable,
			"Failed to process request", fmt.Sprintf("failed to decode upstream response: %v", decodeErr))
	}

	text := ""
	if len(upstreamResp.Content) > 0 {
		text = upstreamResp.Content[0].Text
	}

	return &domain.ChatResult{
		Message: text,
		Usage: domain.Usage{
			InputTokens:  upstreamResp.Usage.InputTokens,
			OutputTokens: upstreamResp.Usage.OutputTokens,
		},
		Model: upstreamResp.Model,
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// classifyFailure maps a non-2xx upstream status to the relay error taxonomy.
// The response body is read for internal detail only.
func (c *Client) classifyFailure(ctx context.Context, resp *http.Response) *domain.Error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	logger := observability.FromContext(ctx)
	logger.Warn("upstream call failed",
		observability.Int("status", resp.StatusCode),
	)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		// A rejected credential is an operator problem; the caller only
		// sees a generic failure.
		return domain.NewUpstreamError(domain.CodeUpstreamAuth,
			"Failed to process request",
			fmt.Sprintf("upstream rejected credential: status %d", resp.StatusCode))
	case http.StatusTooManyRequests:
		return domain.NewUpstreamError(domain.CodeUpstreamRateLimited,
			"Service is busy, please try again shortly",
			fmt.Sprintf("upstream rate limited: status %d", resp.StatusCode))
	default:
		return domain.NewUpstreamError(domain.CodeUpstreamUnavailable,
			"Failed to process request",
			fmt.Sprintf("upstream returned status %d: %s", resp.StatusCode, string(body)))
	}
}
