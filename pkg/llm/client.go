// Package llm is the generation collaborator: a thin client for the
// Anthropic Messages API that turns a (system, user) prompt pair into
// summary text.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	mferrors "github.com/otherjamesbrown/meetflow/pkg/errors"
	"github.com/otherjamesbrown/meetflow/pkg/logging"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultModel     = "claude-3-5-sonnet-20241022"
	defaultMaxTokens = 2000
	apiVersion       = "2023-06-01"
)

// Config holds client settings. Zero values fall back to defaults.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Client calls the Anthropic Messages API.
type Client struct {
	config     Config
	httpClient *http.Client
	log        logging.Logger
}

// NewClient builds a Client. The API key must be non-empty; everything else
// has defaults.
func NewClient(config Config, log logging.Logger) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key: %w", mferrors.ErrConfiguration)
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = defaultMaxTokens
	}
	if config.Timeout <= 0 {
		config.Timeout = 120 * time.Second
	}
	if log == nil {
		log = logging.NewNopLogger()
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		log:        log,
	}, nil
}

// message is a single conversation turn.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesRequest is the Messages API request body.
type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
}

// contentBlock is one block of the response content.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// messagesResponse is the Messages API response body.
type messagesResponse struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason"`
	Content    []contentBlock `json:"content"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Generate sends the prompt pair and returns the generated text. Failures
// come back as classified pipeline errors: timeout, rate limit, or API error.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	start := time.Now()

	reqBody := messagesRequest{
		Model:       c.config.Model,
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
		System:      systemPrompt,
		Messages:    []message{{Role: "user", Content: userPrompt}},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", mferrors.NewPipelineError(mferrors.ErrParseError, mferrors.StageSummarization,
			fmt.Sprintf("marshal request: %v", err), err)
	}

	url := c.config.BaseURL + "/v1/messages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", mferrors.NewPipelineError(mferrors.ErrAPIError, mferrors.StageSummarization,
			fmt.Sprintf("create request: %v", err), err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.config.APIKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", mferrors.NewPipelineError(mferrors.ErrTimeout, mferrors.StageSummarization,
				"request timeout", err)
		}
		if ctx.Err() == context.Canceled {
			return "", mferrors.NewPipelineError(mferrors.ErrContextCancelled, mferrors.StageSummarization,
				"request cancelled", err)
		}
		return "", mferrors.NewPipelineError(mferrors.ErrAPIError, mferrors.StageSummarization,
			fmt.Sprintf("request failed: %v", err), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", mferrors.NewPipelineError(mferrors.ErrParseError, mferrors.StageSummarization,
			fmt.Sprintf("read response: %v", err), err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", mferrors.NewPipelineError(mferrors.ErrRateLimit, mferrors.StageSummarization,
			fmt.Sprintf("HTTP 429: %s", string(respBody)), nil)
	case resp.StatusCode != http.StatusOK:
		return "", mferrors.NewPipelineError(mferrors.ErrAPIError, mferrors.StageSummarization,
			fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(respBody)), nil)
	}

	var msgResp messagesResponse
	if err := json.Unmarshal(respBody, &msgResp); err != nil {
		return "", mferrors.NewPipelineError(mferrors.ErrParseError, mferrors.StageSummarization,
			fmt.Sprintf("parse response: %v", err), err)
	}

	if len(msgResp.Content) == 0 || msgResp.Content[0].Text == "" {
		return "", mferrors.NewPipelineError(mferrors.ErrEmptyContent, mferrors.StageSummarization,
			"empty content in response", nil)
	}

	c.log.Debug("summary generated",
		logging.F("model", msgResp.Model),
		logging.F("input_tokens", msgResp.Usage.InputTokens),
		logging.F("output_tokens", msgResp.Usage.OutputTokens),
		logging.F("latency_ms", time.Since(start).Milliseconds()))

	return msgResp.Content[0].Text, nil
}
