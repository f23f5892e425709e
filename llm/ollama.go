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

	"go.uber.org/zap"
)

// Ensure Client implements the interface.
var _ Completer = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL     = "http://localhost:11434"
	DefaultModel       = "llama2:7b"
	DefaultTimeout     = 120 * time.Second
	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.1
)

// DefaultSystemPrompt steers the model toward machine-readable output.
const DefaultSystemPrompt = "You are a precise assistant that extracts information from documents " +
	"and responds strictly in the requested JSON format."

// Config holds configuration for the Ollama client.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the model to use (default: llama2:7b).
	Model string

	// Timeout is the per-request timeout (default: 120s).
	Timeout time.Duration

	// MaxTokens caps the completion length (default: 1024).
	MaxTokens int

	// Temperature controls randomness; extraction wants it low
	// (default: 0.1).
	Temperature float64

	// TopP and TopK are passed through to the model when non-zero.
	TopP float64
	TopK int

	// SystemPrompt is prepended to every request.
	SystemPrompt string
}

// Client is an Ollama completion client.
type Client struct {
	client       *http.Client
	baseURL      string
	model        string
	maxTokens    int
	temperature  float64
	topP         float64
	topK         int
	systemPrompt string
	logger       *zap.Logger
}

// generateRequest is the Ollama /api/generate request format.
type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Stream  bool     `json:"stream"`
	Options *options `json:"options,omitempty"`
}

// options holds generation parameters.
type options struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
	TopK        int     `json:"top_k,omitempty"`
}

// generateResponse is the Ollama /api/generate response format.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// tagsResponse is the Ollama /api/tags response format.
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// NewClient creates a new Ollama client. Zero-value config fields fall
// back to defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		model:        cfg.Model,
		maxTokens:    cfg.MaxTokens,
		temperature:  cfg.Temperature,
		topP:         cfg.TopP,
		topK:         cfg.TopK,
		systemPrompt: cfg.SystemPrompt,
		logger:       zap.NewNop(),
	}
}

// SetLogger sets the logger used for request diagnostics.
func (c *Client) SetLogger(logger *zap.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// ModelName returns the name of the model being used.
func (c *Client) ModelName() string {
	return c.model
}

// formatPrompt wraps the instruction in the llama2 instruction format
// with the configured system prompt.
func (c *Client) formatPrompt(instruction string) string {
	return fmt.Sprintf("<s>[INST] <<SYS>>\n%s\n<</SYS>>\n\n%s [/INST]", c.systemPrompt, instruction)
}

// Complete sends the prompt to /api/generate and returns the completion
// text. A timeout or connection failure is returned as an error and is
// never retried here.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Model:  c.model,
		Prompt: c.formatPrompt(prompt),
		Stream: false,
		Options: &options{
			NumPredict:  c.maxTokens,
			Temperature: c.temperature,
			TopP:        c.topP,
			TopK:        c.topK,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	c.logger.Debug("requesting completion",
		zap.String("model", c.model),
		zap.Int("prompt_length", len(prompt)))

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/generate",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("ollama error (status %d): failed to read response", resp.StatusCode)
		}
		return "", fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return strings.TrimSpace(genResp.Response), nil
}

// Ping validates the server is reachable by checking the /api/tags
// endpoint, and logs a warning when the configured model is not among
// the installed ones. This is the constructor-time capability check:
// an unreachable model service is a deployment problem and should fail
// loudly before any document is processed.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama: API returned status %d", resp.StatusCode)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return fmt.Errorf("ollama: decode tags response: %w", err)
	}

	for _, m := range tags.Models {
		if m.Name == c.model {
			return nil
		}
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	c.logger.Warn("configured model not installed on ollama server",
		zap.String("model", c.model),
		zap.Strings("available", names))
	return nil
}
