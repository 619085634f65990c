package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mikey/llm-doc-triage/internal/core"
	"go.uber.org/zap"
)

// DefaultEndpoint is where a local Ollama server listens
const DefaultEndpoint = "http://localhost:11434"

// OllamaClient is an implementation of the LLMClient interface using a local Ollama server
type OllamaClient struct {
	endpoint    string
	modelName   string
	temperature float32
	client      *http.Client
	logger      *zap.Logger
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float32 `json:"temperature"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewOllamaClient creates a new Ollama client
func NewOllamaClient(endpoint, modelName string, temperature float32, timeout time.Duration, logger *zap.Logger) *OllamaClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &OllamaClient{
		endpoint:    strings.TrimRight(endpoint, "/"),
		modelName:   modelName,
		temperature: temperature,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Name returns the backend name
func (c *OllamaClient) Name() string {
	return fmt.Sprintf("ollama:%s", c.modelName)
}

// CompleteText sends a non-streaming generate request
func (c *OllamaClient) CompleteText(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:   c.modelName,
		Prompt:  prompt,
		Stream:  false,
		Options: generateOptions{Temperature: c.temperature},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if strings.TrimSpace(result.Response) == "" {
		return "", core.ErrEmptyResponse
	}

	c.logger.Debug("Ollama completion received",
		zap.String("model", c.modelName),
		zap.Int("response_size", len(result.Response)))

	return result.Response, nil
}
