package openai

import (
	"fmt"
	"net/http"

	"github.com/mikey/llm-doc-triage/internal/config"
	"github.com/mikey/llm-doc-triage/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Factory creates new instances of OpenAIClient
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for OpenAIClient instances
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClient creates a new OpenAIClient. A configured llm.endpoint points
// the client at an OpenAI-compatible server, which may not need a key.
func (f *Factory) CreateClient() (core.LLMClient, error) {
	llmCfg := f.cfg.GetLLM()
	openaiCfg := f.cfg.GetOpenAI()

	if openaiCfg.APIKey == "" && llmCfg.Endpoint == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	clientCfg := openai.DefaultConfig(openaiCfg.APIKey)
	if llmCfg.Endpoint != "" {
		clientCfg.BaseURL = llmCfg.Endpoint
	}
	clientCfg.HTTPClient = &http.Client{Timeout: llmCfg.Timeout}

	return NewOpenAIClient(
		openai.NewClientWithConfig(clientCfg),
		openaiCfg.ModelName,
		openaiCfg.MaxTokens,
		openaiCfg.Temperature,
		openaiCfg.TopP,
		f.logger,
	), nil
}
