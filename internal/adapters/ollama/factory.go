package ollama

import (
	"github.com/mikey/llm-doc-triage/internal/config"
	"github.com/mikey/llm-doc-triage/internal/core"
	"go.uber.org/zap"
)

// Factory creates new instances of OllamaClient
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for OllamaClient instances
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClient creates a new OllamaClient
func (f *Factory) CreateClient() (core.LLMClient, error) {
	llmCfg := f.cfg.GetLLM()
	ollamaCfg := f.cfg.GetOllama()

	return NewOllamaClient(
		llmCfg.Endpoint,
		ollamaCfg.ModelName,
		ollamaCfg.Temperature,
		llmCfg.Timeout,
		f.logger,
	), nil
}
