package factory

import (
	"fmt"

	"github.com/mikey/llm-doc-triage/internal/adapters/bedrock"
	"github.com/mikey/llm-doc-triage/internal/adapters/gemini"
	"github.com/mikey/llm-doc-triage/internal/adapters/ollama"
	"github.com/mikey/llm-doc-triage/internal/adapters/openai"
	"github.com/mikey/llm-doc-triage/internal/config"
	"github.com/mikey/llm-doc-triage/internal/core"
	"go.uber.org/zap"
)

// DefaultMaxInputSize bounds prompt input when the provider sets no limit
const DefaultMaxInputSize = 4096

// LLMFactory creates LLM clients
type LLMFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLLMClient creates a new LLM client based on the configuration. The
// "none" provider yields a nil client and the pipeline runs on heuristics alone.
func (f *LLMFactory) CreateLLMClient() (core.LLMClient, error) {
	llmConfig := f.cfg.GetLLM()

	var (
		client core.LLMClient
		err    error
	)
	switch llmConfig.Provider {
	case config.ProviderNone, "":
		f.logger.Info("No inference backend configured, using heuristics only")
		return nil, nil
	case config.ProviderOllama:
		client, err = ollama.NewFactory(f.cfg, f.logger).CreateClient()
	case config.ProviderOpenAI:
		client, err = openai.NewFactory(f.cfg, f.logger).CreateClient()
	case config.ProviderGemini:
		client, err = gemini.NewFactory(f.cfg, f.logger).CreateClient()
	case config.ProviderBedrock:
		client, err = bedrock.NewFactory(f.cfg, f.logger).CreateClient()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", llmConfig.Provider, err)
	}

	f.logger.Info("Created inference backend",
		zap.String("backend", client.Name()),
		zap.Duration("timeout", llmConfig.Timeout))
	return client, nil
}

// MaxInputSize returns the prompt input limit of the configured provider
func (f *LLMFactory) MaxInputSize() int {
	var size int
	switch f.cfg.GetLLM().Provider {
	case config.ProviderOllama:
		size = f.cfg.GetOllama().MaxBodySize
	case config.ProviderOpenAI:
		size = f.cfg.GetOpenAI().MaxBodySize
	case config.ProviderGemini:
		size = f.cfg.GetGemini().MaxBodySize
	case config.ProviderBedrock:
		size = f.cfg.GetBedrock().MaxBodySize
	}
	if size <= 0 {
		return DefaultMaxInputSize
	}
	return size
}
