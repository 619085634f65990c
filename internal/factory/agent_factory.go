package factory

import (
	"fmt"

	"github.com/mikey/llm-doc-triage/internal/adapters/mailparse"
	"github.com/mikey/llm-doc-triage/internal/adapters/pdftext"
	"github.com/mikey/llm-doc-triage/internal/agents/emailagent"
	"github.com/mikey/llm-doc-triage/internal/agents/jsonagent"
	"github.com/mikey/llm-doc-triage/internal/agents/textagent"
	"github.com/mikey/llm-doc-triage/internal/classifier"
	"github.com/mikey/llm-doc-triage/internal/config"
	"github.com/mikey/llm-doc-triage/internal/core"
	"github.com/mikey/llm-doc-triage/internal/domains"
	"github.com/mikey/llm-doc-triage/internal/inference"
	"github.com/mikey/llm-doc-triage/internal/pipeline"
	"github.com/mikey/llm-doc-triage/internal/utils"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
)

// AgentFactory creates the classifier, the format agents and the loader
type AgentFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	llmClient     core.LLMClient
	maxInputSize  int
}

// NewAgentFactory creates a new agent factory. llmClient may be nil. Every
// prompt the agents build shares one text processor.
func NewAgentFactory(
	cfg *config.Config,
	logger *zap.Logger,
	llmFactory *LLMFactory,
	llmClient core.LLMClient,
) *AgentFactory {
	return &AgentFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: utils.NewTextProcessor(logger),
		llmClient:     llmClient,
		maxInputSize:  llmFactory.MaxInputSize(),
	}
}

// CreateClassifier creates the classifier, backed by the LLM when enabled
func (f *AgentFactory) CreateClassifier() *classifier.Classifier {
	var textClassifier core.TextClassifier
	if f.llmClient != nil && f.cfg.UseInferenceForClassification() {
		textClassifier = inference.NewPromptClassifier(f.llmClient, f.textProcessor, f.maxInputSize, f.logger)
	}
	return classifier.NewClassifier(
		textClassifier,
		core.Route(f.cfg.GetPipeline().TextRoute),
		f.cfg.GetLLM().Timeout,
		f.logger,
	)
}

// CreateJSONAgent creates the JSON agent, compiling the schema when configured
func (f *AgentFactory) CreateJSONAgent() (*jsonagent.Agent, error) {
	agentConfig := f.cfg.GetJSONAgent()

	var schema *jsonschema.Schema
	if agentConfig.SchemaPath != "" {
		compiled, err := jsonagent.LoadSchema(agentConfig.SchemaPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load JSON schema: %w", err)
		}
		schema = compiled
		f.logger.Info("Loaded JSON schema", zap.String("path", agentConfig.SchemaPath))
	}

	var llm core.LLMClient
	if agentConfig.LLMAnalysis {
		llm = f.llmClient
	}
	return jsonagent.NewAgent(schema, llm, f.textProcessor, f.maxInputSize, f.cfg.GetLLM().Timeout, f.logger), nil
}

// CreateEmailAgent creates the email agent
func (f *AgentFactory) CreateEmailAgent() *emailagent.Agent {
	agentConfig := f.cfg.GetEmailAgent()

	var llm core.LLMClient
	if agentConfig.LLMResponses {
		llm = f.llmClient
	}
	return emailagent.NewAgent(
		llm,
		domains.NewChecker(agentConfig.KnownDomains, f.logger),
		agentConfig.Signature,
		f.textProcessor,
		f.maxInputSize,
		f.cfg.GetLLM().Timeout,
		f.logger,
	)
}

// CreateTextAgent creates the text agent
func (f *AgentFactory) CreateTextAgent() *textagent.Agent {
	return textagent.NewAgent(f.logger)
}

// CreateEmailParser creates the raw message parser
func (f *AgentFactory) CreateEmailParser() core.EmailParser {
	return mailparse.NewParser(f.logger)
}

// CreateLoader creates the file loader
func (f *AgentFactory) CreateLoader(parser core.EmailParser) *pipeline.Loader {
	extractor := pdftext.NewExtractor(
		pdftext.NewExecRunner(f.logger),
		f.cfg.GetPipeline().PdftotextPath,
		f.logger,
	)
	return pipeline.NewLoader(extractor, parser, f.logger)
}
