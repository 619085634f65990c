package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-doc-triage/internal/agents/emailagent"
	"github.com/mikey/llm-doc-triage/internal/agents/jsonagent"
	"github.com/mikey/llm-doc-triage/internal/agents/textagent"
	"github.com/mikey/llm-doc-triage/internal/classifier"
	"github.com/mikey/llm-doc-triage/internal/config"
	"github.com/mikey/llm-doc-triage/internal/core"
	"github.com/mikey/llm-doc-triage/internal/factory"
	"github.com/mikey/llm-doc-triage/internal/logging"
	"github.com/mikey/llm-doc-triage/internal/pipeline"
	"github.com/mikey/llm-doc-triage/internal/ports"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := providePipeline(container); err != nil {
		return nil, err
	}

	// Register intake
	if err := container.Provide(func(f *factory.IntakeFactory) (ports.Intake, error) {
		return f.CreateIntake()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// providePipeline registers everything between the configuration and the
// intake: factories, the inference backend, agents, sink and router. It
// expects *config.Config and *zap.Logger to be provided already.
func providePipeline(container *dig.Container) error {
	// Register factories
	for _, constructor := range []any{
		factory.NewLLMFactory,
		factory.NewSinkFactory,
		factory.NewAgentFactory,
		factory.NewIntakeFactory,
	} {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	// Register LLM client, nil when no provider is configured
	if err := container.Provide(func(f *factory.LLMFactory) (core.LLMClient, error) {
		return f.CreateLLMClient()
	}); err != nil {
		return err
	}

	// Register sink
	if err := container.Provide(func(f *factory.SinkFactory) (core.Sink, error) {
		return f.CreateSink()
	}); err != nil {
		return err
	}

	// Register classifier and agents
	if err := container.Provide(func(f *factory.AgentFactory) *classifier.Classifier {
		return f.CreateClassifier()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.AgentFactory) (*jsonagent.Agent, error) {
		return f.CreateJSONAgent()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.AgentFactory) *emailagent.Agent {
		return f.CreateEmailAgent()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.AgentFactory) *textagent.Agent {
		return f.CreateTextAgent()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.AgentFactory) core.EmailParser {
		return f.CreateEmailParser()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.AgentFactory, parser core.EmailParser) *pipeline.Loader {
		return f.CreateLoader(parser)
	}); err != nil {
		return err
	}

	// Register router
	if err := container.Provide(func(
		loader *pipeline.Loader,
		c *classifier.Classifier,
		jsonAgent *jsonagent.Agent,
		emailAgent *emailagent.Agent,
		textAgent *textagent.Agent,
		sinkFactory *factory.SinkFactory,
		sink core.Sink,
		logger *zap.Logger,
	) *pipeline.Router {
		if !sinkFactory.IsPersistEnabled() {
			logger.Info("Result persistence disabled")
			sink = nil
		}
		return pipeline.NewRouter(loader, c, jsonAgent, emailAgent, textAgent, sink, logger)
	}); err != nil {
		return err
	}
	return container.Provide(func(r *pipeline.Router) ports.Pipeline {
		return r
	})
}
