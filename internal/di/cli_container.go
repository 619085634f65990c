package di

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-doc-triage/internal/adapters/intake"
	"github.com/mikey/llm-doc-triage/internal/config"
	"github.com/mikey/llm-doc-triage/internal/factory"
	"github.com/mikey/llm-doc-triage/internal/logging"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// LLM provider flags
	Provider    string
	Endpoint    string
	Timeout     string
	MaxTokens   int
	Temperature float64
	TopP        float64
	MaxBodySize int

	// Ollama flags
	OllamaModel string

	// Bedrock flags
	BedrockRegion  string
	BedrockModelID string

	// Gemini flags
	GeminiAPIKey    string
	GeminiModelName string

	// OpenAI flags
	OpenAIAPIKey    string
	OpenAIModelName string

	// Pipeline flags
	TextRoute    string
	NoInference  bool
	LLMResponses bool
	LLMAnalysis  bool
	SchemaPath   string
	KnownDomains []string

	// Sink flags
	SinkType   string
	SQLitePath string
	MySQLDSN   string

	// Output flags
	Output     string
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// BindFlags registers the CLI flags on cmd
func BindFlags(cmd *cobra.Command, flags *CLIFlags) {
	f := cmd.Flags()

	// LLM provider flags
	f.StringVar(&flags.Provider, "provider", config.ProviderNone, "LLM provider (none, ollama, openai, gemini, bedrock)")
	f.StringVar(&flags.Endpoint, "endpoint", "", "Inference endpoint (Ollama server or OpenAI-compatible base URL)")
	f.StringVar(&flags.Timeout, "timeout", "60s", "Timeout for each inference call")
	f.IntVar(&flags.MaxTokens, "max-tokens", 1000, "Maximum tokens for LLM response")
	f.Float64Var(&flags.Temperature, "temperature", 0.1, "Temperature for LLM generation")
	f.Float64Var(&flags.TopP, "top-p", 0.9, "Top-p for LLM generation")
	f.IntVar(&flags.MaxBodySize, "max-body-size", 4096, "Maximum input size to send to the LLM")

	f.StringVar(&flags.OllamaModel, "ollama-model", "llama2", "Ollama model name")
	f.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	f.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-3-haiku-20240307-v1:0", "Bedrock model ID")
	f.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	f.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-pro", "Gemini model name")
	f.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	f.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4", "OpenAI model name")

	// Pipeline flags
	f.StringVar(&flags.TextRoute, "text-route", "text_agent", "Agent that handles plain text (text_agent, json_agent)")
	f.BoolVar(&flags.NoInference, "no-inference", false, "Classify with heuristics only")
	f.BoolVar(&flags.LLMResponses, "llm-responses", false, "Draft email replies with the LLM")
	f.BoolVar(&flags.LLMAnalysis, "llm-analysis", false, "Add an LLM analysis to JSON results")
	f.StringVar(&flags.SchemaPath, "schema", "", "JSON Schema that structured inputs are validated against")
	f.StringSliceVar(&flags.KnownDomains, "known-domains", nil, "Comma-separated list of customer domains")

	// Sink flags
	f.StringVar(&flags.SinkType, "sink", "memory", "Result sink (memory, sqlite, mysql)")
	f.StringVar(&flags.SQLitePath, "sqlite-path", "./triage_log.db", "SQLite database path")
	f.StringVar(&flags.MySQLDSN, "mysql-dsn", "", "MySQL DSN")

	// Output flags
	f.StringVarP(&flags.Output, "output", "o", "text", "Output format (text, json, yaml)")
	f.BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose logging and output")
	f.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	f.StringVarP(&flags.ConfigFile, "config", "c", "", "Path to config file (overrides the provider, pipeline and sink flags)")
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.NewFromFile(flags.ConfigFile)
			if err != nil {
				return nil, err
			}
			// Output settings always come from the command line
			cfg.GetViper().Set("cli.output", flags.Output)
			cfg.GetViper().Set("cli.verbose", flags.Verbose)
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		// Create config from command line flags
		cfg := createConfigFromFlags(flags)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid flags: %w", err)
		}
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	if err := providePipeline(container); err != nil {
		return nil, err
	}

	// Register CLI intake
	if err := container.Provide(func(f *factory.IntakeFactory) (*intake.CLIIntake, error) {
		return f.CreateCLIIntake()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	// Set some cli specific settings
	v.Set("intake.type", "cli")
	v.Set("cli.output", flags.Output)
	v.Set("cli.verbose", flags.Verbose)

	// Set LLM provider
	v.Set("llm.provider", flags.Provider)
	v.Set("llm.endpoint", flags.Endpoint)
	v.Set("llm.timeout", flags.Timeout)

	// Set provider-specific configuration
	switch flags.Provider {
	case config.ProviderOllama:
		v.Set("ollama.model_name", flags.OllamaModel)
		v.Set("ollama.temperature", flags.Temperature)
		v.Set("ollama.max_body_size", flags.MaxBodySize)
	case config.ProviderBedrock:
		v.Set("bedrock.region", flags.BedrockRegion)
		v.Set("bedrock.model_id", flags.BedrockModelID)
		v.Set("bedrock.max_tokens", flags.MaxTokens)
		v.Set("bedrock.temperature", flags.Temperature)
		v.Set("bedrock.top_p", flags.TopP)
		v.Set("bedrock.max_body_size", flags.MaxBodySize)
	case config.ProviderGemini:
		v.Set("gemini.api_key", flags.GeminiAPIKey)
		v.Set("gemini.model_name", flags.GeminiModelName)
		v.Set("gemini.max_tokens", flags.MaxTokens)
		v.Set("gemini.temperature", flags.Temperature)
		v.Set("gemini.top_p", flags.TopP)
		v.Set("gemini.max_body_size", flags.MaxBodySize)
	case config.ProviderOpenAI:
		v.Set("openai.api_key", flags.OpenAIAPIKey)
		v.Set("openai.model_name", flags.OpenAIModelName)
		v.Set("openai.max_tokens", flags.MaxTokens)
		v.Set("openai.temperature", flags.Temperature)
		v.Set("openai.top_p", flags.TopP)
		v.Set("openai.max_body_size", flags.MaxBodySize)
	}

	// Set pipeline and agent settings
	v.Set("pipeline.text_route", flags.TextRoute)
	v.Set("classifier.use_inference", !flags.NoInference)
	v.Set("email_agent.llm_responses", flags.LLMResponses)
	v.Set("json_agent.llm_analysis", flags.LLMAnalysis)
	v.Set("json_agent.schema_path", flags.SchemaPath)
	if flags.KnownDomains != nil {
		v.Set("email_agent.known_domains", flags.KnownDomains)
	}

	// Set sink
	v.Set("sink.type", flags.SinkType)
	v.Set("sink.sqlite_path", flags.SQLitePath)
	if flags.MySQLDSN != "" {
		v.Set("sink.mysql_dsn", flags.MySQLDSN)
	}

	return config.NewFromViper(v)
}
