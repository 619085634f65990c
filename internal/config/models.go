package config

import (
	"time"
)

// Supported inference providers
const (
	ProviderNone    = "none"
	ProviderOllama  = "ollama"
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
	ProviderBedrock = "bedrock"
)

// LLMConfig represents the provider-independent inference settings
type LLMConfig struct {
	Provider string
	Timeout  time.Duration
	Endpoint string
}

// OllamaConfig represents the configuration for a local Ollama server
type OllamaConfig struct {
	ModelName   string
	Temperature float32
	MaxBodySize int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// PipelineConfig represents the router settings
type PipelineConfig struct {
	TextRoute     string
	Persist       bool
	PdftotextPath string
}

// JSONAgentConfig represents the JSON agent settings
type JSONAgentConfig struct {
	SchemaPath  string
	LLMAnalysis bool
}

// EmailAgentConfig represents the email agent settings
type EmailAgentConfig struct {
	LLMResponses bool
	Signature    string
	KnownDomains []string
}

// SinkConfig represents the audit sink settings
type SinkConfig struct {
	Type       string
	SQLitePath string
	MySQLDSN   string
}

// IntakeConfig represents the inbound intake settings
type IntakeConfig struct {
	Type           string
	ListenAddress  string
	Domain         string
	ForwardEnabled bool
	ForwardAddress string
	ForwardPort    int
	RouteHeader    string
	IntentHeader   string
	UrgencyHeader  string
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	timeout, err := c.GetDuration("llm.timeout")
	if err != nil || timeout <= 0 {
		timeout = 60 * time.Second
	}
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
		Timeout:  timeout,
		Endpoint: c.GetString("llm.endpoint"),
	}
}

// GetOllama returns the Ollama configuration
func (c *Config) GetOllama() OllamaConfig {
	return OllamaConfig{
		ModelName:   c.GetString("ollama.model_name"),
		Temperature: float32(c.GetFloat64("ollama.temperature")),
		MaxBodySize: c.GetInt("ollama.max_body_size"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}

// GetPipeline returns the pipeline configuration
func (c *Config) GetPipeline() PipelineConfig {
	return PipelineConfig{
		TextRoute:     c.GetString("pipeline.text_route"),
		Persist:       c.GetBool("pipeline.persist"),
		PdftotextPath: c.GetString("pipeline.pdftotext_path"),
	}
}

// UseInferenceForClassification reports whether the classifier may consult a backend
func (c *Config) UseInferenceForClassification() bool {
	return c.GetBool("classifier.use_inference")
}

// GetJSONAgent returns the JSON agent configuration
func (c *Config) GetJSONAgent() JSONAgentConfig {
	return JSONAgentConfig{
		SchemaPath:  c.GetString("json_agent.schema_path"),
		LLMAnalysis: c.GetBool("json_agent.llm_analysis"),
	}
}

// GetEmailAgent returns the email agent configuration
func (c *Config) GetEmailAgent() EmailAgentConfig {
	return EmailAgentConfig{
		LLMResponses: c.GetBool("email_agent.llm_responses"),
		Signature:    c.GetString("email_agent.signature"),
		KnownDomains: c.GetStringSlice("email_agent.known_domains"),
	}
}

// GetSink returns the sink configuration
func (c *Config) GetSink() SinkConfig {
	return SinkConfig{
		Type:       c.GetString("sink.type"),
		SQLitePath: c.GetString("sink.sqlite_path"),
		MySQLDSN:   c.GetString("sink.mysql_dsn"),
	}
}

// GetIntake returns the intake configuration
func (c *Config) GetIntake() IntakeConfig {
	return IntakeConfig{
		Type:           c.GetString("intake.type"),
		ListenAddress:  c.GetString("intake.listen_address"),
		Domain:         c.GetString("intake.domain"),
		ForwardEnabled: c.GetBool("intake.forward.enabled"),
		ForwardAddress: c.GetString("intake.forward.address"),
		ForwardPort:    c.GetInt("intake.forward.port"),
		RouteHeader:    c.GetString("intake.headers.route"),
		IntentHeader:   c.GetString("intake.headers.intent"),
		UrgencyHeader:  c.GetString("intake.headers.urgency"),
	}
}
