package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/llm-doc-triage/")
	v.AddConfigPath("$HOME/.llm-doc-triage")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("DOC_TRIAGE")
	v.SetEnvKeyReplacer(envReplacer())

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	cfg := &Config{v: v}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewFromFile creates a configuration instance from an explicit file
func NewFromFile(path string) (*Config, error) {
	v := NewEmptyViper()
	v.SetConfigFile(path)
	v.AutomaticEnv()
	v.SetEnvPrefix("DOC_TRIAGE")
	v.SetEnvKeyReplacer(envReplacer())
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{v: v}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envReplacer maps nested keys to environment variable names
func envReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Inference defaults
	v.SetDefault("llm.provider", ProviderNone)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.endpoint", "")

	// Ollama defaults
	v.SetDefault("ollama.model_name", "llama2")
	v.SetDefault("ollama.temperature", 0.0)
	v.SetDefault("ollama.max_body_size", 4096)

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model_name", "gpt-4")
	v.SetDefault("openai.max_tokens", 1000)
	v.SetDefault("openai.temperature", 0.1)
	v.SetDefault("openai.top_p", 0.9)
	v.SetDefault("openai.max_body_size", 4096)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-pro")
	v.SetDefault("gemini.max_tokens", 1000)
	v.SetDefault("gemini.temperature", 0.1)
	v.SetDefault("gemini.top_p", 0.9)
	v.SetDefault("gemini.max_body_size", 4096)

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-3-haiku-20240307-v1:0")
	v.SetDefault("bedrock.max_tokens", 1000)
	v.SetDefault("bedrock.temperature", 0.1)
	v.SetDefault("bedrock.top_p", 0.9)
	v.SetDefault("bedrock.max_body_size", 4096)

	// Pipeline defaults
	v.SetDefault("pipeline.text_route", "text_agent")
	v.SetDefault("pipeline.persist", true)
	v.SetDefault("pipeline.pdftotext_path", "pdftotext")

	// Agent defaults
	v.SetDefault("classifier.use_inference", true)
	v.SetDefault("json_agent.schema_path", "")
	v.SetDefault("json_agent.llm_analysis", false)
	v.SetDefault("email_agent.llm_responses", false)
	v.SetDefault("email_agent.signature", "Best regards,\nCustomer Success Team")
	v.SetDefault("email_agent.known_domains", []string{})

	// Sink defaults
	v.SetDefault("sink.type", "memory")
	v.SetDefault("sink.sqlite_path", "/data/triage_log.db")
	v.SetDefault("sink.mysql_dsn", "user:password@tcp(localhost:3306)/doc_triage")

	// Intake defaults
	v.SetDefault("intake.type", "smtp")
	v.SetDefault("intake.listen_address", "0.0.0.0:10025")
	v.SetDefault("intake.domain", "localhost")
	v.SetDefault("intake.forward.enabled", false)
	v.SetDefault("intake.forward.address", "127.0.0.1")
	v.SetDefault("intake.forward.port", 10026)
	v.SetDefault("intake.headers.route", "X-Triage-Route")
	v.SetDefault("intake.headers.intent", "X-Triage-Intent")
	v.SetDefault("intake.headers.urgency", "X-Triage-Urgency")

	// CLI defaults
	v.SetDefault("cli.output", "text")
	v.SetDefault("cli.verbose", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate rejects settings that would make routing or wiring ambiguous
func (c *Config) Validate() error {
	switch c.GetString("llm.provider") {
	case ProviderNone, ProviderOllama, ProviderOpenAI, ProviderGemini, ProviderBedrock:
	default:
		return fmt.Errorf("unsupported LLM provider: %s", c.GetString("llm.provider"))
	}

	switch c.GetString("pipeline.text_route") {
	case "text_agent", "json_agent":
	default:
		return fmt.Errorf("unsupported text route: %s", c.GetString("pipeline.text_route"))
	}

	switch c.GetString("sink.type") {
	case "memory", "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported sink type: %s", c.GetString("sink.type"))
	}

	switch c.GetString("intake.type") {
	case "smtp", "cli":
	default:
		return fmt.Errorf("unsupported intake type: %s", c.GetString("intake.type"))
	}

	switch c.GetString("cli.output") {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unsupported output format: %s", c.GetString("cli.output"))
	}

	if _, err := c.GetDuration("llm.timeout"); err != nil {
		return fmt.Errorf("invalid llm timeout: %w", err)
	}
	return nil
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
