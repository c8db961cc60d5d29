package model

import "time"

// Config holds the complete planora configuration
type Config struct {
	Chunker     ChunkerConfig     `yaml:"chunker" mapstructure:"chunker"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
}

// ChunkerConfig controls document segmentation
type ChunkerConfig struct {
	// MaxChars is the soft cap on chunk size. A single atomic unit with no
	// natural boundary may still exceed it.
	MaxChars int `yaml:"max_chars" mapstructure:"max_chars"`
}

// ConcurrencyConfig bounds per-chunk extraction fan-out
type ConcurrencyConfig struct {
	// ExtractionWorkers caps in-flight oracle calls
	ExtractionWorkers int `yaml:"extraction_workers" mapstructure:"extraction_workers"`

	// RequestsPerSecond and Burst gate oracle call admission
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// LLMConfig holds oracle provider configuration
type LLMConfig struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string `yaml:"provider" mapstructure:"provider"`

	// Model name (provider-specific)
	Model string `yaml:"model" mapstructure:"model"`

	// APIKey for OpenAI/Anthropic
	APIKey string `yaml:"api_key" mapstructure:"api_key"`

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout for a single API request, in seconds. Large documents need a
	// long bound; the per-chunk retry loop sits on top of this.
	Timeout int `yaml:"timeout" mapstructure:"timeout"`

	// MaxTokens bounds the response length per extraction call
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`

	// RawMaxTokens bounds the single-shot whole-document call
	RawMaxTokens int `yaml:"raw_max_tokens" mapstructure:"raw_max_tokens"`

	// MaxAttempts and BackoffSeconds parameterize the retry policy
	MaxAttempts    int `yaml:"max_attempts" mapstructure:"max_attempts"`
	BackoffSeconds int `yaml:"backoff_seconds" mapstructure:"backoff_seconds"`

	// Proxy settings
	HTTPProxy  string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// StoreConfig controls plan/artifact persistence
type StoreConfig struct {
	// Dir is the local artifact directory
	Dir string `yaml:"dir" mapstructure:"dir"`

	// MemoryTTL is how long saved artifacts stay in the memory layer
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
}

// HTTPConfig controls document ingestion over HTTP
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// ServerConfig controls the HTTP boundary
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Chunker: ChunkerConfig{
			MaxChars: 1200,
		},
		Concurrency: ConcurrencyConfig{
			ExtractionWorkers: 10,
			RequestsPerSecond: 2,
			Burst:             5,
		},
		LLM: LLMConfig{
			Provider:       "openai",
			Model:          "",
			Timeout:        300,
			MaxTokens:      2048,
			RawMaxTokens:   32768,
			MaxAttempts:    3,
			BackoffSeconds: 1,
		},
		Store: StoreConfig{
			Dir:       "artifacts",
			MemoryTTL: 30 * time.Minute,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Planora/0.1 (+https://github.com/planora/planora)",
			MaxBodyBytes: 2_000_000,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}
