// internal/common/config/config.go
package config

import (
	"strings"
	"time"
)

// Config is the main application configuration struct. It is built once at
// process start and treated as read-only afterwards.
type Config struct {
	App        AppConfig               `mapstructure:"app"`
	Camunda    CamundaConfig           `mapstructure:"camunda"`
	LLM        LLMConfig               `mapstructure:"llm"`
	Search     SearchConfig            `mapstructure:"search"`
	Cache      CacheConfig             `mapstructure:"cache"`
	Generation GenerationConfig        `mapstructure:"generation"`
	Workers    map[string]WorkerConfig `mapstructure:"workers"`
	Logging    LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// LLMConfig holds settings for the text-generation service.
type LLMConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	Deployment string `mapstructure:"deployment"`
	APIVersion string `mapstructure:"api_version"`
	APIKey     string `mapstructure:"api_key"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
	MaxRetries int    `mapstructure:"max_retries"`
}

// SearchConfig holds settings for retrieval-augmented calls. A scope is a
// semantic-configuration name; the knowledge index a call searches is derived
// from it.
type SearchConfig struct {
	Endpoint      string `mapstructure:"endpoint"`
	DefaultScope  string `mapstructure:"default_scope"`
	InternalScope string `mapstructure:"internal_scope"`
	TopDocuments  int    `mapstructure:"top_documents"`
	Strictness    int    `mapstructure:"strictness"`
}

// ScopeOrDefault resolves an optional caller-supplied scope to the configured
// default scope.
func (s SearchConfig) ScopeOrDefault(scope string) string {
	if scope == "" {
		return s.DefaultScope
	}
	return scope
}

// IndexForScope derives the knowledge index name from a semantic
// configuration name.
func IndexForScope(scope string) string {
	return strings.TrimSuffix(scope, "-semantic-configuration")
}

// CacheConfig holds Redis settings for the terminology-definition cache.
type CacheConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTL      int    `mapstructure:"ttl"` // seconds
}

// GenerationConfig holds token/temperature budgets for the pipeline stages.
type GenerationConfig struct {
	MaxTokens            int     `mapstructure:"max_tokens"`
	Temperature          float64 `mapstructure:"temperature"`
	SearchMaxTokens      int     `mapstructure:"search_max_tokens"`
	SearchTemperature    float64 `mapstructure:"search_temperature"`
	LookupMaxTokens      int     `mapstructure:"lookup_max_tokens"`
	BulkMaxTokens        int     `mapstructure:"bulk_max_tokens"`
	RetrievalParallelism int     `mapstructure:"retrieval_parallelism"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
