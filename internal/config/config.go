// Package config loads feedlift configuration from the environment with an
// optional YAML overlay file for server deployments.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider identifies the LLM backend used for completions.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderOllama    Provider = "ollama"
	ProviderBedrock   Provider = "bedrock"
)

// Config holds all configuration values.
type Config struct {
	// LLM backend
	LLMProvider     Provider
	LLMModel        string
	AnthropicAPIKey string
	OpenAIAPIKey    string
	OllamaHost      string
	BedrockRegion   string
	MaxTokens       int
	RequestTimeout  time.Duration

	// Batch processing
	MaxConcurrent int

	// HTTP server
	ServerPort string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
// ANTHROPIC_API_KEY, AI_MODEL and MAX_TOKENS keep the names the original
// deployment used; everything else is FEEDLIFT_-prefixed.
func Load() Config {
	return Config{
		LLMProvider:     Provider(getEnv("FEEDLIFT_LLM_PROVIDER", string(ProviderAnthropic))),
		LLMModel:        getEnv("AI_MODEL", "claude-3-5-sonnet-20241022"),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		BedrockRegion:   getEnv("AWS_REGION", ""),
		MaxTokens:       getEnvInt("MAX_TOKENS", 3000),
		RequestTimeout:  getEnvDuration("FEEDLIFT_REQUEST_TIMEOUT", 30*time.Second),

		MaxConcurrent: getEnvInt("FEEDLIFT_MAX_CONCURRENT", 3),

		ServerPort: getEnv("PORT", "8000"),

		LogFile:  getEnv("FEEDLIFT_LOG_FILE", "/tmp/feedlift.log"),
		LogLevel: parseLogLevel(getEnv("FEEDLIFT_LOG_LEVEL", "INFO")),
	}
}

// fileConfig mirrors the YAML overlay file. Zero values leave the
// corresponding environment-derived setting untouched.
type fileConfig struct {
	LLMProvider    string `yaml:"llm_provider"`
	LLMModel       string `yaml:"llm_model"`
	OllamaHost     string `yaml:"ollama_host"`
	BedrockRegion  string `yaml:"bedrock_region"`
	MaxTokens      int    `yaml:"max_tokens"`
	RequestTimeout string `yaml:"request_timeout"`
	MaxConcurrent  int    `yaml:"max_concurrent"`
	ServerPort     string `yaml:"port"`
	LogFile        string `yaml:"log_file"`
	LogLevel       string `yaml:"log_level"`
}

// LoadWithFile loads the environment configuration and overlays values from
// a YAML file. API keys are deliberately env-only and cannot appear in the file.
func LoadWithFile(path string) (Config, error) {
	cfg := Load()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}

	if fc.LLMProvider != "" {
		cfg.LLMProvider = Provider(fc.LLMProvider)
	}
	if fc.LLMModel != "" {
		cfg.LLMModel = fc.LLMModel
	}
	if fc.OllamaHost != "" {
		cfg.OllamaHost = fc.OllamaHost
	}
	if fc.BedrockRegion != "" {
		cfg.BedrockRegion = fc.BedrockRegion
	}
	if fc.MaxTokens > 0 {
		cfg.MaxTokens = fc.MaxTokens
	}
	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil {
			return cfg, fmt.Errorf("parse request_timeout: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if fc.MaxConcurrent > 0 {
		cfg.MaxConcurrent = fc.MaxConcurrent
	}
	if fc.ServerPort != "" {
		cfg.ServerPort = fc.ServerPort
	}
	if fc.LogFile != "" {
		cfg.LogFile = fc.LogFile
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = parseLogLevel(fc.LogLevel)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
