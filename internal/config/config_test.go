package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"FEEDLIFT_LLM_PROVIDER", "AI_MODEL", "ANTHROPIC_API_KEY", "MAX_TOKENS",
		"PORT", "FEEDLIFT_MAX_CONCURRENT", "FEEDLIFT_REQUEST_TIMEOUT", "FEEDLIFT_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.LLMProvider != ProviderAnthropic {
		t.Errorf("expected anthropic provider, got %s", cfg.LLMProvider)
	}
	if cfg.LLMModel != "claude-3-5-sonnet-20241022" {
		t.Errorf("unexpected default model %q", cfg.LLMModel)
	}
	if cfg.MaxTokens != 3000 {
		t.Errorf("expected 3000 max tokens, got %d", cfg.MaxTokens)
	}
	if cfg.MaxConcurrent != 3 {
		t.Errorf("expected 3 max concurrent, got %d", cfg.MaxConcurrent)
	}
	if cfg.ServerPort != "8000" {
		t.Errorf("expected port 8000, got %s", cfg.ServerPort)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info level, got %s", cfg.LogLevel)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FEEDLIFT_LLM_PROVIDER", "ollama")
	t.Setenv("AI_MODEL", "llama3")
	t.Setenv("MAX_TOKENS", "500")
	t.Setenv("FEEDLIFT_MAX_CONCURRENT", "8")
	t.Setenv("FEEDLIFT_REQUEST_TIMEOUT", "2m")
	t.Setenv("FEEDLIFT_LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.LLMProvider != ProviderOllama {
		t.Errorf("expected ollama provider, got %s", cfg.LLMProvider)
	}
	if cfg.LLMModel != "llama3" {
		t.Errorf("unexpected model %q", cfg.LLMModel)
	}
	if cfg.MaxTokens != 500 {
		t.Errorf("expected 500 max tokens, got %d", cfg.MaxTokens)
	}
	if cfg.MaxConcurrent != 8 {
		t.Errorf("expected 8 max concurrent, got %d", cfg.MaxConcurrent)
	}
	if cfg.RequestTimeout != 2*time.Minute {
		t.Errorf("expected 2m timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug level, got %s", cfg.LogLevel)
	}
}

func TestLoadWithFile(t *testing.T) {
	t.Setenv("FEEDLIFT_LLM_PROVIDER", "")
	t.Setenv("MAX_TOKENS", "")
	t.Setenv("PORT", "")

	path := filepath.Join(t.TempDir(), "feedlift.yaml")
	contents := `
llm_provider: openai
llm_model: gpt-4o
max_tokens: 2000
request_timeout: 45s
port: "9001"
`
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadWithFile(path)
	if err != nil {
		t.Fatalf("LoadWithFile: %v", err)
	}

	if cfg.LLMProvider != ProviderOpenAI {
		t.Errorf("expected openai provider, got %s", cfg.LLMProvider)
	}
	if cfg.LLMModel != "gpt-4o" {
		t.Errorf("unexpected model %q", cfg.LLMModel)
	}
	if cfg.MaxTokens != 2000 {
		t.Errorf("expected 2000 max tokens, got %d", cfg.MaxTokens)
	}
	if cfg.RequestTimeout != 45*time.Second {
		t.Errorf("expected 45s timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.ServerPort != "9001" {
		t.Errorf("expected port 9001, got %s", cfg.ServerPort)
	}
	// Untouched by the file
	if cfg.MaxConcurrent != 3 {
		t.Errorf("expected env default for max concurrent, got %d", cfg.MaxConcurrent)
	}
}

func TestLoadWithFileEmptyPath(t *testing.T) {
	cfg, err := LoadWithFile("")
	if err != nil {
		t.Fatalf("LoadWithFile: %v", err)
	}
	if cfg.ServerPort == "" {
		t.Error("expected env defaults when no file is given")
	}
}

func TestLoadWithFileBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedlift.yaml")
	if err := os.WriteFile(path, []byte("request_timeout: nonsense\n"), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	if _, err := LoadWithFile(path); err == nil {
		t.Error("expected error for bad request_timeout")
	}
}

func TestSetupLoggerWithWriters(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Info("batch finished", "batch_id", "b-1")

	if !strings.Contains(stderr.String(), "batch finished") {
		t.Error("expected message on stderr handler")
	}
	if !strings.Contains(file.String(), `"batch_id":"b-1"`) {
		t.Errorf("expected JSON output on file handler, got %s", file.String())
	}
}
