// Package llm provides the completion client used by the optimization engine.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/feedlift/feedlift/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/bedrock"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Options control a single completion request.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// Completer is the AI-service capability consumed by the engine. A stalled
// call is bounded by the client's request timeout and surfaces as a
// service-kind APIError, never a hang.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts Options) (string, error)
}

// Client wraps a langchaingo model as a Completer.
type Client struct {
	llm       llms.Model
	modelName string
	timeout   time.Duration
}

// Compile-time check that Client implements Completer.
var _ Completer = (*Client)(nil)

// NewClient creates a completion client based on configuration.
func NewClient(ctx context.Context, cfg config.Config) (*Client, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderBedrock:
		var loadOpts []func(*awsconfig.LoadOptions) error
		if cfg.BedrockRegion != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.BedrockRegion))
		}
		awsCfg, awsErr := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if awsErr != nil {
			return nil, fmt.Errorf("load AWS config: %w", awsErr)
		}
		runtime := bedrockruntime.NewFromConfig(awsCfg)
		model, err = bedrock.New(
			bedrock.WithModel(cfg.LLMModel),
			bedrock.WithClient(runtime),
		)
		if err != nil {
			return nil, fmt.Errorf("create bedrock model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	return &Client{
		llm:       model,
		modelName: cfg.LLMModel,
		timeout:   cfg.RequestTimeout,
	}, nil
}

// Complete sends a single-prompt completion request.
func (c *Client) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	response, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt,
		llms.WithTemperature(opts.Temperature),
		llms.WithMaxTokens(opts.MaxTokens),
	)
	duration := time.Since(start)

	if err != nil {
		slog.Warn("completion failed", "model", c.modelName, "prompt_len", len(prompt), "duration_ms", duration.Milliseconds(), "error", err)
		return "", Classify(err)
	}

	slog.Debug("completion ok", "model", c.modelName, "prompt_len", len(prompt), "response_len", len(response), "duration_ms", duration.Milliseconds())
	return response, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.modelName
}
