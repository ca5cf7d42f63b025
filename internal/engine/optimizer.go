// Package engine orchestrates AI-driven product optimization: prompt
// rendering, completion calls, response parsing, fallbacks, scoring and
// bounded-concurrency batch fan-out.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/feedlift/feedlift/internal/llm"
	"github.com/feedlift/feedlift/internal/metrics"
	"github.com/feedlift/feedlift/internal/models"
	"github.com/feedlift/feedlift/internal/prompts"
)

// Sampling temperatures per generation stage.
const (
	tempContent = 0.3
	tempSchema  = 0.2
	tempShadow  = 0.4
)

// DefaultMaxTokens bounds completion output size when not configured.
const DefaultMaxTokens = 3000

// Engine runs product optimizations against a Completer.
type Engine struct {
	completer llm.Completer
	collector *metrics.Collector
	maxTokens int
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxTokens sets the maximum completion output size.
func WithMaxTokens(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxTokens = n
		}
	}
}

// WithMetrics wires a metrics collector into the engine.
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Engine) { e.collector = c }
}

// WithClock overrides the time source (for tests).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an optimization engine.
func New(completer llm.Completer, opts ...Option) *Engine {
	e := &Engine{
		completer: completer,
		maxTokens: DefaultMaxTokens,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OptimizeProduct runs the full optimization pipeline for one product.
// The content stage propagates every failure as a *Failure; the schema and
// shadow-page stages degrade to deterministic local fallbacks instead of
// failing the operation.
func (e *Engine) OptimizeProduct(ctx context.Context, product models.ProductRecord) (*models.OptimizedResult, error) {
	slog.Info("starting optimization", "product_id", product.ProductID)

	content, err := e.generateContent(ctx, product)
	if err != nil {
		slog.Error("optimization failed", "product_id", product.ProductID, "error", err)
		return nil, &Failure{ProductID: product.ProductID, Err: err}
	}

	schema := e.generateSchema(ctx, product, content)
	shadow := e.generateShadowPage(ctx, product, content)
	meta := buildPageMeta(product, content, e.now())

	result := &models.OptimizedResult{
		ProductID:             product.ProductID,
		AITitle:               content.AITitle,
		AIDescription:         content.AIDescription,
		AISummary:             content.AISummary,
		SemanticTags:          content.SemanticTags,
		UseCases:              content.UseCases,
		ConversationalQueries: content.ConversationalQueries,
		FAQContent:            content.FAQContent,
		JSONLDSchema:          schema,
		ShadowPageContent:     shadow,
		MetaData:              meta,
		OptimizationScore:     Score(content),
		OptimizationTimestamp: e.now(),
	}

	slog.Info("optimization complete", "product_id", product.ProductID, "score", result.OptimizationScore)
	return result, nil
}

// generateContent runs the content-optimization stage. Transport failures
// arrive pre-classified from the Completer; parse failures surface as
// ErrInvalidResponse. Everything propagates.
func (e *Engine) generateContent(ctx context.Context, product models.ProductRecord) (models.OptimizationContent, error) {
	prompt := prompts.ContentOptimization(product)

	start := time.Now()
	raw, err := e.completer.Complete(ctx, prompt, llm.Options{Temperature: tempContent, MaxTokens: e.maxTokens})
	if err != nil {
		e.collector.RecordFailure(metrics.OpLLMContent)
		return models.OptimizationContent{}, err
	}
	e.collector.RecordTiming(metrics.OpLLMContent, time.Since(start))

	return decodeOptimization(raw)
}

// generateSchema runs the schema stage with a never-failing fallback.
func (e *Engine) generateSchema(ctx context.Context, product models.ProductRecord, content models.OptimizationContent) models.SchemaBundle {
	prompt := prompts.SchemaGeneration(product, content)

	start := time.Now()
	raw, err := e.completer.Complete(ctx, prompt, llm.Options{Temperature: tempSchema, MaxTokens: e.maxTokens})
	if err == nil {
		var schema models.SchemaBundle
		schema, err = decodeSchema(raw)
		if err == nil {
			e.collector.RecordTiming(metrics.OpLLMSchema, time.Since(start))
			return schema
		}
	}

	e.collector.RecordFailure(metrics.OpLLMSchema)
	slog.Warn("schema generation failed, using fallback", "product_id", product.ProductID, "error", err)
	return basicSchema(product, content)
}

// generateShadowPage runs the shadow-page stage; the raw response is used
// verbatim. Failures fall back to a locally built HTML fragment.
func (e *Engine) generateShadowPage(ctx context.Context, product models.ProductRecord, content models.OptimizationContent) string {
	prompt := prompts.ShadowPage(product, content)

	start := time.Now()
	raw, err := e.completer.Complete(ctx, prompt, llm.Options{Temperature: tempShadow, MaxTokens: e.maxTokens})
	if err != nil {
		e.collector.RecordFailure(metrics.OpLLMShadow)
		slog.Warn("shadow page generation failed, using fallback", "product_id", product.ProductID, "error", err)
		return basicShadowPage(product, content)
	}

	e.collector.RecordTiming(metrics.OpLLMShadow, time.Since(start))
	return raw
}
