package engine

import "github.com/feedlift/feedlift/internal/models"

// Scoring weights. They sum to exactly 1.0; the clamp in Score is a
// defensive bound, not normally triggered.
const (
	weightTitle   = 0.20
	weightDesc    = 0.20
	weightTags    = 0.15
	weightUseCase = 0.15
	weightFAQ     = 0.15
	weightQueries = 0.15
)

// Score computes the optimization score for parsed content. It is a pure
// presence heuristic: each non-empty field adds its fixed weight. It says
// nothing about content quality.
func Score(c models.OptimizationContent) float64 {
	score := 0.0
	if c.AITitle != "" {
		score += weightTitle
	}
	if c.AIDescription != "" {
		score += weightDesc
	}
	if len(c.SemanticTags) > 0 {
		score += weightTags
	}
	if len(c.UseCases) > 0 {
		score += weightUseCase
	}
	if len(c.FAQContent) > 0 {
		score += weightFAQ
	}
	if len(c.ConversationalQueries) > 0 {
		score += weightQueries
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}
