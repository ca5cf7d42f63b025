package engine

import (
	"math"
	"testing"

	"github.com/feedlift/feedlift/internal/models"
)

func TestScore(t *testing.T) {
	full := models.OptimizationContent{
		AITitle:               "t",
		AIDescription:         "d",
		SemanticTags:          []string{"a"},
		UseCases:              []string{"b"},
		FAQContent:            []models.FAQItem{{Question: "q", Answer: "a"}},
		AISummary:             "s",
		ConversationalQueries: []string{"c"},
	}

	tests := []struct {
		name    string
		content models.OptimizationContent
		want    float64
	}{
		{"all fields absent", models.OptimizationContent{}, 0.0},
		{"all fields present", full, 1.0},
		{"title only", models.OptimizationContent{AITitle: "t"}, 0.20},
		{"description only", models.OptimizationContent{AIDescription: "d"}, 0.20},
		{"tags only", models.OptimizationContent{SemanticTags: []string{"a"}}, 0.15},
		{"use cases only", models.OptimizationContent{UseCases: []string{"a"}}, 0.15},
		{"faq only", models.OptimizationContent{FAQContent: []models.FAQItem{{}}}, 0.15},
		{"queries only", models.OptimizationContent{ConversationalQueries: []string{"a"}}, 0.15},
		{
			"title and tags",
			models.OptimizationContent{AITitle: "t", SemanticTags: []string{"a"}},
			0.35,
		},
		{
			"summary does not count",
			models.OptimizationContent{AISummary: "s"},
			0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.content)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("Score() = %v, outside [0, 1]", got)
			}
		})
	}
}

func TestScoreExactBounds(t *testing.T) {
	// The six weights accumulate in floating point; the defensive clamp must
	// make the full score exactly 1.0 and the empty score exactly 0.0.
	full := models.OptimizationContent{
		AITitle:               "t",
		AIDescription:         "d",
		SemanticTags:          []string{"a"},
		UseCases:              []string{"b"},
		FAQContent:            []models.FAQItem{{}},
		ConversationalQueries: []string{"c"},
	}
	if got := Score(full); got != 1.0 {
		t.Errorf("Score(full) = %v, want exactly 1.0", got)
	}
	if got := Score(models.OptimizationContent{}); got != 0.0 {
		t.Errorf("Score(empty) = %v, want exactly 0.0", got)
	}
}
