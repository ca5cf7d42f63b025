package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/feedlift/feedlift/internal/models"
)

// stripCodeFence removes an optional markdown code fence around a JSON
// response: a leading "```json" marker and any remaining "```" sequences.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.ReplaceAll(s, "```json", "")
		s = strings.ReplaceAll(s, "```", "")
		s = strings.TrimSpace(s)
	}
	return s
}

// decodeOptimization parses the content-optimization response. The response
// is free-form JSON from the model, so every field is coerced defensively:
// absent or wrongly typed fields default to empty values rather than failing.
func decodeOptimization(raw string) (models.OptimizationContent, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &doc); err != nil {
		return models.OptimizationContent{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return models.OptimizationContent{
		AITitle:               asString(doc["ai_title"]),
		AIDescription:         asString(doc["ai_description"]),
		SemanticTags:          asStringSlice(doc["semantic_tags"]),
		UseCases:              asStringSlice(doc["use_cases"]),
		FAQContent:            asFAQItems(doc["faq_content"]),
		AISummary:             asString(doc["ai_summary"]),
		ConversationalQueries: asStringSlice(doc["conversational_queries"]),
	}, nil
}

// decodeSchema parses the schema-generation response into the three
// nullable sub-schemas.
func decodeSchema(raw string) (models.SchemaBundle, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &doc); err != nil {
		return models.SchemaBundle{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return models.SchemaBundle{
		ProductSchema: asMap(doc["product_schema"]),
		FAQSchema:     asMap(doc["faq_schema"]),
		ReviewSchema:  asMap(doc["review_schema"]),
	}, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func asFAQItems(v any) []models.FAQItem {
	items, ok := v.([]any)
	if !ok {
		return []models.FAQItem{}
	}
	out := make([]models.FAQItem, 0, len(items))
	for _, item := range items {
		pair, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, models.FAQItem{
			Question: asString(pair["question"]),
			Answer:   asString(pair["answer"]),
		})
	}
	return out
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}
