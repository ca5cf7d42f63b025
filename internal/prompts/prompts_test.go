package prompts

import (
	"strings"
	"testing"

	"github.com/feedlift/feedlift/internal/models"
)

func minimalProduct() models.ProductRecord {
	return models.ProductRecord{
		ProductID:   "p-1",
		Title:       "Steel Water Bottle",
		Description: "Keeps drinks cold for 24 hours.",
		Price:       29.99,
		Currency:    "USD",
		Category:    "Drinkware",
		Brand:       "Hydra",
	}
}

func TestContentOptimizationOptionalFieldsRenderNA(t *testing.T) {
	prompt := ContentOptimization(minimalProduct())

	for _, want := range []string{"SKU: N/A", "Color: N/A", "Size: N/A", "Material: N/A"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.Contains(prompt, "Price: $29.99 USD") {
		t.Errorf("prompt missing formatted price, got:\n%s", prompt)
	}
}

func TestContentOptimizationIncludesProvidedFields(t *testing.T) {
	p := minimalProduct()
	p.SKU = "HB-100"
	p.Color = "blue"
	p.Attributes = map[string]any{"capacity": "750ml", "bpa_free": true}

	prompt := ContentOptimization(p)

	if !strings.Contains(prompt, "SKU: HB-100") {
		t.Errorf("prompt missing SKU")
	}
	if !strings.Contains(prompt, "Color: blue") {
		t.Errorf("prompt missing color")
	}
	// Attributes render as compact JSON with sorted keys.
	if !strings.Contains(prompt, `{"bpa_free":true,"capacity":"750ml"}`) {
		t.Errorf("prompt missing attributes JSON, got:\n%s", prompt)
	}
}

func TestRenderingIsDeterministic(t *testing.T) {
	p := minimalProduct()
	p.Attributes = map[string]any{"a": 1, "b": 2, "c": 3}
	content := models.OptimizationContent{
		AITitle:      "Insulated Steel Bottle That Keeps Drinks Cold 24h",
		SemanticTags: []string{"insulated bottle", "keeps drinks cold"},
	}

	if ContentOptimization(p) != ContentOptimization(p) {
		t.Errorf("content prompt not deterministic")
	}
	if SchemaGeneration(p, content) != SchemaGeneration(p, content) {
		t.Errorf("schema prompt not deterministic")
	}
	if ShadowPage(p, content) != ShadowPage(p, content) {
		t.Errorf("shadow page prompt not deterministic")
	}
}

func TestSchemaGenerationEmbedsBothDocuments(t *testing.T) {
	p := minimalProduct()
	content := models.OptimizationContent{AITitle: "Better Title"}

	prompt := SchemaGeneration(p, content)

	if !strings.Contains(prompt, `"product_id": "p-1"`) {
		t.Errorf("prompt missing product JSON")
	}
	if !strings.Contains(prompt, `"ai_title": "Better Title"`) {
		t.Errorf("prompt missing optimization JSON")
	}
}
