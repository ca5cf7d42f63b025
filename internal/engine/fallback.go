package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/feedlift/feedlift/internal/models"
)

// basicSchema builds the deterministic minimal schema used when the
// schema-generation call fails for any reason. It must never fail.
func basicSchema(p models.ProductRecord, content models.OptimizationContent) models.SchemaBundle {
	name := content.AITitle
	if name == "" {
		name = p.Title
	}
	description := content.AIDescription
	if description == "" {
		description = p.Description
	}

	return models.SchemaBundle{
		ProductSchema: map[string]any{
			"@context":    "https://schema.org/",
			"@type":       "Product",
			"name":        name,
			"description": description,
			"brand": map[string]any{
				"@type": "Brand",
				"name":  p.Brand,
			},
			"offers": map[string]any{
				"@type":         "Offer",
				"price":         strconv.FormatFloat(p.Price, 'f', -1, 64),
				"priceCurrency": p.Currency,
			},
		},
		FAQSchema:    nil,
		ReviewSchema: nil,
	}
}

// basicShadowPage builds the deterministic HTML fragment used when the
// shadow-page call fails for any reason.
func basicShadowPage(p models.ProductRecord, content models.OptimizationContent) string {
	title := content.AITitle
	if title == "" {
		title = p.Title
	}
	description := content.AIDescription
	if description == "" {
		description = p.Description
	}

	var items strings.Builder
	for _, useCase := range content.UseCases {
		items.WriteString(fmt.Sprintf("<li>%s</li>", useCase))
	}

	return fmt.Sprintf(`<div class="ai-optimized-content">
  <h1>%s</h1>
  <p>%s</p>
  <h2>Perfect For:</h2>
  <ul>%s</ul>
</div>`, title, description, items.String())
}
