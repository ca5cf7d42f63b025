package engine

import (
	"fmt"
	"time"

	"github.com/feedlift/feedlift/internal/models"
)

const (
	metaTitleLimit = 60
	metaDescLimit  = 160

	canonicalPathTemplate = "/products/%s"
	shadowPathTemplate    = "/ai-summary/%s"

	robotsDirective     = "noindex,follow"
	optimizationVersion = "1.0"
)

// buildPageMeta derives page metadata locally; no AI call is involved.
func buildPageMeta(p models.ProductRecord, content models.OptimizationContent, now time.Time) models.PageMeta {
	title := content.AITitle
	if title == "" {
		title = p.Title
	}

	return models.PageMeta{
		MetaTitle:           truncate(title, metaTitleLimit),
		MetaDescription:     truncate(content.AISummary, metaDescLimit),
		CanonicalURL:        fmt.Sprintf(canonicalPathTemplate, p.ProductID),
		ShadowURL:           fmt.Sprintf(shadowPathTemplate, p.ProductID),
		Robots:              robotsDirective,
		LastOptimized:       now.Format(time.RFC3339),
		OptimizationVersion: optimizationVersion,
	}
}

// truncate limits a string to max characters, counting runes so multi-byte
// titles are not cut mid-character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
