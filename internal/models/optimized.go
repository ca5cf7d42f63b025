package models

import "time"

// FAQItem is one question/answer pair generated for a product.
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SchemaBundle holds the JSON-LD sub-schemas for a product. Any of the
// three may be nil when the generator could not produce it.
type SchemaBundle struct {
	ProductSchema map[string]any `json:"product_schema"`
	FAQSchema     map[string]any `json:"faq_schema"`
	ReviewSchema  map[string]any `json:"review_schema"`
}

// PageMeta carries the locally derived page metadata for a shadow page.
type PageMeta struct {
	MetaTitle           string `json:"meta_title"`
	MetaDescription     string `json:"meta_description"`
	CanonicalURL        string `json:"canonical_url"`
	ShadowURL           string `json:"shadow_url"`
	Robots              string `json:"robots"`
	LastOptimized       string `json:"last_optimized"`
	OptimizationVersion string `json:"optimization_version"`
}

// OptimizationContent is the parsed payload of the content-optimization
// completion. The AI response is free-form JSON; absent fields decode to
// empty strings and empty slices.
type OptimizationContent struct {
	AITitle               string    `json:"ai_title"`
	AIDescription         string    `json:"ai_description"`
	SemanticTags          []string  `json:"semantic_tags"`
	UseCases              []string  `json:"use_cases"`
	FAQContent            []FAQItem `json:"faq_content"`
	AISummary             string    `json:"ai_summary"`
	ConversationalQueries []string  `json:"conversational_queries"`
}

// OptimizedResult is the output of one successful product optimization.
// A result correlates to exactly one ProductRecord via ProductID and is
// never mutated after construction.
type OptimizedResult struct {
	ProductID             string       `json:"product_id"`
	AITitle               string       `json:"ai_title"`
	AIDescription         string       `json:"ai_description"`
	AISummary             string       `json:"ai_summary"`
	SemanticTags          []string     `json:"semantic_tags"`
	UseCases              []string     `json:"use_cases"`
	ConversationalQueries []string     `json:"conversational_queries"`
	FAQContent            []FAQItem    `json:"faq_content"`
	JSONLDSchema          SchemaBundle `json:"json_ld_schema"`
	ShadowPageContent     string       `json:"shadow_page_content"`
	MetaData              PageMeta     `json:"meta_data"`
	OptimizationScore     float64      `json:"optimization_score"`
	OptimizationTimestamp time.Time    `json:"optimization_timestamp"`
}
