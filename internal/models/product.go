// Package models defines the catalog input and optimization output types.
package models

// DefaultCurrency is applied when a product record omits its currency.
const DefaultCurrency = "USD"

// DefaultAvailability is applied when a product record omits availability.
const DefaultAvailability = "in_stock"

// ProductRecord is a single catalog item submitted for optimization.
// Records are treated as immutable once constructed; ApplyDefaults is the
// only sanctioned mutation and runs before the record enters the engine.
type ProductRecord struct {
	ProductID   string  `json:"product_id" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Category    string  `json:"category" binding:"required"`
	Brand       string  `json:"brand" binding:"required"`

	Attributes      map[string]any   `json:"attributes,omitempty"`
	Images          []string         `json:"images,omitempty"`
	ExistingReviews []map[string]any `json:"existing_reviews,omitempty"`
	Tags            []string         `json:"tags,omitempty"`

	SKU          string   `json:"sku,omitempty"`
	Availability string   `json:"availability,omitempty"`
	Weight       *float64 `json:"weight,omitempty"`
	Color        string   `json:"color,omitempty"`
	Size         string   `json:"size,omitempty"`
	Material     string   `json:"material,omitempty"`
}

// ApplyDefaults fills currency and availability when the caller left them empty.
func (p *ProductRecord) ApplyDefaults() {
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	if p.Availability == "" {
		p.Availability = DefaultAvailability
	}
}
