package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Category identifies a product category. It selects which schema, prompt,
// and normalizer apply to an enrichment run.
type Category string

const (
	CategorySupplement    Category = "supplement"
	CategoryFacialProduct Category = "facial_product"
	CategoryEquipment     Category = "equipment"
)

// Categories lists all known categories in stable order.
func Categories() []Category {
	return []Category{CategorySupplement, CategoryFacialProduct, CategoryEquipment}
}

// ParseCategory validates a raw category string.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories() {
		if c == known {
			return c, nil
		}
	}
	return "", eris.Errorf("model: unknown category %q", s)
}

// Request is a single product reference to enrich. It is immutable for the
// lifetime of a pipeline run.
type Request struct {
	ProductName  string         `json:"product_name"`
	Brand        string         `json:"brand,omitempty"`
	ProductURL   string         `json:"product_url,omitempty"`
	Category     Category       `json:"category"`
	ExistingData map[string]any `json:"existing_data,omitempty"`
}

// BatchItem is one entry in a batch enrichment input.
type BatchItem struct {
	Name     string `json:"name"`
	Brand    string `json:"brand,omitempty"`
	URL      string `json:"url,omitempty"`
	Category string `json:"category"`
}

// Request converts a batch item into a pipeline request. Category validity
// is checked by the pipeline, not here, so invalid items still produce a
// terminal per-item result instead of aborting the batch.
func (b BatchItem) Request() Request {
	return Request{
		ProductName: strings.TrimSpace(b.Name),
		Brand:       strings.TrimSpace(b.Brand),
		ProductURL:  strings.TrimSpace(b.URL),
		Category:    Category(strings.ToLower(strings.TrimSpace(b.Category))),
	}
}
