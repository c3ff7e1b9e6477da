package schema

import (
	"github.com/rotisserie/eris"

	"github.com/shelfsense/enrich-cli/internal/model"
)

// PurchaseURLField is the auxiliary field filled from a fallback answer's
// source URL when no purchase link was extracted in the primary pass.
const PurchaseURLField = "purchase_url"

// FieldSpec describes one required field of a category: its record key and
// a human-readable description used to phrase fallback search queries.
type FieldSpec struct {
	Key         string `json:"key" yaml:"key"`
	Description string `json:"description" yaml:"description"`
}

// Schema holds everything category-specific the pipeline needs: the ordered
// required-field list, the extraction instructions sent as the system
// prompt, and the normalization rule. One instance per category, created at
// process start, never mutated.
type Schema struct {
	Category     model.Category
	Fields       []FieldSpec
	Instructions string
	Normalize    func(model.Record) model.Record
}

// FieldKeys returns the required field keys in schema-declared order.
func (s *Schema) FieldKeys() []string {
	keys := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		keys[i] = f.Key
	}
	return keys
}

// Field returns the FieldSpec for a key, or nil if the key is not required.
func (s *Schema) Field(key string) *FieldSpec {
	for i := range s.Fields {
		if s.Fields[i].Key == key {
			return &s.Fields[i]
		}
	}
	return nil
}

// Registry is a read-only lookup table from category to schema.
type Registry struct {
	byCategory map[model.Category]*Schema
	order      []model.Category
}

// NewRegistry indexes the given schemas.
func NewRegistry(schemas ...*Schema) *Registry {
	r := &Registry{byCategory: make(map[model.Category]*Schema, len(schemas))}
	for _, s := range schemas {
		r.byCategory[s.Category] = s
		r.order = append(r.order, s.Category)
	}
	return r
}

// ByCategory returns the schema for a category. An unrecognized category is
// the pipeline's single fatal early exit, so this is the only registry
// operation that can fail.
func (r *Registry) ByCategory(c model.Category) (*Schema, error) {
	s, ok := r.byCategory[c]
	if !ok {
		return nil, eris.Errorf("schema: unknown category %q", string(c))
	}
	return s, nil
}

// Categories returns registered categories in registration order.
func (r *Registry) Categories() []model.Category {
	return r.order
}
