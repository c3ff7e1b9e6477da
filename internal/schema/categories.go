package schema

import "github.com/shelfsense/enrich-cli/internal/model"

// Default builds the registry of all supported categories.
func Default() *Registry {
	return NewRegistry(supplementSchema(), facialProductSchema(), equipmentSchema())
}

const jsonFormatInstructions = `Respond with a single JSON object of the form:
{"product": {<field>: <value>, ...}, "field_confidence": {<field>: <0-1>, ...}, "confidence": <0-1>}
Use null for fields you cannot determine. Do not invent values.`

func supplementSchema() *Schema {
	return &Schema{
		Category: model.CategorySupplement,
		Fields: []FieldSpec{
			{Key: "serving_size", Description: "amount per serving (number only)"},
			{Key: "dose_unit", Description: "unit of the serving amount (mg, g, mcg, iu, ml)"},
			{Key: "intake_form", Description: "intake form (capsule, tablet, softgel, gummy, powder, liquid)"},
			{Key: "servings_per_container", Description: "number of servings per container"},
			{Key: "price", Description: "current retail price in USD (number only)"},
		},
		Instructions: `You extract structured supplement facts from product pages.
Fields: serving_size, dose_unit, intake_form, servings_per_container, price.
dose_unit is the measurement unit of the active amount (mg, g, mcg, iu, ml);
intake_form is how the supplement is taken (capsule, tablet, softgel, gummy,
powder, liquid). Never put an intake form into dose_unit.
` + jsonFormatInstructions,
		Normalize: normalizeSupplement,
	}
}

func facialProductSchema() *Schema {
	return &Schema{
		Category: model.CategoryFacialProduct,
		Fields: []FieldSpec{
			{Key: "volume", Description: "container volume (number only)"},
			{Key: "volume_unit", Description: "volume unit (ml, fl oz, g)"},
			{Key: "usage_amount", Description: "amount used per application (number only)"},
			{Key: "usage_unit", Description: "unit of one application (pump, drop, pea size)"},
			{Key: "price", Description: "current retail price in USD (number only)"},
		},
		Instructions: `You extract structured facial-product facts from product pages.
Fields: volume, volume_unit, usage_amount, usage_unit, price.
usage_amount/usage_unit describe a single application (for example 2 pumps
or 1 pea size), not the container size.
` + jsonFormatInstructions,
		Normalize: normalizeFacialProduct,
	}
}

func equipmentSchema() *Schema {
	return &Schema{
		Category: model.CategoryEquipment,
		Fields: []FieldSpec{
			{Key: "weight_kg", Description: "item weight in kilograms (number only)"},
			{Key: "material", Description: "primary material (steel, cast iron, rubber, plastic, foam)"},
			{Key: "dimensions", Description: "item dimensions as stated by the manufacturer"},
			{Key: "price", Description: "current retail price in USD (number only)"},
		},
		Instructions: `You extract structured fitness-equipment facts from product pages.
Fields: weight_kg, material, dimensions, price.
Convert weights to kilograms. Keep dimensions as the manufacturer states
them.
` + jsonFormatInstructions,
		Normalize: normalizeEquipment,
	}
}
