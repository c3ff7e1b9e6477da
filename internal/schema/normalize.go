package schema

import (
	"strconv"
	"strings"

	"github.com/shelfsense/enrich-cli/internal/model"
)

// Normalizers are pure, idempotent, and never fail: anomalous values become
// nil, not errors. They only touch keys already present in the record, so a
// field the extractor never produced stays absent rather than appearing as
// an explicit null.

var doseUnitAliases = map[string]string{
	"milligram":           "mg",
	"milligrams":          "mg",
	"gram":                "g",
	"grams":               "g",
	"microgram":           "mcg",
	"micrograms":          "mcg",
	"ug":                  "mcg",
	"international_unit":  "iu",
	"international_units": "iu",
	"milliliter":          "ml",
	"milliliters":         "ml",
	"millilitre":          "ml",
	"millilitres":         "ml",
}

var intakeFormAliases = map[string]string{
	"capsules":  "capsule",
	"caps":      "capsule",
	"vcaps":     "capsule",
	"tablets":   "tablet",
	"tabs":      "tablet",
	"softgels":  "softgel",
	"soft_gel":  "softgel",
	"soft_gels": "softgel",
	"gummies":   "gummy",
	"powders":   "powder",
	"liquids":   "liquid",
}

// intakeForms is the canonical intake-form vocabulary, used both for
// canonicalization and for detecting dose_unit/intake_form confusion.
var intakeForms = map[string]bool{
	"capsule": true,
	"tablet":  true,
	"softgel": true,
	"gummy":   true,
	"powder":  true,
	"liquid":  true,
}

var volumeUnitAliases = map[string]string{
	"milliliter":   "ml",
	"milliliters":  "ml",
	"millilitre":   "ml",
	"millilitres":  "ml",
	"fluid_ounce":  "fl_oz",
	"fluid_ounces": "fl_oz",
	"fl_ounce":     "fl_oz",
	"oz":           "fl_oz",
	"ounce":        "fl_oz",
	"ounces":       "fl_oz",
	"gram":         "g",
	"grams":        "g",
}

var usageUnitAliases = map[string]string{
	"pumps":      "pump",
	"drops":      "drop",
	"pea_sized":  "pea_size",
	"dime_sized": "dime_size",
	"squirt":     "pump",
	"squirts":    "pump",
}

func normalizeSupplement(rec model.Record) model.Record {
	coerceNumberField(rec, "serving_size")
	coerceNumberField(rec, "servings_per_container")
	coerceNumberField(rec, "price")

	canonVocabField(rec, "dose_unit", doseUnitAliases)

	// Known extraction confusion: an intake-form word landing in dose_unit.
	// Move it before the record is scored for confidence.
	if du, ok := rec["dose_unit"].(string); ok {
		if form := canonToken(du, intakeFormAliases); intakeForms[form] {
			if !rec.HasValue("intake_form") {
				rec["intake_form"] = form
			}
			rec["dose_unit"] = nil
		}
	}

	canonVocabField(rec, "intake_form", intakeFormAliases)
	return rec
}

func normalizeFacialProduct(rec model.Record) model.Record {
	coerceNumberField(rec, "volume")
	coerceNumberField(rec, "usage_amount")
	coerceNumberField(rec, "price")
	canonVocabField(rec, "volume_unit", volumeUnitAliases)
	canonVocabField(rec, "usage_unit", usageUnitAliases)
	return rec
}

func normalizeEquipment(rec model.Record) model.Record {
	coerceNumberField(rec, "weight_kg")
	coerceNumberField(rec, "price")
	canonVocabField(rec, "material", nil)

	if v, present := rec["dimensions"]; present {
		if s, ok := v.(string); ok {
			rec["dimensions"] = strings.TrimSpace(s)
		} else if v != nil {
			rec["dimensions"] = nil
		}
	}
	return rec
}

// coerceNumberField converts a numeric-looking value in place. Strings are
// parsed after stripping currency symbols and separators; anything that
// still fails to parse becomes nil.
func coerceNumberField(rec model.Record, key string) {
	v, present := rec[key]
	if !present || v == nil {
		return
	}
	switch t := v.(type) {
	case float64:
		return
	case int:
		rec[key] = float64(t)
	case int64:
		rec[key] = float64(t)
	case string:
		s := strings.TrimSpace(t)
		for _, sym := range []string{"$", "£", "€", ",", "usd", "USD"} {
			s = strings.ReplaceAll(s, sym, "")
		}
		s = strings.TrimSpace(s)
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			rec[key] = nil
			return
		}
		rec[key] = f
	default:
		rec[key] = nil
	}
}

// canonVocabField canonicalizes a vocabulary value in place: lowercase,
// snake_case, alias resolution. Non-string values become nil.
func canonVocabField(rec model.Record, key string, aliases map[string]string) {
	v, present := rec[key]
	if !present || v == nil {
		return
	}
	s, ok := v.(string)
	if !ok {
		rec[key] = nil
		return
	}
	c := canonToken(s, aliases)
	if c == "" {
		rec[key] = nil
		return
	}
	rec[key] = c
}

// canonToken lowercases and snake_cases a token, then resolves aliases.
// Canonical forms are fixed points, which keeps canonicalization idempotent.
func canonToken(s string, aliases map[string]string) string {
	t := snakeCase(s)
	if aliases != nil {
		if canon, ok := aliases[t]; ok {
			return canon
		}
	}
	return t
}

// snakeCase maps a free-form token to lowercase underscore-separated form.
func snakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastUnderscore := true // swallow leading separators
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
