package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfsense/enrich-cli/internal/model"
)

func TestNormalizeSupplement_MovesIntakeFormOutOfDoseUnit(t *testing.T) {
	rec := model.Record{"dose_unit": "capsule"}

	out := normalizeSupplement(rec)

	assert.Nil(t, out["dose_unit"])
	assert.Equal(t, "capsule", out["intake_form"])
}

func TestNormalizeSupplement_DoesNotOverwriteExistingIntakeForm(t *testing.T) {
	rec := model.Record{
		"dose_unit":   "Tablets",
		"intake_form": "softgel",
	}

	out := normalizeSupplement(rec)

	assert.Nil(t, out["dose_unit"], "misplaced form is nulled even when intake_form is taken")
	assert.Equal(t, "softgel", out["intake_form"])
}

func TestNormalizeSupplement_NumericCoercion(t *testing.T) {
	rec := model.Record{
		"serving_size":           "1,000",
		"servings_per_container": "60",
		"price":                  "$24.99",
		"dose_unit":              "Milligrams",
	}

	out := normalizeSupplement(rec)

	assert.Equal(t, 1000.0, out["serving_size"])
	assert.Equal(t, 60.0, out["servings_per_container"])
	assert.Equal(t, 24.99, out["price"])
	assert.Equal(t, "mg", out["dose_unit"])
}

func TestNormalize_UnparsableNumberBecomesNil(t *testing.T) {
	rec := model.Record{"price": "call for pricing"}

	out := normalizeSupplement(rec)

	val, present := out["price"]
	assert.True(t, present)
	assert.Nil(t, val)
}

func TestNormalize_AbsentFieldsStayAbsent(t *testing.T) {
	rec := model.Record{"volume": 50.0}

	out := normalizeFacialProduct(rec)

	_, present := out["usage_amount"]
	assert.False(t, present)
	_, present = out["usage_unit"]
	assert.False(t, present)
}

func TestNormalizeFacialProduct_UnitVocabulary(t *testing.T) {
	rec := model.Record{
		"volume":       "1.7",
		"volume_unit":  "Fluid Ounces",
		"usage_amount": 2.0,
		"usage_unit":   "pumps",
		"price":        "€39,00",
	}

	out := normalizeFacialProduct(rec)

	assert.Equal(t, 1.7, out["volume"])
	assert.Equal(t, "fl_oz", out["volume_unit"])
	assert.Equal(t, "pump", out["usage_unit"])
}

func TestNormalizeEquipment(t *testing.T) {
	rec := model.Record{
		"weight_kg":  "20",
		"material":   "Cast Iron",
		"dimensions": "  40 x 30 x 20 cm ",
		"price":      149.0,
	}

	out := normalizeEquipment(rec)

	assert.Equal(t, 20.0, out["weight_kg"])
	assert.Equal(t, "cast_iron", out["material"])
	assert.Equal(t, "40 x 30 x 20 cm", out["dimensions"])
	assert.Equal(t, 149.0, out["price"])
}

func TestNormalize_NonStringVocabularyBecomesNil(t *testing.T) {
	rec := model.Record{"material": 12.0, "dimensions": 40.0}

	out := normalizeEquipment(rec)

	assert.Nil(t, out["material"])
	assert.Nil(t, out["dimensions"])
}

// Re-applying normalization after the merge step must not alter
// already-normalized fields, for every category.
func TestNormalize_Idempotence(t *testing.T) {
	cases := []struct {
		name      string
		normalize func(model.Record) model.Record
		rec       model.Record
	}{
		{
			name:      "supplement with unit and form confusion",
			normalize: normalizeSupplement,
			rec: model.Record{
				"serving_size":           "2,000",
				"dose_unit":              "Capsules",
				"intake_form":            nil,
				"servings_per_container": 30.0,
				"price":                  "$19.95",
			},
		},
		{
			name:      "facial product with messy units",
			normalize: normalizeFacialProduct,
			rec: model.Record{
				"volume":       "50",
				"volume_unit":  "MilliLiters",
				"usage_amount": "not stated",
				"usage_unit":   "Pea-Sized",
				"price":        nil,
			},
		},
		{
			name:      "equipment with mixed types",
			normalize: normalizeEquipment,
			rec: model.Record{
				"weight_kg":  "22.5",
				"material":   "Stainless Steel",
				"dimensions": 7.0,
				"price":      "call us",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			once := tc.normalize(tc.rec.Clone())
			twice := tc.normalize(once.Clone())
			require.Equal(t, once, twice)
		})
	}
}

func TestSnakeCase(t *testing.T) {
	assert.Equal(t, "cast_iron", snakeCase("Cast Iron"))
	assert.Equal(t, "pea_size", snakeCase("  Pea Size "))
	assert.Equal(t, "fl_oz", snakeCase("fl. oz"))
	assert.Equal(t, "fl_oz", snakeCase("fl_oz"), "already canonical stays put")
	assert.Equal(t, "", snakeCase("  ---  "))
}
