package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmptyValue(t *testing.T) {
	assert.True(t, IsEmptyValue(nil))
	assert.True(t, IsEmptyValue(""))
	assert.True(t, IsEmptyValue("   "))
	assert.True(t, IsEmptyValue([]any{}))
	assert.True(t, IsEmptyValue(map[string]any{}))

	assert.False(t, IsEmptyValue("capsule"))
	assert.False(t, IsEmptyValue(0.0), "zero is a value, not a gap")
	assert.False(t, IsEmptyValue(49.99))
	assert.False(t, IsEmptyValue([]any{"a"}))
	assert.False(t, IsEmptyValue(false))
}

func TestRecordHasValue(t *testing.T) {
	r := Record{
		"price":     19.99,
		"dose_unit": nil,
		"material":  " ",
	}

	assert.True(t, r.HasValue("price"))
	assert.False(t, r.HasValue("dose_unit"))
	assert.False(t, r.HasValue("material"))
	assert.False(t, r.HasValue("absent"))
}

func TestRecordClone(t *testing.T) {
	r := Record{"price": 10.0}
	c := r.Clone()
	c["price"] = 20.0

	assert.Equal(t, 10.0, r["price"])
	assert.Equal(t, 20.0, c["price"])
}
