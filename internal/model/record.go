package model

import "strings"

// Record maps field keys to extracted values of mixed scalar type (string,
// float64, []any, or nil). A record is owned by a single pipeline run and
// mutated in place by the normalizer and merger.
type Record map[string]any

// ConfidenceMap maps field keys to confidence scores in [0,1]. A missing
// entry is treated as confidence 0.
type ConfidenceMap map[string]float64

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// IsEmptyValue reports whether a field value counts as absent: nil,
// blank string, or empty slice/map. Zero numbers are values, not gaps.
func IsEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

// HasValue reports whether the record holds a non-empty value for key.
func (r Record) HasValue(key string) bool {
	v, ok := r[key]
	return ok && !IsEmptyValue(v)
}
