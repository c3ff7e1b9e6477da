package pipeline

import (
	"github.com/shelfsense/enrich-cli/internal/model"
	"github.com/shelfsense/enrich-cli/internal/schema"
)

// FieldStatus is the per-field verdict after the first pass.
type FieldStatus struct {
	Key        string
	Found      bool
	Confidence float64
}

// EvaluateFields scores every required field of the schema against the
// first-pass record, in schema order. A field counts as found when its
// value is non-empty and its effective confidence meets the threshold.
// Non-empty fields without a confidence entry (typically fields produced
// by normalization) get the baseline, which is written back into conf so
// the final result reports a confidence for every filled field.
func EvaluateFields(
	s *schema.Schema,
	rec model.Record,
	conf model.ConfidenceMap,
	baseline, threshold float64,
) (statuses []FieldStatus, missing []string) {
	for _, f := range s.Fields {
		st := FieldStatus{Key: f.Key}

		v, ok := rec[f.Key]
		if ok && !model.IsEmptyValue(v) {
			if c, has := conf[f.Key]; has {
				st.Confidence = c
			} else {
				st.Confidence = baseline
				conf[f.Key] = baseline
			}
			st.Found = st.Confidence >= threshold
		}

		statuses = append(statuses, st)
		if !st.Found {
			missing = append(missing, f.Key)
		}
	}
	return statuses, missing
}
