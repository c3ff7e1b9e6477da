package pipeline

import (
	"github.com/shelfsense/enrich-cli/internal/model"
	"github.com/shelfsense/enrich-cli/internal/schema"
)

// MergeFallback folds the secondary search answer into the first-pass
// record. Rules:
//   - fields that were missing after evaluation take the fallback value
//     when it is non-empty
//   - price is always replaced by a non-empty fallback price, since the
//     web search reflects the current listing
//   - the purchase link is filled only when absent, never replaced; the
//     answer's source URL stands in when no explicit link came back
//
// The record is re-normalized afterwards so fallback values pass through
// the same canonicalization as first-pass values. Returns the keys that
// were filled from the fallback, in schema order.
func MergeFallback(
	s *schema.Schema,
	rec model.Record,
	conf model.ConfidenceMap,
	missing []string,
	ans *FallbackAnswer,
) (model.Record, model.ConfidenceMap, []string) {
	wasMissing := make(map[string]bool, len(missing))
	for _, k := range missing {
		wasMissing[k] = true
	}

	var filled []string
	for _, f := range s.Fields {
		v, ok := ans.Values[f.Key]
		if !ok || model.IsEmptyValue(v) {
			continue
		}
		if !wasMissing[f.Key] && f.Key != "price" {
			continue
		}
		rec[f.Key] = v
		conf[f.Key] = ans.Confidence
		filled = append(filled, f.Key)
	}

	link := ans.Values[schema.PurchaseURLField]
	if model.IsEmptyValue(link) && ans.SourceURL != "" {
		link = ans.SourceURL
	}
	if !model.IsEmptyValue(link) && !rec.HasValue(schema.PurchaseURLField) {
		rec[schema.PurchaseURLField] = link
		conf[schema.PurchaseURLField] = ans.Confidence
		filled = append(filled, schema.PurchaseURLField)
	}

	if s.Normalize != nil {
		rec = s.Normalize(rec)
	}
	return rec, conf, filled
}
