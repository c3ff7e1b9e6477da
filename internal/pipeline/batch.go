package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/shelfsense/enrich-cli/internal/model"
)

// RunBatch enriches a list of items sequentially. Items are fully
// isolated: one item's failure (including an unknown category) produces a
// failed result for that item and the batch continues. Progress events are
// tagged with the item index. A cancelled context stops the batch before
// the next item; results produced so far are kept.
func (p *Pipeline) RunBatch(
	ctx context.Context,
	items []model.BatchItem,
	onEvent model.ProgressFunc,
	onResult func(index int, result *model.EnrichmentResult),
) []*model.EnrichmentResult {
	results := make([]*model.EnrichmentResult, 0, len(items))

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			zap.L().Warn("batch: cancelled", zap.Int("completed", i), zap.Error(err))
			break
		}

		var sink model.ProgressFunc
		if onEvent != nil {
			idx := i
			sink = func(ev model.ProgressEvent) {
				ev.Index = idx
				onEvent(ev)
			}
		}

		result := p.Run(ctx, item.Request(), sink)
		results = append(results, result)
		if onResult != nil {
			onResult(i, result)
		}
	}

	return results
}
