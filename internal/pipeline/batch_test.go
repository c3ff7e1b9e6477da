package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shelfsense/enrich-cli/internal/model"
	"github.com/shelfsense/enrich-cli/internal/schema"
)

func TestRunBatch_IsolatesItemFailures(t *testing.T) {
	ai := new(mockAnthropic)
	ai.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`{"product": {"serving_size": 1, "dose_unit": "mg", "intake_form": "capsule",
			"servings_per_container": 30, "price": 9.99}, "confidence": 0.9}`, 0, 0), nil)

	p := New(testConfig(), ai, nil, nil, nil, schema.Default())

	items := []model.BatchItem{
		{Name: "Vitamin D3", Category: "supplement"},
		{Name: "Mystery Gadget", Category: "gadget"},
		{Name: "Zinc", Category: "supplement"},
	}

	var resultIndexes []int
	results := p.RunBatch(context.Background(), items, nil, func(i int, _ *model.EnrichmentResult) {
		resultIndexes = append(resultIndexes, i)
	})

	require.Len(t, results, 3)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Error, "unknown category")
	assert.True(t, results[2].Success)
	assert.Equal(t, []int{0, 1, 2}, resultIndexes)
}

func TestRunBatch_TagsEventsWithItemIndex(t *testing.T) {
	ai := new(mockAnthropic)
	ai.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`{"product": {"price": 9.99}, "confidence": 0.9}`, 0, 0), nil)

	p := New(testConfig(), ai, nil, nil, nil, schema.Default())

	items := []model.BatchItem{
		{Name: "A", Category: "supplement"},
		{Name: "B", Category: "supplement"},
	}

	indexes := make(map[int]bool)
	p.RunBatch(context.Background(), items, func(ev model.ProgressEvent) {
		indexes[ev.Index] = true
	}, nil)

	assert.True(t, indexes[0])
	assert.True(t, indexes[1])
}

func TestRunBatch_StopsOnCancelledContext(t *testing.T) {
	ai := new(mockAnthropic)
	p := New(testConfig(), ai, nil, nil, nil, schema.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := p.RunBatch(ctx, []model.BatchItem{
		{Name: "A", Category: "supplement"},
		{Name: "B", Category: "supplement"},
	}, nil, nil)

	assert.Empty(t, results)
	ai.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}
