package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shelfsense/enrich-cli/internal/model"
)

func TestFormatRunsList(t *testing.T) {
	runs := []model.Run{
		{
			ID:        "run-1",
			Request:   model.Request{ProductName: "Vitamin D3", Category: model.CategorySupplement},
			Status:    model.RunStatusComplete,
			CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:        "run-2",
			Request:   model.Request{ProductName: "Kettlebell", Category: model.CategoryEquipment},
			Status:    model.RunStatusFailed,
			CreatedAt: time.Date(2026, 8, 2, 9, 30, 0, 0, time.UTC),
		},
	}

	var sb strings.Builder
	formatRunsList(&sb, runs)
	out := sb.String()

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "Vitamin D3")
	assert.Contains(t, out, "supplement")
	assert.Contains(t, out, "failed")
}
