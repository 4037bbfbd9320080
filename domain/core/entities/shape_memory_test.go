package entities

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"nexusboard/domain/core/valueobjects"
)

func strPtr(s string) *string { return &s }

func TestMergePatchReportsFieldsInFixedOrder(t *testing.T) {
	moved := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	pos := valueobjects.Position{X: 10, Y: 20}

	merged, fields := MergePatch(ShapeMemoryRecord{}, ShapeMemoryPatch{
		LastMoved: &moved,
		Label:     strPtr("Cell"),
		Position:  &pos,
	})

	assert.Equal(t, []string{"label", "position", "lastMoved"}, fields)
	assert.Equal(t, "Cell", merged.Label)
	assert.Equal(t, pos, *merged.Position)
	assert.Equal(t, moved, *merged.LastMoved)
}

func TestMergePatchLeavesAbsentFieldsUntouched(t *testing.T) {
	record := ShapeMemoryRecord{
		NodeID:      "node-1",
		Label:       "Cell",
		Description: "the basic unit",
		AISummary:   "summary",
	}

	merged, fields := MergePatch(record, ShapeMemoryPatch{Label: strPtr("Organelle")})

	assert.Equal(t, []string{"label"}, fields)
	assert.Equal(t, "Organelle", merged.Label)
	assert.Equal(t, "the basic unit", merged.Description)
	assert.Equal(t, "summary", merged.AISummary)
}

func TestMergePatchOverwritesWithEmptyString(t *testing.T) {
	record := ShapeMemoryRecord{Description: "old"}

	merged, _ := MergePatch(record, ShapeMemoryPatch{Description: strPtr("")})

	assert.Empty(t, merged.Description, "a present empty field replaces the stored value")
}

func TestMergePatchNormalizesPosition(t *testing.T) {
	bad := valueobjects.Position{X: math.Inf(1), Y: 5}

	merged, _ := MergePatch(ShapeMemoryRecord{}, ShapeMemoryPatch{Position: &bad})

	assert.Equal(t, valueobjects.Position{}, *merged.Position)
}

func TestMergeIntoNodeRecordWinsPerField(t *testing.T) {
	record := ShapeMemoryRecord{Label: "Remembered", AISummary: "remembered summary"}
	data := NodeData{Label: "Fresh", Description: "fresh description"}

	merged := record.MergeIntoNode(data)

	assert.Equal(t, "Remembered", merged.Label)
	assert.Equal(t, "fresh description", merged.Description, "empty record fields keep the node value")
	assert.Equal(t, "remembered summary", merged.AISummary)
}
