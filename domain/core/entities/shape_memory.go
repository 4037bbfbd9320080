package entities

import (
	"time"

	"nexusboard/domain/core/valueobjects"
)

// ShapeMemoryRecord is the durable, recoverable shadow of a node's content.
// Its lifecycle is independent of the node's presence in the working set: it
// survives until its node is deleted, and is merged back over node data on
// load and select (record wins per field).
type ShapeMemoryRecord struct {
	NodeID       string                 `json:"nodeId"`
	Label        string                 `json:"label,omitempty"`
	Description  string                 `json:"description,omitempty"`
	AISummary    string                 `json:"aiSummary,omitempty"`
	Position     *valueobjects.Position `json:"position,omitempty"`
	CreatedAt    *time.Time             `json:"createdAt,omitempty"`
	LastModified *time.Time             `json:"lastModified,omitempty"`
	LastMoved    *time.Time             `json:"lastMoved,omitempty"`
}

// ShapeMemoryPatch is a partial update to a record. Nil fields are absent from
// the patch and leave the stored value untouched.
type ShapeMemoryPatch struct {
	Label       *string
	Description *string
	AISummary   *string
	Position    *valueobjects.Position
	CreatedAt   *time.Time
	LastMoved   *time.Time
}

// MergePatch applies a field-level last-writer-wins merge of patch over the
// record and returns the merged record plus the names of the fields the patch
// carried, in a fixed order. The merge is shallow: each present field replaces
// the stored field wholesale.
func MergePatch(record ShapeMemoryRecord, patch ShapeMemoryPatch) (ShapeMemoryRecord, []string) {
	var fields []string

	if patch.Label != nil {
		record.Label = *patch.Label
		fields = append(fields, "label")
	}
	if patch.Description != nil {
		record.Description = *patch.Description
		fields = append(fields, "description")
	}
	if patch.AISummary != nil {
		record.AISummary = *patch.AISummary
		fields = append(fields, "aiSummary")
	}
	if patch.Position != nil {
		p := patch.Position.Normalized()
		record.Position = &p
		fields = append(fields, "position")
	}
	if patch.CreatedAt != nil {
		record.CreatedAt = patch.CreatedAt
		fields = append(fields, "createdAt")
	}
	if patch.LastMoved != nil {
		record.LastMoved = patch.LastMoved
		fields = append(fields, "lastMoved")
	}

	return record, fields
}

// MergeIntoNode folds the recoverable fields of a record over node data.
// Non-empty record fields win; empty record fields keep the node's value.
func (r ShapeMemoryRecord) MergeIntoNode(data NodeData) NodeData {
	if r.Label != "" {
		data.Label = r.Label
	}
	if r.Description != "" {
		data.Description = r.Description
	}
	if r.AISummary != "" {
		data.AISummary = r.AISummary
	}
	return data
}
