package events

import (
	"fmt"
	"strings"

	"nexusboard/domain/core/valueobjects"
)

// Action tags for the change log. Kept as constants so the read-side filter
// and tests never drift from what mutations emit.
const (
	ActionShapeCreated      = "shape_created"
	ActionNodeDeleted       = "node_deleted"
	ActionNodeMoved         = "node_moved"
	ActionNodePositioned    = "node_positioned"
	ActionNodeResized       = "node_resized"
	ActionNodeSelected      = "node_selected"
	ActionNodeLabelUpdated  = "node_label_updated"
	ActionConnectionCreated = "connection_created"
	ActionConnectionDeleted = "connection_deleted"
	ActionShapeMemorySaved  = "shape_memory_saved"
)

// ShapeCreated is raised when a new shape lands on the canvas.
type ShapeCreated struct {
	BaseEvent
	Kind     string                `json:"kind"`
	Label    string                `json:"label"`
	Position valueobjects.Position `json:"position"`
}

func NewShapeCreated(nodeID, kind, label string, pos valueobjects.Position) ShapeCreated {
	details := fmt.Sprintf("Created %s shape %q at position %s", kind, label, pos.Rounded())
	return ShapeCreated{
		BaseEvent: newBase(nodeID, ActionShapeCreated, details),
		Kind:      kind,
		Label:     label,
		Position:  pos,
	}
}

// NodeDeleted is raised when a node is removed, either through a removal delta
// or the delete-selected operation.
type NodeDeleted struct {
	BaseEvent
	Label           string                `json:"label"`
	Position        valueobjects.Position `json:"position"`
	WithConnections bool                  `json:"with_connections"`
}

func NewNodeDeleted(nodeID, label string, pos valueobjects.Position, withConnections bool) NodeDeleted {
	details := fmt.Sprintf("Deleted node %q at position %s", label, pos.Rounded())
	if withConnections {
		details += " and its connections"
	}
	return NodeDeleted{
		BaseEvent:       newBase(nodeID, ActionNodeDeleted, details),
		Label:           label,
		Position:        pos,
		WithConnections: withConnections,
	}
}

// NodeMoved is raised only when a completed drag exceeds the move threshold.
type NodeMoved struct {
	BaseEvent
	Label string                `json:"label"`
	From  valueobjects.Position `json:"from"`
	To    valueobjects.Position `json:"to"`
}

func NewNodeMoved(nodeID, label string, from, to valueobjects.Position) NodeMoved {
	details := fmt.Sprintf("Moved node %q from %s to %s", label, from.Rounded(), to.Rounded())
	return NodeMoved{
		BaseEvent: newBase(nodeID, ActionNodeMoved, details),
		Label:     label,
		From:      from,
		To:        to,
	}
}

// NodePositioned is raised on the first observation of a node's position, when
// no tracked position existed to compare against. Best-effort: the tracked
// projection usually already covers the node, so moves dominate.
type NodePositioned struct {
	BaseEvent
	Label    string                `json:"label"`
	Position valueobjects.Position `json:"position"`
}

func NewNodePositioned(nodeID, label string, pos valueobjects.Position) NodePositioned {
	details := fmt.Sprintf("Node %q positioned at %s", label, pos.Rounded())
	return NodePositioned{
		BaseEvent: newBase(nodeID, ActionNodePositioned, details),
		Label:     label,
		Position:  pos,
	}
}

// NodeResized is raised on a dimension delta.
type NodeResized struct {
	BaseEvent
	Label  string  `json:"label"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func NewNodeResized(nodeID, label string, width, height float64) NodeResized {
	details := fmt.Sprintf("Resized node %q to %dx%d", label, round(width), round(height))
	return NodeResized{
		BaseEvent: newBase(nodeID, ActionNodeResized, details),
		Label:     label,
		Width:     width,
		Height:    height,
	}
}

// NodeSelected is raised when a node becomes the selection.
type NodeSelected struct {
	BaseEvent
	Label    string                `json:"label"`
	Position valueobjects.Position `json:"position"`
}

func NewNodeSelected(nodeID, label string, pos valueobjects.Position) NodeSelected {
	details := fmt.Sprintf("Selected node %q at position %s", label, pos.Rounded())
	return NodeSelected{
		BaseEvent: newBase(nodeID, ActionNodeSelected, details),
		Label:     label,
		Position:  pos,
	}
}

// NodeLabelUpdated is raised when a label edit actually changes the label to a
// non-empty value. No-op edits emit nothing.
type NodeLabelUpdated struct {
	BaseEvent
	OldLabel string `json:"old_label"`
	NewLabel string `json:"new_label"`
}

func NewNodeLabelUpdated(nodeID, oldLabel, newLabel string) NodeLabelUpdated {
	if oldLabel == "" {
		oldLabel = "Untitled"
	}
	details := fmt.Sprintf("Updated node label from %q to %q", oldLabel, newLabel)
	return NodeLabelUpdated{
		BaseEvent: newBase(nodeID, ActionNodeLabelUpdated, details),
		OldLabel:  oldLabel,
		NewLabel:  newLabel,
	}
}

// ConnectionCreated is raised when an edge is added.
type ConnectionCreated struct {
	BaseEvent
	Source string `json:"source"`
	Target string `json:"target"`
}

func NewConnectionCreated(edgeID, source, target string) ConnectionCreated {
	details := fmt.Sprintf("Connected node %s to node %s", source, target)
	return ConnectionCreated{
		BaseEvent: newBase(edgeID, ActionConnectionCreated, details),
		Source:    source,
		Target:    target,
	}
}

// ConnectionDeleted is raised when an edge is removed.
type ConnectionDeleted struct {
	BaseEvent
	Source string `json:"source"`
	Target string `json:"target"`
}

func NewConnectionDeleted(edgeID, source, target string) ConnectionDeleted {
	details := fmt.Sprintf("Deleted connection from %s to %s", source, target)
	return ConnectionDeleted{
		BaseEvent: newBase(edgeID, ActionConnectionDeleted, details),
		Source:    source,
		Target:    target,
	}
}

// ShapeMemorySaved is raised when a memory record is persisted, naming the
// fields the patch carried.
type ShapeMemorySaved struct {
	BaseEvent
	Label  string   `json:"label"`
	Fields []string `json:"fields"`
}

func NewShapeMemorySaved(nodeID, label string, fields []string) ShapeMemorySaved {
	name := label
	if name == "" {
		name = nodeID
	}
	details := fmt.Sprintf("Saved memory for shape %q - %s", name, strings.Join(fields, ", "))
	return ShapeMemorySaved{
		BaseEvent: newBase(nodeID, ActionShapeMemorySaved, details),
		Label:     label,
		Fields:    fields,
	}
}

// OperationEvent covers operational outcomes (sync, file import, AI calls)
// where the action tag and detail line are the whole payload.
type OperationEvent struct {
	BaseEvent
}

func NewOperationEvent(aggregateID, action, details string) OperationEvent {
	return OperationEvent{BaseEvent: newBase(aggregateID, action, details)}
}

func round(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}
