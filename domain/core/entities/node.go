package entities

import (
	"strings"

	"nexusboard/domain/core/valueobjects"
)

// NodeKind selects the default style and label of a freshly created shape.
type NodeKind string

const (
	KindRectangle NodeKind = "rectangle"
	KindCircle    NodeKind = "circle"
	KindRounded   NodeKind = "rounded"
)

// NodeType distinguishes generic shapes from generated-test viewers on the canvas.
const (
	TypeDefault = "default"
	TypeTest    = "testNode"
)

// NodeData is the content payload of a node. Description may hold rich-text
// HTML or plain text; AISummary is filled by the autofill operation.
type NodeData struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	AISummary   string `json:"aiSummary"`
}

// NodeStyle is presentation-only and carries no semantic invariant.
type NodeStyle struct {
	Background   string  `json:"background,omitempty"`
	Border       string  `json:"border,omitempty"`
	BorderRadius string  `json:"borderRadius,omitempty"`
	Width        float64 `json:"width,omitempty"`
	Height       float64 `json:"height,omitempty"`
	Color        string  `json:"color,omitempty"`
}

// Node is a visual unit on the project board canvas.
type Node struct {
	ID       string                `json:"id"`
	Type     string                `json:"type"`
	Data     NodeData              `json:"data"`
	Position valueobjects.Position `json:"position"`
	Style    NodeStyle             `json:"style"`
}

// NewShape creates a node of the given kind at a position, with the kind's
// default style and a Title-cased label.
func NewShape(id string, kind NodeKind, position valueobjects.Position) Node {
	return Node{
		ID:       id,
		Type:     TypeDefault,
		Data:     NodeData{Label: KindLabel(kind)},
		Position: position.Normalized(),
		Style:    DefaultStyle(kind),
	}
}

// NewTestNode creates a generated-test node holding test content in its
// description.
func NewTestNode(id, label, content string, position valueobjects.Position) Node {
	return Node{
		ID:       id,
		Type:     TypeTest,
		Data:     NodeData{Label: label, Description: content},
		Position: position.Normalized(),
		Style: NodeStyle{
			Background:   "#dc2626",
			Border:       "2px solid #b91c1c",
			BorderRadius: "8px",
			Width:        200,
			Height:       100,
			Color:        "white",
		},
	}
}

// KindLabel derives the default label from a kind: "rectangle" → "Rectangle".
func KindLabel(kind NodeKind) string {
	s := string(kind)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// DefaultStyle returns the presentation defaults for a shape kind.
func DefaultStyle(kind NodeKind) NodeStyle {
	style := NodeStyle{
		Background: "#3b82f6",
		Border:     "2px solid #1d4ed8",
		Color:      "white",
		Width:      120,
		Height:     60,
	}
	switch kind {
	case KindCircle:
		style.BorderRadius = "50%"
		style.Width = 80
		style.Height = 80
	case KindRounded:
		style.BorderRadius = "20px"
	default:
		style.BorderRadius = "4px"
	}
	return style
}

// NormalizeNodes runs every node's position through normalization. Applied on
// every load and merge so malformed input collapses to the origin instead of
// propagating.
func NormalizeNodes(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		n.Position = n.Position.Normalized()
		out[i] = n
	}
	return out
}
