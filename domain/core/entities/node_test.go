package entities

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"nexusboard/domain/core/valueobjects"
)

func TestNewShapeDefaults(t *testing.T) {
	node := NewShape("node-1", KindCircle, valueobjects.Position{X: 100, Y: 150})

	assert.Equal(t, TypeDefault, node.Type)
	assert.Equal(t, "Circle", node.Data.Label)
	assert.Equal(t, "50%", node.Style.BorderRadius)
	assert.Equal(t, float64(80), node.Style.Width)
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "Rectangle", KindLabel(KindRectangle))
	assert.Equal(t, "Rounded", KindLabel(KindRounded))
	assert.Equal(t, "", KindLabel(NodeKind("")))
}

func TestNewTestNodeCarriesContent(t *testing.T) {
	node := NewTestNode("test-1", "Chapter Quiz", "1. What is a cell?", valueobjects.Position{X: 50, Y: 50})

	assert.Equal(t, TypeTest, node.Type)
	assert.Equal(t, "Chapter Quiz", node.Data.Label)
	assert.Equal(t, "1. What is a cell?", node.Data.Description)
}

func TestNormalizeNodesCollapsesMalformedPositions(t *testing.T) {
	nodes := NormalizeNodes([]Node{
		{ID: "a", Position: valueobjects.Position{X: math.NaN(), Y: 10}},
		{ID: "b", Position: valueobjects.Position{X: 5, Y: 6}},
	})

	assert.Equal(t, valueobjects.Position{}, nodes[0].Position)
	assert.Equal(t, valueobjects.Position{X: 5, Y: 6}, nodes[1].Position)
}

func TestEdgesWithoutDropsBothEndpoints(t *testing.T) {
	edges := []Edge{
		{ID: "e1", Source: "a", Target: "b"},
		{ID: "e2", Source: "b", Target: "c"},
		{ID: "e3", Source: "c", Target: "a"},
	}

	kept := EdgesWithout(edges, "a")

	assert.Len(t, kept, 1)
	assert.Equal(t, "e2", kept[0].ID)
}
