package valueobjects

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNodeIDsAreUniqueWithinAMillisecond(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewNodeID()
		assert.False(t, seen[id], "duplicate node id %s", id)
		seen[id] = true
	}
}

func TestNewNodeIDKeepsTimestampPrefix(t *testing.T) {
	id := NewNodeID()

	prefix, _, ok := strings.Cut(id, "_")
	require.True(t, ok, "id %s should carry a suffix", id)
	_, err := strconv.ParseInt(prefix, 10, 64)
	assert.NoError(t, err, "prefix of %s should be a millisecond timestamp", id)
}

func TestNewTestNodeID(t *testing.T) {
	assert.True(t, strings.HasPrefix(NewTestNodeID(), "test-"))
}

func TestNewEdgeIDsAreDistinct(t *testing.T) {
	assert.NotEqual(t, NewEdgeID(), NewEdgeID())
}
