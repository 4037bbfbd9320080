package valueobjects

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const idCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewNodeID assigns a fresh node identifier: a millisecond timestamp prefix
// with a random suffix, so nodes created in the same millisecond (AI
// generation, batch imports) still get distinct ids.
func NewNodeID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + randomSuffix(6)
}

// NewTestNodeID assigns an identifier for a generated test node.
func NewTestNodeID() string {
	return "test-" + NewNodeID()
}

// NewEdgeID assigns a fresh edge identifier. Edges have no meaningful natural
// key, so a UUID keeps duplicate source/target pairs distinct.
func NewEdgeID() string {
	return "e-" + uuid.New().String()
}

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = idCharset[rand.Intn(len(idCharset))]
	}
	return string(b)
}
