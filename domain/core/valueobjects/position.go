package valueobjects

import (
	"fmt"
	"math"
)

// Position is a node's canvas coordinates. Stored values keep full precision;
// rounding happens only when rendering log details.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPosition creates a position, normalizing non-finite coordinates to zero.
func NewPosition(x, y float64) Position {
	return Position{X: x, Y: y}.Normalized()
}

// IsValid reports whether both coordinates are finite numbers.
func (p Position) IsValid() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

// Normalized replaces a malformed position with the origin. Every node in the
// working set must carry a numeric position, so loads and merges run all
// positions through this.
func (p Position) Normalized() Position {
	if !p.IsValid() {
		return Position{}
	}
	return p
}

// Equals compares two positions with a small epsilon.
func (p Position) Equals(other Position) bool {
	const epsilon = 1e-9
	return math.Abs(p.X-other.X) < epsilon && math.Abs(p.Y-other.Y) < epsilon
}

// DeltaExceeds reports whether the per-axis distance from prev exceeds the
// threshold on either axis. This is the move-detection test: sub-threshold
// drags are jitter, not moves.
func (p Position) DeltaExceeds(prev Position, threshold float64) bool {
	return math.Abs(p.X-prev.X) > threshold || math.Abs(p.Y-prev.Y) > threshold
}

// Rounded renders the position as "(x, y)" with integer coordinates for log
// readability.
func (p Position) Rounded() string {
	return fmt.Sprintf("(%d, %d)", int(math.Round(p.X)), int(math.Round(p.Y)))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
