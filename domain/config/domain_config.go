package config

import "time"

// DomainConfig centralizes the board engine's tunable business rules.
type DomainConfig struct {
	// MoveThreshold is the per-axis distance a completed drag must exceed
	// before it counts as a move. Sub-threshold drags are treated as jitter.
	MoveThreshold float64

	// ChangeLogCapacity caps the per-project change log; the oldest entries
	// are evicted first.
	ChangeLogCapacity int

	// SpawnMin and SpawnSpan bound the random initial placement of a new
	// shape: each coordinate falls in [SpawnMin, SpawnMin+SpawnSpan).
	SpawnMin  float64
	SpawnSpan float64

	// SyncResetDelay is how long the sync controller shows a terminal
	// success/error status before returning to idle.
	SyncResetDelay time.Duration
}

// DefaultDomainConfig returns the production rules.
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MoveThreshold:     2,
		ChangeLogCapacity: 1000,
		SpawnMin:          50,
		SpawnSpan:         300,
		SyncResetDelay:    3 * time.Second,
	}
}
