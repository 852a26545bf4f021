package constants

import "time"

// Puzzle shape bounds the demo CLI/API surfaces enforce on category
// layouts before handing them to the engine. The core engine
// (internal/grid, internal/solver) never hard-codes these; they are
// consulted by core.ValidateCategories as the single shared bounds check
// every demo consumer inherits.
const (
	MinArity      = 2
	MaxArity      = 10
	MinCategories = 2
	MaxCategories = 5
)

// Candidate-pool sampling caps: how many true clues EnumerateX draws per
// family before the pool is considered full, mirroring the bounded
// reservoir internal/sudoku/dp/solver.go's CarveGivensWithSubset uses
// instead of exhaustive enumeration. DisjunctionSample bounds how many
// lazily-built OR clues a session keeps cached at once.
const (
	PoolCapPerFamily  = 60
	DisjunctionSample = 16
)

// Generation limits. DefaultTimeout matches spec.md's stated default of
// 180_000ms for generate_puzzle's timeoutMs option.
const (
	MaxSolverSteps = 500
	DefaultTimeout = 180 * time.Second
	MaxRestarts    = 25
)

// API version
const APIVersion = "0.1.0"

// DefaultPort is the demo server's fallback when $PORT is unset.
const DefaultPort = "8080"
