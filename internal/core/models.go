package core

// ProofStep is the record spec.md §3 attaches to applying one clue: what it
// updated, why, and how far the grid got. Reasons names every deduction
// rule that contributed eliminations during the fixed-point sweep, in the
// order they fired, so a caller can explain a move instead of just stating
// its effect.
type ProofStep struct {
	Updates         int
	Reasons         []string
	PercentComplete float64
	Contradiction   *Contradiction
}

// Contradiction names the exact category/value pair whose possibility row
// was driven to zero, the diagnostic SPEC_FULL.md §6.2 requires instead of
// a bare "inconsistent" error.
type Contradiction struct {
	Category      string
	Value         string
	OtherCategory string
}

// Difficulty is the coarse puzzle-difficulty estimate SPEC_FULL.md §6
// supplements the core spec with, derived from the mix of clue families a
// puzzle ended up using rather than from solve-time search depth (the core
// never backtracks, so there is no search depth to measure).
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// FamilyWeight is how heavily one clue family's presence in a puzzle counts
// toward its difficulty estimate, reflecting how much more inference each
// family typically demands of a solver than a plain Binary clue.
var FamilyWeight = map[string]int{
	"binary":        1,
	"ordinal":       2,
	"superlative":   2,
	"unary":         1,
	"cross_ordinal": 3,
	"adjacency":     2,
	"between":       3,
	"disjunction":   3,
	"arithmetic":    4,
}

// EstimateDifficulty buckets a puzzle by its average clue weight.
func EstimateDifficulty(familyCounts map[string]int) Difficulty {
	total, weighted := 0, 0
	for family, count := range familyCounts {
		total += count
		weighted += count * FamilyWeight[family]
	}
	if total == 0 {
		return DifficultyEasy
	}
	avg := float64(weighted) / float64(total)
	switch {
	case avg < 1.5:
		return DifficultyEasy
	case avg < 2.5:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}
