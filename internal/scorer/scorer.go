// Package scorer computes the trial-application metrics spec.md §4.6
// defines for ranking candidate clues without mutating session state.
//
// Grounded on internal/sudoku/human/solver.go's tier-to-difficulty
// weighting (TechniqueTierToDifficulty): the teacher ranks techniques by a
// coarse tier; this package ranks clues by a numeric heuristic built from
// the same "how much does this actually teach the solver" instinct.
package scorer

import (
	"github.com/joshhills/logic-puzzle-generator/internal/clue"
	"github.com/joshhills/logic-puzzle-generator/internal/core"
	"github.com/joshhills/logic-puzzle-generator/internal/grid"
	"github.com/joshhills/logic-puzzle-generator/internal/solver"
)

// Result is the scorer's trial-application report for one clue against one
// grid state.
type Result struct {
	Updates         int
	Reasons         []string
	PercentComplete float64
	IsDirectAnswer  bool
	HeuristicScore  int
}

// TargetFact names the one Binary-shaped fact a session may be solving
// toward, per spec.md §3's "optional targetFact".
type TargetFact struct {
	Cat1, Val1, Cat2 string
}

// Score trials c against g (via a clone, never mutating g) and reports its
// effect. target is optional; pass nil when the session has none configured.
func Score(c clue.Clue, g *grid.Grid, categories []core.Category, target *TargetFact) (Result, error) {
	trial := g.Clone()
	step, err := solver.ApplyClue(trial, c, categories)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Updates:         step.Updates,
		Reasons:         step.Reasons,
		PercentComplete: step.PercentComplete,
	}

	if target != nil {
		wasSolved := false
		if _, ok, _ := g.Determined(target.Cat1, target.Val1, target.Cat2); ok {
			wasSolved = true
		}
		_, nowSolved, _ := trial.Determined(target.Cat1, target.Val1, target.Cat2)
		result.IsDirectAnswer = !wasSolved && nowSolved
	}

	result.HeuristicScore = heuristicScore(result)
	return result, nil
}

// heuristicScore implements spec.md §4.6's recommended formula: 10 points
// per raw update, zero for tautologies, and 2 more for each "transitivity"
// or "uniqueness" reason tag; no clue family gets a bonus of its own. Ranking a
// direct-answer clue last is a sort-order guarantee, not a scoring one —
// internal/session.GetScoredMatchingClues enforces that; this function only
// ranks clues within each of those two groups.
func heuristicScore(r Result) int {
	if r.Updates == 0 {
		return 0
	}
	score := r.Updates * 10
	for _, reason := range r.Reasons {
		if reason == "transitivity" || reason == "uniqueness" {
			score += 2
		}
	}
	return score
}
