// Package session implements GenerativeSession, the mutable
// puzzle-in-progress: a solution, an ordered clue chain, and one cached
// grid snapshot per chain prefix.
//
// Grounded on internal/sudoku/human/solver.go's Solver struct (a registry
// plus a persistent GenerationState machine threaded across calls) and
// internal/sudoku/dp/solver.go's CarveGivensWithSubset, which tracks a
// removalOrder and is able to restore cells in reverse — the same
// undo/replay discipline this package applies to clue steps instead of
// grid cells.
package session

import (
	"sort"

	"github.com/joshhills/logic-puzzle-generator/internal/clue"
	"github.com/joshhills/logic-puzzle-generator/internal/cluegen"
	"github.com/joshhills/logic-puzzle-generator/internal/core"
	"github.com/joshhills/logic-puzzle-generator/internal/grid"
	"github.com/joshhills/logic-puzzle-generator/internal/rng"
	"github.com/joshhills/logic-puzzle-generator/internal/scorer"
	"github.com/joshhills/logic-puzzle-generator/internal/solver"
	"github.com/joshhills/logic-puzzle-generator/pkg/constants"
)

// Constraints narrows get_next_clue/get_scored_matching_clues per
// spec.md §4.7.
type Constraints struct {
	AllowedTypes    clue.AllowedTypes
	IncludeSubjects []string
	ExcludeSubjects []string
	MinDeductions   int
	MaxDeductions   int // zero means unbounded
}

// ScoredClue is one row of get_scored_matching_clues's result.
type ScoredClue struct {
	Clue            clue.Clue
	Score           int
	Updates         int
	IsDirectAnswer  bool
	PercentComplete float64
}

// Session is the orchestrator. Not safe for concurrent use, per spec.md §5.
type Session struct {
	categories []core.Category
	solution   *core.Solution
	source     *rng.Source
	registry   *clue.Registry
	pool       *cluegen.Pool
	target     *scorer.TargetFact

	chain           []clue.Clue
	steps           []core.ProofStep
	cachedGrids     []*grid.Grid
	solvedStepIndex int // -1 if not solved

	disjunctions []clue.Clue
}

// Start validates categories, samples a solution, and pre-enumerates the
// candidate pool, per spec.md §4.7.
func Start(categories []core.Category, allowed clue.AllowedTypes, target *scorer.TargetFact, seed int64) (*Session, error) {
	validated, err := core.ValidateCategories(categories)
	if err != nil {
		return nil, err
	}

	source := rng.NewFromSeed(seed)
	sol := core.SampleSolution(validated, source)
	registry := clue.NewRegistry()
	pool, err := cluegen.Build(validated, sol, registry, allowed, source)
	if err != nil {
		return nil, err
	}

	s := &Session{
		categories:      validated,
		solution:        sol,
		source:          source,
		registry:        registry,
		pool:            pool,
		target:          target,
		cachedGrids:     []*grid.Grid{grid.New(validated)},
		solvedStepIndex: -1,
	}
	return s, nil
}

// Categories returns the puzzle's validated category list.
func (s *Session) Categories() []core.Category { return s.categories }

// GetSolution returns the session's solution (read-only view).
func (s *Session) GetSolution() *core.Solution { return s.solution }

// GetProofChain returns the ordered proof steps applied so far.
func (s *Session) GetProofChain() []core.ProofStep { return s.steps }

// GetTargetSolvedStepIndex returns the smallest step index at which the
// configured target fact became determined, if any.
func (s *Session) GetTargetSolvedStepIndex() (int, bool) {
	if s.solvedStepIndex < 0 {
		return 0, false
	}
	return s.solvedStepIndex, true
}

// CurrentGrid returns the grid after the full chain applied so far.
func (s *Session) CurrentGrid() *grid.Grid { return s.cachedGrids[len(s.cachedGrids)-1] }

// CachedGrids returns every cached grid snapshot, cachedGrids[0] the blank
// grid and cachedGrids[i] the grid after the first i chain steps.
func (s *Session) CachedGrids() []*grid.Grid { return s.cachedGrids }

// Chain returns the ordered clue chain.
func (s *Session) Chain() []clue.Clue { return s.chain }

// ClueFamilyCounts tallies how many clues of each family are in the chain
// so far, the session-level analogue of the teacher's TechniqueSummary.
func (s *Session) ClueFamilyCounts() map[string]int {
	counts := make(map[string]int)
	for _, c := range s.chain {
		counts[string(c.Type)]++
	}
	return counts
}

// IsSolved reports whether the puzzle (or its target fact) is solved.
func (s *Session) IsSolved() bool {
	if s.target != nil {
		return s.solvedStepIndex >= 0
	}
	return s.CurrentGrid().IsFullySolved()
}

func inChain(chain []clue.Clue, c clue.Clue) bool {
	key := clue.Key(c)
	for _, existing := range chain {
		if clue.Key(existing) == key {
			return true
		}
	}
	return false
}

func subjectsOf(c clue.Clue) map[string]bool {
	subjects := make(map[string]bool)
	for _, it := range c.Items {
		subjects[it.Cat] = true
	}
	if c.OrdinalCat != "" {
		subjects[c.OrdinalCat] = true
	}
	if c.Ordinal2Cat != "" {
		subjects[c.Ordinal2Cat] = true
	}
	if c.A != nil {
		for k := range subjectsOf(*c.A) {
			subjects[k] = true
		}
	}
	if c.B != nil {
		for k := range subjectsOf(*c.B) {
			subjects[k] = true
		}
	}
	return subjects
}

func matchesSubjects(c clue.Clue, include, exclude []string) bool {
	if len(include) == 0 && len(exclude) == 0 {
		return true
	}
	subjects := subjectsOf(c)
	for _, id := range include {
		if !subjects[id] {
			return false
		}
	}
	for _, id := range exclude {
		if subjects[id] {
			return false
		}
	}
	return true
}

// candidateSource is every candidate clue this session can currently draw
// from: the pre-enumerated pool plus any disjunctions built so far.
func (s *Session) candidateSource() []clue.Clue {
	out := make([]clue.Clue, 0, len(s.pool.All())+len(s.disjunctions))
	out = append(out, s.pool.All()...)
	out = append(out, s.disjunctions...)
	return out
}

// ensureDisjunctions lazily grows the disjunction cache toward n entries by
// pairing random true clues from the pool with a random false sibling, per
// spec.md §4.5.
func (s *Session) ensureDisjunctions(n int) {
	poolAll := s.pool.All()
	if len(poolAll) == 0 {
		return
	}
	for len(s.disjunctions) < n {
		base := poolAll[s.source.IntN(len(poolAll))]
		sibling, ok := cluegen.RandomFalseSibling(s.categories, s.solution, base, s.source)
		if !ok {
			break
		}
		d := clue.NewDisjunction(base, sibling)
		if inChain(s.disjunctions, d) {
			continue
		}
		s.disjunctions = append(s.disjunctions, d)
	}
}

// GetScoredMatchingClues non-mutatingly scores every candidate satisfying
// constraints, sorted descending by heuristic score, truncated at limit
// (limit<=0 means unbounded).
func (s *Session) GetScoredMatchingClues(constraints Constraints, limit int) ([]ScoredClue, error) {
	if constraints.AllowedTypes.Allows(clue.Disjunction) {
		s.ensureDisjunctions(constants.DisjunctionSample)
	}

	grid := s.CurrentGrid()
	var out []ScoredClue
	for _, c := range s.candidateSource() {
		if !constraints.AllowedTypes.Allows(c.Type) {
			continue
		}
		if !matchesSubjects(c, constraints.IncludeSubjects, constraints.ExcludeSubjects) {
			continue
		}
		if inChain(s.chain, c) {
			continue
		}
		result, err := scorer.Score(c, grid, s.categories, s.target)
		if err != nil {
			return nil, err
		}
		if result.Updates < 1 {
			continue
		}
		if result.Updates < constraints.MinDeductions {
			continue
		}
		if constraints.MaxDeductions > 0 && result.Updates > constraints.MaxDeductions {
			continue
		}
		out = append(out, ScoredClue{
			Clue:            c,
			Score:           result.HeuristicScore,
			Updates:         result.Updates,
			IsDirectAnswer:  result.IsDirectAnswer,
			PercentComplete: result.PercentComplete,
		})
	}

	// Direct-answer clues rank strictly last regardless of score (spec.md
	// §4.6/§8 S5) — a clue that directly reveals the target fact makes a
	// poor next-step suggestion even if it racked up many updates.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDirectAnswer != out[j].IsDirectAnswer {
			return !out[i].IsDirectAnswer
		}
		return out[i].Score > out[j].Score
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetMatchingClueCount is a non-mutating cardinality count for UI use.
func (s *Session) GetMatchingClueCount(constraints Constraints) (int, error) {
	matches, err := s.GetScoredMatchingClues(constraints, 0)
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}

// GetNextClue applies the highest-scoring eligible candidate and appends
// its ProofStep, or reports the puzzle already solved.
func (s *Session) GetNextClue(constraints Constraints) (*clue.Clue, bool, error) {
	if s.IsSolved() {
		return nil, true, nil
	}

	matches, err := s.GetScoredMatchingClues(constraints, 0)
	if err != nil {
		return nil, false, err
	}
	if len(matches) == 0 {
		return nil, false, core.NewError(core.ErrNoMatchingClue, "no candidate clue satisfies the given constraints")
	}

	// matches is sorted with direct-answer clues last, so the top entry is
	// already the best non-direct candidate when one exists.
	chosen := matches[0]

	if err := s.applyAndAppend(chosen.Clue); err != nil {
		return nil, false, err
	}
	c := chosen.Clue
	return &c, s.IsSolved(), nil
}

// UseClue appends an externally chosen clue, rejecting it if not true
// under the solution, already present, redundant, or inconsistent.
func (s *Session) UseClue(c clue.Clue) (bool, error) {
	if inChain(s.chain, c) {
		return false, core.NewError(core.ErrClueRedundant, "clue is already in the chain")
	}
	if !clue.IsTrueUnder(c, s.categories, s.solution) {
		return false, core.NewError(core.ErrClueNotTrue, "clue is not true under this session's solution")
	}

	trial := s.CurrentGrid().Clone()
	step, err := solver.ApplyClue(trial, c, s.categories)
	if err != nil {
		return false, err
	}
	if step.Contradiction != nil {
		return false, core.NewContextError(core.ErrInconsistent, step.Contradiction.Category, step.Contradiction.Value,
			"applying clue would drive (%s=%s) to zero possibilities against %s", step.Contradiction.Category, step.Contradiction.Value, step.Contradiction.OtherCategory)
	}
	if step.Updates == 0 {
		return false, core.NewError(core.ErrClueRedundant, "clue flips zero possibilities against the current grid")
	}

	s.chain = append(s.chain, c)
	s.steps = append(s.steps, step)
	s.cachedGrids = append(s.cachedGrids, trial)
	s.maybeMarkSolved(len(s.chain) - 1)

	return s.IsSolved(), nil
}

func (s *Session) applyAndAppend(c clue.Clue) error {
	trial := s.CurrentGrid().Clone()
	step, err := solver.ApplyClue(trial, c, s.categories)
	if err != nil {
		return err
	}
	if step.Contradiction != nil {
		return core.NewContextError(core.ErrInconsistent, step.Contradiction.Category, step.Contradiction.Value,
			"applying clue would drive (%s=%s) to zero possibilities against %s", step.Contradiction.Category, step.Contradiction.Value, step.Contradiction.OtherCategory)
	}
	s.chain = append(s.chain, c)
	s.steps = append(s.steps, step)
	s.cachedGrids = append(s.cachedGrids, trial)
	s.maybeMarkSolved(len(s.chain) - 1)
	return nil
}

func (s *Session) maybeMarkSolved(stepIndex int) {
	if s.target == nil || s.solvedStepIndex >= 0 {
		return
	}
	if _, ok, _ := s.CurrentGrid().Determined(s.target.Cat1, s.target.Val1, s.target.Cat2); ok {
		s.solvedStepIndex = stepIndex + 1 // grids are 1-indexed relative to chain prefix
	}
}

// RollbackLastClue pops the last step and truncates the cache.
func (s *Session) RollbackLastClue() bool {
	if len(s.chain) == 0 {
		return false
	}
	s.chain = s.chain[:len(s.chain)-1]
	s.steps = s.steps[:len(s.steps)-1]
	s.cachedGrids = s.cachedGrids[:len(s.cachedGrids)-1]
	if s.solvedStepIndex > len(s.chain) {
		s.solvedStepIndex = -1
	}
	return true
}

// MoveClue reorders the chain and replays from the blank grid, reporting
// whether the move actually changed the outcome.
func (s *Session) MoveClue(from, to int) (bool, error) {
	if from < 0 || from >= len(s.chain) || to < 0 || to >= len(s.chain) {
		return false, core.NewError(core.ErrUnknownCategoryValue, "move_clue index out of range")
	}
	if from == to {
		return false, nil
	}

	prevPercent := s.CurrentGrid().PercentComplete()
	prevSolvedIdx := s.solvedStepIndex

	reordered := make([]clue.Clue, len(s.chain))
	copy(reordered, s.chain)
	moved := reordered[from]
	reordered = append(reordered[:from], reordered[from+1:]...)
	reordered = append(reordered[:to], append([]clue.Clue{moved}, reordered[to:]...)...)

	s.chain = reordered
	if err := s.replay(); err != nil {
		return false, err
	}

	noOp := prevPercent == s.CurrentGrid().PercentComplete() && prevSolvedIdx == s.solvedStepIndex
	return !noOp, nil
}

// RemoveClueAt deletes the indexed step and replays the remainder. The
// chain is permitted to be non-minimal afterward; no auto-compaction runs.
func (s *Session) RemoveClueAt(index int) (bool, error) {
	if index < 0 || index >= len(s.chain) {
		return false, core.NewError(core.ErrUnknownCategoryValue, "remove_clue_at index out of range")
	}
	s.chain = append(s.chain[:index], s.chain[index+1:]...)
	if err := s.replay(); err != nil {
		return false, err
	}
	return true, nil
}

// replay rebuilds steps/cachedGrids/solvedStepIndex from the blank grid by
// reapplying the current chain in order.
func (s *Session) replay() error {
	s.steps = nil
	s.cachedGrids = s.cachedGrids[:1] // keep only the blank grid
	s.solvedStepIndex = -1

	for i, c := range s.chain {
		trial := s.cachedGrids[len(s.cachedGrids)-1].Clone()
		step, err := solver.ApplyClue(trial, c, s.categories)
		if err != nil {
			return err
		}
		s.steps = append(s.steps, step)
		s.cachedGrids = append(s.cachedGrids, trial)
		if s.target != nil && s.solvedStepIndex < 0 {
			if _, ok, _ := trial.Determined(s.target.Cat1, s.target.Val1, s.target.Cat2); ok {
				s.solvedStepIndex = i + 1
			}
		}
	}
	return nil
}
