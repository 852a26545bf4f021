// Package generator drives one-shot puzzle synthesis: sample a solution,
// grow a clue chain with GetNextClue until the puzzle is solved or a
// clue-count target is met, and report the result.
//
// Grounded on cmd/generate/main.go's seed-driven batch loop and its
// ticker-based progress reporter (elapsed/rate/remaining). That file
// fans out across a worker pool; this package collapses it to a single
// sequential loop, since spec.md §5 mandates cooperative, single-threaded
// scheduling with no internal suspension points.
package generator

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/joshhills/logic-puzzle-generator/internal/clue"
	"github.com/joshhills/logic-puzzle-generator/internal/core"
	"github.com/joshhills/logic-puzzle-generator/internal/scorer"
	"github.com/joshhills/logic-puzzle-generator/internal/session"
	"github.com/joshhills/logic-puzzle-generator/pkg/constants"
)

// Options configures one Generate call.
type Options struct {
	AllowedTypes clue.AllowedTypes
	TargetFact   *TargetFactOption // nil: solve the full grid, not one fact
	MinClues     int
	MaxClues     int
	Timeout      time.Duration
	Seed         int64
	Logger       *slog.Logger
}

// TargetFactOption names the one fact Generate should solve toward,
// mirroring scorer.TargetFact without importing that package's cloning
// concerns into the option surface.
type TargetFactOption struct {
	Cat1, Val1, Cat2 string
}

// Puzzle is a completed (or best-effort partial) generation result: the
// category layout, solution, ordered clue chain, difficulty classification,
// and the session it was built in (kept so a caller can replay/inspect it
// further). Incomplete is set whenever the returned puzzle (or its target
// fact) is not fully solved, whether the time budget or the restart budget
// ran out first — per spec.md §4.8's
// "return best partial with an Incomplete marker; callers decide whether
// to accept" failure semantics. Callers must check Incomplete rather than
// assume a returned Puzzle is solved.
type Puzzle struct {
	Categories  []core.Category
	Solution    *core.Solution
	Clues       []clue.Clue
	Difficulty  core.Difficulty
	ClueCounts  map[string]int
	GeneratedIn time.Duration
	Session     *session.Session
	Incomplete  bool
}

// Generate grows a puzzle from scratch. It restarts with a fresh seed
// (derived deterministically from opts.Seed) up to constants.MaxRestarts
// times, keeping the best partial result seen so far. If the time budget
// runs out or restarts are exhausted before a fully satisfactory puzzle is
// reached, it returns that best partial with Incomplete set rather than
// discarding the progress and returning an error.
func Generate(ctx context.Context, categories []core.Category, opts Options) (*Puzzle, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	start := time.Now()
	var target *scorer.TargetFact
	if opts.TargetFact != nil {
		target = &scorer.TargetFact{Cat1: opts.TargetFact.Cat1, Val1: opts.TargetFact.Val1, Cat2: opts.TargetFact.Cat2}
	}

	var best *Puzzle
	var lastErr error

	for attempt := 0; attempt < constants.MaxRestarts; attempt++ {
		seed := opts.Seed + int64(attempt)
		puzzle, needsRestart, err := attemptGenerate(ctx, categories, opts, target, seed, logger)
		if err != nil {
			lastErr = err
			break
		}
		if !needsRestart {
			puzzle.GeneratedIn = time.Since(start)
			logger.Info("puzzle generated",
				"clues", len(puzzle.Clues),
				"difficulty", puzzle.Difficulty,
				"elapsed", humanize.RelTime(start, time.Now(), "", ""),
				"attempt", attempt+1,
			)
			return puzzle, nil
		}

		if best == nil || isBetter(puzzle, best) {
			best = puzzle
		}

		select {
		case <-ctx.Done():
			return finalizePartial(best, start, logger, "generation deadline exceeded"), nil
		default:
		}
		logger.Warn("generation attempt did not meet target, retrying", "attempt", attempt+1, "seed", seed)
	}

	if best != nil {
		return finalizePartial(best, start, logger, "generation exhausted restarts"), nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, core.NewError(core.ErrConfiguration, "no attempt produced a usable puzzle")
}

// finalizePartial stamps and logs the best partial result seen across
// attempts when Generate is about to return without having reached an
// ideal (solved, target-clue-count-satisfied) puzzle.
func finalizePartial(best *Puzzle, start time.Time, logger *slog.Logger, reason string) *Puzzle {
	if !best.Session.IsSolved() {
		best.Incomplete = true
	}
	best.GeneratedIn = time.Since(start)
	logger.Warn(reason, "clues", len(best.Clues), "incomplete", best.Incomplete, "percentComplete", best.Session.CurrentGrid().PercentComplete())
	return best
}

// isBetter reports whether candidate is preferable to current as the
// fallback partial result: solved beats unsolved, then higher grid
// completion, then a longer chain.
func isBetter(candidate, current *Puzzle) bool {
	candidateSolved := candidate.Session.IsSolved()
	currentSolved := current.Session.IsSolved()
	if candidateSolved != currentSolved {
		return candidateSolved
	}
	candidatePct := candidate.Session.CurrentGrid().PercentComplete()
	currentPct := current.Session.CurrentGrid().PercentComplete()
	if candidatePct != currentPct {
		return candidatePct > currentPct
	}
	return len(candidate.Clues) > len(current.Clues)
}

// attemptGenerate runs one session to completion, stall, or deadline and
// always returns a Puzzle reflecting however far it got. needsRestart
// reports whether the result falls short of ideal (not solved, or short of
// opts.MinClues) and so is only a candidate fallback, not a final answer.
func attemptGenerate(ctx context.Context, categories []core.Category, opts Options, target *scorer.TargetFact, seed int64, logger *slog.Logger) (*Puzzle, bool, error) {
	sess, err := session.Start(categories, opts.AllowedTypes, target, seed)
	if err != nil {
		return nil, false, err
	}

	constraints := session.Constraints{AllowedTypes: opts.AllowedTypes}
	maxClues := opts.MaxClues
	if maxClues <= 0 {
		maxClues = constants.MaxSolverSteps
	}

	for len(sess.Chain()) < maxClues {
		select {
		case <-ctx.Done():
			return buildPuzzle(categories, sess), true, nil
		default:
		}

		_, solved, err := sess.GetNextClue(constraints)
		if err != nil {
			if core.Is(err, core.ErrNoMatchingClue) {
				break
			}
			return nil, false, err
		}
		if solved {
			break
		}
	}

	puzzle := buildPuzzle(categories, sess)
	meetsMinClues := opts.MinClues <= 0 || len(sess.Chain()) >= opts.MinClues
	needsRestart := !sess.IsSolved() || !meetsMinClues
	return puzzle, needsRestart, nil
}

func buildPuzzle(categories []core.Category, sess *session.Session) *Puzzle {
	counts := sess.ClueFamilyCounts()
	return &Puzzle{
		Categories: categories,
		Solution:   sess.GetSolution(),
		Clues:      sess.Chain(),
		Difficulty: core.EstimateDifficulty(counts),
		ClueCounts: counts,
		Session:    sess,
		Incomplete: !sess.IsSolved(),
	}
}
