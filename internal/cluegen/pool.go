// Package cluegen builds the candidate pool of true clues a
// GenerativeSession draws from.
//
// Grounded on internal/sudoku/dp/solver.go's CarveGivensWithSubset, which
// shuffles candidate positions once and samples from that order rather
// than enumerating every subset of the grid. This package applies the same
// discipline to clue families: each one is sampled via
// internal/clue.EnumerateX up to a bounded cap instead of being
// materialised exhaustively, per spec.md §4.5/§5.
package cluegen

import (
	"github.com/joshhills/logic-puzzle-generator/internal/clue"
	"github.com/joshhills/logic-puzzle-generator/internal/core"
	"github.com/joshhills/logic-puzzle-generator/internal/rng"
	"github.com/joshhills/logic-puzzle-generator/pkg/constants"
)

// Pool is the cached candidate set a session searches over. Disjunctions
// are not included here — spec.md §4.5 requires they be generated lazily,
// pairing a true clue with a random false sibling, rather than
// precomputing all O(n^2) pairs.
type Pool struct {
	byType map[clue.Type][]clue.Clue
	all    []clue.Clue
}

// Build samples the full non-disjunction pool from sol, restricted to
// families allowed by both the registry's enabled set and allowed. An
// explicitly requested type (present and true in allowed) that the layout
// cannot satisfy — e.g. CrossOrdinal over fewer than two ordinal
// categories — is a ConfigurationError (spec.md §4.5/§7), not a silent
// skip: only types left unmentioned in allowed are skipped quietly when
// infeasible.
func Build(categories []core.Category, sol *core.Solution, registry *clue.Registry, allowed clue.AllowedTypes, source *rng.Source) (*Pool, error) {
	p := &Pool{byType: make(map[clue.Type][]clue.Clue)}

	for _, fam := range registry.All() {
		if fam.Type == clue.Disjunction {
			continue
		}
		if !fam.Enabled || !allowed.Allows(fam.Type) {
			continue
		}
		if !registry.Feasible(fam.Type, categories) {
			if allowed[fam.Type] {
				return nil, core.NewError(core.ErrConfiguration, "requested clue type %q is infeasible for this category layout", fam.Type)
			}
			continue
		}
		if fam.Enumerate == nil {
			continue
		}
		clues := fam.Enumerate(categories, sol, source, constants.PoolCapPerFamily)
		// Drop clues that rank an item along its own category (e.g. a house
		// ranked along "house"): the grid has no (house, house) pair, so the
		// solver cannot apply them.
		kept := clues[:0]
		for _, c := range clues {
			selfRanked := false
			for i, it := range c.Items {
				ord := c.OrdinalCat
				if c.Type == clue.CrossOrdinal && i == 1 {
					ord = c.Ordinal2Cat
				}
				selfRanked = selfRanked || it.Cat == ord
			}
			if !selfRanked {
				kept = append(kept, c)
			}
		}
		clues = kept
		if len(clues) == 0 {
			continue
		}
		p.byType[fam.Type] = clues
		p.all = append(p.all, clues...)
	}

	return p, nil
}

// All returns every candidate clue in the pool (no disjunctions).
func (p *Pool) All() []clue.Clue { return p.all }

// ByType returns the cached candidates for one family.
func (p *Pool) ByType(t clue.Type) []clue.Clue { return p.byType[t] }

// Len returns the number of non-disjunction candidates.
func (p *Pool) Len() int { return len(p.all) }

// RandomFalseSibling draws a clue of the same shape as base but false under
// sol, for pairing into a Disjunction (spec.md §4.5). It mutates a copy of
// base's operands rather than drawing from the pool, since the pool only
// holds true clues.
func RandomFalseSibling(categories []core.Category, sol *core.Solution, base clue.Clue, source *rng.Source) (clue.Clue, bool) {
	for attempt := 0; attempt < 16; attempt++ {
		var candidate clue.Clue
		switch base.Type {
		case clue.Binary:
			cat2, ok := categoryOf(categories, base.Items[1].Cat)
			if !ok {
				return clue.Clue{}, false
			}
			v := cat2.Values[source.IntN(len(cat2.Values))]
			candidate = base
			candidate.Items = []clue.Item{base.Items[0], {Cat: cat2.ID, Val: v.Label}}
			if base.BinaryOp == clue.IS {
				candidate.BinaryOp = clue.IS
			} else {
				candidate.BinaryOp = clue.IS_NOT
			}
		case clue.Adjacency, clue.Between:
			// Neither predicate has a free operator, and swapping operands
			// never flips truth value since both are orientation-symmetric
			// (AdjacencyHolds/BetweenHolds accept either order). Substitute
			// a randomly drawn value for the last item instead.
			candidate = substituteLastItem(categories, base, source)
		default:
			// For ordinal-family clues, flipping the operator's true/false
			// sense over the same operands yields a same-shape false sibling.
			candidate = flipOperator(base)
		}
		if candidate.Type == "" {
			return clue.Clue{}, false
		}
		if !clue.IsTrueUnder(candidate, categories, sol) {
			return candidate, true
		}
	}
	return clue.Clue{}, false
}

// substituteLastItem returns a copy of base with its final Item replaced by
// a random value drawn from the same category, for families (Adjacency,
// Between) whose predicate has no operator to negate.
func substituteLastItem(categories []core.Category, base clue.Clue, source *rng.Source) clue.Clue {
	last := base.Items[len(base.Items)-1]
	cat, ok := categoryOf(categories, last.Cat)
	if !ok {
		return clue.Clue{}
	}
	v := cat.Values[source.IntN(len(cat.Values))]
	candidate := base
	candidate.Items = append([]clue.Item(nil), base.Items...)
	candidate.Items[len(candidate.Items)-1] = clue.Item{Cat: cat.ID, Val: v.Label}
	return candidate
}

func categoryOf(categories []core.Category, id string) (*core.Category, bool) {
	c := core.FindCategory(categories, id)
	if c == nil {
		return nil, false
	}
	return c, true
}

// flipOperator returns a clue identical to c but with its operator negated.
// Adjacency and Between have no free operator and are handled separately by
// substituteLastItem; Binary is handled directly in RandomFalseSibling.
func flipOperator(c clue.Clue) clue.Clue {
	out := c
	switch c.Type {
	case clue.OrdinalType:
		switch c.OrdinalOp {
		case clue.LT:
			out.OrdinalOp = clue.NOT_LT
		case clue.GT:
			out.OrdinalOp = clue.NOT_GT
		case clue.NOT_LT:
			out.OrdinalOp = clue.LT
		case clue.NOT_GT:
			out.OrdinalOp = clue.GT
		}
	case clue.Superlative:
		switch c.SuperlativeOp {
		case clue.MIN:
			out.SuperlativeOp = clue.NOT_MIN
		case clue.MAX:
			out.SuperlativeOp = clue.NOT_MAX
		case clue.NOT_MIN:
			out.SuperlativeOp = clue.MIN
		case clue.NOT_MAX:
			out.SuperlativeOp = clue.MAX
		}
	case clue.Unary:
		if c.UnaryFilt == clue.IS_ODD {
			out.UnaryFilt = clue.IS_EVEN
		} else {
			out.UnaryFilt = clue.IS_ODD
		}
	case clue.CrossOrdinal:
		if c.CrossOrdinalOp == clue.MATCH {
			out.CrossOrdinalOp = clue.NOT_MATCH
		} else {
			out.CrossOrdinalOp = clue.MATCH
		}
	case clue.Arithmetic:
		if len(out.Items) == 4 {
			out.Items[0], out.Items[1] = out.Items[1], out.Items[0]
		}
	}
	return out
}
