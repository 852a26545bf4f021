// Package solver implements the propagator: applying one clue to a grid and
// running deduction to a fixed point.
//
// Grounded on internal/sudoku/human/solver.go's Solver.FindNextMove/ApplyMove
// orchestration loop (collect moves, apply, repeat until no technique
// fires) and board.go's SetCell, which cascades a confirmed digit into
// every peer cell's candidate mask in one call. This package generalises
// that single cascade into the four rules spec.md §4.3 names: clue-direct
// elimination, row uniqueness, column uniqueness, and transitivity.
package solver

import (
	"github.com/joshhills/logic-puzzle-generator/internal/clue"
	"github.com/joshhills/logic-puzzle-generator/internal/core"
	"github.com/joshhills/logic-puzzle-generator/internal/grid"
)

const (
	reasonElimination = "elimination"
	reasonConfirm     = "confirmation"
	reasonUniqueness  = "uniqueness"
	reasonTransitive  = "transitivity"
	reasonDisjunction = "disjunction"
)

// eliminator bundles a Grid with the bookkeeping apply_clue needs: how many
// bits actually flipped and why.
type eliminator struct {
	g       *grid.Grid
	updates int
	reasons []string
}

func (e *eliminator) eliminate(a, va, b, vb, reason string) error {
	flipped, err := e.g.SetPossibility(a, va, b, vb, false)
	if err != nil {
		return err
	}
	if flipped {
		e.updates++
		e.reasons = append(e.reasons, reason)
	}
	return nil
}

// ApplyClue mutates g to reflect c, running every deduction rule to
// quiescence, and reports the resulting ProofStep. It never returns an
// error for an inconsistent-but-well-formed clue: inconsistency surfaces as
// step.Contradiction, per spec.md §4.3's failure semantics. Only malformed
// input (unknown category/value) produces an error.
func ApplyClue(g *grid.Grid, c clue.Clue, categories []core.Category) (core.ProofStep, error) {
	e := &eliminator{g: g}

	if err := directEliminate(e, c, categories); err != nil {
		return core.ProofStep{}, err
	}

	for {
		if !g.IsConsistent() {
			break
		}
		before := e.updates
		if err := propagateUniqueness(e, categories); err != nil {
			return core.ProofStep{}, err
		}
		if err := propagateTransitivity(e, categories); err != nil {
			return core.ProofStep{}, err
		}
		if e.updates == before {
			break
		}
	}

	step := core.ProofStep{
		Updates:         e.updates,
		Reasons:         e.reasons,
		PercentComplete: g.PercentComplete(),
	}
	if !g.IsConsistent() {
		catA, valA, catB, ok := g.FirstContradiction()
		if ok {
			step.Contradiction = &core.Contradiction{Category: catA, Value: valA, OtherCategory: catB}
		}
	}
	return step, nil
}

// directEliminate applies rule 1: the clue's own semantics, per family.
func directEliminate(e *eliminator, c clue.Clue, categories []core.Category) error {
	switch c.Type {
	case clue.Binary:
		return directBinary(e, c)
	case clue.OrdinalType:
		return directOrdinal(e, c, categories)
	case clue.Superlative:
		return directSuperlative(e, c, categories)
	case clue.Unary:
		return directUnary(e, c, categories)
	case clue.CrossOrdinal:
		return directCrossOrdinal(e, c, categories)
	case clue.Adjacency:
		return directAdjacency(e, c, categories)
	case clue.Between:
		return directBetween(e, c, categories)
	case clue.Arithmetic:
		return directArithmetic(e, c, categories)
	case clue.Disjunction:
		return directDisjunction(e, c, categories)
	default:
		return core.NewError(core.ErrUnknownCategoryValue, "unknown clue type %q", c.Type)
	}
}

func directBinary(e *eliminator, c clue.Clue) error {
	cat1, val1 := c.Items[0].Cat, c.Items[0].Val
	cat2, val2 := c.Items[1].Cat, c.Items[1].Val

	if c.BinaryOp == clue.IS_NOT {
		return e.eliminate(cat1, val1, cat2, val2, reasonElimination)
	}

	cat2Model, ok := e.g.Category(cat2)
	if !ok {
		return core.NewError(core.ErrUnknownCategoryValue, "unknown category %q", cat2)
	}
	for _, v := range cat2Model.Values {
		if v.Label == val2 {
			continue
		}
		if err := e.eliminate(cat1, val1, cat2, v.Label, reasonConfirm); err != nil {
			return err
		}
	}
	cat1Model, ok := e.g.Category(cat1)
	if !ok {
		return core.NewError(core.ErrUnknownCategoryValue, "unknown category %q", cat1)
	}
	for _, v := range cat1Model.Values {
		if v.Label == val1 {
			continue
		}
		if err := e.eliminate(cat1, v.Label, cat2, val2, reasonConfirm); err != nil {
			return err
		}
	}
	return nil
}

// rowSupportPrune eliminates, from item's row against ordinalCat, every
// candidate ordinal value that has no currently-possible partner on
// other's row satisfying holds. This is the general shape behind Ordinal,
// Adjacency and CrossOrdinal's direct elimination.
func rowSupportPrune(e *eliminator, itemCat, itemVal, otherCat, otherVal, ordinalCat string, holds func(r1, r2 int) bool) error {
	ord, ok := e.g.Category(ordinalCat)
	if !ok {
		return core.NewError(core.ErrUnknownCategoryValue, "unknown category %q", ordinalCat)
	}
	for _, v1 := range ord.Values {
		possible, err := e.g.IsPossible(itemCat, itemVal, ordinalCat, v1.Label)
		if err != nil {
			return err
		}
		if !possible {
			continue
		}
		r1, _ := ord.Rank(v1.Label)
		supported := false
		for _, v2 := range ord.Values {
			possible2, err := e.g.IsPossible(otherCat, otherVal, ordinalCat, v2.Label)
			if err != nil {
				return err
			}
			if !possible2 {
				continue
			}
			r2, _ := ord.Rank(v2.Label)
			if holds(r1, r2) {
				supported = true
				break
			}
		}
		if !supported {
			if err := e.eliminate(itemCat, itemVal, ordinalCat, v1.Label, reasonElimination); err != nil {
				return err
			}
		}
	}
	return nil
}

func directOrdinal(e *eliminator, c clue.Clue, categories []core.Category) error {
	i1, i2 := c.Items[0], c.Items[1]
	holds := func(r1, r2 int) bool { return clue.OrdinalHolds(c.OrdinalOp, r1, r2) }
	swapped := func(r1, r2 int) bool { return clue.OrdinalHolds(c.OrdinalOp, r2, r1) }
	if err := rowSupportPrune(e, i1.Cat, i1.Val, i2.Cat, i2.Val, c.OrdinalCat, holds); err != nil {
		return err
	}
	return rowSupportPrune(e, i2.Cat, i2.Val, i1.Cat, i1.Val, c.OrdinalCat, swapped)
}

func directSuperlative(e *eliminator, c clue.Clue, categories []core.Category) error {
	target := c.Items[0]
	ord, ok := e.g.Category(c.OrdinalCat)
	if !ok {
		return core.NewError(core.ErrUnknownCategoryValue, "unknown category %q", c.OrdinalCat)
	}
	n := ord.Arity()
	for _, v := range ord.Values {
		r, _ := ord.Rank(v.Label)
		if !clue.SuperlativeHolds(c.SuperlativeOp, r, n) {
			if err := e.eliminate(target.Cat, target.Val, c.OrdinalCat, v.Label, reasonElimination); err != nil {
				return err
			}
		}
	}
	return nil
}

func directUnary(e *eliminator, c clue.Clue, categories []core.Category) error {
	target := c.Items[0]
	ord, ok := e.g.Category(c.OrdinalCat)
	if !ok {
		return core.NewError(core.ErrUnknownCategoryValue, "unknown category %q", c.OrdinalCat)
	}
	for _, v := range ord.Values {
		if !clue.UnaryHolds(c.UnaryFilt, v.Num) {
			if err := e.eliminate(target.Cat, target.Val, c.OrdinalCat, v.Label, reasonElimination); err != nil {
				return err
			}
		}
	}
	return nil
}

func directCrossOrdinal(e *eliminator, c clue.Clue, categories []core.Category) error {
	if len(c.Offsets) != 2 {
		return core.NewError(core.ErrUnknownCategoryValue, "cross-ordinal clue missing offsets")
	}
	i1, i2 := c.Items[0], c.Items[1]
	ord1, ok := e.g.Category(c.OrdinalCat)
	if !ok {
		return core.NewError(core.ErrUnknownCategoryValue, "unknown category %q", c.OrdinalCat)
	}
	ord2, ok := e.g.Category(c.Ordinal2Cat)
	if !ok {
		return core.NewError(core.ErrUnknownCategoryValue, "unknown category %q", c.Ordinal2Cat)
	}
	n := ord1.Arity()

	for _, v1 := range ord1.Values {
		possible, err := e.g.IsPossible(i1.Cat, i1.Val, c.OrdinalCat, v1.Label)
		if err != nil {
			return err
		}
		if !possible {
			continue
		}
		r1, _ := ord1.Rank(v1.Label)
		supported := false
		for _, v2 := range ord2.Values {
			possible2, err := e.g.IsPossible(i2.Cat, i2.Val, c.Ordinal2Cat, v2.Label)
			if err != nil {
				return err
			}
			if !possible2 {
				continue
			}
			r2, _ := ord2.Rank(v2.Label)
			if clue.CrossOrdinalHolds(c.CrossOrdinalOp, r1, c.Offsets[0], r2, c.Offsets[1], n) {
				supported = true
				break
			}
		}
		if !supported {
			if err := e.eliminate(i1.Cat, i1.Val, c.OrdinalCat, v1.Label, reasonElimination); err != nil {
				return err
			}
		}
	}

	for _, v2 := range ord2.Values {
		possible, err := e.g.IsPossible(i2.Cat, i2.Val, c.Ordinal2Cat, v2.Label)
		if err != nil {
			return err
		}
		if !possible {
			continue
		}
		r2, _ := ord2.Rank(v2.Label)
		supported := false
		for _, v1 := range ord1.Values {
			possible1, err := e.g.IsPossible(i1.Cat, i1.Val, c.OrdinalCat, v1.Label)
			if err != nil {
				return err
			}
			if !possible1 {
				continue
			}
			r1, _ := ord1.Rank(v1.Label)
			if clue.CrossOrdinalHolds(c.CrossOrdinalOp, r1, c.Offsets[0], r2, c.Offsets[1], n) {
				supported = true
				break
			}
		}
		if !supported {
			if err := e.eliminate(i2.Cat, i2.Val, c.Ordinal2Cat, v2.Label, reasonElimination); err != nil {
				return err
			}
		}
	}
	return nil
}

func directAdjacency(e *eliminator, c clue.Clue, categories []core.Category) error {
	i1, i2 := c.Items[0], c.Items[1]
	holds := func(r1, r2 int) bool { return clue.AdjacencyHolds(r1, r2) }
	if err := rowSupportPrune(e, i1.Cat, i1.Val, i2.Cat, i2.Val, c.OrdinalCat, holds); err != nil {
		return err
	}
	return rowSupportPrune(e, i2.Cat, i2.Val, i1.Cat, i1.Val, c.OrdinalCat, holds)
}

func directBetween(e *eliminator, c clue.Clue, categories []core.Category) error {
	target, lower, upper := c.Items[0], c.Items[1], c.Items[2]
	ord, ok := e.g.Category(c.OrdinalCat)
	if !ok {
		return core.NewError(core.ErrUnknownCategoryValue, "unknown category %q", c.OrdinalCat)
	}

	possibleRanks := func(itemCat, itemVal string) ([]int, error) {
		var ranks []int
		for _, v := range ord.Values {
			possible, err := e.g.IsPossible(itemCat, itemVal, c.OrdinalCat, v.Label)
			if err != nil {
				return nil, err
			}
			if possible {
				r, _ := ord.Rank(v.Label)
				ranks = append(ranks, r)
			}
		}
		return ranks, nil
	}

	lowerRanks, err := possibleRanks(lower.Cat, lower.Val)
	if err != nil {
		return err
	}
	upperRanks, err := possibleRanks(upper.Cat, upper.Val)
	if err != nil {
		return err
	}
	targetRanks, err := possibleRanks(target.Cat, target.Val)
	if err != nil {
		return err
	}

	for _, v := range ord.Values {
		possible, err := e.g.IsPossible(target.Cat, target.Val, c.OrdinalCat, v.Label)
		if err != nil {
			return err
		}
		if !possible {
			continue
		}
		rt, _ := ord.Rank(v.Label)
		supported := false
		for _, rl := range lowerRanks {
			for _, ru := range upperRanks {
				if clue.BetweenHolds(rt, rl, ru) {
					supported = true
					break
				}
			}
			if supported {
				break
			}
		}
		if !supported {
			if err := e.eliminate(target.Cat, target.Val, c.OrdinalCat, v.Label, reasonElimination); err != nil {
				return err
			}
		}
	}

	for _, v := range ord.Values {
		possible, err := e.g.IsPossible(lower.Cat, lower.Val, c.OrdinalCat, v.Label)
		if err != nil {
			return err
		}
		if !possible {
			continue
		}
		rl, _ := ord.Rank(v.Label)
		supported := false
		for _, rt := range targetRanks {
			for _, ru := range upperRanks {
				if clue.BetweenHolds(rt, rl, ru) {
					supported = true
					break
				}
			}
			if supported {
				break
			}
		}
		if !supported {
			if err := e.eliminate(lower.Cat, lower.Val, c.OrdinalCat, v.Label, reasonElimination); err != nil {
				return err
			}
		}
	}

	for _, v := range ord.Values {
		possible, err := e.g.IsPossible(upper.Cat, upper.Val, c.OrdinalCat, v.Label)
		if err != nil {
			return err
		}
		if !possible {
			continue
		}
		ru, _ := ord.Rank(v.Label)
		supported := false
		for _, rt := range targetRanks {
			for _, rl := range lowerRanks {
				if clue.BetweenHolds(rt, rl, ru) {
					supported = true
					break
				}
			}
			if supported {
				break
			}
		}
		if !supported {
			if err := e.eliminate(upper.Cat, upper.Val, c.OrdinalCat, v.Label, reasonElimination); err != nil {
				return err
			}
		}
	}
	return nil
}

func directArithmetic(e *eliminator, c clue.Clue, categories []core.Category) error {
	if len(c.Items) != 4 {
		return core.NewError(core.ErrUnknownCategoryValue, "arithmetic clue needs four items")
	}
	ord, ok := e.g.Category(c.OrdinalCat)
	if !ok {
		return core.NewError(core.ErrUnknownCategoryValue, "unknown category %q", c.OrdinalCat)
	}

	possibleRanks := func(item clue.Item) ([]int, error) {
		var ranks []int
		for _, v := range ord.Values {
			possible, err := e.g.IsPossible(item.Cat, item.Val, c.OrdinalCat, v.Label)
			if err != nil {
				return nil, err
			}
			if possible {
				r, _ := ord.Rank(v.Label)
				ranks = append(ranks, r)
			}
		}
		return ranks, nil
	}

	allRanks := make([][]int, 4)
	for i, item := range c.Items {
		rs, err := possibleRanks(item)
		if err != nil {
			return err
		}
		allRanks[i] = rs
	}

	for idx := range c.Items {
		item := c.Items[idx]
		others := [3]int{}
		k := 0
		for j := range c.Items {
			if j != idx {
				others[k] = j
				k++
			}
		}
		for _, v := range ord.Values {
			possible, err := e.g.IsPossible(item.Cat, item.Val, c.OrdinalCat, v.Label)
			if err != nil {
				return err
			}
			if !possible {
				continue
			}
			r := make([]int, 4)
			r[idx], _ = ord.Rank(v.Label)
			supported := false
			for _, rA := range allRanks[others[0]] {
				r[others[0]] = rA
				for _, rB := range allRanks[others[1]] {
					r[others[1]] = rB
					for _, rC := range allRanks[others[2]] {
						r[others[2]] = rC
						if clue.ArithmeticHolds(r[0], r[1], r[2], r[3]) {
							supported = true
							break
						}
					}
					if supported {
						break
					}
				}
				if supported {
					break
				}
			}
			if !supported {
				if err := e.eliminate(item.Cat, item.Val, c.OrdinalCat, v.Label, reasonElimination); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// directDisjunction clones g, applies each child independently to its own
// clone, then keeps possible in g only what was possible in at least one
// branch: "eliminate tuples impossible under both children" (spec.md §4.3).
func directDisjunction(e *eliminator, c clue.Clue, categories []core.Category) error {
	if c.A == nil || c.B == nil {
		return core.NewError(core.ErrUnknownCategoryValue, "disjunction clue missing a branch")
	}
	gA := e.g.Clone()
	gB := e.g.Clone()
	if _, err := ApplyClue(gA, *c.A, categories); err != nil {
		return err
	}
	if _, err := ApplyClue(gB, *c.B, categories); err != nil {
		return err
	}

	for _, p := range e.g.IterPairs() {
		catA, ok := e.g.Category(p.A)
		if !ok {
			continue
		}
		catB, ok := e.g.Category(p.B)
		if !ok {
			continue
		}
		for _, va := range catA.Values {
			for _, vb := range catB.Values {
				stillPossible, err := e.g.IsPossible(p.A, va.Label, p.B, vb.Label)
				if err != nil || !stillPossible {
					continue
				}
				possibleA, _ := gA.IsPossible(p.A, va.Label, p.B, vb.Label)
				possibleB, _ := gB.IsPossible(p.A, va.Label, p.B, vb.Label)
				if !possibleA && !possibleB {
					if err := e.eliminate(p.A, va.Label, p.B, vb.Label, reasonDisjunction); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// propagateUniqueness implements rules 2 and 3: whenever a (a,va,b)
// possibility row reaches exactly one survivor, confirm it and eliminate,
// in every other category c, every value inconsistent with that survivor.
// Running this over every (a,va,b) triple with the dual direction covers
// both row-of-one and the column-of-one it is the mirror of.
func propagateUniqueness(e *eliminator, categories []core.Category) error {
	for _, p := range e.g.IterPairs() {
		if err := confirmRows(e, p.A, p.B, categories); err != nil {
			return err
		}
		if err := confirmRows(e, p.B, p.A, categories); err != nil {
			return err
		}
	}
	return nil
}

func confirmRows(e *eliminator, a, b string, categories []core.Category) error {
	catA, ok := e.g.Category(a)
	if !ok {
		return core.NewError(core.ErrUnknownCategoryValue, "unknown category %q", a)
	}
	for _, va := range catA.Values {
		determined, ok, err := e.g.Determined(a, va.Label, b)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := confirmAcrossOthers(e, a, va.Label, b, determined, categories); err != nil {
			return err
		}
	}
	return nil
}

// confirmAcrossOthers eliminates, for every category c other than a and b,
// every value v_c inconsistent with the (a,va)<->(b,determined) link —
// i.e. not linked to the determined value through b. This is both the
// uniqueness propagation and (since it fires every time a new link becomes
// determined in any pair) the mechanism that realises transitivity.
func confirmAcrossOthers(e *eliminator, a, va, b, determined string, categories []core.Category) error {
	for _, c := range e.g.OtherCategories(a) {
		if c == b {
			continue
		}
		catC, ok := e.g.Category(c)
		if !ok {
			continue
		}
		for _, vc := range catC.Values {
			possible, err := e.g.IsPossible(a, va, c, vc.Label)
			if err != nil {
				return err
			}
			if !possible {
				continue
			}
			viaB, err := e.g.IsPossible(b, determined, c, vc.Label)
			if err != nil {
				return err
			}
			if !viaB {
				if err := e.eliminate(a, va, c, vc.Label, reasonUniqueness); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// propagateTransitivity implements rule 4 directly: whenever (a,va)<->(b,vb)
// and (b,vb)<->(c,vc) are both determined but (a,va)<->(c,vc) is not yet
// forced, force it by eliminating every other value of c from (a,va)'s row.
func propagateTransitivity(e *eliminator, categories []core.Category) error {
	for _, p := range e.g.IterPairs() {
		catA, okA := e.g.Category(p.A)
		if !okA {
			continue
		}
		for _, va := range catA.Values {
			vb, ok, err := e.g.Determined(p.A, va.Label, p.B)
			if err != nil || !ok {
				continue
			}
			for _, c := range e.g.OtherCategories(p.A) {
				if c == p.B {
					continue
				}
				vc, ok, err := e.g.Determined(p.B, vb, c)
				if err != nil || !ok {
					continue
				}
				catC, ok := e.g.Category(c)
				if !ok {
					continue
				}
				for _, vcCandidate := range catC.Values {
					if vcCandidate.Label == vc {
						continue
					}
					possible, err := e.g.IsPossible(p.A, va.Label, c, vcCandidate.Label)
					if err != nil || !possible {
						continue
					}
					if err := e.eliminate(p.A, va.Label, c, vcCandidate.Label, reasonTransitive); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}
