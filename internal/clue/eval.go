package clue

import "github.com/joshhills/logic-puzzle-generator/internal/core"

// rankOf returns the rank of (itemCat, itemVal) within ordinalCat under sol:
// the value ordinalCat is linked to, read off its precomputed rank order.
func rankOf(categories []core.Category, sol *core.Solution, itemCat, itemVal, ordinalCat string) (int, bool) {
	ord := core.FindCategory(categories, ordinalCat)
	if ord == nil {
		return 0, false
	}
	linked, err := sol.Link(itemCat, itemVal, ordinalCat)
	if err != nil {
		return 0, false
	}
	return ord.Rank(linked)
}

// IsTrueUnder reports whether c holds under sol. categories is the puzzle's
// validated category list, needed to resolve ordinal rank lookups.
func IsTrueUnder(c Clue, categories []core.Category, sol *core.Solution) bool {
	switch c.Type {
	case Binary:
		return evalBinary(c, sol)
	case OrdinalType:
		return evalOrdinal(c, categories, sol)
	case Superlative:
		return evalSuperlative(c, categories, sol)
	case Unary:
		return evalUnary(c, categories, sol)
	case CrossOrdinal:
		return evalCrossOrdinal(c, categories, sol)
	case Adjacency:
		return evalAdjacency(c, categories, sol)
	case Between:
		return evalBetween(c, categories, sol)
	case Arithmetic:
		return evalArithmetic(c, categories, sol)
	case Disjunction:
		if c.A == nil || c.B == nil {
			return false
		}
		return IsTrueUnder(*c.A, categories, sol) || IsTrueUnder(*c.B, categories, sol)
	default:
		return false
	}
}

func evalBinary(c Clue, sol *core.Solution) bool {
	i1, i2 := c.Items[0], c.Items[1]
	linked := sol.IsLinked(i1.Cat, i1.Val, i2.Cat, i2.Val)
	if c.BinaryOp == IS_NOT {
		return !linked
	}
	return linked
}

func evalOrdinal(c Clue, categories []core.Category, sol *core.Solution) bool {
	i1, i2 := c.Items[0], c.Items[1]
	r1, ok1 := rankOf(categories, sol, i1.Cat, i1.Val, c.OrdinalCat)
	r2, ok2 := rankOf(categories, sol, i2.Cat, i2.Val, c.OrdinalCat)
	if !ok1 || !ok2 {
		return false
	}
	return OrdinalHolds(c.OrdinalOp, r1, r2)
}

func evalSuperlative(c Clue, categories []core.Category, sol *core.Solution) bool {
	target := c.Items[0]
	ord := core.FindCategory(categories, c.OrdinalCat)
	if ord == nil {
		return false
	}
	r, ok := rankOf(categories, sol, target.Cat, target.Val, c.OrdinalCat)
	if !ok {
		return false
	}
	return SuperlativeHolds(c.SuperlativeOp, r, ord.Arity())
}

func evalUnary(c Clue, categories []core.Category, sol *core.Solution) bool {
	target := c.Items[0]
	ord := core.FindCategory(categories, c.OrdinalCat)
	if ord == nil {
		return false
	}
	linked, err := sol.Link(target.Cat, target.Val, c.OrdinalCat)
	if err != nil {
		return false
	}
	idx := ord.IndexOf(linked)
	if idx < 0 {
		return false
	}
	return UnaryHolds(c.UnaryFilt, ord.Values[idx].Num)
}

func evalCrossOrdinal(c Clue, categories []core.Category, sol *core.Solution) bool {
	i1, i2 := c.Items[0], c.Items[1]
	ord1 := core.FindCategory(categories, c.OrdinalCat)
	r1, ok1 := rankOf(categories, sol, i1.Cat, i1.Val, c.OrdinalCat)
	r2, ok2 := rankOf(categories, sol, i2.Cat, i2.Val, c.Ordinal2Cat)
	if ord1 == nil || !ok1 || !ok2 || len(c.Offsets) != 2 {
		return false
	}
	return CrossOrdinalHolds(c.CrossOrdinalOp, r1, c.Offsets[0], r2, c.Offsets[1], ord1.Arity())
}

func evalAdjacency(c Clue, categories []core.Category, sol *core.Solution) bool {
	i1, i2 := c.Items[0], c.Items[1]
	r1, ok1 := rankOf(categories, sol, i1.Cat, i1.Val, c.OrdinalCat)
	r2, ok2 := rankOf(categories, sol, i2.Cat, i2.Val, c.OrdinalCat)
	if !ok1 || !ok2 {
		return false
	}
	return AdjacencyHolds(r1, r2)
}

func evalBetween(c Clue, categories []core.Category, sol *core.Solution) bool {
	target, lower, upper := c.Items[0], c.Items[1], c.Items[2]
	rt, ok1 := rankOf(categories, sol, target.Cat, target.Val, c.OrdinalCat)
	rl, ok2 := rankOf(categories, sol, lower.Cat, lower.Val, c.OrdinalCat)
	ru, ok3 := rankOf(categories, sol, upper.Cat, upper.Val, c.OrdinalCat)
	if !ok1 || !ok2 || !ok3 {
		return false
	}
	return BetweenHolds(rt, rl, ru)
}

func evalArithmetic(c Clue, categories []core.Category, sol *core.Solution) bool {
	if len(c.Items) != 4 {
		return false
	}
	ranks := make([]int, 4)
	for i, item := range c.Items {
		r, ok := rankOf(categories, sol, item.Cat, item.Val, c.OrdinalCat)
		if !ok {
			return false
		}
		ranks[i] = r
	}
	return ArithmeticHolds(ranks[0], ranks[1], ranks[2], ranks[3])
}
