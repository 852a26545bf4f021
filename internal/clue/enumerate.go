package clue

import (
	"strconv"

	"github.com/joshhills/logic-puzzle-generator/internal/core"
)

// Enumerators sample, rather than exhaustively construct, the space of true
// clues for a family: spec.md §5's cost discipline rules out materialising
// every row/column/ordinal combination up front, so each function here
// draws bounded random candidates from the solution and keeps only the ones
// that turn out true (trivially all of them, for the families built
// directly off an identity link) until it has cap distinct clues or runs out
// of attempts. Grounded on internal/sudoku/dp/solver.go's
// CarveGivensWithSubset, which sweeps a randomly shuffled candidate order
// rather than trying every subset.

const maxAttemptsPerClue = 8

func randomItem(categories []core.Category, source randomSource) Item {
	cat := categories[source.IntN(len(categories))]
	val := cat.Values[source.IntN(len(cat.Values))]
	return Item{Cat: cat.ID, Val: val.Label}
}

// randomSource is the subset of *rng.Source the enumerators need, kept
// narrow so this package doesn't import rng just to name a parameter type.
type randomSource interface {
	IntN(n int) int
}

// Key returns a string uniquely identifying a clue's operands and
// operator, used both to dedup enumerator output and to test whether a
// candidate is already present in a session's chain.
func Key(c Clue) string {
	return dedupKey(c)
}

func dedupKey(c Clue) string {
	key := string(c.Type)
	for _, it := range c.Items {
		key += "|" + it.Cat + "=" + it.Val
	}
	key += "|" + c.OrdinalCat + "|" + c.Ordinal2Cat
	for _, o := range c.Offsets {
		key += "|#" + strconv.Itoa(o)
	}
	key += "|" + string(c.BinaryOp) + string(c.OrdinalOp) + string(c.SuperlativeOp) + string(c.UnaryFilt) + string(c.CrossOrdinalOp)
	if c.A != nil {
		key += "|A(" + dedupKey(*c.A) + ")"
	}
	if c.B != nil {
		key += "|B(" + dedupKey(*c.B) + ")"
	}
	return key
}

// EnumerateBinary samples IS clues (always true, drawn straight off the
// solution's identity links) and IS_NOT clues (sampled and filtered).
func EnumerateBinary(categories []core.Category, sol *core.Solution, source randomSource, cap int) []Clue {
	seen := make(map[string]bool)
	var out []Clue
	for attempt := 0; len(out) < cap && attempt < cap*maxAttemptsPerClue; attempt++ {
		a := categories[source.IntN(len(categories))]
		b := categories[source.IntN(len(categories))]
		if a.ID == b.ID {
			continue
		}
		va := a.Values[source.IntN(len(a.Values))]
		var c Clue
		if source.IntN(2) == 0 {
			linked, err := sol.Link(a.ID, va.Label, b.ID)
			if err != nil {
				continue
			}
			c = NewBinary(a.ID, va.Label, b.ID, linked, IS)
		} else {
			vb := b.Values[source.IntN(len(b.Values))]
			if sol.IsLinked(a.ID, va.Label, b.ID, vb.Label) {
				continue
			}
			c = NewBinary(a.ID, va.Label, b.ID, vb.Label, IS_NOT)
		}
		key := dedupKey(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// distinctItems draws two items whose identities differ under sol, so an
// Ordinal/Adjacency/CrossOrdinal comparison between them is never vacuous.
func distinctItems(categories []core.Category, sol *core.Solution, source randomSource) (Item, Item, bool) {
	for attempt := 0; attempt < maxAttemptsPerClue; attempt++ {
		i1 := randomItem(categories, source)
		i2 := randomItem(categories, source)
		id1, ok1 := sol.Identity(i1.Cat, i1.Val)
		id2, ok2 := sol.Identity(i2.Cat, i2.Val)
		if ok1 && ok2 && id1 != id2 {
			return i1, i2, true
		}
	}
	return Item{}, Item{}, false
}

// EnumerateOrdinal samples pairs of items and the true LT/GT relation
// between their ranks in a randomly chosen ordinal category, occasionally
// phrasing it as the logically equivalent NOT_GT/NOT_LT for variety.
func EnumerateOrdinal(categories []core.Category, sol *core.Solution, source randomSource, cap int) []Clue {
	ordinals := core.OrdinalCategories(categories)
	if len(ordinals) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	var out []Clue
	for attempt := 0; len(out) < cap && attempt < cap*maxAttemptsPerClue; attempt++ {
		ord := ordinals[source.IntN(len(ordinals))]
		i1, i2, ok := distinctItems(categories, sol, source)
		if !ok {
			continue
		}
		r1, ok1 := rankOf(categories, sol, i1.Cat, i1.Val, ord.ID)
		r2, ok2 := rankOf(categories, sol, i2.Cat, i2.Val, ord.ID)
		if !ok1 || !ok2 || r1 == r2 {
			continue
		}
		var op OrdinalOperator
		if r1 < r2 {
			if source.IntN(2) == 0 {
				op = LT
			} else {
				op = NOT_GT
			}
		} else {
			if source.IntN(2) == 0 {
				op = GT
			} else {
				op = NOT_LT
			}
		}
		c := NewOrdinal(i1.Cat, i1.Val, i2.Cat, i2.Val, ord.ID, op)
		key := dedupKey(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// EnumerateSuperlative samples a target item and reports its true min/max
// (or not_min/not_max) status within a random ordinal category.
func EnumerateSuperlative(categories []core.Category, sol *core.Solution, source randomSource, cap int) []Clue {
	ordinals := core.OrdinalCategories(categories)
	if len(ordinals) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	var out []Clue
	for attempt := 0; len(out) < cap && attempt < cap*maxAttemptsPerClue; attempt++ {
		ord := ordinals[source.IntN(len(ordinals))]
		target := randomItem(categories, source)
		r, ok := rankOf(categories, sol, target.Cat, target.Val, ord.ID)
		if !ok {
			continue
		}
		n := ord.Arity()
		var op SuperlativeOperator
		switch {
		case r == 0 && source.IntN(2) == 0:
			op = MIN
		case r == n-1 && source.IntN(2) == 0:
			op = MAX
		case r != 0 && source.IntN(2) == 0:
			op = NOT_MIN
		default:
			op = NOT_MAX
		}
		c := NewSuperlative(target.Cat, target.Val, ord.ID, op)
		if !IsTrueUnder(c, categories, sol) {
			continue
		}
		key := dedupKey(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// EnumerateUnary samples a target item and its true parity within a random
// mixed-parity ordinal category, per spec.md §4.5's feasibility guard.
func EnumerateUnary(categories []core.Category, sol *core.Solution, source randomSource, cap int) []Clue {
	var ordinals []*core.Category
	for _, o := range core.OrdinalCategories(categories) {
		if o.HasMixedParity() {
			ordinals = append(ordinals, o)
		}
	}
	if len(ordinals) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	var out []Clue
	for attempt := 0; len(out) < cap && attempt < cap*maxAttemptsPerClue; attempt++ {
		ord := ordinals[source.IntN(len(ordinals))]
		target := randomItem(categories, source)
		linked, err := sol.Link(target.Cat, target.Val, ord.ID)
		if err != nil {
			continue
		}
		idx := ord.IndexOf(linked)
		if idx < 0 {
			continue
		}
		filt := IS_ODD
		if ord.Values[idx].Num%2 == 0 {
			filt = IS_EVEN
		}
		c := NewUnary(target.Cat, target.Val, ord.ID, filt)
		key := dedupKey(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// EnumerateCrossOrdinal samples items from two (possibly equal) ordinal
// categories whose offset ranks coincide, per spec.md §3.5.
func EnumerateCrossOrdinal(categories []core.Category, sol *core.Solution, source randomSource, cap int) []Clue {
	ordinals := core.OrdinalCategories(categories)
	if len(ordinals) < 2 {
		return nil
	}
	seen := make(map[string]bool)
	var out []Clue
	for attempt := 0; len(out) < cap && attempt < cap*maxAttemptsPerClue; attempt++ {
		ord1 := ordinals[source.IntN(len(ordinals))]
		ord2 := ordinals[source.IntN(len(ordinals))]
		i1 := randomItem(categories, source)
		i2 := randomItem(categories, source)
		r1, ok1 := rankOf(categories, sol, i1.Cat, i1.Val, ord1.ID)
		r2, ok2 := rankOf(categories, sol, i2.Cat, i2.Val, ord2.ID)
		if !ok1 || !ok2 {
			continue
		}
		offset1 := 0
		offset2 := r1 - r2
		op := MATCH
		if source.IntN(3) == 0 {
			// Phrase a genuine mismatch as NOT_MATCH instead.
			offset2 = r1 - r2 + 1
			op = NOT_MATCH
		}
		c := NewCrossOrdinal(i1.Cat, i1.Val, ord1.ID, offset1, i2.Cat, i2.Val, ord2.ID, offset2, op)
		if !IsTrueUnder(c, categories, sol) {
			continue
		}
		key := dedupKey(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// EnumerateAdjacency samples item pairs whose ranks in a random ordinal
// category differ by exactly one.
func EnumerateAdjacency(categories []core.Category, sol *core.Solution, source randomSource, cap int) []Clue {
	ordinals := core.OrdinalCategories(categories)
	if len(ordinals) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	var out []Clue
	for attempt := 0; len(out) < cap && attempt < cap*maxAttemptsPerClue*4; attempt++ {
		ord := ordinals[source.IntN(len(ordinals))]
		i1, i2, ok := distinctItems(categories, sol, source)
		if !ok {
			continue
		}
		c := NewAdjacency(i1.Cat, i1.Val, i2.Cat, i2.Val, ord.ID)
		if !IsTrueUnder(c, categories, sol) {
			continue
		}
		key := dedupKey(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// EnumerateBetween samples a target and two bounds whose ranks in a random
// ordinal category strictly straddle the target.
func EnumerateBetween(categories []core.Category, sol *core.Solution, source randomSource, cap int) []Clue {
	ordinals := core.OrdinalCategories(categories)
	if len(ordinals) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	var out []Clue
	for attempt := 0; len(out) < cap && attempt < cap*maxAttemptsPerClue*4; attempt++ {
		ord := ordinals[source.IntN(len(ordinals))]
		target := randomItem(categories, source)
		lower := randomItem(categories, source)
		upper := randomItem(categories, source)
		c := NewBetween(target.Cat, target.Val, lower.Cat, lower.Val, upper.Cat, upper.Val, ord.ID)
		if !IsTrueUnder(c, categories, sol) {
			continue
		}
		key := dedupKey(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// EnumerateArithmetic samples four items whose ranks in a random ordinal
// category satisfy rank(i1)-rank(i2) = rank(i3)-rank(i4).
func EnumerateArithmetic(categories []core.Category, sol *core.Solution, source randomSource, cap int) []Clue {
	ordinals := core.OrdinalCategories(categories)
	if len(ordinals) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	var out []Clue
	for attempt := 0; len(out) < cap && attempt < cap*maxAttemptsPerClue*8; attempt++ {
		ord := ordinals[source.IntN(len(ordinals))]
		items := [4]Item{
			randomItem(categories, source),
			randomItem(categories, source),
			randomItem(categories, source),
			randomItem(categories, source),
		}
		c := NewArithmetic(items[0], items[1], items[2], items[3], ord.ID)
		if !IsTrueUnder(c, categories, sol) {
			continue
		}
		key := dedupKey(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
