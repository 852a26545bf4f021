package grid

import (
	"sort"

	"github.com/joshhills/logic-puzzle-generator/internal/core"
)

// Pair identifies an unordered category pair by id, always stored with A
// lexicographically before B so lookups don't care which order a caller
// names the two categories in.
type Pair struct {
	A, B string
}

func canonicalPair(a, b string) (Pair, bool) {
	if a <= b {
		return Pair{A: a, B: b}, false
	}
	return Pair{A: b, B: a}, true
}

// matrix holds, for each value index of pair.A, a Bits over pair.B's value
// indices — the dense representation spec.md §4.2 mandates.
type matrix struct {
	rows []Bits
}

// Grid is the mutable possibility matrix over every unordered category
// pair. Not safe for concurrent use, matching spec.md §5's single-threaded
// cooperative model.
type Grid struct {
	categories map[string]*core.Category
	n          int
	pairs      map[Pair]*matrix
}

// New builds a blank grid (every possibility true) over categories, which
// must already have passed core.ValidateCategories.
func New(categories []core.Category) *Grid {
	g := &Grid{
		categories: make(map[string]*core.Category, len(categories)),
		n:          categories[0].Arity(),
		pairs:      make(map[Pair]*matrix),
	}

	ids := make([]string, 0, len(categories))
	for i := range categories {
		g.categories[categories[i].ID] = &categories[i]
		ids = append(ids, categories[i].ID)
	}
	sort.Strings(ids)

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			p := Pair{A: ids[i], B: ids[j]}
			rows := make([]Bits, g.n)
			for k := range rows {
				rows[k] = FullBits(g.n)
			}
			g.pairs[p] = &matrix{rows: rows}
		}
	}

	return g
}

// Arity returns N, the shared value count of every category.
func (g *Grid) Arity() int { return g.n }

// IterPairs returns every unordered category-pair id combination.
func (g *Grid) IterPairs() []Pair {
	out := make([]Pair, 0, len(g.pairs))
	for p := range g.pairs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// OtherCategories returns every category id other than exclude, in stable
// sorted order — used by the solver's transitivity sweep.
func (g *Grid) OtherCategories(exclude string) []string {
	var out []string
	for id := range g.categories {
		if id != exclude {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func (g *Grid) valueIndex(catID, label string) (int, error) {
	cat, ok := g.categories[catID]
	if !ok {
		return 0, core.NewError(core.ErrUnknownCategoryValue, "unknown category %q", catID)
	}
	idx := cat.IndexOf(label)
	if idx < 0 {
		return 0, core.NewContextError(core.ErrUnknownCategoryValue, catID, label, "unknown value %q in category %q", label, catID)
	}
	return idx, nil
}

// row returns the Bits for (catA, valueIndexInA) over catB's values,
// translating the caller's (a,b) order into the canonical storage order.
func (g *Grid) row(a string, va int, b string) (Bits, error) {
	p, swapped := canonicalPair(a, b)
	m, ok := g.pairs[p]
	if !ok {
		return Bits{}, core.NewError(core.ErrUnknownCategoryValue, "no such category pair (%q, %q)", a, b)
	}
	if !swapped {
		return m.rows[va], nil
	}
	// a is stored as pair.B; build the column of pair.A's rows at index va.
	col := NewBits(g.n)
	for i, r := range m.rows {
		if r.Has(va) {
			col.Set(i)
		}
	}
	return col, nil
}

// IsPossible reports whether (a,va) could still link to (b,vb).
func (g *Grid) IsPossible(a, va, b, vb string) (bool, error) {
	ia, err := g.valueIndex(a, va)
	if err != nil {
		return false, err
	}
	ib, err := g.valueIndex(b, vb)
	if err != nil {
		return false, err
	}
	return g.isPossibleIdx(a, ia, b, ib)
}

func (g *Grid) isPossibleIdx(a string, ia int, b string, ib int) (bool, error) {
	p, swapped := canonicalPair(a, b)
	m := g.pairs[p]
	if m == nil {
		return false, core.NewError(core.ErrUnknownCategoryValue, "no such category pair (%q, %q)", a, b)
	}
	if !swapped {
		return m.rows[ia].Has(ib), nil
	}
	return m.rows[ib].Has(ia), nil
}

// SetPossibility sets or clears (a,va)<->(b,vb), enforcing symmetry, and
// reports whether the call actually flipped the bit.
func (g *Grid) SetPossibility(a, va, b, vb string, possible bool) (bool, error) {
	ia, err := g.valueIndex(a, va)
	if err != nil {
		return false, err
	}
	ib, err := g.valueIndex(b, vb)
	if err != nil {
		return false, err
	}
	return g.setPossibilityIdx(a, ia, b, ib, possible)
}

func (g *Grid) setPossibilityIdx(a string, ia int, b string, ib int, possible bool) (bool, error) {
	p, swapped := canonicalPair(a, b)
	m := g.pairs[p]
	if m == nil {
		return false, core.NewError(core.ErrUnknownCategoryValue, "no such category pair (%q, %q)", a, b)
	}
	rowIdx, colIdx := ia, ib
	if swapped {
		rowIdx, colIdx = ib, ia
	}
	if possible {
		was := m.rows[rowIdx].Has(colIdx)
		m.rows[rowIdx].Set(colIdx)
		return !was, nil
	}
	return m.rows[rowIdx].Clear(colIdx), nil
}

// PossibilitiesCount returns how many values of b remain possible for
// (a, va).
func (g *Grid) PossibilitiesCount(a, va, b string) (int, error) {
	ia, err := g.valueIndex(a, va)
	if err != nil {
		return 0, err
	}
	row, err := g.row(a, ia, b)
	if err != nil {
		return 0, err
	}
	return row.Count(), nil
}

// Determined returns the single surviving value of b for (a, va), if any.
func (g *Grid) Determined(a, va, b string) (string, bool, error) {
	ia, err := g.valueIndex(a, va)
	if err != nil {
		return "", false, err
	}
	row, err := g.row(a, ia, b)
	if err != nil {
		return "", false, err
	}
	idx, ok := row.Only()
	if !ok {
		return "", false, nil
	}
	catB := g.categories[b]
	return catB.Values[idx].Label, true, nil
}

// IsConsistent reports whether every row of every pair still has at least
// one possibility — the contradiction check of spec.md §3.
func (g *Grid) IsConsistent() bool {
	for _, m := range g.pairs {
		for _, row := range m.rows {
			if row.IsEmpty() {
				return false
			}
		}
	}
	return true
}

// FirstContradiction returns the category/value pair whose row hit zero
// possibilities, for the diagnostic errors SPEC_FULL.md §6.2 asks for.
func (g *Grid) FirstContradiction() (catA, valA, catB string, ok bool) {
	for _, p := range g.IterPairs() {
		m := g.pairs[p]
		for i, row := range m.rows {
			if row.IsEmpty() {
				return p.A, g.categories[p.A].Values[i].Label, p.B, true
			}
		}
		// Check the dual direction (B's rows, derived column-wise).
		for j := 0; j < g.n; j++ {
			col := NewBits(g.n)
			for i, row := range m.rows {
				if row.Has(j) {
					col.Set(i)
				}
			}
			if col.IsEmpty() {
				return p.B, g.categories[p.B].Values[j].Label, p.A, true
			}
		}
	}
	return "", "", "", false
}

// PercentComplete returns the fraction, in [0,100], of all possibilities
// eliminated so far — spec.md §3's ProofStep.percentComplete.
func (g *Grid) PercentComplete() float64 {
	total, remaining := 0, 0
	for _, m := range g.pairs {
		for _, row := range m.rows {
			total += g.n
			remaining += row.Count()
		}
	}
	if total == 0 {
		return 0
	}
	return float64(total-remaining) / float64(total) * 100
}

// IsFullySolved reports whether every row of every pair has exactly one
// survivor — spec.md §8 property 3 (sufficiency).
func (g *Grid) IsFullySolved() bool {
	for _, m := range g.pairs {
		for _, row := range m.rows {
			if row.Count() != 1 {
				return false
			}
		}
	}
	return true
}

// Clone deep-copies the grid, O(pairs*N^2) per spec.md §4.2.
func (g *Grid) Clone() *Grid {
	ng := &Grid{
		categories: g.categories,
		n:          g.n,
		pairs:      make(map[Pair]*matrix, len(g.pairs)),
	}
	for p, m := range g.pairs {
		rows := make([]Bits, len(m.rows))
		for i, r := range m.rows {
			rows[i] = r.Clone()
		}
		ng.pairs[p] = &matrix{rows: rows}
	}
	return ng
}

// Category exposes the underlying category definition for a given id, used
// by callers (solver, scorer) that need arity/type/rank information
// alongside grid state.
func (g *Grid) Category(id string) (*core.Category, bool) {
	c, ok := g.categories[id]
	return c, ok
}
