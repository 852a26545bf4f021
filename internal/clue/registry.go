package clue

import "github.com/joshhills/logic-puzzle-generator/internal/core"

// EnumerateFunc draws up to cap distinct true clues of one family from sol.
type EnumerateFunc func(categories []core.Category, sol *core.Solution, source randomSource, cap int) []Clue

// FamilyDescriptor holds everything the rest of the engine needs to know
// about one clue family, mirroring
// internal/sudoku/human/technique_registry.go's TechniqueDescriptor: a
// slug-keyed record pairing metadata with the enumerator that does the work,
// so cluegen looks enumerators up by family tag. Clue truth (IsTrueUnder)
// and the solver's direct eliminations switch on Type instead.
type FamilyDescriptor struct {
	Type            Type
	Name            string
	Description     string
	Enumerate       EnumerateFunc
	RequiresOrdinal bool
	Enabled         bool
}

// Registry is the sealed set of clue families, keyed by Type. It is built
// once and is read-mostly: the only mutation is SetEnabled, letting a
// caller restrict GenerativeSession to a subset of families the way the
// teacher's SetTechniqueEnabled restricts a solver to a subset of
// techniques.
type Registry struct {
	families map[Type]*FamilyDescriptor
	order    []Type
}

// NewRegistry builds the registry with all nine families enabled.
func NewRegistry() *Registry {
	r := &Registry{families: make(map[Type]*FamilyDescriptor)}
	r.register(FamilyDescriptor{Type: Binary, Name: "Binary", Description: "value of one category is (or is not) linked to a value of another", Enumerate: EnumerateBinary})
	r.register(FamilyDescriptor{Type: OrdinalType, Name: "Ordinal", Description: "one item ranks before/after another along an ordinal category", Enumerate: EnumerateOrdinal, RequiresOrdinal: true})
	r.register(FamilyDescriptor{Type: Superlative, Name: "Superlative", Description: "an item is (or is not) the first/last along an ordinal category", Enumerate: EnumerateSuperlative, RequiresOrdinal: true})
	r.register(FamilyDescriptor{Type: Unary, Name: "Unary", Description: "an item's linked ordinal value is odd/even", Enumerate: EnumerateUnary, RequiresOrdinal: true})
	r.register(FamilyDescriptor{Type: CrossOrdinal, Name: "CrossOrdinal", Description: "two items' offset ranks coincide across two ordinal categories", Enumerate: EnumerateCrossOrdinal, RequiresOrdinal: true})
	r.register(FamilyDescriptor{Type: Adjacency, Name: "Adjacency", Description: "two items sit next to each other along an ordinal category", Enumerate: EnumerateAdjacency, RequiresOrdinal: true})
	r.register(FamilyDescriptor{Type: Between, Name: "Between", Description: "an item's rank sits strictly between two others", Enumerate: EnumerateBetween, RequiresOrdinal: true})
	r.register(FamilyDescriptor{Type: Arithmetic, Name: "Arithmetic", Description: "a rank difference between one item pair matches another", Enumerate: EnumerateArithmetic, RequiresOrdinal: true})
	r.register(FamilyDescriptor{Type: Disjunction, Name: "Disjunction", Description: "the OR of two non-disjunction clues", Enumerate: nil})
	return r
}

func (r *Registry) register(d FamilyDescriptor) {
	d.Enabled = true
	cp := d
	r.families[d.Type] = &cp
	r.order = append(r.order, d.Type)
}

// Get returns a family's descriptor, or nil if the type is unknown.
func (r *Registry) Get(t Type) *FamilyDescriptor { return r.families[t] }

// All returns every registered family in registration order.
func (r *Registry) All() []FamilyDescriptor {
	out := make([]FamilyDescriptor, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, *r.families[t])
	}
	return out
}

// SetEnabled toggles a family on or off, reporting whether the type exists.
func (r *Registry) SetEnabled(t Type, enabled bool) bool {
	f := r.families[t]
	if f == nil {
		return false
	}
	f.Enabled = enabled
	return true
}

// Enabled returns every enabled family's Type, in registration order.
func (r *Registry) Enabled() []Type {
	var out []Type
	for _, t := range r.order {
		if r.families[t].Enabled {
			out = append(out, t)
		}
	}
	return out
}

// Feasible reports whether family t can produce any clue at all over
// categories, per spec.md §4.5's generation-feasibility guards: ordinal
// families need at least one Ordinal category, Unary further needs one
// with mixed parity, and CrossOrdinal needs two distinct ordinal
// categories to pair offsets across.
func (r *Registry) Feasible(t Type, categories []core.Category) bool {
	f := r.families[t]
	if f == nil {
		return false
	}
	if !f.RequiresOrdinal {
		return true
	}
	ordinals := core.OrdinalCategories(categories)
	if len(ordinals) == 0 {
		return false
	}
	switch t {
	case Unary:
		for _, o := range ordinals {
			if o.HasMixedParity() {
				return true
			}
		}
		return false
	case CrossOrdinal:
		return len(ordinals) >= 2
	default:
		return true
	}
}
