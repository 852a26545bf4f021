// Package clue defines the eight (nine, counting Disjunction as a
// combinator) clue families of spec.md §3 as one flat, serialisable Clue
// record plus a sealed registry dispatching on its Type tag.
//
// Grounded on internal/sudoku/human/technique_registry.go: the teacher
// keys a map of TechniqueDescriptor by slug, each carrying its own
// detector function, built once in NewTechniqueRegistry. This package
// applies the same shape to clue families instead of solving techniques,
// per spec.md §4.4's "sealed tagged-variant registry ... single source of
// truth; every other component dispatches on the tag".
package clue

// Type tags which of the nine clue families a Clue value is.
type Type string

const (
	Binary       Type = "binary"
	OrdinalType  Type = "ordinal"
	Superlative  Type = "superlative"
	Unary        Type = "unary"
	CrossOrdinal Type = "cross_ordinal"
	Adjacency    Type = "adjacency"
	Between      Type = "between"
	Disjunction  Type = "disjunction"
	Arithmetic   Type = "arithmetic"
)

// BinaryOperator per spec.md §3.1.
type BinaryOperator string

const (
	IS     BinaryOperator = "is"
	IS_NOT BinaryOperator = "is_not"
)

// OrdinalOperator per spec.md §3.2.
type OrdinalOperator string

const (
	LT     OrdinalOperator = "lt"
	GT     OrdinalOperator = "gt"
	NOT_LT OrdinalOperator = "not_lt"
	NOT_GT OrdinalOperator = "not_gt"
)

// SuperlativeOperator per spec.md §3.3.
type SuperlativeOperator string

const (
	MIN     SuperlativeOperator = "min"
	MAX     SuperlativeOperator = "max"
	NOT_MIN SuperlativeOperator = "not_min"
	NOT_MAX SuperlativeOperator = "not_max"
)

// UnaryFilter per spec.md §3.4.
type UnaryFilter string

const (
	IS_ODD  UnaryFilter = "is_odd"
	IS_EVEN UnaryFilter = "is_even"
)

// CrossOrdinalOperator per spec.md §3.5.
type CrossOrdinalOperator string

const (
	MATCH     CrossOrdinalOperator = "match"
	NOT_MATCH CrossOrdinalOperator = "not_match"
)

// Item names one (category, value) operand of a clue.
type Item struct {
	Cat string
	Val string
}

// Clue is a plain data record covering every family. Which fields are
// meaningful depends on Type:
//
//	Binary:       Items[0], Items[1], BinaryOp
//	Ordinal:      Items[0], Items[1], OrdinalCat, OrdinalOp
//	Superlative:  Items[0] (target), OrdinalCat, SuperlativeOp
//	Unary:        Items[0] (target), OrdinalCat, UnaryFilt
//	CrossOrdinal: Items[0], Items[1], OrdinalCat (=ordinal1), Ordinal2Cat,
//	              Offsets[0], Offsets[1], CrossOrdinalOp
//	Adjacency:    Items[0], Items[1], OrdinalCat
//	Between:      Items[0] (target), Items[1] (lower), Items[2] (upper), OrdinalCat
//	Arithmetic:   Items[0..3], OrdinalCat
//	Disjunction:  A, B (never themselves Disjunction, per spec.md §3.8)
//
// Clue values never cache derived state (scores, reasons) on themselves —
// see DESIGN.md's Open Question 1 — so they round-trip as plain data.
type Clue struct {
	Type Type

	Items []Item

	OrdinalCat  string
	Ordinal2Cat string
	Offsets     []int

	BinaryOp       BinaryOperator
	OrdinalOp      OrdinalOperator
	SuperlativeOp  SuperlativeOperator
	UnaryFilt      UnaryFilter
	CrossOrdinalOp CrossOrdinalOperator

	A *Clue
	B *Clue
}

// NewBinary builds a Binary clue.
func NewBinary(cat1, val1, cat2, val2 string, op BinaryOperator) Clue {
	return Clue{Type: Binary, Items: []Item{{cat1, val1}, {cat2, val2}}, BinaryOp: op}
}

// NewOrdinal builds an Ordinal clue.
func NewOrdinal(item1Cat, item1Val, item2Cat, item2Val, ordinalCat string, op OrdinalOperator) Clue {
	return Clue{Type: OrdinalType, Items: []Item{{item1Cat, item1Val}, {item2Cat, item2Val}}, OrdinalCat: ordinalCat, OrdinalOp: op}
}

// NewSuperlative builds a Superlative clue.
func NewSuperlative(targetCat, targetVal, ordinalCat string, op SuperlativeOperator) Clue {
	return Clue{Type: Superlative, Items: []Item{{targetCat, targetVal}}, OrdinalCat: ordinalCat, SuperlativeOp: op}
}

// NewUnary builds a Unary clue.
func NewUnary(targetCat, targetVal, ordinalCat string, filter UnaryFilter) Clue {
	return Clue{Type: Unary, Items: []Item{{targetCat, targetVal}}, OrdinalCat: ordinalCat, UnaryFilt: filter}
}

// NewCrossOrdinal builds a CrossOrdinal clue.
func NewCrossOrdinal(item1Cat, item1Val, ordinal1 string, offset1 int, item2Cat, item2Val, ordinal2 string, offset2 int, op CrossOrdinalOperator) Clue {
	return Clue{
		Type:           CrossOrdinal,
		Items:          []Item{{item1Cat, item1Val}, {item2Cat, item2Val}},
		OrdinalCat:     ordinal1,
		Ordinal2Cat:    ordinal2,
		Offsets:        []int{offset1, offset2},
		CrossOrdinalOp: op,
	}
}

// NewAdjacency builds an Adjacency clue.
func NewAdjacency(item1Cat, item1Val, item2Cat, item2Val, ordinalCat string) Clue {
	return Clue{Type: Adjacency, Items: []Item{{item1Cat, item1Val}, {item2Cat, item2Val}}, OrdinalCat: ordinalCat}
}

// NewBetween builds a Between clue.
func NewBetween(targetCat, targetVal, lowerCat, lowerVal, upperCat, upperVal, ordinalCat string) Clue {
	return Clue{Type: Between, Items: []Item{{targetCat, targetVal}, {lowerCat, lowerVal}, {upperCat, upperVal}}, OrdinalCat: ordinalCat}
}

// NewArithmetic builds an Arithmetic clue: rank(i1)-rank(i2) = rank(i3)-rank(i4).
func NewArithmetic(i1, i2, i3, i4 Item, ordinalCat string) Clue {
	return Clue{Type: Arithmetic, Items: []Item{i1, i2, i3, i4}, OrdinalCat: ordinalCat}
}

// NewDisjunction builds an OR of two non-Disjunction clues.
func NewDisjunction(a, b Clue) Clue {
	return Clue{Type: Disjunction, A: &a, B: &b}
}

// AllowedTypes is the public AllowedClueTypes set: an empty set means "all
// families allowed".
type AllowedTypes map[Type]bool

// Allows reports whether t is permitted: true for every t when the set is
// empty, otherwise only for members.
func (a AllowedTypes) Allows(t Type) bool {
	if len(a) == 0 {
		return true
	}
	return a[t]
}
