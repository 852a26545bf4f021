package core

import (
	"sort"

	"github.com/joshhills/logic-puzzle-generator/pkg/constants"
)

// CategoryType distinguishes categories whose values carry no inherent
// order (Nominal) from categories whose values sit on a strict total order
// (Ordinal), per spec.md §3.
type CategoryType string

const (
	Nominal CategoryType = "nominal"
	Ordinal CategoryType = "ordinal"
)

// Value is one member of a Category. Num is only meaningful for Ordinal
// categories: it is the numeric value used both to derive the category's
// rank order and, for the Unary clue family, to test parity directly (not
// the parity of the rank).
type Value struct {
	Label string
	Num   int
}

// Category is a finite, ordered set of distinct values of one CategoryType.
// rank is populated by Validate for Ordinal categories: rank[label] is the
// value's 0-based position in ascending Num order.
type Category struct {
	ID     string
	Type   CategoryType
	Values []Value

	rank map[string]int
}

// Arity returns the category's value count (N in spec.md's terminology).
func (c *Category) Arity() int { return len(c.Values) }

// IndexOf returns the position of label within Values, or -1.
func (c *Category) IndexOf(label string) int {
	for i, v := range c.Values {
		if v.Label == label {
			return i
		}
	}
	return -1
}

// Has reports whether label names a value of this category.
func (c *Category) Has(label string) bool { return c.IndexOf(label) >= 0 }

// Rank returns an ordinal value's position in its category's total order.
// Only valid once Validate has been run and only for Ordinal categories.
func (c *Category) Rank(label string) (int, bool) {
	r, ok := c.rank[label]
	return r, ok
}

// ValueAtRank returns the label of the value holding the given rank, the
// dual of Rank. Only valid for Ordinal categories.
func (c *Category) ValueAtRank(rank int) (string, bool) {
	if rank < 0 || rank >= len(c.Values) {
		return "", false
	}
	for label, r := range c.rank {
		if r == rank {
			return label, true
		}
	}
	return "", false
}

// ValidateCategories checks spec.md §3/§4.5's CategoryModel invariants and,
// for Ordinal categories, computes and attaches the rank order. It mutates
// and returns the same slice so callers keep a single normalised copy.
func ValidateCategories(categories []Category) ([]Category, error) {
	if len(categories) < constants.MinCategories {
		return nil, NewError(ErrInvalidCategories, "at least %d categories are required, got %d", constants.MinCategories, len(categories))
	}
	if len(categories) > constants.MaxCategories {
		return nil, NewError(ErrInvalidCategories, "at most %d categories are allowed, got %d", constants.MaxCategories, len(categories))
	}

	seenIDs := make(map[string]bool, len(categories))
	arity := -1

	for i := range categories {
		cat := &categories[i]

		if cat.ID == "" {
			return nil, NewError(ErrInvalidCategories, "category at index %d has an empty id", i)
		}
		if seenIDs[cat.ID] {
			return nil, NewContextError(ErrInvalidCategories, cat.ID, "", "duplicate category id %q", cat.ID)
		}
		seenIDs[cat.ID] = true

		if cat.Type != Nominal && cat.Type != Ordinal {
			return nil, NewContextError(ErrInvalidCategories, cat.ID, "", "category %q has unknown type %q", cat.ID, cat.Type)
		}

		if arity == -1 {
			arity = len(cat.Values)
		} else if len(cat.Values) != arity {
			return nil, NewContextError(ErrInvalidCategories, cat.ID, "", "category %q has arity %d, expected %d", cat.ID, len(cat.Values), arity)
		}
		if arity < constants.MinArity {
			return nil, NewContextError(ErrInvalidCategories, cat.ID, "", "category %q must have at least %d values", cat.ID, constants.MinArity)
		}
		if arity > constants.MaxArity {
			return nil, NewContextError(ErrInvalidCategories, cat.ID, "", "category %q has %d values, at most %d are allowed", cat.ID, arity, constants.MaxArity)
		}

		seenValues := make(map[string]bool, len(cat.Values))
		for _, v := range cat.Values {
			if v.Label == "" {
				return nil, NewContextError(ErrInvalidCategories, cat.ID, "", "category %q has an empty value label", cat.ID)
			}
			if seenValues[v.Label] {
				return nil, NewContextError(ErrInvalidCategories, cat.ID, v.Label, "duplicate value %q in category %q", v.Label, cat.ID)
			}
			seenValues[v.Label] = true
		}

		if cat.Type == Ordinal {
			if err := computeRank(cat); err != nil {
				return nil, err
			}
		}
	}

	return categories, nil
}

func computeRank(cat *Category) error {
	seenNums := make(map[int]bool, len(cat.Values))
	order := make([]Value, len(cat.Values))
	copy(order, cat.Values)

	for _, v := range order {
		if seenNums[v.Num] {
			return NewContextError(ErrInvalidCategories, cat.ID, v.Label,
				"ordinal category %q has two values sharing numeric value %d", cat.ID, v.Num)
		}
		seenNums[v.Num] = true
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Num < order[j].Num })

	cat.rank = make(map[string]int, len(order))
	for i, v := range order {
		cat.rank[v.Label] = i
	}
	return nil
}

// HasMixedParity reports whether an ordinal category contains at least one
// even-valued and one odd-valued member, the feasibility guard spec.md §4.5
// requires before a Unary clue can be generated for it.
func (c *Category) HasMixedParity() bool {
	hasOdd, hasEven := false, false
	for _, v := range c.Values {
		if v.Num%2 == 0 {
			hasEven = true
		} else {
			hasOdd = true
		}
	}
	return hasOdd && hasEven
}

// FindCategory returns a pointer into categories matching id, or nil.
func FindCategory(categories []Category, id string) *Category {
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i]
		}
	}
	return nil
}

// OrdinalCategories returns the subset of categories with Type == Ordinal.
func OrdinalCategories(categories []Category) []*Category {
	var out []*Category
	for i := range categories {
		if categories[i].Type == Ordinal {
			out = append(out, &categories[i])
		}
	}
	return out
}
