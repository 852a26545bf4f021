package core

import "github.com/joshhills/logic-puzzle-generator/internal/rng"

// Solution is a bijective assignment linking, for every pair of distinct
// categories, each value of one to exactly one value of the other
// (spec.md §3). It is built so that transitivity is automatic: every
// category's values are labelled with one of N shared "identities" and
// Solution[a][b][v] is simply the value in b carrying v's identity.
type Solution struct {
	categories []Category
	// identity[catID][valueLabel] = shared row identity in [0, N)
	identity map[string]map[string]int
	// byIdentity[catID][identity] = value label
	byIdentity map[string][]string
}

// Categories returns the categories this solution was built over.
func (s *Solution) Categories() []Category { return s.categories }

// Link returns the value of toCategory linked to (fromCategory, value).
func (s *Solution) Link(fromCategory, value, toCategory string) (string, error) {
	fromIdentities, ok := s.identity[fromCategory]
	if !ok {
		return "", NewError(ErrUnknownCategoryValue, "unknown category %q", fromCategory)
	}
	id, ok := fromIdentities[value]
	if !ok {
		return "", NewContextError(ErrUnknownCategoryValue, fromCategory, value, "unknown value %q in category %q", value, fromCategory)
	}
	toValues, ok := s.byIdentity[toCategory]
	if !ok {
		return "", NewError(ErrUnknownCategoryValue, "unknown category %q", toCategory)
	}
	return toValues[id], nil
}

// IsLinked reports whether (fromCategory, value) and (toCategory, other)
// share an identity row under this solution.
func (s *Solution) IsLinked(fromCategory, value, toCategory, other string) bool {
	linked, err := s.Link(fromCategory, value, toCategory)
	if err != nil {
		return false
	}
	return linked == other
}

// Identity returns the shared row identity for (category, value), used by
// the solver and clue generator to compare values across categories
// without repeatedly walking the map chain.
func (s *Solution) Identity(category, value string) (int, bool) {
	m, ok := s.identity[category]
	if !ok {
		return 0, false
	}
	id, ok := m[value]
	return id, ok
}

// SampleSolution builds a random Solution over categories using rng to
// permute each category's values relative to a shared [0, N) identity
// space, the bijection/transitivity construction spec.md §3 describes as
// "N identities partition the product space into N disjoint complete
// rows". categories must already be validated (ValidateCategories).
func SampleSolution(categories []Category, source *rng.Source) *Solution {
	n := categories[0].Arity()

	s := &Solution{
		categories: categories,
		identity:   make(map[string]map[string]int, len(categories)),
		byIdentity: make(map[string][]string, len(categories)),
	}

	for _, cat := range categories {
		labels := make([]string, n)
		for i, v := range cat.Values {
			labels[i] = v.Label
		}
		source.ShuffleStrings(labels)

		idMap := make(map[string]int, n)
		for identity, label := range labels {
			idMap[label] = identity
		}
		s.identity[cat.ID] = idMap
		s.byIdentity[cat.ID] = labels
	}

	return s
}
