package clue

import (
	"testing"

	"github.com/joshhills/logic-puzzle-generator/internal/core"
	"github.com/joshhills/logic-puzzle-generator/internal/rng"
)

func sampleCategories(t *testing.T) []core.Category {
	t.Helper()
	cats, err := core.ValidateCategories([]core.Category{
		{ID: "person", Type: core.Nominal, Values: []core.Value{{Label: "alice"}, {Label: "bob"}, {Label: "carol"}}},
		{ID: "house", Type: core.Ordinal, Values: []core.Value{{Label: "h1", Num: 1}, {Label: "h2", Num: 2}, {Label: "h3", Num: 3}}},
		{ID: "pet", Type: core.Nominal, Values: []core.Value{{Label: "cat"}, {Label: "dog"}, {Label: "fish"}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return cats
}

func TestAllowedTypes_EmptyMeansAll(t *testing.T) {
	var at AllowedTypes
	if !at.Allows(Binary) || !at.Allows(Arithmetic) {
		t.Error("an empty AllowedTypes set should allow every type")
	}
	at = AllowedTypes{Binary: true}
	if !at.Allows(Binary) {
		t.Error("expected Binary to be allowed")
	}
	if at.Allows(Unary) {
		t.Error("expected Unary to be disallowed")
	}
}

func TestRankOps(t *testing.T) {
	if !OrdinalHolds(LT, 1, 2) || OrdinalHolds(LT, 2, 1) {
		t.Error("LT should hold only when r1<r2")
	}
	if !OrdinalHolds(NOT_GT, 1, 1) {
		t.Error("NOT_GT should hold on equal ranks")
	}
	if !SuperlativeHolds(MIN, 0, 5) || SuperlativeHolds(MIN, 1, 5) {
		t.Error("MIN should hold only at rank 0")
	}
	if !SuperlativeHolds(MAX, 4, 5) || SuperlativeHolds(MAX, 3, 5) {
		t.Error("MAX should hold only at the last rank")
	}
	if !UnaryHolds(IS_EVEN, 4) || UnaryHolds(IS_EVEN, 3) {
		t.Error("IS_EVEN parity check is wrong")
	}
	if !CrossOrdinalHolds(MATCH, 1, 1, 0, 2, 5) {
		t.Error("expected MATCH when offset ranks coincide (2==2)")
	}
	if CrossOrdinalHolds(MATCH, 0, 0, 0, 1, 5) {
		t.Error("expected no MATCH when offset ranks differ")
	}
	if !AdjacencyHolds(2, 3) || !AdjacencyHolds(3, 2) || AdjacencyHolds(2, 4) {
		t.Error("AdjacencyHolds should accept a rank difference of exactly 1 in either order")
	}
	if !BetweenHolds(2, 1, 3) || !BetweenHolds(2, 3, 1) || BetweenHolds(1, 1, 3) {
		t.Error("BetweenHolds should be strict and orientation-agnostic")
	}
	if !ArithmeticHolds(5, 3, 4, 2) || ArithmeticHolds(5, 3, 4, 1) {
		t.Error("ArithmeticHolds should check r1-r2==r3-r4")
	}
}

func TestIsTrueUnder_Binary(t *testing.T) {
	cats := sampleCategories(t)
	sol := core.SampleSolution(cats, rng.NewFromSeed(1))

	house, err := sol.Link("person", "alice", "house")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	isClue := NewBinary("person", "alice", "house", house, IS)
	if !IsTrueUnder(isClue, cats, sol) {
		t.Error("expected alice's actual house to make an IS clue true")
	}

	other := cats[1].Values[0].Label
	if other == house {
		other = cats[1].Values[1].Label
	}
	isNotClue := NewBinary("person", "alice", "house", other, IS_NOT)
	if !IsTrueUnder(isNotClue, cats, sol) {
		t.Error("expected a different house to make an IS_NOT clue true")
	}
}

func TestIsTrueUnder_Disjunction(t *testing.T) {
	cats := sampleCategories(t)
	sol := core.SampleSolution(cats, rng.NewFromSeed(2))
	house, _ := sol.Link("person", "alice", "house")
	other := cats[1].Values[0].Label
	if other == house {
		other = cats[1].Values[1].Label
	}

	trueHalf := NewBinary("person", "alice", "house", house, IS)
	falseHalf := NewBinary("person", "alice", "house", other, IS)
	disj := NewDisjunction(falseHalf, trueHalf)
	if !IsTrueUnder(disj, cats, sol) {
		t.Error("a disjunction with one true branch should be true")
	}

	bothFalse := NewDisjunction(falseHalf, falseHalf)
	if IsTrueUnder(bothFalse, cats, sol) {
		t.Error("a disjunction with no true branch should be false")
	}
}

func TestDedupKey_Stable(t *testing.T) {
	a := NewBinary("person", "alice", "house", "h1", IS)
	b := NewBinary("person", "alice", "house", "h1", IS)
	if dedupKey(a) != dedupKey(b) {
		t.Error("identical clues should produce identical dedup keys")
	}
	c := NewBinary("person", "alice", "house", "h2", IS)
	if dedupKey(a) == dedupKey(c) {
		t.Error("clues with different operands should produce different dedup keys")
	}
}

func TestRegistry_Feasible(t *testing.T) {
	r := NewRegistry()
	cats := sampleCategories(t)

	if !r.Feasible(Binary, cats) {
		t.Error("Binary should always be feasible")
	}
	if !r.Feasible(OrdinalType, cats) {
		t.Error("Ordinal should be feasible when an ordinal category exists")
	}
	if !r.Feasible(Unary, cats) {
		t.Error("Unary should be feasible with a mixed-parity ordinal category (house: 1,2,3)")
	}

	noOrdinal := []core.Category{
		{ID: "person", Type: core.Nominal, Values: []core.Value{{Label: "a"}, {Label: "b"}}},
		{ID: "pet", Type: core.Nominal, Values: []core.Value{{Label: "x"}, {Label: "y"}}},
	}
	validated, err := core.ValidateCategories(noOrdinal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Feasible(OrdinalType, validated) {
		t.Error("Ordinal should not be feasible without an ordinal category")
	}

	if r.Feasible(CrossOrdinal, cats) {
		t.Error("CrossOrdinal should not be feasible with only one ordinal category")
	}

	twoOrdinals := []core.Category{
		{ID: "person", Type: core.Nominal, Values: []core.Value{{Label: "a"}, {Label: "b"}}},
		{ID: "house", Type: core.Ordinal, Values: []core.Value{{Label: "h1", Num: 1}, {Label: "h2", Num: 2}}},
		{ID: "year", Type: core.Ordinal, Values: []core.Value{{Label: "y1", Num: 1}, {Label: "y2", Num: 2}}},
	}
	validatedTwo, err := core.ValidateCategories(twoOrdinals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Feasible(CrossOrdinal, validatedTwo) {
		t.Error("CrossOrdinal should be feasible with two ordinal categories")
	}
}

func TestRegistry_SetEnabled(t *testing.T) {
	r := NewRegistry()
	if ok := r.SetEnabled(Binary, false); !ok {
		t.Fatal("expected SetEnabled to succeed on a known type")
	}
	for _, f := range r.All() {
		if f.Type == Binary && f.Enabled {
			t.Error("expected Binary to be disabled after SetEnabled(false)")
		}
	}
	if r.SetEnabled(Type("nonexistent"), true) {
		t.Error("expected SetEnabled to report false for an unknown type")
	}
}

func TestEnumerateBinary_AllTrue(t *testing.T) {
	cats := sampleCategories(t)
	sol := core.SampleSolution(cats, rng.NewFromSeed(5))
	source := rng.NewFromSeed(6)
	clues := EnumerateBinary(cats, sol, source, 10)
	if len(clues) == 0 {
		t.Fatal("expected at least one enumerated binary clue")
	}
	for _, c := range clues {
		if !IsTrueUnder(c, cats, sol) {
			t.Errorf("enumerated clue should always be true under its own solution: %+v", c)
		}
	}
}

func TestEnumerateOrdinal_RequiresOrdinalCategory(t *testing.T) {
	noOrdinal := []core.Category{
		{ID: "person", Type: core.Nominal, Values: []core.Value{{Label: "a"}, {Label: "b"}}},
		{ID: "pet", Type: core.Nominal, Values: []core.Value{{Label: "x"}, {Label: "y"}}},
	}
	validated, err := core.ValidateCategories(noOrdinal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sol := core.SampleSolution(validated, rng.NewFromSeed(3))
	clues := EnumerateOrdinal(validated, sol, rng.NewFromSeed(4), 5)
	if clues != nil {
		t.Error("expected no ordinal clues without an ordinal category")
	}
}

func TestEnumerateUnary_RequiresMixedParity(t *testing.T) {
	cats := sampleCategories(t)
	sol := core.SampleSolution(cats, rng.NewFromSeed(11))
	clues := EnumerateUnary(cats, sol, rng.NewFromSeed(12), 5)
	for _, c := range clues {
		if !IsTrueUnder(c, cats, sol) {
			t.Errorf("enumerated unary clue should be true: %+v", c)
		}
	}

	allOdd, err := core.ValidateCategories([]core.Category{
		{ID: "person", Type: core.Nominal, Values: []core.Value{{Label: "a"}, {Label: "b"}}},
		{ID: "house", Type: core.Ordinal, Values: []core.Value{{Label: "h1", Num: 1}, {Label: "h3", Num: 3}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	oddSol := core.SampleSolution(allOdd, rng.NewFromSeed(13))
	if got := EnumerateUnary(allOdd, oddSol, rng.NewFromSeed(14), 5); got != nil {
		t.Errorf("expected no unary clues when every ordinal value is odd, got %d", len(got))
	}
}
