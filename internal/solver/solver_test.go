package solver

import (
	"testing"

	"github.com/joshhills/logic-puzzle-generator/internal/clue"
	"github.com/joshhills/logic-puzzle-generator/internal/core"
	"github.com/joshhills/logic-puzzle-generator/internal/grid"
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

func TestApplyClue_BinaryIS_ConfirmsBothDirections(t *testing.T) {
	cats := sampleCategories(t)
	g := grid.New(cats)
	c := clue.NewBinary("person", "alice", "house", "h1", clue.IS)
	step, err := ApplyClue(g, c, cats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if step.Contradiction != nil {
		t.Fatalf("did not expect a contradiction, got %+v", step.Contradiction)
	}
	val, ok, err := g.Determined("person", "alice", "house")
	if err != nil || !ok || val != "h1" {
		t.Fatalf("expected alice's house to be determined as h1, got %q (ok=%v)", val, ok)
	}
	possible, err := g.IsPossible("person", "bob", "house", "h1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if possible {
		t.Error("expected bob to be ruled out of h1 once alice is confirmed there")
	}
}

func TestApplyClue_BinaryISNot(t *testing.T) {
	cats := sampleCategories(t)
	g := grid.New(cats)
	c := clue.NewBinary("person", "alice", "pet", "cat", clue.IS_NOT)
	if _, err := ApplyClue(g, c, cats); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	possible, err := g.IsPossible("person", "alice", "pet", "cat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if possible {
		t.Error("expected alice-cat to be eliminated")
	}
}

func TestApplyClue_Contradiction(t *testing.T) {
	cats := sampleCategories(t)
	g := grid.New(cats)
	c1 := clue.NewBinary("person", "alice", "house", "h1", clue.IS)
	if _, err := ApplyClue(g, c1, cats); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c2 := clue.NewBinary("person", "alice", "house", "h2", clue.IS)
	step, err := ApplyClue(g, c2, cats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if step.Contradiction == nil {
		t.Error("expected a contradiction when alice is forced into two houses")
	}
}

func TestApplyClue_Transitivity(t *testing.T) {
	cats := sampleCategories(t)
	g := grid.New(cats)
	steps := []clue.Clue{
		clue.NewBinary("person", "alice", "house", "h1", clue.IS),
		clue.NewBinary("house", "h1", "pet", "cat", clue.IS),
	}
	for _, c := range steps {
		if _, err := ApplyClue(g, c, cats); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	val, ok, err := g.Determined("person", "alice", "pet")
	if err != nil || !ok || val != "cat" {
		t.Fatalf("expected transitivity to determine alice's pet as cat, got %q (ok=%v)", val, ok)
	}
}

func TestApplyClue_Ordinal(t *testing.T) {
	cats := sampleCategories(t)
	g := grid.New(cats)
	c := clue.NewOrdinal("person", "alice", "person", "bob", "house", clue.LT)
	if _, err := ApplyClue(g, c, cats); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Alice can no longer be in h3 (no later house for bob), bob can no longer be in h1.
	possible, err := g.IsPossible("person", "alice", "house", "h3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if possible {
		t.Error("expected alice to be ruled out of h3 (the last house) under LT")
	}
	possible, err = g.IsPossible("person", "bob", "house", "h1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if possible {
		t.Error("expected bob to be ruled out of h1 (the first house) under LT")
	}
}

func TestApplyClue_Superlative(t *testing.T) {
	cats := sampleCategories(t)
	g := grid.New(cats)
	c := clue.NewSuperlative("person", "alice", "house", clue.MIN)
	if _, err := ApplyClue(g, c, cats); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	val, ok, err := g.Determined("person", "alice", "house")
	if err != nil || !ok || val != "h1" {
		t.Fatalf("expected alice to be forced into h1 (rank 0), got %q (ok=%v)", val, ok)
	}
}

func TestApplyClue_Unary(t *testing.T) {
	cats := sampleCategories(t)
	g := grid.New(cats)
	c := clue.NewUnary("person", "alice", "house", clue.IS_EVEN)
	if _, err := ApplyClue(g, c, cats); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	val, ok, err := g.Determined("person", "alice", "house")
	if err != nil || !ok || val != "h2" {
		t.Fatalf("expected alice to be forced into h2 (the only even-numbered house), got %q (ok=%v)", val, ok)
	}
}

func TestApplyClue_Adjacency(t *testing.T) {
	cats := sampleCategories(t)
	g := grid.New(cats)
	c1 := clue.NewBinary("person", "alice", "house", "h1", clue.IS)
	if _, err := ApplyClue(g, c1, cats); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c2 := clue.NewAdjacency("person", "alice", "person", "bob", "house")
	if _, err := ApplyClue(g, c2, cats); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	val, ok, err := g.Determined("person", "bob", "house")
	if err != nil || !ok || val != "h2" {
		t.Fatalf("expected bob to be forced into h2 (adjacent to alice's h1), got %q (ok=%v)", val, ok)
	}
}

func TestApplyClue_Between(t *testing.T) {
	cats := sampleCategories(t)
	g := grid.New(cats)
	c1 := clue.NewBinary("person", "alice", "house", "h1", clue.IS)
	c2 := clue.NewBinary("person", "carol", "house", "h3", clue.IS)
	if _, err := ApplyClue(g, c1, cats); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ApplyClue(g, c2, cats); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c3 := clue.NewBetween("person", "bob", "person", "alice", "person", "carol", "house")
	if _, err := ApplyClue(g, c3, cats); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	val, ok, err := g.Determined("person", "bob", "house")
	if err != nil || !ok || val != "h2" {
		t.Fatalf("expected bob to be forced into h2 (strictly between h1 and h3), got %q (ok=%v)", val, ok)
	}
}

func TestApplyClue_Disjunction_UnionsBranches(t *testing.T) {
	cats := sampleCategories(t)
	g := grid.New(cats)
	a := clue.NewBinary("person", "alice", "house", "h1", clue.IS)
	b := clue.NewBinary("person", "alice", "house", "h2", clue.IS)
	c := clue.NewDisjunction(a, b)
	if _, err := ApplyClue(g, c, cats); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	possible, err := g.IsPossible("person", "alice", "house", "h3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if possible {
		t.Error("expected h3 to be eliminated since neither branch keeps it possible")
	}
	possible, err = g.IsPossible("person", "alice", "house", "h1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !possible {
		t.Error("expected h1 to remain possible (kept alive by branch A)")
	}
}

func TestApplyClue_UnknownCategoryErrors(t *testing.T) {
	cats := sampleCategories(t)
	g := grid.New(cats)
	c := clue.NewBinary("person", "alice", "nonexistent", "x", clue.IS)
	if _, err := ApplyClue(g, c, cats); err == nil {
		t.Error("expected an error applying a clue referencing an unknown category")
	}
}
