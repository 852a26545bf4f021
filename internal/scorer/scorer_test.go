package scorer

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

func TestScore_NeverMutatesOriginalGrid(t *testing.T) {
	cats := sampleCategories(t)
	g := grid.New(cats)
	c := clue.NewBinary("person", "alice", "house", "h1", clue.IS)

	result, err := Score(c, g, cats, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Updates == 0 {
		t.Fatal("expected the trial to report updates")
	}

	possible, err := g.IsPossible("person", "bob", "house", "h1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !possible {
		t.Error("Score must not mutate the original grid")
	}
}

func TestScore_ZeroUpdateTautologyScoresZero(t *testing.T) {
	cats := sampleCategories(t)
	g := grid.New(cats)
	c := clue.NewBinary("person", "alice", "house", "h1", clue.IS)
	if _, err := Score(c, g, cats, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Score only trials a clone, so scoring against a copy of g works the same.
	solved := g.Clone()
	if _, err := Score(c, solved, cats, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Re-score the exact same clue, this time trialling it against a grid
	// where it has already been fully absorbed — no further updates possible.
	trial := g.Clone()
	_, err := trial.SetPossibility("person", "bob", "house", "h1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = trial.SetPossibility("person", "carol", "house", "h1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, h := range []string{"h2", "h3"} {
		if _, err := trial.SetPossibility("person", "alice", "house", h, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	result, err := Score(c, trial, cats, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Updates != 0 || result.HeuristicScore != 0 {
		t.Errorf("expected a fully-absorbed tautology to score 0 updates/heuristic, got updates=%d score=%d", result.Updates, result.HeuristicScore)
	}
}

func TestScore_DetectsDirectAnswer(t *testing.T) {
	cats := sampleCategories(t)
	g := grid.New(cats)
	target := &TargetFact{Cat1: "person", Val1: "alice", Cat2: "house"}
	c := clue.NewBinary("person", "alice", "house", "h1", clue.IS)

	result, err := Score(c, g, cats, target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsDirectAnswer {
		t.Error("expected Score to flag a clue that directly determines the target fact")
	}
}

func TestScore_AlreadySolvedTargetIsNotDirectAnswer(t *testing.T) {
	cats := sampleCategories(t)
	g := grid.New(cats)
	target := &TargetFact{Cat1: "person", Val1: "alice", Cat2: "house"}
	c1 := clue.NewBinary("person", "alice", "house", "h1", clue.IS)
	if _, err := Score(c1, g, cats, target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Actually apply it so the target is already solved on g.
	_, err := g.SetPossibility("person", "bob", "house", "h1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = g.SetPossibility("person", "carol", "house", "h1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, h := range []string{"h2", "h3"} {
		if _, err := g.SetPossibility("person", "alice", "house", h, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	c2 := clue.NewBinary("house", "h1", "pet", "cat", clue.IS)
	result, err := Score(c2, g, cats, target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsDirectAnswer {
		t.Error("a clue should not be flagged IsDirectAnswer when the target was already solved")
	}
}

func TestHeuristicScore_RewardsTransitivityAndUniqueness(t *testing.T) {
	base := Result{Updates: 2, Reasons: []string{"elimination", "elimination"}}
	withBonus := Result{Updates: 2, Reasons: []string{"transitivity", "uniqueness"}}
	if heuristicScore(withBonus) <= heuristicScore(base) {
		t.Error("expected transitivity/uniqueness reasons to score higher than plain elimination")
	}
}
