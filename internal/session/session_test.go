package session

import (
	"testing"

	"github.com/joshhills/logic-puzzle-generator/internal/clue"
	"github.com/joshhills/logic-puzzle-generator/internal/core"
	"github.com/joshhills/logic-puzzle-generator/internal/scorer"
)

func sampleCategories() []core.Category {
	return []core.Category{
		{ID: "person", Type: core.Nominal, Values: []core.Value{{Label: "alice"}, {Label: "bob"}, {Label: "carol"}}},
		{ID: "house", Type: core.Ordinal, Values: []core.Value{{Label: "h1", Num: 1}, {Label: "h2", Num: 2}, {Label: "h3", Num: 3}}},
		{ID: "pet", Type: core.Nominal, Values: []core.Value{{Label: "cat"}, {Label: "dog"}, {Label: "fish"}}},
	}
}

func TestStart_PreEnumeratesPoolAndBlankGrid(t *testing.T) {
	sess, err := Start(sampleCategories(), nil, nil, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.CurrentGrid().IsFullySolved() {
		t.Error("a fresh session's grid should not start solved")
	}
	if len(sess.Chain()) != 0 {
		t.Error("a fresh session should have an empty chain")
	}
}

func TestStart_RejectsInvalidCategories(t *testing.T) {
	_, err := Start([]core.Category{sampleCategories()[0]}, nil, nil, 1)
	if err == nil {
		t.Fatal("expected an error starting a session with fewer than two categories")
	}
}

func TestGetNextClue_AppliesAndAdvances(t *testing.T) {
	sess, err := Start(sampleCategories(), nil, nil, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, solved, err := sess.GetNextClue(Constraints{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c == nil {
		t.Fatal("expected a clue to be returned")
	}
	if len(sess.Chain()) != 1 {
		t.Errorf("expected the chain to grow to length 1, got %d", len(sess.Chain()))
	}
	_ = solved
}

func TestGetNextClue_NoMatchingClueError(t *testing.T) {
	sess, err := Start(sampleCategories(), nil, nil, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	constraints := Constraints{AllowedTypes: clue.AllowedTypes{clue.Arithmetic: true}, MinDeductions: 10000}
	if _, _, err := sess.GetNextClue(constraints); err == nil {
		t.Error("expected an error when no candidate satisfies impossible constraints")
	}
}

func TestUseClue_RejectsDuplicate(t *testing.T) {
	sess, err := Start(sampleCategories(), nil, nil, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	house, err := sess.GetSolution().Link("person", "alice", "house")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := clue.NewBinary("person", "alice", "house", house, clue.IS)
	if _, err := sess.UseClue(c); err != nil {
		t.Fatalf("unexpected error using a true, novel clue: %v", err)
	}
	if _, err := sess.UseClue(c); err == nil {
		t.Error("expected an error re-using an already-chained clue")
	}
}

func TestUseClue_RejectsFalseClue(t *testing.T) {
	sess, err := Start(sampleCategories(), nil, nil, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	house, err := sess.GetSolution().Link("person", "alice", "house")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wrongHouse := "h1"
	if wrongHouse == house {
		wrongHouse = "h2"
	}
	c := clue.NewBinary("person", "alice", "house", wrongHouse, clue.IS)
	if _, err := sess.UseClue(c); err == nil {
		t.Error("expected an error using a clue that is false under the solution")
	}
}

func TestRollbackLastClue(t *testing.T) {
	sess, err := Start(sampleCategories(), nil, nil, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := sess.GetNextClue(Constraints{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sess.Chain()) != 1 {
		t.Fatalf("expected chain length 1 before rollback")
	}
	if ok := sess.RollbackLastClue(); !ok {
		t.Fatal("expected rollback to succeed with a non-empty chain")
	}
	if len(sess.Chain()) != 0 {
		t.Errorf("expected chain length 0 after rollback, got %d", len(sess.Chain()))
	}
	if sess.RollbackLastClue() {
		t.Error("expected rollback on an empty chain to report false")
	}
}

func TestMoveClue_NoOpWhenFromEqualsTo(t *testing.T) {
	sess, err := Start(sampleCategories(), nil, nil, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := sess.GetNextClue(Constraints{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	changed, err := sess.MoveClue(0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed {
		t.Error("moving a clue to its own position should report no change")
	}
}

func TestMoveClue_OutOfRange(t *testing.T) {
	sess, err := Start(sampleCategories(), nil, nil, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := sess.MoveClue(0, 1); err == nil {
		t.Error("expected an out-of-range error on an empty chain")
	}
}

func TestRemoveClueAt_ReplaysRemainder(t *testing.T) {
	sess, err := Start(sampleCategories(), nil, nil, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, _, err := sess.GetNextClue(Constraints{}); err != nil {
			t.Fatalf("unexpected error building chain step %d: %v", i, err)
		}
	}
	before := len(sess.Chain())
	if _, err := sess.RemoveClueAt(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sess.Chain()) != before-1 {
		t.Errorf("expected chain length %d after removal, got %d", before-1, len(sess.Chain()))
	}
	if len(sess.CachedGrids()) != len(sess.Chain())+1 {
		t.Errorf("expected one cached grid per chain prefix plus the blank grid, got %d grids for %d clues", len(sess.CachedGrids()), len(sess.Chain()))
	}
}

func TestClueFamilyCounts(t *testing.T) {
	sess, err := Start(sampleCategories(), nil, nil, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	house, err := sess.GetSolution().Link("person", "alice", "house")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := clue.NewBinary("person", "alice", "house", house, clue.IS)
	if _, err := sess.UseClue(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	counts := sess.ClueFamilyCounts()
	if counts["binary"] != 1 {
		t.Errorf("expected one binary clue counted, got %v", counts)
	}
}

func TestIsSolved_WithTargetFact(t *testing.T) {
	target := &scorer.TargetFact{Cat1: "person", Val1: "alice", Cat2: "house"}
	sess, err := Start(sampleCategories(), nil, target, 11)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.IsSolved() {
		t.Fatal("a fresh session targeting a fact should not start solved")
	}
	house, err := sess.GetSolution().Link("person", "alice", "house")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := clue.NewBinary("person", "alice", "house", house, clue.IS)
	if _, err := sess.UseClue(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sess.IsSolved() {
		t.Error("expected the session to report solved once the target fact is determined")
	}
	idx, ok := sess.GetTargetSolvedStepIndex()
	if !ok || idx != 1 {
		t.Errorf("expected target solved at step index 1, got %d (ok=%v)", idx, ok)
	}
}

// TestGetScoredMatchingClues_DirectAnswerRankedLast checks that every
// direct-answer clue in the scored list sorts after every
// non-direct-answer candidate.
func TestGetScoredMatchingClues_DirectAnswerRankedLast(t *testing.T) {
	target := &scorer.TargetFact{Cat1: "person", Val1: "alice", Cat2: "house"}
	sess, err := Start(sampleCategories(), nil, target, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	matches, err := sess.GetScoredMatchingClues(Constraints{}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	firstDirect := -1
	lastNonDirect := -1
	for i, m := range matches {
		if m.IsDirectAnswer && firstDirect < 0 {
			firstDirect = i
		}
		if !m.IsDirectAnswer {
			lastNonDirect = i
		}
	}
	if firstDirect < 0 {
		t.Skip("no direct-answer candidate enumerated for this seed")
	}
	if firstDirect < lastNonDirect {
		t.Errorf("expected every non-direct-answer clue to rank before every direct-answer clue, but a direct-answer clue appeared at index %d before a non-direct clue at index %d", firstDirect, lastNonDirect)
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].IsDirectAnswer != matches[i-1].IsDirectAnswer && !matches[i].IsDirectAnswer {
			t.Errorf("expected direct-answer clues to form a single trailing run, found non-direct clue at index %d after a direct-answer clue", i)
		}
	}
}
