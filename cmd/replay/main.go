// cmd/replay exercises internal/solver directly: it reads a puzzle file
// produced by cmd/generate and replays its clue chain from a blank grid,
// printing each step's effect. Plays the role the teacher's manual
// cmd/test_puzzle tool played for exercising the solver end-to-end outside
// the HTTP surface.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joshhills/logic-puzzle-generator/internal/clue"
	"github.com/joshhills/logic-puzzle-generator/internal/core"
	"github.com/joshhills/logic-puzzle-generator/internal/grid"
	"github.com/joshhills/logic-puzzle-generator/internal/solver"
)

type puzzleFile struct {
	Puzzles []struct {
		Categories []core.Category `json:"categories"`
		Clues      []clue.Clue     `json:"clues"`
	} `json:"puzzles"`
}

func main() {
	path := flag.String("puzzle", "", "path to a puzzle file produced by cmd/generate")
	index := flag.Int("index", 0, "index of the puzzle within the file to replay")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "error: -puzzle is required")
		os.Exit(1)
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", *path, err)
		os.Exit(1)
	}

	var file puzzleFile
	if err := json.Unmarshal(data, &file); err != nil {
		fmt.Fprintf(os.Stderr, "error parsing %s: %v\n", *path, err)
		os.Exit(1)
	}
	if *index < 0 || *index >= len(file.Puzzles) {
		fmt.Fprintf(os.Stderr, "error: index %d out of range (file has %d puzzles)\n", *index, len(file.Puzzles))
		os.Exit(1)
	}

	puzzle := file.Puzzles[*index]
	categories, err := core.ValidateCategories(puzzle.Categories)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid categories: %v\n", err)
		os.Exit(1)
	}

	g := grid.New(categories)
	fmt.Printf("Replaying %d clues over %d categories (arity %d)\n", len(puzzle.Clues), len(categories), g.Arity())

	for i, c := range puzzle.Clues {
		step, err := solver.ApplyClue(g, c, categories)
		if err != nil {
			fmt.Fprintf(os.Stderr, "step %d: error applying clue: %v\n", i+1, err)
			os.Exit(1)
		}
		if step.Contradiction != nil {
			fmt.Printf("step %d: CONTRADICTION at (%s=%s) vs %s\n", i+1, step.Contradiction.Category, step.Contradiction.Value, step.Contradiction.OtherCategory)
			os.Exit(1)
		}
		fmt.Printf("step %d [%s]: %d updates (%v), %.1f%% complete\n",
			i+1, c.Type, step.Updates, step.Reasons, step.PercentComplete)
	}

	if g.IsFullySolved() {
		fmt.Println("Puzzle fully solved.")
	} else {
		fmt.Printf("Puzzle not fully solved (%.1f%% complete).\n", g.PercentComplete())
	}
}
