package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/joshhills/logic-puzzle-generator/internal/clue"
	"github.com/joshhills/logic-puzzle-generator/internal/core"
	"github.com/joshhills/logic-puzzle-generator/internal/generator"
)

// outputPuzzle is the on-disk shape for one generated puzzle: the solution
// (one label per category per identity row) and its ordered clue chain.
type outputPuzzle struct {
	Categories []core.Category     `json:"categories"`
	Solution   map[string][]string `json:"solution"`
	Clues      []clue.Clue         `json:"clues"`
	Difficulty core.Difficulty     `json:"difficulty"`
}

type outputFile struct {
	Version int            `json:"version"`
	Count   int            `json:"count"`
	Puzzles []outputPuzzle `json:"puzzles"`
}

func main() {
	categoriesPath := flag.String("categories", "", "path to a JSON file holding the category layout ([]core.Category)")
	count := flag.Int("n", 1, "number of puzzles to generate")
	output := flag.String("o", "puzzles.json", "output file path")
	startSeed := flag.Int64("seed", 1, "starting seed value")
	timeout := flag.Duration("timeout", 10*time.Second, "per-puzzle generation timeout")
	allowedFlag := flag.String("allowed", "", "comma-separated list of allowed clue types (empty: all)")
	flag.Parse()

	if *categoriesPath == "" {
		fmt.Fprintln(os.Stderr, "error: -categories is required")
		os.Exit(1)
	}

	categories, err := loadCategories(*categoriesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading categories: %v\n", err)
		os.Exit(1)
	}

	allowed := parseAllowed(*allowedFlag)
	logger := slog.Default()

	fmt.Printf("Generating %d puzzle(s) sequentially starting at seed %d...\n", *count, *startSeed)
	start := time.Now()

	puzzles := make([]outputPuzzle, 0, *count)
	for i := 0; i < *count; i++ {
		seed := *startSeed + int64(i)

		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		puzzle, err := generator.Generate(ctx, categories, generator.Options{
			AllowedTypes: allowed,
			Seed:         seed,
			Timeout:      *timeout,
			Logger:       logger,
		})
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "puzzle %d/%d (seed %d) failed: %v\n", i+1, *count, seed, err)
			continue
		}
		if puzzle.Incomplete {
			fmt.Fprintf(os.Stderr, "puzzle %d/%d (seed %d) did not finish within the timeout, discarding partial result\n", i+1, *count, seed)
			continue
		}

		solution := make(map[string][]string, len(categories))
		for _, cat := range categories {
			labels := make([]string, len(cat.Values))
			for _, v := range cat.Values {
				if id, ok := puzzle.Solution.Identity(cat.ID, v.Label); ok {
					labels[id] = v.Label
				}
			}
			solution[cat.ID] = labels
		}

		puzzles = append(puzzles, outputPuzzle{
			Categories: categories,
			Solution:   solution,
			Clues:      puzzle.Clues,
			Difficulty: puzzle.Difficulty,
		})

		fmt.Printf("  %d/%d generated (%s elapsed, %d clues, difficulty=%s)\n",
			i+1, *count, humanize.RelTime(start, time.Now(), "", ""), len(puzzle.Clues), puzzle.Difficulty)
	}

	file := outputFile{Version: 1, Count: len(puzzles), Puzzles: puzzles}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error marshaling JSON: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*output, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing file: %v\n", err)
		os.Exit(1)
	}

	info, _ := os.Stat(*output)
	fmt.Printf("Done! Wrote %d puzzle(s) to %s (%s) in %s\n",
		len(puzzles), *output, humanize.Bytes(uint64(info.Size())), time.Since(start))
}

func loadCategories(path string) ([]core.Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var categories []core.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, err
	}
	return core.ValidateCategories(categories)
}

func parseAllowed(flag string) clue.AllowedTypes {
	if flag == "" {
		return nil
	}
	allowed := make(clue.AllowedTypes)
	for _, part := range strings.Split(flag, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			allowed[clue.Type(part)] = true
		}
	}
	return allowed
}
