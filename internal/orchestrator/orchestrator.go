// Package orchestrator coordinates the catalog merge workflow for icontitle.
package orchestrator

import (
	"fmt"
	"time"

	"icontitle/internal/catalog"
	"icontitle/internal/config"
	"icontitle/internal/matcher"
)

// Summary represents the overall results of an icontitle run.
type Summary struct {
	ReferenceEntries int
	TableSize        int
	Categories       int
	SkippedBlocks    int
	Assets           int
	Matched          int
	Unmatched        int
	SkippedAssets    int
	Assignments      []catalog.Assignment
	ByCategory       []catalog.CategoryResult
	OutputPath       string
	Duration         time.Duration
}

// Run executes the merge workflow as one sequential pass.
// It loads the reference catalog, builds the lookup table, loads and merges
// the asset catalog, and writes the result. Nothing is written unless every
// earlier step succeeds.
func Run(cfg *config.Configuration) (*Summary, error) {
	start := time.Now()

	cat, summary, err := merge(cfg)
	if err != nil {
		return nil, err
	}

	if err := catalog.WriteFile(cfg.OutputFile, cat.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to write merged catalog: %w", err)
	}

	summary.Duration = time.Since(start)
	return summary, nil
}

// merge performs every step of a run except writing the output.
func merge(cfg *config.Configuration) (*catalog.Catalog, *Summary, error) {
	entries, err := catalog.LoadReference(cfg.ReferenceFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load reference catalog: %w", err)
	}
	table := matcher.Build(entries)

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load asset catalog: %w", err)
	}

	result := cat.Merge(table, cfg.AssetsKey)

	return cat, &Summary{
		ReferenceEntries: len(entries),
		TableSize:        table.Len(),
		Categories:       result.Categories,
		SkippedBlocks:    result.SkippedBlocks,
		Assets:           result.Assets,
		Matched:          result.Matched,
		Unmatched:        result.Unmatched,
		SkippedAssets:    result.SkippedAssets,
		Assignments:      result.Assignments,
		ByCategory:       result.PerCategory,
		OutputPath:       cfg.OutputFile,
	}, nil
}

// DoneMessage returns the completion notice naming the output file.
func (s *Summary) DoneMessage() string {
	return fmt.Sprintf("DONE -> %s", s.OutputPath)
}

// PrintSummary returns a formatted summary string.
func (s *Summary) PrintSummary() string {
	return fmt.Sprintf("Annotated %d of %d assets in %d categories: %d unmatched, %d skipped (%d reference keys)",
		s.Matched, s.Assets, s.Categories, s.Unmatched, s.SkippedAssets, s.TableSize)
}

// CategoryLines returns one line per category block with its asset counts.
func (s *Summary) CategoryLines() []string {
	lines := make([]string, 0, len(s.ByCategory))
	for _, c := range s.ByCategory {
		lines = append(lines, fmt.Sprintf("  %s: %d of %d annotated, %d unmatched, %d skipped",
			c.Name, c.Matched, c.Assets, c.Unmatched, c.Skipped))
	}
	return lines
}
